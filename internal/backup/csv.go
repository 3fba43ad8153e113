package backup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// CSVHeader is the first row of a transaction export.
var CSVHeader = []string{
	"id", "date", "type", "amount", "account", "category",
	"note", "attachment_uri", "transfer_group", "related_id",
}

// ExportTransactionsCSV writes every transaction, newest first. Fields with
// a comma, quote or newline are quoted and inner quotes doubled.
func ExportTransactionsCSV(ctx context.Context, q *storage.Queries, w io.Writer) error {
	txs, err := q.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	writeCSVRecord(bw, CSVHeader)
	for _, t := range txs {
		writeCSVRecord(bw, csvRecord(t))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// writeCSVRecord relies on bufio's sticky error, reported by Flush.
func writeCSVRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(csvField(f))
	}
	w.WriteByte('\n')
}

// csvField quotes f only when it holds a comma, a quote or a line break.
func csvField(f string) string {
	if !strings.ContainsAny(f, ",\"\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

func csvRecord(t core.Transaction) []string {
	related := ""
	if t.RelatedID != nil {
		related = strconv.FormatInt(*t.RelatedID, 10)
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Date.String(),
		string(t.Type),
		strconv.FormatInt(int64(t.Amount), 10),
		t.AccountName,
		t.CategoryName,
		t.Note,
		t.AttachmentURI,
		t.TransferGroup,
		related,
	}
}
