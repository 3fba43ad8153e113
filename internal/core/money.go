// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by a user
// and formatting stored amounts for display. Amounts are whole units of the
// ledger currency, there are no fractional units.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is used for new accounts when no currency is configured.
const DefaultCurrency = "COP"

// Money is a signed amount in whole currency units.
type Money int64

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Validate reports ErrInvalidAmount unless m is a positive magnitude.
func (m Money) Validate() error {
	if m <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Format renders m with the symbol and grouping of the given ISO currency.
// Unknown currencies fall back to the default one.
//
// Examples:
//
//	Money(1234567).Format("COP") -> "$1.234.567"
//	Money(-20000).Format("COP") -> "-$20.000"
func (m Money) Format(currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(int64(m))
}

// ParseAmount converts user input to a positive amount.
//
// Thousands separators (dot, comma, space, underscore) and a leading currency
// symbol are ignored, so "1.234.567", "1,234,567" and "$ 1 234 567" all give
// 1234567. Signs are rejected: direction is carried by the transaction type.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	m, err := parseDigits(s)
	if err != nil {
		return 0, err
	}
	if m <= 0 {
		return 0, ErrInvalidAmount
	}
	return m, nil
}

// ParseSignedAmount is ParseAmount accepting a leading sign, for inputs whose
// sign carries meaning (goal withdrawals, opening balances). Zero is rejected.
func ParseSignedAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	m, err := parseDigits(s)
	if err != nil {
		return 0, err
	}
	if m == 0 {
		return 0, ErrInvalidAmount
	}
	if neg {
		m = -m
	}
	return m, nil
}

func parseDigits(s string) (Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || r == ' ' || r == '_':
			// grouping
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return Money(v), nil
}
