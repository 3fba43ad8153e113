package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestParseSplits(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []core.SplitEntry
		wantErr error
	}{
		{name: "empty", input: "", want: nil},
		{
			name:  "two splits with grouping",
			input: "3:700, 4:1.300",
			want: []core.SplitEntry{
				{CategoryID: 3, Amount: 700},
				{CategoryID: 4, Amount: 1300},
			},
		},
		{name: "missing colon", input: "3-700", wantErr: core.ErrInvalidSplit},
		{name: "bad category", input: "food:700", wantErr: core.ErrInvalidSplit},
		{name: "negative amount", input: "3:-700", wantErr: core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSplits(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalID(t *testing.T) {
	assert.Nil(t, optionalID(0))
	id := optionalID(7)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)
}

func TestParseMonthFlag(t *testing.T) {
	m, err := parseMonthFlag("2024-02")
	require.NoError(t, err)
	assert.Equal(t, core.NewMonth(2024, 2), m)

	_, err = parseMonthFlag("2024-13")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	m, err = parseMonthFlag("")
	require.NoError(t, err)
	assert.Equal(t, core.Today().Month(), m)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"food", " Trip"}, splitList("food, Trip"))
}
