package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericSortKey(t *testing.T) {
	tests := []struct {
		date    string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"3019", 30190000, false},
		{"3019-03", 30190300, false},
		{"3019-03-25", 30190325, false},
		{"3019/3/25", 30190325, false},
		{"+12", 120000, false},
		{"-500", -5000000, false},
		{"-500-02-01", -4999799, false},
		{"922337203685476-12-31", 9223372036854761231, false},
		{"922337203685477", 0, true},
		{"-922337203685477", 0, true},
		{"3019-100", 0, true},
		{"3019--03", 0, true},
		{"3019-03-", 0, true},
		{"third age", 0, true},
		{"1-2-3-4", 0, true},
		{"-", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := Numeric{}.SortKey(tt.date)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumericOrdersChronologically(t *testing.T) {
	dates := []string{
		"-922337203685476", "-500", "-500-01-01", "-500-12-31", "-499",
		"-40", "-1-12-31", "0", "1", "1-01-02", "1-02", "3019-03-25",
		"922337203685476-12-31",
	}
	var prev int64
	for i, d := range dates {
		k, err := Numeric{}.SortKey(d)
		require.NoError(t, err)
		if i > 0 {
			assert.Less(t, prev, k, "%s should sort after %s", d, dates[i-1])
		}
		prev = k
	}
}
