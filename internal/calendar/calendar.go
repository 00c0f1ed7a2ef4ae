// Package calendar turns the free-form dates writers give events into sort
// keys, so events from invented calendars still order chronologically.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDate is returned for dates a parser cannot read.
var ErrInvalidDate = errors.New("invalid date")

// Parser maps a date string to an orderable key.
type Parser interface {
	SortKey(date string) (int64, error)
}

// Numeric reads dates of the form [+|-]Y[-M[-D]], with '-' or '/' between
// parts. The key is sign*year*10000 + month*100 + day; the sign applies to
// the year alone, and month and day must be in 0..99. An empty date has key 0.
type Numeric struct{}

// maxYear is the largest year whose key fits in an int64.
const maxYear = (math.MaxInt64 - 9999) / 10000

var _ Parser = Numeric{}

// SortKey implements Parser.
func (Numeric) SortKey(date string) (int64, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, nil
	}

	sign := int64(1)
	switch date[0] {
	case '-':
		sign = -1
		date = date[1:]
	case '+':
		date = date[1:]
	}

	parts := strings.FieldsFunc(date, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) == 0 || len(parts) > 3 || strings.Count(date, "-")+strings.Count(date, "/") != len(parts)-1 {
		return 0, fmt.Errorf("%w %q: expected year[-month[-day]]", ErrInvalidDate, date)
	}

	var nums [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w %q: %q is not a number", ErrInvalidDate, date, p)
		}
		if i == 0 && n > maxYear {
			return 0, fmt.Errorf("%w %q: year %d is out of range", ErrInvalidDate, date, n)
		}
		if i > 0 && n > 99 {
			return 0, fmt.Errorf("%w %q: %d is out of range", ErrInvalidDate, date, n)
		}
		nums[i] = n
	}
	return sign*nums[0]*10000 + nums[1]*100 + nums[2], nil
}
