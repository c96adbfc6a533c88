package ingestion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// NUMERIC(12,2) holds at most ten integer digits.
var maxAmount = decimal.New(1, 10)

// Excel serial day numbers between 1900-01-01 and 9999-12-31.
const (
	minSerial = 1
	maxSerial = 2958465
)

var (
	errBlank      = errors.New("value is blank")
	errNotNumeric = errors.New("not a number")
	errGrouping   = errors.New("misplaced thousands separator")
	errPrecision  = errors.New("more than two decimal places")
	errOutOfRange = errors.New("value out of range")
	errNotDate    = errors.New("not a recognized date")
)

// Spreadsheet number cells carry up to 17 significant digits, so a binary
// rounding artifact like 100.09999999999999 has many fractional digits and
// sits within floatNoise of a cent value.
const floatNoiseDigits = 10

var floatNoise = decimal.New(1, -6)

var integralFloat = regexp.MustCompile(`^[0-9]+\.0+$`)

// parseAmount reads a monetary cell. The rightmost point or comma is the
// decimal separator when it occurs once; the other mark, or a mark repeated
// in the integer part, must group thousands in threes. "1.234,56" and
// "1,234.56" both read as 1234.56. More than two fractional digits are
// rejected, so "1,234" and "12.345" fail instead of being rounded, except for
// binary float noise from spreadsheet number cells within a millionth of a
// cent value.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, errBlank
	}

	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	s = strings.TrimPrefix(s, "$")

	whole, frac, err := splitAmount(s)
	if err != nil {
		return decimal.Zero, err
	}

	num := sign + whole
	if frac != "" {
		num += "." + frac
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, errNotNumeric
	}

	if len(frac) > 2 {
		cents := d.Round(2)
		if len(frac) < floatNoiseDigits || d.Sub(cents).Abs().GreaterThanOrEqual(floatNoise) {
			return decimal.Zero, errPrecision
		}
		d = cents
	}

	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, errOutOfRange
	}
	return d, nil
}

// splitAmount separates the integer digits of s, thousands marks removed,
// from its fractional digits.
func splitAmount(s string) (whole, frac string, err error) {
	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return s, "", nil
	}

	mark := s[last]
	other := byte(',')
	if mark == ',' {
		other = '.'
	}

	if strings.Count(s, string(mark)) > 1 {
		if strings.IndexByte(s, other) >= 0 {
			return "", "", errNotNumeric
		}
		whole, err = ungroup(s, mark)
		return whole, "", err
	}

	whole, err = ungroup(s[:last], other)
	if err != nil {
		return "", "", err
	}
	return whole, s[last+1:], nil
}

// ungroup removes sep from s after checking that it splits the digits into a
// leading group of one to three and following groups of exactly three.
func ungroup(s string, sep byte) (string, error) {
	if strings.IndexByte(s, sep) < 0 {
		return s, nil
	}

	groups := strings.Split(s, string(sep))
	for i, g := range groups {
		if g == "" || len(g) > 3 || (i > 0 && len(g) != 3) {
			return "", errGrouping
		}
	}
	return strings.Join(groups, ""), nil
}

// parseTime reads a date or timestamp cell as either text in one of layouts
// or an Excel serial number.
func parseTime(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBlank
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minSerial || serial >= maxSerial+1 {
			return time.Time{}, errOutOfRange
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("serial %s: %w", s, err)
		}
		return t, nil
	}

	return time.Time{}, errNotDate
}

// parseDate is parseTime truncated to the calendar day.
func parseDate(s string, layouts []string) (time.Time, error) {
	t, err := parseTime(s, layouts)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// normalizeIdentifier trims an identifier and drops a zero fraction that
// numeric spreadsheet cells add to whole numbers ("111.0" becomes "111").
func normalizeIdentifier(s string) string {
	s = strings.TrimSpace(s)
	if integralFloat.MatchString(s) {
		s = s[:strings.IndexByte(s, '.')]
	}
	return s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
