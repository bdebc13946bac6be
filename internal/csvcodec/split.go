package csvcodec

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errNotPositive = errors.New("amount must be greater than 0")

// SplitLine splits one CSV line on commas that are outside quotes, then trims
// each field, strips one pair of wrapping quotes and collapses doubled quotes.
// A quote character toggles the quoted state, so "" inside a quoted field
// leaves the state unchanged.
func SplitLine(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())

	for i, f := range fields {
		fields[i] = unquote(strings.TrimSpace(f))
	}
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errNotPositive
	}
	return d, nil
}

// Layouts tried for the Date column after a space separator has been replaced with "T".
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// parseDate reads a date written by Encode or by common spreadsheet exports.
// Zoned timestamps keep their zone, date-only values are midnight UTC and
// everything else is wall-clock time in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
