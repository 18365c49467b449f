package filter

import (
	"strconv"
	"strings"
	"time"

	"audiolab/apperr"
)

// Accepted datetime filter formats, tried in order.
const (
	dateFormat        = "2006-01-02"
	datetimeFormat    = "2006-01-02T15:04:05Z"
	isoDatetimeFormat = "2006-01-02T15:04:05.000000Z"
)

// ParseDatetime parses a filter timestamp under any of the three
// accepted formats.
func ParseDatetime(value string) (time.Time, error) {
	for _, f := range []string{dateFormat, datetimeFormat, isoDatetimeFormat} {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.New(apperr.InvalidFilter, "invalid datetime format: %q", value)
}

// ParseRange parses an optional (from, to) date filter pair. A "to"
// value without a time-of-day component is normalized to the end of
// that calendar day before comparison. After normalization "to" must be
// strictly greater than "from".
func ParseRange(fromValue, toValue string) (from, to *time.Time, err error) {
	if fromValue != "" {
		t, err := ParseDatetime(fromValue)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if toValue != "" {
		t, err := ParseDatetime(toValue)
		if err != nil {
			return nil, nil, err
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
		}
		to = &t
	}
	if from != nil && to != nil && !to.After(*from) {
		return nil, nil, apperr.New(apperr.InvalidFilter,
			"date 'to' must be greater than 'from'")
	}
	return from, to, nil
}

// IncreaseLastDigit increases the least significant digit of the
// value's decimal representation by one: 1.0 -> 2.0, 10.2 -> 10.3,
// 0.02 -> 0.03. Carries propagate, so 1.9 -> 2.0.
func IncreaseLastDigit(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	digits := []byte(s)
	carry := true
	for i := len(digits) - 1; i >= 0 && carry; i-- {
		if digits[i] == '.' || digits[i] == '-' {
			continue
		}
		if digits[i] == '9' {
			digits[i] = '0'
			continue
		}
		digits[i]++
		carry = false
	}
	out := string(digits)
	if carry {
		if strings.HasPrefix(out, "-") {
			out = "-1" + out[1:]
		} else {
			out = "1" + out
		}
	}
	r, _ := strconv.ParseFloat(out, 64)
	return r
}
