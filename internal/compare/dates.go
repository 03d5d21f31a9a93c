package compare

import (
	"strings"
	"time"

	"StockLens/internal/apperr"
	"StockLens/internal/model"
)

// ParseDate accepts YYYYMMDD or YYYY-MM-DD and returns the YYYYMMDD form.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{model.DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(model.DateLayout), nil
		}
	}
	return "", apperr.Validation("invalid date %q, expected YYYYMMDD or YYYY-MM-DD", s)
}

// DefaultRange is January 1 of the current year through today.
func DefaultRange(now time.Time) (start, end string) {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return jan1.Format(model.DateLayout), now.Format(model.DateLayout)
}

// ResolveRange fills blank bounds from DefaultRange, normalizes both and
// checks their order.
func ResolveRange(start, end string, now time.Time) (string, string, error) {
	defStart, defEnd := DefaultRange(now)
	if strings.TrimSpace(start) == "" {
		start = defStart
	}
	if strings.TrimSpace(end) == "" {
		end = defEnd
	}
	s, err := ParseDate(start)
	if err != nil {
		return "", "", err
	}
	e, err := ParseDate(end)
	if err != nil {
		return "", "", err
	}
	if s > e {
		return "", "", apperr.Validation("start date %s is after end date %s", s, e)
	}
	return s, e, nil
}
