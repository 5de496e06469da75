package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source databases have held timestamps in several textual shapes over
// time. Every shape seen in production is listed here; anything else is a
// bad row.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp parses a source timestamp and renders it as RFC 3339
// UTC, the one form the graph store ever sees.
func NormalizeTimestamp(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrBadTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
}

// NormalizeDate reduces a source date or timestamp to a calendar date.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrBadTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
}

// ParsePrice coerces a source-native decimal string to float64.
func ParsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad price %q", ErrRowMergeFailed, raw)
	}
	return v, nil
}
