package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartsplit/smartsplit/internal/metrics"
)

// currencyMarkers are the symbols and codes stripped before parsing an
// amount. This is a fixed, best-effort set covering the receipts the
// extraction model was trained on, not a locale-aware money parser:
// parenthesized negatives, alternate decimal separators, and symbols
// outside this set are not supported.
var currencyMarkers = []string{"$", "€", "£", "¥", "RM", "IDR"}

// Amount converts a heterogeneous extracted value into a float amount.
// It stringifies v, strips thousands-separator commas and the known
// currency markers, and parses the remainder. On any failure it returns
// fallback and true; parse failures are absorbed, never raised, because
// partial data beats a hard failure on a noisy receipt.
func Amount(v any, fallback float64) (value float64, usedFallback bool) {
	s := stringify(v)
	s = strings.ReplaceAll(s, ",", "")
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		metrics.CoercionFallbacks.Inc()
		return fallback, true
	}
	return f, false
}

// stringify renders an extracted value the way it would print, so that
// numeric and textual extractions coerce identically.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
