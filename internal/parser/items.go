package parser

import (
	"strings"

	"github.com/smartsplit/smartsplit/internal/metrics"
	"github.com/smartsplit/smartsplit/internal/models"
)

// metadataNames are row labels the extraction model sometimes mis-types
// as purchases. Any item whose lower-cased name matches one of these,
// or contains "total", is metadata rather than a purchase and is dropped.
var metadataNames = map[string]bool{
	"restaurant": true,
	"date":       true,
	"time":       true,
	"address":    true,
	"phone":      true,
}

// ClampPolicy floors the normalizer's quantity and unit price. The
// default floors (quantity 1.0, price 0.0) compensate for extraction
// noise and are not a domain truth: they mask legitimately fractional
// quantities, so callers that trust their extractions can lower them.
type ClampPolicy struct {
	MinQuantity  float64
	MinUnitPrice float64
}

// DefaultClamps matches the behavior real extraction output was tuned
// against. Keep these floors unless you know the upstream model emits
// reliable quantities.
var DefaultClamps = ClampPolicy{MinQuantity: 1.0, MinUnitPrice: 0.0}

// NormalizeItems converts the raw extraction's item records into
// canonical items, preserving extraction order. A record survives
// unless a noise filter drops it; numeric coercion alone never rejects
// a record, it only falls back to defaults.
func NormalizeItems(raw map[string]any, clamps ClampPolicy) []models.Item {
	var items []models.Item
	for _, record := range itemRecords(raw) {
		item, ok := normalizeItem(record, clamps)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// itemRecords picks the first item container holding any content and
// keeps only its mapping-typed entries; scalar entries carry no usable
// fields. An empty or zero value falls through to the next candidate
// key, but a populated container of the wrong shape still claims the
// slot: real extractions pick one container per layout.
func itemRecords(raw map[string]any) []map[string]any {
	for _, key := range itemListKeys {
		v, ok := raw[key]
		if !ok || emptyValue(v) {
			continue
		}
		list, isList := v.([]any)
		if !isList {
			// single item record emitted without the wrapping list
			if record, isMap := v.(map[string]any); isMap {
				return []map[string]any{record}
			}
			return nil
		}
		records := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if record, isMap := entry.(map[string]any); isMap {
				records = append(records, record)
			}
		}
		return records
	}
	return nil
}

// emptyValue reports whether a decoded JSON value holds no content:
// nil, an empty string, list or mapping, zero, or false. Such a value
// never claims the item-container slot.
func emptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

// normalizeItem applies the alias tables, coercion fallbacks, and noise
// filters to a single raw record. The bool result is false when the
// record was filtered out.
func normalizeItem(record map[string]any, clamps ClampPolicy) (models.Item, bool) {
	name := strings.TrimSpace(stringify(resolve(record, nameKeys, "Unknown Item")))
	if name == "" {
		name = "Unknown Item"
	}

	// Noise filter A: metadata rows mis-typed as items.
	lower := strings.ToLower(name)
	if metadataNames[lower] || strings.Contains(lower, "total") {
		metrics.ItemsFiltered.WithLabelValues("metadata").Inc()
		return models.Item{}, false
	}

	qty, _ := Amount(resolve(record, quantityKeys, "1"), 1.0)
	price, _ := Amount(resolve(record, priceKeys, "0"), 0.0)

	// An absent line total falls back to the computed product, and so
	// does an unparseable one.
	lineTotal, _ := Amount(resolve(record, lineTotalKeys, qty*price), qty*price)

	// Back-derive the unit price when only the line total survived.
	if price == 0 && lineTotal > 0 && qty > 0 {
		price = lineTotal / qty
	}

	// Noise filter B: no usable signal on any axis.
	if lineTotal <= 0 && qty == 1 && price == 0 {
		metrics.ItemsFiltered.WithLabelValues("no_signal").Inc()
		return models.Item{}, false
	}

	return models.Item{
		Name:      name,
		Quantity:  max(qty, clamps.MinQuantity),
		UnitPrice: max(price, clamps.MinUnitPrice),
		LineTotal: max(lineTotal, 0.0),
	}, true
}
