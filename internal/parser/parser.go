// Package parser normalizes the schema-variable output of the upstream
// document-understanding model into a canonical receipt.
//
// Extraction output is noisy: field names change per receipt layout,
// amounts arrive as strings with currency markers, metadata rows get
// mis-typed as purchases, and declared totals disagree with the visible
// items. The parser absorbs all of that with priority-ordered alias
// tables, best-effort numeric coercion, and a reconciliation pass, so
// that downstream code only ever sees a models.Receipt whose documented
// invariants hold.
package parser

import (
	"errors"

	"github.com/smartsplit/smartsplit/internal/models"
)

// ErrExtractionAbsent reports that the raw extraction was empty or nil,
// so there is nothing to normalize. This is the only condition that
// stops the pipeline; every lesser defect degrades to a fallback.
var ErrExtractionAbsent = errors.New("no data extracted from receipt")

// Parser normalizes raw extractions. The zero value is not usable;
// construct with New.
type Parser struct {
	clamps ClampPolicy
}

// New returns a Parser using the default clamp policy.
func New() *Parser {
	return &Parser{clamps: DefaultClamps}
}

// NewWithClamps returns a Parser with a custom clamp policy, for
// callers whose extractions report trustworthy quantities.
func NewWithClamps(clamps ClampPolicy) *Parser {
	return &Parser{clamps: clamps}
}

// Parse normalizes one raw extraction into a canonical receipt.
// It returns ErrExtractionAbsent when raw is empty; any other input
// produces a receipt, however sparse.
func (p *Parser) Parse(raw models.RawExtraction) (*models.Receipt, error) {
	if len(raw) == 0 {
		return nil, ErrExtractionAbsent
	}

	header := ExtractHeader(raw)
	items := NormalizeItems(raw, p.clamps)
	subtotal, total := declaredTotals(raw)

	// Reconciliation: the declared subtotal is trusted only when it is
	// at least the sum of the visible items; a smaller figure means the
	// extraction truncated the item list or dropped the subtotal row.
	var computed float64
	for _, item := range items {
		computed += item.LineTotal
	}
	if subtotal == 0.0 || subtotal < computed {
		subtotal = computed
	}

	// The subtotal can never legitimately exceed the grand total.
	if subtotal > total && total > 0 {
		subtotal = total
	}

	return &models.Receipt{
		Header:         header,
		Items:          items,
		Subtotal:       subtotal,
		Total:          total,
		AdditionalFees: max(total-subtotal, 0.0),
	}, nil
}

// declaredTotals pulls the receipt's own subtotal and total figures out
// of their sub-mappings. Either may be absent or garbled; both default
// to zero, which the reconciliation pass then repairs from the items.
func declaredTotals(raw map[string]any) (subtotal, total float64) {
	block, ok := raw["sub_total"]
	if !ok {
		block = raw["subtotal"]
	}
	if m, isMap := block.(map[string]any); isMap {
		subtotal, _ = Amount(resolve(m, subtotalValueKeys, "0"), 0.0)
	}

	if m, isMap := raw["total"].(map[string]any); isMap {
		total, _ = Amount(resolve(m, totalValueKeys, "0"), 0.0)
	}
	return subtotal, total
}
