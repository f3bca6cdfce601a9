package models

// RawExtraction is the schema-variable nested structure produced by the
// upstream document-understanding model. Key names and nesting vary per
// receipt layout; the parser treats every expected key as optional.
type RawExtraction map[string]any

// Item is a normalized purchase line with guaranteed fields.
// Quantity is floored at 1.0 and UnitPrice at 0.0 by the normalizer's
// clamp policy, so consumers never see a zero quantity or negative price.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	// Assigned by the store on persistence.
	ID string `json:"id,omitempty"`

	// Name is the item description as printed on the receipt.
	// Never empty; "Unknown Item" when no name key was recognized.
	Name string `json:"name"`

	// Quantity is the number of units purchased (>= 1.0).
	Quantity float64 `json:"quantity"`

	// UnitPrice is the price per unit (>= 0.0). May be back-derived
	// from the line total when the extraction omits it.
	UnitPrice float64 `json:"unit_price"`

	// LineTotal is the extended price for the line (>= 0.0).
	LineTotal float64 `json:"line_total"`
}

// Receipt is the canonical, reconciled form of one scanned receipt.
// Built once by the parser and never mutated afterward.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id,omitempty"`

	// Header holds free-form metadata (merchant, date, ...) passed
	// through for display. May be empty; carries no invariants.
	Header map[string]string `json:"header"`

	// Items are the normalized purchase lines in extraction order.
	// Order is significant: the UI displays items in this order.
	Items []Item `json:"items"`

	// Subtotal is the reconciled pre-fee amount. Never exceeds Total
	// when Total is positive, and never undercounts the item sum.
	Subtotal float64 `json:"subtotal"`

	// Total is the declared grand total ("0" when the extraction had none).
	Total float64 `json:"total"`

	// AdditionalFees is the portion of Total not attributable to any
	// line item (tax, service charge, rounding). Always >= 0.
	AdditionalFees float64 `json:"additional_fees"`

	// CreatedAt is the Unix timestamp when the receipt was persisted.
	CreatedAt int64 `json:"created_at,omitempty"`
}
