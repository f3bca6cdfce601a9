package models

// Strategy selects how a bill is divided among participants.
type Strategy string

const (
	// StrategyEqual divides the receipt total evenly across all
	// participants, ignoring item assignments entirely.
	StrategyEqual Strategy = "equal"

	// StrategyProportional charges each participant their assigned
	// items plus a proportional share of additional fees.
	StrategyProportional Strategy = "proportional"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyEqual || s == StrategyProportional
}

// Assignment records which participant an item was given to.
// Items are assigned whole; partial assignment is not supported.
//
// Assignments are keyed by item name, so a receipt with duplicate item
// names keeps only the last assignment for that name.
type Assignment struct {
	// ItemName is the canonical item name the assignment refers to.
	ItemName string `json:"item_name"`

	// Participant is the person the item was assigned to.
	Participant string `json:"participant"`

	// Amount is the assigned item's line total.
	Amount float64 `json:"amount"`
}

// Verification is the outcome of checking a computed split against the
// receipt's declared total. A mismatch is diagnostic, not corrective:
// the computed shares stand as calculated.
type Verification struct {
	// CalculatedTotal is the sum of all participant shares before
	// export rounding.
	CalculatedTotal float64 `json:"calculated_total"`

	// OriginalTotal is the receipt's declared total.
	OriginalTotal float64 `json:"original_total"`

	// Match is true when the two totals agree within 0.01.
	Match bool `json:"match"`
}

// Split is one computed division of a receipt among participants.
type Split struct {
	// ReceiptID identifies the receipt this split belongs to.
	ReceiptID string `json:"receipt_id"`

	// Strategy is the division strategy that produced the shares.
	Strategy Strategy `json:"strategy"`

	// Participants are the people the bill was divided among, as
	// supplied by the caller (trimmed, non-empty names).
	Participants []string `json:"participants"`

	// Assignments are the per-item choices used by the proportional
	// strategy. Empty for equal splits.
	Assignments []Assignment `json:"assignments,omitempty"`

	// Shares maps participant name to owed amount, unrounded.
	// Rounding to 2 decimals happens at export time only.
	Shares map[string]float64 `json:"shares"`

	// Verification records whether the shares sum back to the
	// receipt total within tolerance.
	Verification Verification `json:"verification"`

	// CreatedAt is the Unix timestamp when the split was computed.
	CreatedAt int64 `json:"created_at,omitempty"`
}
