// Package calculator holds the pure split math: dividing a reconciled
// receipt among participants and verifying the result. It has no I/O
// and no state; every function is a bounded computation over its inputs.
package calculator

import (
	"errors"
	"math"

	"github.com/smartsplit/smartsplit/internal/models"
)

// VerificationTolerance is the absolute difference within which a
// computed split is considered consistent with the declared total.
const VerificationTolerance = 0.01

// ErrNoParticipants rejects a split with nobody to divide among, which
// would otherwise divide by zero.
var ErrNoParticipants = errors.New("must have at least one participant")

// EqualSplit divides the receipt total evenly across all participants,
// ignoring item assignments entirely.
func EqualSplit(total float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	perPerson := total / float64(len(participants))
	shares := make(map[string]float64, len(participants))
	for _, name := range participants {
		shares[name] = perPerson
	}
	return shares, nil
}

// ProportionalSplit charges each participant the items assigned to them
// plus a share of the additional fees.
//
// Items are assigned whole, by name: choices maps item name to
// participant, and when a receipt repeats an item name the last
// occurrence's assignment wins. Fees are distributed in proportion to
// each participant's assigned value; when nothing was assigned (zero
// base all around) they are split equally instead.
func ProportionalSplit(items []models.Item, choices map[string]string, additionalFees float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	shares := make(map[string]float64, len(participants))
	for _, name := range participants {
		shares[name] = 0.0
	}

	for _, a := range Assign(items, choices) {
		if _, exists := shares[a.Participant]; exists {
			shares[a.Participant] += a.Amount
		}
	}

	if additionalFees > 0 {
		var base float64
		for _, amount := range shares {
			base += amount
		}
		if base > 0 {
			for name := range shares {
				shares[name] += additionalFees * shares[name] / base
			}
		} else {
			perPerson := additionalFees / float64(len(participants))
			for name := range shares {
				shares[name] += perPerson
			}
		}
	}

	return shares, nil
}

// Assign resolves the item-to-person choices into concrete assignments,
// one per distinct item name, in item order. An item without a choice
// is left unassigned and simply absent from the result.
func Assign(items []models.Item, choices map[string]string) []models.Assignment {
	byName := make(map[string]int)
	var assignments []models.Assignment
	for _, item := range items {
		person, chosen := choices[item.Name]
		if !chosen {
			continue
		}
		a := models.Assignment{
			ItemName:    item.Name,
			Participant: person,
			Amount:      item.LineTotal,
		}
		if i, seen := byName[item.Name]; seen {
			// duplicate item name: the later occurrence overwrites
			assignments[i] = a
			continue
		}
		byName[item.Name] = len(assignments)
		assignments = append(assignments, a)
	}
	return assignments
}

// Split dispatches to the strategy and verifies the result against the
// receipt's declared total. A verification mismatch is reported, never
// corrected: the shares stand as computed.
func Split(receipt *models.Receipt, strategy models.Strategy, choices map[string]string, participants []string) (map[string]float64, models.Verification, error) {
	var (
		shares map[string]float64
		err    error
	)
	switch strategy {
	case models.StrategyEqual:
		shares, err = EqualSplit(receipt.Total, participants)
	case models.StrategyProportional:
		shares, err = ProportionalSplit(receipt.Items, choices, receipt.AdditionalFees, participants)
	default:
		return nil, models.Verification{}, errors.New("unknown split strategy: " + string(strategy))
	}
	if err != nil {
		return nil, models.Verification{}, err
	}
	return shares, Verify(shares, receipt.Total), nil
}

// Verify compares the sum of the computed shares against the declared
// total within VerificationTolerance.
func Verify(shares map[string]float64, originalTotal float64) models.Verification {
	var calculated float64
	for _, amount := range shares {
		calculated += amount
	}
	return models.Verification{
		CalculatedTotal: calculated,
		OriginalTotal:   originalTotal,
		Match:           math.Abs(calculated-originalTotal) < VerificationTolerance,
	}
}

// RoundShares rounds each share to 2 decimals for export. Rounding
// happens per participant after verification, so the exported amounts
// may sum to a value that differs from the verified total by up to a
// cent per participant.
func RoundShares(shares map[string]float64) map[string]float64 {
	rounded := make(map[string]float64, len(shares))
	for name, amount := range shares {
		rounded[name] = math.Round(amount*100) / 100
	}
	return rounded
}
