package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/smartsplit/smartsplit/internal/models"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		wantErr      bool
		wantEach     float64
	}{
		{name: "two people", total: 33.0, participants: []string{"Alice", "Bob"}, wantEach: 16.5},
		{name: "three people", total: 90.0, participants: []string{"Alice", "Bob", "Charlie"}, wantEach: 30.0},
		{name: "single person", total: 12.34, participants: []string{"Alice"}, wantEach: 12.34},
		{name: "no participants", total: 10.0, participants: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualSplit(tt.total, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoParticipants) {
					t.Errorf("error = %v, want ErrNoParticipants", err)
				}
				return
			}
			if len(shares) != len(tt.participants) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.participants))
			}
			for _, name := range tt.participants {
				if shares[name] != tt.wantEach {
					t.Errorf("%s share = %v, want exactly %v", name, shares[name], tt.wantEach)
				}
			}
		})
	}
}

func TestProportionalSplit(t *testing.T) {
	tests := []struct {
		name           string
		items          []models.Item
		choices        map[string]string
		additionalFees float64
		participants   []string
		wantErr        bool
		wantShares     map[string]float64
	}{
		{
			name: "fees distributed in proportion to assigned value",
			items: []models.Item{
				{Name: "X", LineTotal: 10.0},
				{Name: "Y", LineTotal: 20.0},
			},
			choices:        map[string]string{"X": "A", "Y": "B"},
			additionalFees: 3.0,
			participants:   []string{"A", "B"},
			wantShares:     map[string]float64{"A": 11.0, "B": 22.0},
		},
		{
			name: "zero fees leaves shares at assigned value",
			items: []models.Item{
				{Name: "X", LineTotal: 10.0},
				{Name: "Y", LineTotal: 20.0},
			},
			choices:      map[string]string{"X": "A", "Y": "A"},
			participants: []string{"A", "B"},
			wantShares:   map[string]float64{"A": 30.0, "B": 0.0},
		},
		{
			name:           "zero base splits fees equally",
			items:          nil,
			choices:        nil,
			additionalFees: 6.0,
			participants:   []string{"A", "B", "C"},
			wantShares:     map[string]float64{"A": 2.0, "B": 2.0, "C": 2.0},
		},
		{
			name: "duplicate item name: last assignment wins",
			items: []models.Item{
				{Name: "Tea", LineTotal: 2.0},
				{Name: "Tea", LineTotal: 3.0},
			},
			choices:      map[string]string{"Tea": "B"},
			participants: []string{"A", "B"},
			wantShares:   map[string]float64{"A": 0.0, "B": 3.0},
		},
		{
			name:         "no participants",
			items:        []models.Item{{Name: "X", LineTotal: 10.0}},
			choices:      map[string]string{"X": "A"},
			participants: nil,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ProportionalSplit(tt.items, tt.choices, tt.additionalFees, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProportionalSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(shares) != len(tt.wantShares) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.wantShares))
			}
			for name, want := range tt.wantShares {
				if math.Abs(shares[name]-want) > 0.01 {
					t.Errorf("%s share = %v, want %v", name, shares[name], want)
				}
			}
		})
	}
}

func TestSplitVerification(t *testing.T) {
	receipt := &models.Receipt{
		Items: []models.Item{
			{Name: "X", LineTotal: 10.0},
			{Name: "Y", LineTotal: 20.0},
		},
		Subtotal:       30.0,
		Total:          33.0,
		AdditionalFees: 3.0,
	}

	shares, verification, err := Split(receipt, models.StrategyProportional,
		map[string]string{"X": "A", "Y": "B"}, []string{"A", "B"})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if !verification.Match {
		t.Errorf("verification should pass: calculated %v vs original %v",
			verification.CalculatedTotal, verification.OriginalTotal)
	}
	if math.Abs(shares["A"]-11.0) > 0.01 || math.Abs(shares["B"]-22.0) > 0.01 {
		t.Errorf("shares = %v, want A:11 B:22", shares)
	}

	// A receipt whose declared total exceeds the splittable value must
	// surface a mismatch, not silently adjust the shares.
	mismatched := &models.Receipt{
		Items:          []models.Item{{Name: "X", LineTotal: 10.0}},
		Subtotal:       10.0,
		Total:          50.0,
		AdditionalFees: 0.0,
	}
	_, verification, err = Split(mismatched, models.StrategyProportional,
		map[string]string{"X": "A"}, []string{"A"})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if verification.Match {
		t.Error("verification should report the mismatch")
	}
	if verification.CalculatedTotal != 10.0 || verification.OriginalTotal != 50.0 {
		t.Errorf("verification = %+v, want calculated 10 vs original 50", verification)
	}
}

func TestSplitUnknownStrategy(t *testing.T) {
	receipt := &models.Receipt{Total: 10.0}
	if _, _, err := Split(receipt, models.Strategy("random"), nil, []string{"A"}); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func TestVerifyTolerance(t *testing.T) {
	tests := []struct {
		name      string
		shares    map[string]float64
		total     float64
		wantMatch bool
	}{
		{name: "exact", shares: map[string]float64{"A": 5, "B": 5}, total: 10, wantMatch: true},
		{name: "within tolerance", shares: map[string]float64{"A": 5.004}, total: 5, wantMatch: true},
		{name: "beyond tolerance", shares: map[string]float64{"A": 5.02}, total: 5, wantMatch: false},
		{name: "far off", shares: map[string]float64{"A": 6}, total: 5, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Verify(tt.shares, tt.total)
			if v.Match != tt.wantMatch {
				t.Errorf("Verify(%v, %v).Match = %v, want %v", tt.shares, tt.total, v.Match, tt.wantMatch)
			}
		})
	}
}

func TestRoundShares(t *testing.T) {
	shares := map[string]float64{
		"A": 7.777777777,
		"B": 2.222222222,
		"C": 5.0,
	}
	rounded := RoundShares(shares)
	if rounded["A"] != 7.78 {
		t.Errorf("A = %v, want 7.78", rounded["A"])
	}
	if rounded["B"] != 2.22 {
		t.Errorf("B = %v, want 2.22", rounded["B"])
	}
	if rounded["C"] != 5.0 {
		t.Errorf("C = %v, want 5.0", rounded["C"])
	}
	// The input map is left untouched.
	if shares["A"] != 7.777777777 {
		t.Error("RoundShares must not mutate its input")
	}
}

func TestAssign(t *testing.T) {
	items := []models.Item{
		{Name: "Coffee", LineTotal: 7.0},
		{Name: "Bagel", LineTotal: 2.0},
		{Name: "Coffee", LineTotal: 3.5},
	}
	choices := map[string]string{"Coffee": "A", "Bagel": "B"}

	assignments := Assign(items, choices)
	if len(assignments) != 2 {
		t.Fatalf("got %d assignments, want 2 (one per distinct name)", len(assignments))
	}
	// The later Coffee occurrence overwrote the earlier one.
	if assignments[0].ItemName != "Coffee" || assignments[0].Amount != 3.5 {
		t.Errorf("assignments[0] = %+v, want Coffee for 3.5", assignments[0])
	}
	if assignments[1].ItemName != "Bagel" || assignments[1].Participant != "B" {
		t.Errorf("assignments[1] = %+v, want Bagel -> B", assignments[1])
	}
}
