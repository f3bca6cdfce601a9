package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/smartsplit/smartsplit/internal/models"
)

func testSplit() *models.Split {
	return &models.Split{
		ReceiptID:    "r1",
		Strategy:     models.StrategyProportional,
		Participants: []string{"Alice", "Bob"},
		Assignments: []models.Assignment{
			{ItemName: "Coffee", Participant: "Alice", Amount: 7},
			{ItemName: "Bagel", Participant: "Bob", Amount: 2},
		},
		Shares: map[string]float64{"Alice": 7.0 + 7.0/9.0, "Bob": 2.0 + 2.0/9.0},
		Verification: models.Verification{
			CalculatedTotal: 10.0,
			OriginalTotal:   10.0,
			Match:           true,
		},
	}
}

func TestBuildPayload(t *testing.T) {
	payload := BuildPayload(testSplit())

	if payload.OriginalTotal != 10.0 {
		t.Errorf("original_total = %v, want 10.0", payload.OriginalTotal)
	}
	if payload.SplitDetails["Alice"] != 7.78 {
		t.Errorf("Alice = %v, want 7.78", payload.SplitDetails["Alice"])
	}
	if payload.SplitDetails["Bob"] != 2.22 {
		t.Errorf("Bob = %v, want 2.22", payload.SplitDetails["Bob"])
	}
}

func TestBuildWorkbook(t *testing.T) {
	receipt := &models.Receipt{
		ID: "r1",
		Items: []models.Item{
			{Name: "Coffee", Quantity: 2, UnitPrice: 3.5, LineTotal: 7},
			{Name: "Bagel", Quantity: 1, UnitPrice: 2, LineTotal: 2},
		},
		Subtotal:       9,
		Total:          10,
		AdditionalFees: 1,
	}

	data, err := BuildWorkbook(receipt, testSplit())
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("workbook is empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	// Shares are written alphabetically: Alice on row 2, Bob on row 3.
	got, err := f.GetCellValue("Split", "A2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if got != "Alice" {
		t.Errorf("Split!A2 = %q, want Alice", got)
	}

	item, err := f.GetCellValue("Items", "A2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if item != "Coffee" {
		t.Errorf("Items!A2 = %q, want Coffee", item)
	}
	assignee, err := f.GetCellValue("Items", "E2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if assignee != "Alice" {
		t.Errorf("Items!E2 = %q, want Alice", assignee)
	}
}
