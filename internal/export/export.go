// Package export builds the downloadable representations of a computed
// split: the JSON payload and an XLSX workbook.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/smartsplit/smartsplit/internal/calculator"
	"github.com/smartsplit/smartsplit/internal/models"
)

// Payload is the JSON export of a split. Amounts are rounded to 2
// decimals independently per participant, after verification, so the
// exported values may sum to slightly off the unrounded total.
type Payload struct {
	OriginalTotal float64            `json:"original_total"`
	SplitDetails  map[string]float64 `json:"split_details"`
}

// BuildPayload renders a split as its JSON export payload.
func BuildPayload(split *models.Split) Payload {
	return Payload{
		OriginalTotal: split.Verification.OriginalTotal,
		SplitDetails:  calculator.RoundShares(split.Shares),
	}
}

// BuildWorkbook renders the receipt and its split as an XLSX workbook
// with a summary sheet and an items sheet.
func BuildWorkbook(receipt *models.Receipt, split *models.Split) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Split"
	// The default sheet is named Sheet1; rename rather than add+delete.
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	write := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	headers := []string{"Participant", "Amount"}
	for i, h := range headers {
		if err := write(sheet, i+1, 1, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	// Deterministic row order for the map of shares.
	names := make([]string, 0, len(split.Shares))
	for name := range split.Shares {
		names = append(names, name)
	}
	sort.Strings(names)

	rounded := calculator.RoundShares(split.Shares)
	row := 2
	for _, name := range names {
		if err := write(sheet, 1, row, name); err != nil {
			return nil, fmt.Errorf("write share: %w", err)
		}
		if err := write(sheet, 2, row, rounded[name]); err != nil {
			return nil, fmt.Errorf("write share: %w", err)
		}
		row++
	}

	if err := write(sheet, 1, row+1, "Original Total"); err != nil {
		return nil, fmt.Errorf("write total: %w", err)
	}
	if err := write(sheet, 2, row+1, split.Verification.OriginalTotal); err != nil {
		return nil, fmt.Errorf("write total: %w", err)
	}
	if err := write(sheet, 1, row+2, "Calculated Total"); err != nil {
		return nil, fmt.Errorf("write total: %w", err)
	}
	if err := write(sheet, 2, row+2, split.Verification.CalculatedTotal); err != nil {
		return nil, fmt.Errorf("write total: %w", err)
	}

	const itemSheet = "Items"
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	itemHeaders := []string{"Item", "Quantity", "Unit Price", "Line Total", "Assigned To"}
	for i, h := range itemHeaders {
		if err := write(itemSheet, i+1, 1, h); err != nil {
			return nil, fmt.Errorf("write item header: %w", err)
		}
	}

	assigned := make(map[string]string, len(split.Assignments))
	for _, a := range split.Assignments {
		assigned[a.ItemName] = a.Participant
	}
	for i, item := range receipt.Items {
		row := i + 2
		if err := write(itemSheet, 1, row, item.Name); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
		if err := write(itemSheet, 2, row, item.Quantity); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
		if err := write(itemSheet, 3, row, item.UnitPrice); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
		if err := write(itemSheet, 4, row, item.LineTotal); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
		if err := write(itemSheet, 5, row, assigned[item.Name]); err != nil {
			return nil, fmt.Errorf("write item: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
