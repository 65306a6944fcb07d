package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/packfinderz-configurator/internal/draft"
)

const (
	SheetVariants = "Variants"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var matrixHeader = []any{"Color", "Size", "Stock", "Cost Price", "Sell Price", "Margin", "Discounts", "Images"}

// WriteMatrix renders the submittable variants of snap as an xlsx workbook.
func WriteMatrix(w io.Writer, snap draft.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetVariants); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetVariants, "A1", &matrixHeader); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetVariants, "A1", "H1", bold); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}

	for i, v := range snap.FlatList() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
		row := []any{
			colorName(snap, v.ColorID),
			sizeName(snap, v.SizeID),
			v.Stock,
			v.CostPrice.InexactFloat64(),
			v.SellPrice.InexactFloat64(),
			v.SellPrice.Sub(v.CostPrice).InexactFloat64(),
			discountCodes(snap, v.DiscountIDs),
			len(v.Images),
		}
		if err := f.SetSheetRow(SheetVariants, cell, &row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetVariants, "A", "H", 16); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	if err := f.SetPanes(SheetVariants, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func colorName(snap draft.Snapshot, id string) string {
	if snap.Palette != nil {
		if opt, ok := snap.Palette.Color(id); ok {
			return opt.Name
		}
	}
	return id
}

func sizeName(snap draft.Snapshot, id string) string {
	if snap.Palette != nil {
		if opt, ok := snap.Palette.Size(id); ok {
			return opt.Name
		}
	}
	return id
}

func discountCodes(snap draft.Snapshot, ids []string) string {
	codes := make([]string, 0, len(ids))
	for _, id := range ids {
		code := id
		if snap.Palette != nil {
			if d, ok := snap.Palette.Discount(id); ok && d.Code != "" {
				code = d.Code
			}
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, ", ")
}
