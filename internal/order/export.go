package order

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

func exportHeaders() []string {
	return []string{
		"User ID", "Username", "ФИО", "Упаковка",
		"Item ID", "Товар", "Ед.", "Кол-во", "Цена", "Сумма", "Сохранён",
	}
}

// ExportXLSX renders all orders as a single-sheet workbook, one row per item.
func ExportXLSX(orders []Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	setRow := func(rowIdx int, values []any) error {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	headers := exportHeaders()
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := setRow(1, hdr); err != nil {
		return nil, fmt.Errorf("order: export header: %w", err)
	}

	rowIdx := 2
	for _, o := range orders {
		for _, it := range o.Items {
			values := []any{
				o.UserID, o.Username, o.FullName, o.Packaging,
				it.ID, it.Name, it.Unit, it.Qty, it.Price, it.Subtotal(),
				o.SavedAt.Format("2006-01-02 15:04"),
			}
			if err := setRow(rowIdx, values); err != nil {
				return nil, fmt.Errorf("order: export row %d: %w", rowIdx, err)
			}
			rowIdx++
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("order: export write: %w", err)
	}
	return buf.Bytes(), nil
}
