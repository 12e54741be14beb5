package infra

import (
	"fmt"

	"dellasoft/internal/dto"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTop      = "Más vendidos"
	sheetRotation = "Rotación"
	sheetPerDay   = "Pedidos por día"
)

// RenderMonthlyReportXLSX exports the dashboard figures of one month as a
// workbook with one sheet per figure.
func RenderMonthlyReportXLSX(report dto.DashboardResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTop); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetRotation, sheetPerDay} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F3E3C3"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	writeRow := func(sheet string, row int, values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}
	writeHeader := func(sheet string, cols ...interface{}) error {
		if err := writeRow(sheet, 1, cols...); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		return f.SetCellStyle(sheet, "A1", last, header)
	}

	// ── Top products ─────────────────────────────────────────────────────────
	if err := writeHeader(sheetTop, "Producto", "Unidades"); err != nil {
		return nil, err
	}
	for i, p := range report.TopProducts {
		if err := writeRow(sheetTop, i+2, p.Product, p.UnitsSold); err != nil {
			return nil, err
		}
	}

	// ── Rotation ─────────────────────────────────────────────────────────────
	if err := writeHeader(sheetRotation, "Producto", "Stock", "Vendidos", "Rotación"); err != nil {
		return nil, err
	}
	for i, r := range report.StockRotation {
		rotation, _ := r.Rotation.Float64()
		if err := writeRow(sheetRotation, i+2, r.Product, r.StockOnHand, r.UnitsSold, rotation); err != nil {
			return nil, err
		}
	}

	// ── Orders per day ───────────────────────────────────────────────────────
	if err := writeHeader(sheetPerDay, "Día", "Pedidos"); err != nil {
		return nil, err
	}
	for i, d := range report.OrdersPerDay {
		if err := writeRow(sheetPerDay, i+2, d.Date, d.Count); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{sheetTop, sheetRotation, sheetPerDay} {
		if err := f.SetColWidth(name, "A", "A", 32); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
