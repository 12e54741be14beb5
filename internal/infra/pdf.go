package infra

// pdf.go: PDF documents rendered with go-pdf/fpdf:
//   - order invoice, written to PDF_STORAGE_PATH after each payment
//   - monthly report, rendered in memory for download

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dellasoft/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FormatMoney renders minor currency units as "$1234.50".
func FormatMoney(minor int64) string {
	return "$" + decimal.New(minor, -2).StringFixed(2)
}

// InvoiceLine is one row of the invoice item table.
type InvoiceLine struct {
	Product   string
	Quantity  int64
	UnitPrice int64
	Subtotal  int64
}

// InvoiceDocument is everything printed on an order invoice.
type InvoiceDocument struct {
	Business      string
	OrderID       string
	TransactionID string
	IssuedAt      time.Time
	Customer      string
	DeliveryDate  *time.Time
	Lines         []InvoiceLine
	TotalOrder    int64
	Payment       int64
	TotalPaid     int64
}

// InvoiceFileName is the file name used under the storage path.
func InvoiceFileName(orderID, transactionID string) string {
	return fmt.Sprintf("factura_%s_%s.pdf", short(orderID), short(transactionID))
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// GenerateInvoicePDF writes the invoice into storagePath (created if needed)
// and returns the file name relative to it.
func GenerateInvoicePDF(doc InvoiceDocument, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	fileName := InvoiceFileName(doc.OrderID, doc.TransactionID)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(doc.Business), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Comprobante de pago", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, tr("Pedido N° "+short(doc.OrderID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Fecha: "+doc.IssuedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+doc.Customer), "", 1, "L", false, 0, "")
	if doc.DeliveryDate != nil {
		pdf.CellFormat(contentW, 4, "Entrega: "+doc.DeliveryDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.12
	col3 := contentW * 0.21
	col4 := contentW * 0.21

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range doc.Lines {
		name := l.Product
		if r := []rune(name); len(r) > 30 {
			name = string(r[:29]) + "."
		}
		pdf.CellFormat(col1, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", l.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, FormatMoney(l.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, FormatMoney(l.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	row := func(label string, amount int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, FormatMoney(amount), "", 1, "R", false, 0, "")
	}
	row("Total pedido:", doc.TotalOrder, true)
	row("Este pago:", doc.Payment, false)
	row("Pagado:", doc.TotalPaid, false)
	row("Saldo:", doc.TotalOrder-doc.TotalPaid, true)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filepath.Join(storagePath, fileName)); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return fileName, nil
}

// RenderMonthlyReportPDF renders the dashboard figures of one month.
func RenderMonthlyReportPDF(business string, report dto.DashboardResponse) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(business), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Reporte mensual %02d/%d", report.Month, report.Year), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 7, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
	}

	// ── Top products ─────────────────────────────────────────────────────────
	section("Productos más vendidos")
	pdf.CellFormat(contentW*0.7, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.3, 6, "Unidades", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range report.TopProducts {
		pdf.CellFormat(contentW*0.7, 5, tr(p.Product), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, fmt.Sprintf("%d", p.UnitsSold), "", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// ── Stock rotation ───────────────────────────────────────────────────────
	section("Rotación de stock")
	pdf.CellFormat(contentW*0.46, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.18, 6, "Stock", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.18, 6, "Vendidos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.18, 6, tr("Rotación"), "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range report.StockRotation {
		pdf.CellFormat(contentW*0.46, 5, tr(r.Product), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.18, 5, fmt.Sprintf("%d", r.StockOnHand), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.18, 5, fmt.Sprintf("%d", r.UnitsSold), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.18, 5, r.Rotation.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// ── Orders per day ───────────────────────────────────────────────────────
	section("Pedidos por día")
	colW := contentW / 8
	for i, d := range report.OrdersPerDay {
		ln := 0
		if (i+1)%4 == 0 {
			ln = 1
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(colW, 5, d.Date, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(colW, 5, fmt.Sprintf("%d", d.Count), "", ln, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
