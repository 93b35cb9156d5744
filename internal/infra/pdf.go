package infra

// pdf.go — Summary report export using go-pdf/fpdf.
// Generates an A4 report with:
//   - Title header and generation timestamp
//   - Key figures block (revenue, sales, units, average order value, stock in/out)
//   - Top products table (name, units, revenue)
//   - Monthly sales trend table
//
// The output file is saved to storagePath/report_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smartstock/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateReportPDF renders a sales and inventory summary as a PDF document.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateReportPDF(summary *dto.ReportSummary, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	now := time.Now()
	fileName := fmt.Sprintf("report_%s.pdf", now.Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30 // total margins = 30mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, "SmartStock", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Sales & Inventory Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Generated "+now.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Key figures ───────────────────────────────────────────────────────────
	figures := []struct{ label, value string }{
		{"Total revenue", "$" + summary.TotalRevenue.StringFixed(2)},
		{"Sales", fmt.Sprintf("%d", summary.TotalSales)},
		{"Units sold", fmt.Sprintf("%d", summary.TotalUnitsSold)},
		{"Average order value", "$" + summary.AverageOrderValue.StringFixed(2)},
		{"Stock received", fmt.Sprintf("%d", summary.StockIn)},
		{"Stock dispatched", fmt.Sprintf("%d", summary.StockOut)},
	}

	labelW := contentW * 0.55
	valueW := contentW * 0.45
	pdf.SetFont("Helvetica", "", 10)
	for _, f := range figures {
		pdf.CellFormat(labelW, 7, f.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(valueW, 7, f.value, "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}

	// ── Top products ──────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Top Products", "", 1, "L", false, 0, "")

	col1 := contentW * 0.54 // product name
	col2 := contentW * 0.16 // units
	col3 := contentW * 0.30 // revenue

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Units", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Revenue", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(summary.TopProducts) == 0 {
		pdf.CellFormat(contentW, 6, "No sales recorded", "", 1, "L", false, 0, "")
	}
	for _, p := range summary.TopProducts {
		name := p.ProductName
		if len(name) > 48 {
			name = name[:47] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", p.TotalQuantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+p.TotalRevenue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Monthly trend ─────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Monthly Sales", "", 1, "L", false, 0, "")

	mcol1 := contentW * 0.34 // month
	mcol2 := contentW * 0.30 // units
	mcol3 := contentW * 0.36 // revenue

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(mcol1, 6, "Month", "B", 0, "L", false, 0, "")
	pdf.CellFormat(mcol2, 6, "Units", "B", 0, "C", false, 0, "")
	pdf.CellFormat(mcol3, 6, "Revenue", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(summary.MonthlyTrend) == 0 {
		pdf.CellFormat(contentW, 6, "No sales recorded", "", 1, "L", false, 0, "")
	}
	for _, m := range summary.MonthlyTrend {
		label := fmt.Sprintf("%04d-%02d", m.Year, m.Month)
		pdf.CellFormat(mcol1, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(mcol2, 6, fmt.Sprintf("%d", m.TotalQuantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(mcol3, 6, "$"+m.TotalRevenue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
