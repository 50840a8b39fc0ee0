package infra

// pdf.go — production order sheet generation using go-pdf/fpdf.
// When an order is pushed into the production sequence, a one-page A4 sheet
// is generated for the production floor:
//   - Order number, client store name, delivery date / ship-ASAP flag
//   - Item table (flavor, product type, quantity, unit price, line total)
//   - Discount line and bold total
//
// The output file is saved to storagePath/order_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"betteredible/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOrderSheetPDF writes the production sheet for an order and returns
// the absolute path of the generated file.
func GenerateOrderSheetPDF(order *model.ClientOrder, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("order_%d.pdf", order.OrderNumber)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Production Order Sheet", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Order #%d", order.OrderNumber), "", 1, "C", false, 0, "")
	if order.Client != nil {
		pdf.CellFormat(contentW, 6, order.Client.StoreName, "", 1, "C", false, 0, "")
	}
	if order.ShipASAP {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 6, "SHIP ASAP", "", 1, "C", false, 0, "")
	} else if order.DeliveryDate != nil {
		pdf.CellFormat(contentW, 6, "Delivery: "+order.DeliveryDate.Format("2006-01-02"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	colFlavor, colType, colQty, colPrice := contentW*0.35, contentW*0.25, contentW*0.12, contentW*0.14
	colTotal := contentW - colFlavor - colType - colQty - colPrice

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colFlavor, 7, "Flavor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colType, 7, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colPrice, 7, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(colFlavor, 6, item.FlavorName, "", 0, "L", false, 0, "")
		pdf.CellFormat(colType, 6, item.ProductType, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, 6, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW - colTotal
	pdf.CellFormat(labelW, 6, "Subtotal", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 6, order.Subtotal.StringFixed(2), "T", 1, "R", false, 0, "")
	if order.DiscountAmount.IsPositive() {
		pdf.CellFormat(labelW, 6, "Discount", "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, "-"+order.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 7, order.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
