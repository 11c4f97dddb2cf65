package exportControllers

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

// BuildPDF renders one section per order listing its line items.
func BuildPDF(orders []models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	for _, order := range orders {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, fmt.Sprintf("Commande #%d", order.ID), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "Client : "+order.FullName, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Telephone : "+order.Phone, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Adresse : "+order.Address, "", 1, "L", false, 0, "")

		switch order.Status {
		case models.OrderStatusCancelled:
			pdf.SetTextColor(200, 0, 0)
		case models.OrderStatusDelivered:
			pdf.SetTextColor(0, 140, 0)
		}
		pdf.CellFormat(0, 6, "Statut : "+string(order.Status), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 6, "Date : "+order.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		if len(order.Items) == 0 {
			pdf.CellFormat(0, 6, "Aucun produit commande", "", 1, "L", false, 0, "")
			pdf.Ln(6)
			continue
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(110, 7, "Produit", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, "Quantite", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Prix unitaire", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, item := range order.Items {
			pdf.CellFormat(110, 7, item.ProductName+" ("+item.VariantName+")", "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 7, item.Price.StringFixed(2)+" MAD", "1", 1, "C", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(140, 7, "Total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, order.TotalPrice().StringFixed(2)+" MAD", "1", 1, "C", false, 0, "")
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfErrorDocument is the degraded fallback: a valid PDF stating the export
// failed instead of a raw 500.
func pdfErrorDocument() []byte {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Export indisponible", "", 1, "L", false, 0, "")
	var buf bytes.Buffer
	_ = pdf.Output(&buf)
	return buf.Bytes()
}
