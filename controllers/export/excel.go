package exportControllers

import (
	"bytes"
	"strconv"

	"github.com/tealeg/xlsx"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

var excelHeaders = []string{
	"ID", "Client", "Téléphone", "Adresse", "Statut", "Date",
	"Produit", "Quantité", "Prix unitaire",
}

// BuildExcel renders one row per order line, with the order columns merged
// vertically across the order's items.
func BuildExcel(orders []models.Order) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Commandes")
	if err != nil {
		return nil, err
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.Alignment.Horizontal = "center"

	headerRow := sheet.AddRow()
	for _, h := range excelHeaders {
		cell := headerRow.AddCell()
		cell.SetValue(h)
		cell.SetStyle(headerStyle)
	}

	for _, order := range orders {
		if len(order.Items) == 0 {
			row := sheet.AddRow()
			fillOrderCells(row, &order, 0)
			row.AddCell().SetValue("Aucun produit")
			row.AddCell().SetValue("-")
			row.AddCell().SetValue("-")
			continue
		}

		span := len(order.Items) - 1
		for i, item := range order.Items {
			row := sheet.AddRow()
			if i == 0 {
				fillOrderCells(row, &order, span)
			} else {
				for col := 0; col < 6; col++ {
					row.AddCell()
				}
			}
			row.AddCell().SetValue(item.ProductName + " (" + item.VariantName + ")")
			row.AddCell().SetValue(item.Quantity)
			row.AddCell().SetValue(item.Price.StringFixed(2))
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fillOrderCells(row *xlsx.Row, order *models.Order, vspan int) {
	values := []string{
		strconv.FormatUint(uint64(order.ID), 10),
		order.FullName,
		order.Phone,
		order.Address,
		string(order.Status),
		order.CreatedAt.Format("02/01/2006 15:04"),
	}
	for _, v := range values {
		cell := row.AddCell()
		cell.SetValue(v)
		if vspan > 0 {
			cell.Merge(0, vspan)
		}
	}
}

// excelErrorDocument is the degraded fallback when rendering fails: still a
// valid spreadsheet of the expected content type.
func excelErrorDocument() []byte {
	file := xlsx.NewFile()
	if sheet, err := file.AddSheet("Commandes"); err == nil {
		sheet.AddRow().AddCell().SetValue("Export indisponible")
	}
	var buf bytes.Buffer
	_ = file.Write(&buf)
	return buf.Bytes()
}
