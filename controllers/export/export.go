package exportControllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// GET /admin/orders/export?window=today&format=xlsx|pdf
//
// The caller always receives a valid binary of the requested content type:
// render failures degrade to a minimal error document.
func ExportOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		window := Window(c.DefaultQuery("window", string(WindowAll)))
		format := c.DefaultQuery("format", "xlsx")

		orders, err := FetchOrders(db, window, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		switch format {
		case "pdf":
			data, err := BuildPDF(orders)
			if err != nil {
				log.Printf("⚠️ PDF export failed: %v", err)
				data = pdfErrorDocument()
			}
			c.Header("Content-Disposition", "attachment; filename=commandes.pdf")
			c.Data(http.StatusOK, pdfContentType, data)
		default:
			data, err := BuildExcel(orders)
			if err != nil {
				log.Printf("⚠️ Excel export failed: %v", err)
				data = excelErrorDocument()
			}
			c.Header("Content-Disposition", "attachment; filename=commandes.xlsx")
			c.Data(http.StatusOK, xlsxContentType, data)
		}
	}
}
