package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/catalog"
	exportControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/export"
	orderControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/order"
	reviewControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/review"
	"github.com/othmane-chaikhi/AmodgreenStore/middleware"
)

// SetupAdminRoutes registers the API-key-protected back-office endpoints.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ──────────────── Catalog ────────────────
		adminGroup.POST("/categories", catalogControllers.CreateCategory(db))
		adminGroup.PUT("/categories/:id", catalogControllers.UpdateCategory(db))
		adminGroup.DELETE("/categories/:id", catalogControllers.DeleteCategoryHandler(db))

		adminGroup.POST("/products", catalogControllers.CreateProductHandler(db))
		adminGroup.PUT("/products/:id", catalogControllers.UpdateProductHandler(db))
		adminGroup.DELETE("/products/:id", catalogControllers.DeleteProductHandler(db))

		adminGroup.POST("/products/:id/variants", catalogControllers.CreateVariantHandler(db))
		adminGroup.PUT("/products/:id/default-variant/:variantID", catalogControllers.SetDefaultVariantHandler(db))
		adminGroup.PUT("/variants/:id", catalogControllers.UpdateVariantHandler(db))
		adminGroup.DELETE("/variants/:id", catalogControllers.DeleteVariantHandler(db))

		// ──────────────── Orders ────────────────
		adminGroup.GET("/orders", orderControllers.ListOrdersHandler(db))
		adminGroup.GET("/orders/export", exportControllers.ExportOrdersHandler(db))
		adminGroup.GET("/orders/:id", orderControllers.GetOrderHandler(db))
		adminGroup.PUT("/orders/:id/status", orderControllers.TransitionHandler(db))
		adminGroup.PUT("/orders/:id/delivery-date", orderControllers.SetEstimatedDeliveryHandler(db))
		adminGroup.DELETE("/orders/:id", orderControllers.SoftDeleteOrderHandler(db))
		adminGroup.POST("/orders/:id/restore", orderControllers.RestoreOrderHandler(db))
		adminGroup.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

		// ──────────────── Reviews ────────────────
		adminGroup.PUT("/reviews/:id/approval", reviewControllers.SetApprovalHandler(db))
	}
}
