package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/cart"
	catalogControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/catalog"
	orderControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/order"
	reviewControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/review"
	"github.com/othmane-chaikhi/AmodgreenStore/middleware"
	"github.com/othmane-chaikhi/AmodgreenStore/notify"
)

// SetupStoreRoutes registers the customer-facing endpoints.
func SetupStoreRoutes(r *gin.Engine, db *gorm.DB, dispatcher *notify.Dispatcher) {
	// ──────────────── Public catalog ────────────────
	r.GET("/products", catalogControllers.GetProducts(db))
	r.GET("/products/:id", catalogControllers.GetProductByID(db))
	r.GET("/categories", catalogControllers.GetCategories(db))
	r.GET("/products/:id/reviews", reviewControllers.ListReviews(db))
	r.POST("/products/:id/reviews", reviewControllers.CreateReviewHandler(db, dispatcher))

	// ──────────────── Cart & checkout (user or guest token) ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.GET("/", cartControllers.GetCart(db))               // GET /cart
		cartGroup.POST("/items", cartControllers.AddItemHandler(db))  // POST /cart/items
		cartGroup.DELETE("/items/:id", cartControllers.RemoveItemHandler(db))
		cartGroup.DELETE("/", cartControllers.ClearCartHandler(db)) // DELETE /cart
	}

	orderGroup := r.Group("/orders")
	{
		orderGroup.POST("/checkout", middleware.ValidateToken, orderControllers.CheckoutHandler(db, dispatcher))
		orderGroup.POST("/direct", orderControllers.DirectOrderHandler(db, dispatcher)) // buy-now, no cart
	}
}
