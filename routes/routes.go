package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/notify"
)

// SetupRoutes is the single entry-point that wires up the public storefront,
// the identity-scoped cart/checkout group and the admin back-office.
func SetupRoutes(r *gin.Engine, db *gorm.DB, dispatcher *notify.Dispatcher) {
	SetupAuthRoutes(r, db)
	SetupStoreRoutes(r, db, dispatcher)
	SetupAdminRoutes(r, db)
}
