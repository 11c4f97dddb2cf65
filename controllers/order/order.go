package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/othmane-chaikhi/AmodgreenStore/controllers/cart"
	"github.com/othmane-chaikhi/AmodgreenStore/models"
	"github.com/othmane-chaikhi/AmodgreenStore/notify"
)

var ErrEmptyCart = errors.New("cart is empty")

// ShippingInfo is the customer contact block captured at checkout.
type ShippingInfo struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

// Checkout converts the cart into an order. The order row, its snapshotted
// items and the cart cleanup are one transaction: a failure on any line
// leaves nothing behind. Prices are copied from the variants at this instant;
// later price changes do not touch the order.
func Checkout(db *gorm.DB, cart *models.Cart, shipping ShippingInfo) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Variant").Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			FullName: shipping.FullName,
			Phone:    shipping.Phone,
			City:     shipping.City,
			Address:  shipping.Address,
			Notes:    shipping.Notes,
			Status:   models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.Variant.ProductID).Error; err != nil {
				return err
			}
			variantID := item.VariantID
			line := models.OrderItem{
				OrderID:     order.ID,
				VariantID:   &variantID,
				ProductName: product.Name,
				VariantName: item.Variant.Name,
				Quantity:    item.Quantity,
				Price:       item.Variant.Price, // snapshot
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, line)
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if cart.IsAnonymous() {
			return tx.Delete(&models.Cart{}, cart.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DirectOrder places a single-variant order without touching any cart ("buy
// now"). Quantity is clamped to at least 1.
func DirectOrder(db *gorm.DB, variantID uint, quantity int, shipping ShippingInfo) (*models.Order, error) {
	if quantity < 1 {
		quantity = 1
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if err := tx.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		var product models.Product
		if err := tx.First(&product, variant.ProductID).Error; err != nil {
			return err
		}
		if !product.IsAvailable {
			return cartControllers.ErrVariantUnavailable
		}

		order = models.Order{
			FullName: shipping.FullName,
			Phone:    shipping.Phone,
			City:     shipping.City,
			Address:  shipping.Address,
			Notes:    shipping.Notes,
			Status:   models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		vid := variant.ID
		line := models.OrderItem{
			OrderID:     order.ID,
			VariantID:   &vid,
			ProductName: product.Name,
			VariantName: variant.Name,
			Quantity:    quantity,
			Price:       variant.Price, // snapshot
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		order.Items = append(order.Items, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

type CheckoutRequest struct {
	ShippingInfo
}

type DirectOrderRequest struct {
	ShippingInfo
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB, dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := cartControllers.IdentityFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cart, err := cartControllers.ResolveCart(db, identity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, cart, req.ShippingInfo)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		// Post-commit side effects, best-effort by contract.
		dispatcher.NotifyOrder(order)
		broadcastNewOrder(order)

		c.JSON(http.StatusCreated, gin.H{
			"order":        order,
			"total":        order.TotalPrice(),
			"whatsapp_url": notify.WhatsAppURL(order),
		})
	}
}

// POST /orders/direct
func DirectOrderHandler(db *gorm.DB, dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DirectOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := DirectOrder(db, req.VariantID, req.Quantity, req.ShippingInfo)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
				return
			case errors.Is(err, cartControllers.ErrVariantUnavailable):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		dispatcher.NotifyOrder(order)
		broadcastNewOrder(order)

		c.JSON(http.StatusCreated, gin.H{
			"order":        order,
			"total":        order.TotalPrice(),
			"whatsapp_url": notify.WhatsAppURL(order),
		})
	}
}
