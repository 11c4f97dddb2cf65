package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrVariantUnavailable = errors.New("variant is not available")
	ErrNoIdentity         = errors.New("no cart identity")
)

// Identity is the discriminated cart owner: an authenticated user id or an
// anonymous session key, never both.
type Identity struct {
	userID     string
	sessionKey string
}

func UserIdentity(userID string) Identity        { return Identity{userID: userID} }
func SessionIdentity(sessionKey string) Identity { return Identity{sessionKey: sessionKey} }

func (id Identity) valid() bool {
	return (id.userID != "") != (id.sessionKey != "")
}

// ResolveCart returns the cart for the identity, creating one lazily. Two
// concurrent calls for the same new identity serialize on the unique index:
// the losing writer retries as a read.
func ResolveCart(db *gorm.DB, id Identity) (*models.Cart, error) {
	if !id.valid() {
		return nil, ErrNoIdentity
	}

	query := db.Where("user_id = ?", id.userID)
	cart := models.Cart{UserID: &id.userID}
	if id.sessionKey != "" {
		query = db.Where("session_key = ?", id.sessionKey)
		cart = models.Cart{SessionKey: &id.sessionKey}
	}

	var existing models.Cart
	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if createErr := db.Create(&cart).Error; createErr != nil {
		if err := query.First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &cart, nil
}

// AddItem puts quantity units of a variant into the cart. An existing
// (cart, variant) row is incremented atomically via the unique constraint, so
// two concurrent adds of the same variant never produce duplicate rows.
func AddItem(db *gorm.DB, cart *models.Cart, variantID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var variant models.ProductVariant
	if err := db.First(&variant, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	var product models.Product
	if err := db.First(&product, variant.ProductID).Error; err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, ErrVariantUnavailable
	}

	item := models.CartItem{
		CartID:    cart.ID,
		VariantID: variant.ID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
		}),
	}).Create(&item).Error; err != nil {
		return nil, err
	}

	var result models.CartItem
	if err := db.Preload("Variant").
		Where("cart_id = ? AND variant_id = ?", cart.ID, variant.ID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveItem deletes one line from the cart. Items of other carts are not
// reachable.
func RemoveItem(db *gorm.DB, cart *models.Cart, itemID uint) error {
	result := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CartTotal sums current variant prices times quantities. Live pricing: a
// variant price change is reflected immediately, unlike order totals.
func CartTotal(db *gorm.DB, cart *models.Cart) (decimal.Decimal, error) {
	var items []models.CartItem
	if err := db.Preload("Variant").Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice())
	}
	return total, nil
}

// ClearCart deletes all items. Anonymous carts with nothing left to hold are
// dropped entirely; user carts persist empty.
func ClearCart(db *gorm.DB, cart *models.Cart) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if cart.IsAnonymous() {
			return tx.Delete(&models.Cart{}, cart.ID).Error
		}
		return nil
	})
}

// PurgeExpiredSessions removes guest sessions past their expiry together with
// the carts they own. Anonymous carts do not outlive their session.
func PurgeExpiredSessions(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var keys []string
		if err := tx.Model(&models.GuestSession{}).
			Where("expires_at <= ?", time.Now()).
			Pluck("key", &keys).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}

		var cartIDs []uint
		if err := tx.Model(&models.Cart{}).
			Where("session_key IN ?", keys).
			Pluck("id", &cartIDs).Error; err != nil {
			return err
		}
		if len(cartIDs) > 0 {
			if err := tx.Where("cart_id IN ?", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", cartIDs).Delete(&models.Cart{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("key IN ?", keys).Delete(&models.GuestSession{}).Error
	})
}

// IdentityFromContext reads the identity the auth middleware stored.
func IdentityFromContext(c *gin.Context) (Identity, error) {
	if userID, ok := c.Get("user_id"); ok {
		return UserIdentity(userID.(string)), nil
	}
	if sessionKey, ok := c.Get("session_key"); ok {
		return SessionIdentity(sessionKey.(string)), nil
	}
	return Identity{}, ErrNoIdentity
}

// -------- Handlers --------

type AddItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := resolveFromRequest(c, db)
		if !ok {
			return
		}
		var items []models.CartItem
		if err := db.Preload("Variant").Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		total, err := CartTotal(db, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute total"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart_id": cart.ID, "items": items, "total": total})
	}
}

// POST /cart/items
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := resolveFromRequest(c, db)
		if !ok {
			return
		}
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item, err := AddItem(db, cart, input.VariantID, input.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrVariantUnavailable):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
			}
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /cart/items/:id
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := resolveFromRequest(c, db)
		if !ok {
			return
		}
		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}
		if err := RemoveItem(db, cart, uint(itemID)); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
	}
}

// DELETE /cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := resolveFromRequest(c, db)
		if !ok {
			return
		}
		if err := ClearCart(db, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func resolveFromRequest(c *gin.Context, db *gorm.DB) (*models.Cart, bool) {
	identity, err := IdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	cart, err := ResolveCart(db, identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
		return nil, false
	}
	return cart, true
}
