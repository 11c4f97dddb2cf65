package cartControllers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
	"github.com/othmane-chaikhi/AmodgreenStore/testutil"
)

func seedVariant(t *testing.T, db *gorm.DB, price int64, available bool) *models.ProductVariant {
	t.Helper()
	category := models.Category{Name: "Huiles " + t.Name()}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		Name:        "Huile d'Olive",
		Price:       decimal.NewFromInt(price),
		CategoryID:  category.ID,
		IsAvailable: available,
	}
	require.NoError(t, db.Create(&product).Error)

	variant := models.ProductVariant{
		ProductID: product.ID,
		Name:      "500ml",
		Price:     decimal.NewFromInt(price),
		IsDefault: true,
	}
	require.NoError(t, db.Create(&variant).Error)
	require.NoError(t, db.Model(&product).Update("default_variant_id", variant.ID).Error)
	return &variant
}

func TestResolveCartGetOrCreate(t *testing.T) {
	db := testutil.DB(t)

	first, err := ResolveCart(db, SessionIdentity("sess-1"))
	require.NoError(t, err)
	again, err := ResolveCart(db, SessionIdentity("sess-1"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same identity resolves the same cart")

	userCart, err := ResolveCart(db, UserIdentity("user-1"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, userCart.ID)
	require.NotNil(t, userCart.UserID)
	assert.Nil(t, userCart.SessionKey, "identities are never mixed on one row")
}

func TestResolveCartRejectsEmptyIdentity(t *testing.T) {
	db := testutil.DB(t)
	_, err := ResolveCart(db, Identity{})
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestAddItemMergesQuantity(t *testing.T) {
	db := testutil.DB(t)
	variant := seedVariant(t, db, 40, true)

	cart, err := ResolveCart(db, SessionIdentity("sess-merge"))
	require.NoError(t, err)

	_, err = AddItem(db, cart, variant.ID, 2)
	require.NoError(t, err)
	item, err := AddItem(db, cart, variant.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one row per (cart, variant)")
}

func TestAddItemValidation(t *testing.T) {
	db := testutil.DB(t)
	available := seedVariant(t, db, 40, true)

	cart, err := ResolveCart(db, SessionIdentity("sess-validate"))
	require.NoError(t, err)

	_, err = AddItem(db, cart, available.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = AddItem(db, cart, 99999, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", available.ProductID).
		Update("is_available", false).Error)
	_, err = AddItem(db, cart, available.ID, 1)
	assert.ErrorIs(t, err, ErrVariantUnavailable)
}

func TestRemoveItemScopedToCart(t *testing.T) {
	db := testutil.DB(t)
	variant := seedVariant(t, db, 40, true)

	mine, err := ResolveCart(db, SessionIdentity("sess-mine"))
	require.NoError(t, err)
	theirs, err := ResolveCart(db, SessionIdentity("sess-theirs"))
	require.NoError(t, err)

	item, err := AddItem(db, mine, variant.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, RemoveItem(db, theirs, item.ID), models.ErrNotFound)
	assert.NoError(t, RemoveItem(db, mine, item.ID))
	assert.ErrorIs(t, RemoveItem(db, mine, item.ID), models.ErrNotFound)
}

func TestCartTotalIsLive(t *testing.T) {
	db := testutil.DB(t)
	variant := seedVariant(t, db, 40, true)

	cart, err := ResolveCart(db, SessionIdentity("sess-total"))
	require.NoError(t, err)
	_, err = AddItem(db, cart, variant.ID, 3)
	require.NoError(t, err)

	total, err := CartTotal(db, cart)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(120)))

	// A price change shows up immediately in the cart total.
	require.NoError(t, db.Model(&models.ProductVariant{}).
		Where("id = ?", variant.ID).
		Update("price", decimal.NewFromInt(45)).Error)

	total, err = CartTotal(db, cart)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(135)))
}

func TestClearCart(t *testing.T) {
	db := testutil.DB(t)
	variant := seedVariant(t, db, 40, true)

	anon, err := ResolveCart(db, SessionIdentity("sess-clear"))
	require.NoError(t, err)
	_, err = AddItem(db, anon, variant.ID, 2)
	require.NoError(t, err)

	require.NoError(t, ClearCart(db, anon))

	var count int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", anon.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Cart{}).Where("id = ?", anon.ID).Count(&count)
	assert.Zero(t, count, "anonymous cart row is dropped")

	userCart, err := ResolveCart(db, UserIdentity("user-clear"))
	require.NoError(t, err)
	_, err = AddItem(db, userCart, variant.ID, 1)
	require.NoError(t, err)
	require.NoError(t, ClearCart(db, userCart))

	db.Model(&models.Cart{}).Where("id = ?", userCart.ID).Count(&count)
	assert.EqualValues(t, 1, count, "user cart persists empty")
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := testutil.DB(t)
	variant := seedVariant(t, db, 40, true)

	expired := models.GuestSession{Key: "sess-expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&expired).Error)
	active := models.GuestSession{Key: "sess-active", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&active).Error)

	expiredCart, err := ResolveCart(db, SessionIdentity(expired.Key))
	require.NoError(t, err)
	_, err = AddItem(db, expiredCart, variant.ID, 1)
	require.NoError(t, err)
	activeCart, err := ResolveCart(db, SessionIdentity(active.Key))
	require.NoError(t, err)

	require.NoError(t, PurgeExpiredSessions(db))

	var count int64
	db.Model(&models.GuestSession{}).Where("key = ?", expired.Key).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Cart{}).Where("id = ?", expiredCart.ID).Count(&count)
	assert.Zero(t, count, "expired session's cart is destroyed")
	db.Model(&models.CartItem{}).Where("cart_id = ?", expiredCart.ID).Count(&count)
	assert.Zero(t, count)

	db.Model(&models.GuestSession{}).Where("key = ?", active.Key).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.Cart{}).Where("id = ?", activeCart.ID).Count(&count)
	assert.EqualValues(t, 1, count, "live session's cart survives the sweep")
}
