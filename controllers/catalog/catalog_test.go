package catalogControllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
	"github.com/othmane-chaikhi/AmodgreenStore/testutil"
)

func seedProduct(t *testing.T, db *gorm.DB, variants ...VariantInput) *models.Product {
	t.Helper()
	category := models.Category{Name: "Huiles " + t.Name()}
	require.NoError(t, db.Create(&category).Error)

	product, err := CreateProduct(db, ProductInput{
		Name:       "Huile d'Olive",
		CategoryID: category.ID,
		Variants:   variants,
	}, "/uploads/products/olive.jpg", nil)
	require.NoError(t, err)
	return product
}

// assertDefaultInvariant checks the three-way agreement after a catalog
// operation: at most one default flag, the product reference points at it,
// and the product price mirrors its price.
func assertDefaultInvariant(t *testing.T, db *gorm.DB, productID uint) {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)

	var defaults []models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND is_default = ?", productID, true).Find(&defaults).Error)
	require.LessOrEqual(t, len(defaults), 1)

	if product.DefaultVariantID == nil {
		assert.Empty(t, defaults)
		return
	}
	require.Len(t, defaults, 1)
	assert.Equal(t, *product.DefaultVariantID, defaults[0].ID)
	assert.True(t, product.Price.Equal(defaults[0].Price),
		"product price %s != default variant price %s", product.Price, defaults[0].Price)
}

func TestCreateProductSyncsDefaultVariantPrice(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db,
		VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)},
		VariantInput{Name: "1L", Price: decimal.NewFromInt(70)},
	)

	assert.True(t, product.Price.Equal(decimal.NewFromInt(40)))
	assertDefaultInvariant(t, db, product.ID)
}

func TestSetDefaultVariantReassigns(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db,
		VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)},
		VariantInput{Name: "1L", Price: decimal.NewFromInt(70)},
	)

	var liter models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND name = ?", product.ID, "1L").First(&liter).Error)

	require.NoError(t, SetDefaultVariant(db, product.ID, liter.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.True(t, reloaded.Price.Equal(decimal.NewFromInt(70)))
	require.NotNil(t, reloaded.DefaultVariantID)
	assert.Equal(t, liter.ID, *reloaded.DefaultVariantID)
	assertDefaultInvariant(t, db, product.ID)
}

func TestSetDefaultVariantRejectsForeignVariant(t *testing.T) {
	db := testutil.DB(t)
	first := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	category := models.Category{Name: "Savons"}
	require.NoError(t, db.Create(&category).Error)
	other, err := CreateProduct(db, ProductInput{
		Name:       "Savon Noir",
		CategoryID: category.ID,
		Variants:   []VariantInput{{Name: "200g", Price: decimal.NewFromInt(25)}},
	}, "", nil)
	require.NoError(t, err)

	var foreign models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", other.ID).First(&foreign).Error)

	err = SetDefaultVariant(db, first.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrInvalidVariantOwner)
	assertDefaultInvariant(t, db, first.ID)
}

func TestCreateVariantRejectsSecondDefault(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	_, err := CreateVariant(db, product.ID, VariantInput{
		Name:      "1L",
		Price:     decimal.NewFromInt(70),
		IsDefault: true,
	})
	assert.ErrorIs(t, err, ErrDuplicateDefaultVariant)
	assertDefaultInvariant(t, db, product.ID)
}

func TestUpdateDefaultVariantPriceFollowsProduct(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	var variant models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&variant).Error)

	_, err := UpdateVariant(db, variant.ID, VariantInput{
		Name:      "500ml",
		Price:     decimal.NewFromInt(45),
		IsDefault: true,
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.True(t, reloaded.Price.Equal(decimal.NewFromInt(45)))
	assertDefaultInvariant(t, db, product.ID)
}

func TestUpdateVariantPromotesWhenNoDefault(t *testing.T) {
	db := testutil.DB(t)
	category := models.Category{Name: "Huiles " + t.Name()}
	require.NoError(t, db.Create(&category).Error)

	// A product left without any default variant.
	product := models.Product{
		Name:       "Huile de Nigelle",
		Price:      decimal.NewFromInt(55),
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	variant := models.ProductVariant{ProductID: product.ID, Name: "250ml", Price: decimal.NewFromInt(55)}
	require.NoError(t, db.Create(&variant).Error)

	updated, err := UpdateVariant(db, variant.ID, VariantInput{
		Name:      "250ml",
		Price:     decimal.NewFromInt(60),
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault, "empty default slot is claimed")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.True(t, reloaded.Price.Equal(decimal.NewFromInt(60)))
	assertDefaultInvariant(t, db, product.ID)
}

func TestUpdateVariantRejectsCompetingDefault(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db,
		VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)},
		VariantInput{Name: "1L", Price: decimal.NewFromInt(70)},
	)

	var liter models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND name = ?", product.ID, "1L").First(&liter).Error)

	_, err := UpdateVariant(db, liter.ID, VariantInput{
		Name:      "1L",
		Price:     decimal.NewFromInt(70),
		IsDefault: true,
	})
	assert.ErrorIs(t, err, ErrDuplicateDefaultVariant)
	assertDefaultInvariant(t, db, product.ID)
}

func TestDeleteDefaultVariantPromotesLowestID(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db,
		VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)},
		VariantInput{Name: "1L", Price: decimal.NewFromInt(70)},
		VariantInput{Name: "5L", Price: decimal.NewFromInt(300)},
	)

	var current models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND is_default = ?", product.ID, true).First(&current).Error)
	require.NoError(t, DeleteVariant(db, current.ID))

	var survivors []models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("id ASC").Find(&survivors).Error)
	require.Len(t, survivors, 2)
	assert.True(t, survivors[0].IsDefault, "lowest remaining id should be promoted")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.True(t, reloaded.Price.Equal(survivors[0].Price))
	assertDefaultInvariant(t, db, product.ID)
}

func TestDeleteLastVariantKeepsLastKnownPrice(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	var variant models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&variant).Error)
	require.NoError(t, DeleteVariant(db, variant.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Nil(t, reloaded.DefaultVariantID)
	assert.True(t, reloaded.Price.Equal(decimal.NewFromInt(40)), "last known price retained")
	assertDefaultInvariant(t, db, product.ID)
}

func TestDeleteVariantRemovesCartLines(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db,
		VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)},
		VariantInput{Name: "1L", Price: decimal.NewFromInt(70)},
	)

	var liter models.ProductVariant
	require.NoError(t, db.Where("product_id = ? AND name = ?", product.ID, "1L").First(&liter).Error)

	sessionKey := "sess-delete-variant"
	cart := models.Cart{SessionKey: &sessionKey}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, VariantID: liter.ID, Quantity: 2}).Error)

	require.NoError(t, DeleteVariant(db, liter.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProductCascades(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	var variant models.ProductVariant
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&variant).Error)

	sessionKey := "sess-delete-product"
	cart := models.Cart{SessionKey: &sessionKey}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, VariantID: variant.ID, Quantity: 1}).Error)

	// A historical order keeps its snapshot when the catalog entry goes away.
	order := models.Order{FullName: "Client", Phone: "0600000000", Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)
	vid := variant.ID
	line := models.OrderItem{
		OrderID: order.ID, VariantID: &vid,
		ProductName: product.Name, VariantName: variant.Name,
		Quantity: 1, Price: decimal.NewFromInt(40),
	}
	require.NoError(t, db.Create(&line).Error)

	require.NoError(t, DeleteProduct(db, product.ID))

	var count int64
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	assert.Zero(t, count)

	var keptLine models.OrderItem
	require.NoError(t, db.First(&keptLine, line.ID).Error)
	assert.Nil(t, keptLine.VariantID)
	assert.True(t, keptLine.Price.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "Huile d'Olive", keptLine.ProductName)

	assert.ErrorIs(t, DeleteProduct(db, product.ID), models.ErrNotFound)
}

func TestDeleteCategoryRestrictedWhileInUse(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db, VariantInput{Name: "500ml", Price: decimal.NewFromInt(40)})

	err := DeleteCategory(db, product.CategoryID)
	assert.ErrorIs(t, err, ErrCategoryInUse)

	require.NoError(t, DeleteProduct(db, product.ID))
	assert.NoError(t, DeleteCategory(db, product.CategoryID))
}
