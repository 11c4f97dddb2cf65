package catalogControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

var (
	ErrInvalidVariantOwner     = errors.New("variant does not belong to this product")
	ErrDuplicateDefaultVariant = errors.New("product already has a default variant")
)

type VariantInput struct {
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	IsDefault bool            `json:"is_default"`
}

// SetDefaultVariant makes variantID the default variant of productID and
// mirrors its price onto the product. All writes happen in one transaction:
// other variants lose their default flag, the chosen one gains it, and the
// product's default reference and price are updated together.
func SetDefaultVariant(db *gorm.DB, productID, variantID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var variant models.ProductVariant
		if err := tx.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if variant.ProductID != product.ID {
			return ErrInvalidVariantOwner
		}

		return setDefaultVariantTx(tx, &product, &variant)
	})
}

// setDefaultVariantTx performs the four default-variant writes inside an
// already-open transaction.
func setDefaultVariantTx(tx *gorm.DB, product *models.Product, variant *models.ProductVariant) error {
	if err := tx.Model(&models.ProductVariant{}).
		Where("product_id = ? AND id <> ?", product.ID, variant.ID).
		Update("is_default", false).Error; err != nil {
		return err
	}
	if err := tx.Model(variant).Update("is_default", true).Error; err != nil {
		return err
	}
	return tx.Model(product).Updates(map[string]interface{}{
		"default_variant_id": variant.ID,
		"price":              variant.Price,
	}).Error
}

// CreateVariant adds a variant to a product. A variant flagged as default
// while another default exists is rejected; the first variant of a product
// becomes its default automatically so the product price always tracks a
// variant once variants exist.
func CreateVariant(db *gorm.DB, productID uint, input VariantInput) (*models.ProductVariant, error) {
	var created models.ProductVariant
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var defaults int64
		if err := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND is_default = ?", product.ID, true).
			Count(&defaults).Error; err != nil {
			return err
		}
		if input.IsDefault && defaults > 0 {
			return ErrDuplicateDefaultVariant
		}

		created = models.ProductVariant{
			ProductID: product.ID,
			Name:      input.Name,
			Price:     input.Price,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		// First variant, or explicitly requested: promote it.
		if input.IsDefault || defaults == 0 {
			return setDefaultVariantTx(tx, &product, &created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateVariant changes a variant's name/price. If the variant is the current
// default, the product price is kept in sync. Flagging a non-default variant
// as default is rejected while another default exists; reassignment goes
// through SetDefaultVariant. With no current default the flag promotes the
// variant.
func UpdateVariant(db *gorm.DB, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		promote := false
		if input.IsDefault && !variant.IsDefault {
			var defaults int64
			if err := tx.Model(&models.ProductVariant{}).
				Where("product_id = ? AND is_default = ?", variant.ProductID, true).
				Count(&defaults).Error; err != nil {
				return err
			}
			if defaults > 0 {
				return ErrDuplicateDefaultVariant
			}
			// The product has no default; this update claims the slot.
			promote = true
		}

		variant.Name = input.Name
		variant.Price = input.Price
		if err := tx.Save(&variant).Error; err != nil {
			return err
		}

		if promote {
			var product models.Product
			if err := tx.First(&product, variant.ProductID).Error; err != nil {
				return err
			}
			if err := setDefaultVariantTx(tx, &product, &variant); err != nil {
				return err
			}
			variant.IsDefault = true
			return nil
		}

		if variant.IsDefault {
			return tx.Model(&models.Product{}).
				Where("id = ?", variant.ProductID).
				Update("price", variant.Price).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DeleteVariant removes a variant. When the default variant is deleted, the
// remaining variant with the lowest id is promoted in the same transaction;
// with no survivors the product keeps its last known price and the default
// reference becomes null.
func DeleteVariant(db *gorm.DB, variantID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if err := tx.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		// Carts referencing the variant lose the line; snapshotted order
		// items keep their copy (variant_id goes null at the DB level).
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		wasDefault := variant.IsDefault
		productID := variant.ProductID

		if wasDefault {
			// Detach the product reference before the row disappears.
			if err := tx.Model(&models.Product{}).
				Where("id = ?", productID).
				Update("default_variant_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&variant).Error; err != nil {
			return err
		}

		if !wasDefault {
			return nil
		}

		var next models.ProductVariant
		err := tx.Where("product_id = ?", productID).Order("id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // no variants left, price stays at last known value
		}
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}
		return setDefaultVariantTx(tx, &product, &next)
	})
}

// -------- Handlers --------

// POST /admin/products/:id/variants
func CreateVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		variant, err := CreateVariant(db, uint(productID), input)
		if err != nil {
			c.JSON(variantErrStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, variant)
	}
}

// PUT /admin/variants/:id
func UpdateVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant id"})
			return
		}
		var input VariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		variant, err := UpdateVariant(db, uint(variantID), input)
		if err != nil {
			c.JSON(variantErrStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variant)
	}
}

// PUT /admin/products/:id/default-variant/:variantID
func SetDefaultVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err1 := strconv.ParseUint(c.Param("id"), 10, 64)
		variantID, err2 := strconv.ParseUint(c.Param("variantID"), 10, 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
			return
		}
		if err := SetDefaultVariant(db, uint(productID), uint(variantID)); err != nil {
			c.JSON(variantErrStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default variant updated"})
	}
}

// DELETE /admin/variants/:id
func DeleteVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant id"})
			return
		}
		if err := DeleteVariant(db, uint(variantID)); err != nil {
			c.JSON(variantErrStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Variant deleted"})
	}
}

func variantErrStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidVariantOwner), errors.Is(err, ErrDuplicateDefaultVariant):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
