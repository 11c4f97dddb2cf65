package catalogControllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

// DeleteProduct removes a product and cascades to its variants, images and
// any cart items referencing those variants, all in one transaction.
// Snapshotted order items are kept (their variant reference goes null).
// Stored image files are removed after commit, best-effort.
func DeleteProduct(db *gorm.DB, productID uint) error {
	var filePaths []string

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Preload("Images").Preload("Variants").First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if product.Image != "" {
			filePaths = append(filePaths, product.Image)
		}
		for _, img := range product.Images {
			filePaths = append(filePaths, img.Path)
		}

		var variantIDs []uint
		for _, v := range product.Variants {
			variantIDs = append(variantIDs, v.ID)
		}

		if len(variantIDs) > 0 {
			if err := tx.Where("variant_id IN ?", variantIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			// Order items keep the snapshot; only the live reference is cut.
			if err := tx.Model(&models.OrderItem{}).
				Where("variant_id IN ?", variantIDs).
				Update("variant_id", nil).Error; err != nil {
				return err
			}
		}

		// Clear the self-reference before dropping the variants.
		if err := tx.Model(&product).Update("default_variant_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CommunityPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return err
	}

	removeUploadFiles(filePaths)
	return nil
}

// removeUploadFiles maps public /uploads URLs back to disk paths and removes
// them. Failures are ignored; the rows are already gone.
func removeUploadFiles(urls []string) {
	for _, url := range urls {
		rel := strings.TrimPrefix(url, "/uploads/")
		if rel == url || rel == "" {
			continue // not a managed upload
		}
		_ = os.Remove(filepath.Join(UploadsDir(), rel))
	}
}

// DELETE /admin/products/:id
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		if err := DeleteProduct(db, uint(id)); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
