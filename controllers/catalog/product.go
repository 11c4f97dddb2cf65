package catalogControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

// UploadsDir resolves the directory product/review images are stored under.
func UploadsDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

type ProductInput struct {
	Name          string         `json:"name"`
	NameAr        string         `json:"name_ar"`
	Description   string         `json:"description"`
	DescriptionAr string         `json:"description_ar"`
	Ingredients   string         `json:"ingredients"`
	IngredientsAr string         `json:"ingredients_ar"`
	CategoryID    uint           `json:"category_id"`
	IsAvailable   *bool          `json:"is_available"`
	Variants      []VariantInput `json:"variants"`
	DefaultIndex  *int           `json:"default_variant_index"`
}

// CreateProduct creates a product with its variants in one transaction. The
// chosen default variant (by index, or the first one) gets the default flag
// and its price is mirrored onto the product.
func CreateProduct(db *gorm.DB, input ProductInput, imageURL string, extraImages []string) (*models.Product, error) {
	if input.Name == "" || input.CategoryID == 0 {
		return nil, errors.New("name and category_id are required")
	}
	if len(input.Variants) == 0 {
		return nil, errors.New("at least one variant is required")
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	defaultIdx := 0
	if input.DefaultIndex != nil {
		if *input.DefaultIndex < 0 || *input.DefaultIndex >= len(input.Variants) {
			return nil, errors.New("default_variant_index out of range")
		}
		defaultIdx = *input.DefaultIndex
	}

	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		product = models.Product{
			Name:          input.Name,
			NameAr:        input.NameAr,
			Description:   input.Description,
			DescriptionAr: input.DescriptionAr,
			Ingredients:   input.Ingredients,
			IngredientsAr: input.IngredientsAr,
			Price:         input.Variants[defaultIdx].Price,
			Image:         imageURL,
			CategoryID:    category.ID,
			IsAvailable:   available,
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		for i, v := range input.Variants {
			variant := models.ProductVariant{
				ProductID: product.ID,
				Name:      v.Name,
				Price:     v.Price,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			if i == defaultIdx {
				if err := setDefaultVariantTx(tx, &product, &variant); err != nil {
					return err
				}
			}
		}

		for _, path := range extraImages {
			img := models.ProductImage{ProductID: product.ID, Path: path, UploadedAt: time.Now()}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadProduct(db, product.ID)
}

func loadProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	err := db.Preload("Variants").Preload("Images").Preload("Category").Preload("DefaultVariant").
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// RatingSummary aggregates approved, rated reviews of a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func ProductRating(db *gorm.DB, productID uint) (RatingSummary, error) {
	var summary RatingSummary
	row := db.Model(&models.CommunityPost{}).
		Where("product_id = ? AND is_approved = ? AND rating > 0", productID, true).
		Select("COALESCE(AVG(rating), 0), COUNT(*)").Row()
	if err := row.Scan(&summary.Average, &summary.Count); err != nil {
		return summary, err
	}
	return summary, nil
}

// -------- Handlers --------

// GET /products?category=&search=&page=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).
			Where("is_available = ?", true).
			Preload("Variants").Preload("Category").Preload("DefaultVariant")

		if categoryID := c.Query("category"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("name LIKE ? OR description LIKE ? OR name_ar LIKE ?", like, like, like)
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		const pageSize = 12

		var products []models.Product
		if err := query.Order("created_at DESC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": page, "products": products})
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		product, err := loadProduct(db, uint(id))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		rating, _ := ProductRating(db, product.ID)
		c.JSON(http.StatusOK, gin.H{"product": product, "rating": rating})
	}
}

// POST /admin/products  (multipart: fields + image + images)
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := json.Unmarshal([]byte(c.PostForm("product")), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload: " + err.Error()})
			return
		}

		imageURL, err := saveUpload(c, "image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var extra []string
		if form, err := c.MultipartForm(); err == nil {
			for _, file := range form.File["images"] {
				path, err := saveUploadFile(c, file)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				extra = append(extra, path)
			}
		}

		product, err := CreateProduct(db, input, imageURL, extra)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, models.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != "" {
			product.Name = input.Name
		}
		product.NameAr = input.NameAr
		product.Description = input.Description
		product.DescriptionAr = input.DescriptionAr
		product.Ingredients = input.Ingredients
		product.IngredientsAr = input.IngredientsAr
		if input.CategoryID != 0 {
			product.CategoryID = input.CategoryID
		}
		if input.IsAvailable != nil {
			product.IsAvailable = *input.IsAvailable
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		updated, _ := loadProduct(db, product.ID)
		c.JSON(http.StatusOK, updated)
	}
}

func saveUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%s file is required", field)
	}
	return saveUploadFile(c, file)
}

func saveUploadFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	filename := strings.ReplaceAll(file.Filename, " ", "_")
	saveDir := filepath.Join(UploadsDir(), "products")
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}
	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return "/uploads/products/" + filename, nil
}
