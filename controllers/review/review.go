package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
	"github.com/othmane-chaikhi/AmodgreenStore/notify"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewInput struct {
	Author  string `json:"author" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Rating  int    `json:"rating" binding:"required"`
	Image   string `json:"image"`
}

// CreateReview stores a product review. New reviews are visible immediately;
// moderation can hide them afterwards.
func CreateReview(db *gorm.DB, productID uint, input ReviewInput) (*models.CommunityPost, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	post := models.CommunityPost{
		Author:     input.Author,
		ProductID:  product.ID,
		Title:      input.Title,
		Content:    input.Content,
		Rating:     input.Rating,
		Image:      input.Image,
		IsApproved: true,
	}
	if err := db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SetApproval toggles moderation on a review.
func SetApproval(db *gorm.DB, reviewID uint, approved bool) error {
	result := db.Model(&models.CommunityPost{}).Where("id = ?", reviewID).Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// -------- Handlers --------

// GET /products/:id/reviews
func ListReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		const pageSize = 10

		var reviews []models.CommunityPost
		if err := db.Where("product_id = ? AND is_approved = ?", productID, true).
			Order("created_at DESC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": page, "reviews": reviews})
	}
}

// POST /products/:id/reviews
func CreateReviewHandler(db *gorm.DB, dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		post, err := CreateReview(db, uint(productID), input)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			case errors.Is(err, ErrInvalidRating):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			}
			return
		}

		// Same post-commit contract as orders: best-effort, never blocking.
		dispatcher.NotifyReview(post)

		c.JSON(http.StatusCreated, post)
	}
}

// PUT /admin/reviews/:id/approval
func SetApprovalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
			return
		}
		var req struct {
			Approved *bool `json:"approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := SetApproval(db, uint(reviewID), *req.Approved); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review updated"})
	}
}
