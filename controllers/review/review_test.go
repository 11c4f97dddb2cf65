package reviewControllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
	"github.com/othmane-chaikhi/AmodgreenStore/testutil"
)

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	category := models.Category{Name: "Huiles " + t.Name()}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       "Huile d'Olive",
		Price:      decimal.NewFromInt(40),
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestCreateReview(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db)

	post, err := CreateReview(db, product.ID, ReviewInput{
		Author: "Yassine",
		Title:  "Excellente huile",
		Rating: 5,
	})
	require.NoError(t, err)
	assert.True(t, post.IsApproved, "new reviews are visible immediately")
	assert.Equal(t, product.ID, post.ProductID)
}

func TestCreateReviewValidation(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db)

	for _, rating := range []int{0, 6, -1} {
		_, err := CreateReview(db, product.ID, ReviewInput{Author: "A", Title: "T", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	_, err := CreateReview(db, 99999, ReviewInput{Author: "A", Title: "T", Rating: 3})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetApproval(t *testing.T) {
	db := testutil.DB(t)
	product := seedProduct(t, db)

	post, err := CreateReview(db, product.ID, ReviewInput{Author: "Sara", Title: "Bof", Rating: 2})
	require.NoError(t, err)

	require.NoError(t, SetApproval(db, post.ID, false))
	var reloaded models.CommunityPost
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.False(t, reloaded.IsApproved)

	assert.ErrorIs(t, SetApproval(db, 99999, true), models.ErrNotFound)
}
