package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	NameAr        string          `json:"name_ar"` // Arabic name
	Description   string          `json:"description"`
	DescriptionAr string          `json:"description_ar"`
	Ingredients   string          `json:"ingredients"`
	IngredientsAr string          `json:"ingredients_ar"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // mirrors the default variant's price
	Image         string          `json:"image"`                                    // main image URL
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	Category      Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	IsAvailable   bool            `gorm:"default:true" json:"is_available"`

	// DefaultVariant must belong to this product; at most one variant per
	// product carries IsDefault=true and it is always this one.
	DefaultVariantID *uint           `json:"default_variant_id"`
	DefaultVariant   *ProductVariant `gorm:"foreignKey:DefaultVariantID;constraint:OnDelete:SET NULL" json:"default_variant,omitempty"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductVariant struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_variant_name_per_product" json:"product_id"`
	Name      string          `gorm:"not null;uniqueIndex:idx_variant_name_per_product" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsDefault bool            `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Path       string    `gorm:"not null" json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}
