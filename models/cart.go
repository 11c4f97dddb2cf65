package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one identity: an authenticated user OR an anonymous
// session, never both. The unique indexes enforce one cart per identity and
// serialize concurrent get-or-create races.
type Cart struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *string    `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"uniqueIndex" json:"session_key,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (c *Cart) IsAnonymous() bool {
	return c.UserID == nil
}

// CartItem is unique per (cart, variant); adding the same variant again
// increments Quantity instead of creating a second row.
type CartItem struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint           `gorm:"not null;uniqueIndex:idx_cart_variant" json:"cart_id"`
	VariantID uint           `gorm:"not null;uniqueIndex:idx_cart_variant" json:"variant_id"`
	Variant   ProductVariant `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"variant,omitempty"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	AddedAt   time.Time      `json:"added_at"`
}

// TotalPrice is live pricing: the current variant price times quantity. Order
// totals are snapshotted instead, see OrderItem.
func (ci *CartItem) TotalPrice() decimal.Decimal {
	return ci.Variant.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
