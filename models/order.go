package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // order placed, awaiting contact
	OrderStatusContacted OrderStatus = "contacted" // customer reached by phone/WhatsApp
	OrderStatusConfirmed OrderStatus = "confirmed" // confirmed by the customer
	OrderStatusDelivered OrderStatus = "delivered" // customer received the goods
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before confirmation
)

type Order struct {
	ID                    uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName              string      `gorm:"not null" json:"full_name"`
	Phone                 string      `gorm:"not null" json:"phone"`
	City                  string      `json:"city"`
	Address               string      `json:"address"`
	Notes                 string      `json:"notes"`
	Status                OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	IsDeleted             bool        `gorm:"default:false;index" json:"is_deleted"`
	EstimatedDeliveryDate *time.Time  `json:"estimated_delivery_date,omitempty"`
	Items                 []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt             time.Time   `gorm:"index" json:"created_at"`
}

// TotalPrice is always recomputed from the snapshotted line items, never
// cached on the order row.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderItem carries the variant price as it was at order-creation time. The
// product/variant names are denormalized so the line survives catalog edits
// and variant deletion.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	VariantID   *uint           `json:"variant_id,omitempty"`
	Variant     *ProductVariant `gorm:"foreignKey:VariantID;constraint:OnDelete:SET NULL" json:"variant,omitempty"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // snapshot, immutable
}
