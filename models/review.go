package models

import "time"

// CommunityPost is a product review. Only approved posts with a rating feed
// the product rating aggregates.
type CommunityPost struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Author     string    `gorm:"not null" json:"author"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `json:"content"`
	Rating     int       `gorm:"not null" json:"rating"` // 1..5
	Image      string    `json:"image"`
	IsApproved bool      `gorm:"default:true" json:"is_approved"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
