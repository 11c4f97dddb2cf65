package models

import (
	"time"

	"gorm.io/gorm"
)

// SiteConfig is a single-row record (pk=1) holding site-wide notification
// credentials. Environment variables take precedence over it, see notify.
type SiteConfig struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TelegramBotToken string    `json:"telegram_bot_token"`
	TelegramChatID   string    `json:"telegram_chat_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GetSiteConfig fetches the well-known config row, creating it empty on first
// access.
func GetSiteConfig(db *gorm.DB) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := db.First(&cfg, 1).Error; err == nil {
		return &cfg, nil
	}
	cfg = SiteConfig{ID: 1}
	if err := db.Create(&cfg).Error; err != nil {
		// Lost a concurrent create; the row exists now.
		if err2 := db.First(&cfg, 1).Error; err2 == nil {
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}
