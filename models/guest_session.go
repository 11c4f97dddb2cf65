package models

import "time"

// GuestSession backs anonymous cart identity. The session key is stable for
// the browser session until it expires.
type GuestSession struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
