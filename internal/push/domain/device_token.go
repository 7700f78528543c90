package domain

import "time"

// DeviceToken is a push token registered by a user's device.
// At most one row exists per (user_id, token); disabling is the only removal.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_device_tokens_user_token,priority:1"`
	Token     string    `json:"-" gorm:"not null;uniqueIndex:idx_device_tokens_user_token,priority:2"` // Don't expose token in JSON
	Platform  string    `json:"platform" gorm:"size:20;default:mobile"`
	Enabled   bool      `json:"enabled" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	PlatformMobile = "mobile"
	PlatformWeb    = "web"
)
