package models

import "time"

// RevokedToken blacklists a refresh token by its JTI after logout. Rows can be
// purged once ExpiresAt has passed.
type RevokedToken struct {
	ID        uint   `gorm:"primaryKey"`
	JTI       string `gorm:"column:jti;size:64;uniqueIndex;not null"`
	UserID    uint   `gorm:"not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
