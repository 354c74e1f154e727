package models

import "time"

type UserRole string

const (
	RoleEmployee        UserRole = "employee"
	RoleRestaurantAdmin UserRole = "restaurant_admin"
)

// Role is fixed at registration; there is no elevation flow.
type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Name         string   `gorm:"size:50;not null"`
	Surname      string   `gorm:"size:50"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:'employee'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
