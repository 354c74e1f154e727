package models

import "time"

type Restaurant struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;unique"`
	OwnerID   uint   `gorm:"not null;index"`
	Owner     User
	Employees []User `gorm:"many2many:restaurant_employees"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Menus []Menu `gorm:"constraint:OnDelete:CASCADE"`
}
