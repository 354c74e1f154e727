package models

import "time"

// Vote records that a user voted for a menu. The composite unique index is the
// authoritative one-vote-per-user-per-menu guard under concurrent requests;
// handler-level pre-checks only exist for friendlier error messages.
type Vote struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_votes_user_menu"`
	User      User
	MenuID    uint `gorm:"not null;uniqueIndex:idx_votes_user_menu"`
	Menu      Menu
	CreatedAt time.Time
}
