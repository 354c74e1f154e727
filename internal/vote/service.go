// Package vote implements vote casting and the daily result tally.
package vote

import (
	"errors"
	"time"

	"lunchvote-backend/internal/authz"
	"lunchvote-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMenuNotFound = errors.New("Menu not found.")
	ErrAlreadyVoted = errors.New("You have already voted for this menu.")
)

// Cast records userID's vote for menuID. The NotVoted pre-check produces the
// friendly rejection; when two requests race past it, the unique index on
// (user_id, menu_id) lets exactly one insert through and the loser is mapped
// to the same ErrAlreadyVoted.
func Cast(db *gorm.DB, userID, menuID uint) (*models.Vote, error) {
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}

	notVoted, err := authz.HasNotVoted(db, userID, menuID)
	if err != nil {
		return nil, err
	}
	if !notVoted {
		return nil, ErrAlreadyVoted
	}

	vote := models.Vote{UserID: userID, MenuID: menuID}
	if err := db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	return &vote, nil
}

type Result struct {
	Restaurant string `json:"restaurant"`
	MenuID     uint   `json:"menu_id"`
	Votes      int64  `json:"votes"`
}

// Results tallies votes per menu for the given date. Menus with zero votes are
// included. Ordered by vote count descending with menu id ascending as the
// deterministic tie-break.
func Results(db *gorm.DB, date time.Time) ([]Result, error) {
	date = models.DateOnly(date)

	var results []Result
	err := db.Table("menus").
		Select("restaurants.name AS restaurant, menus.id AS menu_id, COUNT(votes.id) AS votes").
		Joins("JOIN restaurants ON restaurants.id = menus.restaurant_id").
		Joins("LEFT JOIN votes ON votes.menu_id = menus.id").
		Where("menus.date = ?", date).
		Group("menus.id, restaurants.name").
		Order("COUNT(votes.id) DESC, menus.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = []Result{}
	}
	return results, nil
}
