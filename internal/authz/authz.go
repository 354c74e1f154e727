// Package authz holds the capability predicates that gate every mutation.
// Each predicate takes the acting identity explicitly; there is no hidden
// request state. A false result means the caller must reject with forbidden
// before touching the store.
package authz

import (
	"lunchvote-backend/internal/models"

	"gorm.io/gorm"
)

func IsAdmin(user *models.User) bool {
	return user.Role == models.RoleRestaurantAdmin
}

func IsEmployee(user *models.User) bool {
	return user.Role == models.RoleEmployee
}

func IsRestaurantOwner(userID uint, restaurant *models.Restaurant) bool {
	return restaurant.OwnerID == userID
}

// IsMenuOwner delegates to the menu's parent restaurant; ownership is never
// stored redundantly on the menu itself.
func IsMenuOwner(db *gorm.DB, userID uint, menu *models.Menu) (bool, error) {
	var restaurant models.Restaurant
	if err := db.Select("id", "owner_id").First(&restaurant, menu.RestaurantID).Error; err != nil {
		return false, err
	}
	return IsRestaurantOwner(userID, &restaurant), nil
}

// HasNotVoted reports whether no vote exists for (user, menu). It is a
// pre-check only; the unique index on votes is the concurrent-safe guard.
func HasNotVoted(db *gorm.DB, userID, menuID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Vote{}).
		Where("user_id = ? AND menu_id = ?", userID, menuID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
