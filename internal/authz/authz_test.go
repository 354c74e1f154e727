package authz_test

import (
	"testing"

	"lunchvote-backend/internal/authz"
	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/testutil"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name       string
		role       models.UserRole
		isAdmin    bool
		isEmployee bool
	}{
		{name: "restaurant admin", role: models.RoleRestaurantAdmin, isAdmin: true, isEmployee: false},
		{name: "employee", role: models.RoleEmployee, isAdmin: false, isEmployee: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{Role: tt.role}
			if got := authz.IsAdmin(user); got != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.isAdmin)
			}
			if got := authz.IsEmployee(user); got != tt.isEmployee {
				t.Errorf("IsEmployee() = %v, want %v", got, tt.isEmployee)
			}
		})
	}
}

func TestIsRestaurantOwner(t *testing.T) {
	restaurant := &models.Restaurant{OwnerID: 7}

	if !authz.IsRestaurantOwner(7, restaurant) {
		t.Error("Expected owner to pass the ownership check")
	}
	if authz.IsRestaurantOwner(8, restaurant) {
		t.Error("Expected non-owner to fail the ownership check")
	}
}

// Menu ownership must always agree with ownership of the menu's parent
// restaurant.
func TestIsMenuOwnerTransitivity(t *testing.T) {
	db := testutil.SetupDB(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	other := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	restaurant := testutil.CreateRestaurant(t, owner)
	menu := testutil.CreateMenu(t, restaurant, "2025-03-01", models.MenuItems{"Soup": 5})

	for _, user := range []*models.User{owner, other} {
		gotMenu, err := authz.IsMenuOwner(db, user.ID, menu)
		if err != nil {
			t.Fatalf("IsMenuOwner failed: %v", err)
		}
		gotRestaurant := authz.IsRestaurantOwner(user.ID, restaurant)
		if gotMenu != gotRestaurant {
			t.Errorf("IsMenuOwner(user %d) = %v, IsRestaurantOwner = %v, want equal", user.ID, gotMenu, gotRestaurant)
		}
	}
}

func TestHasNotVoted(t *testing.T) {
	db := testutil.SetupDB(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	voter := testutil.CreateUser(t, models.RoleEmployee)
	restaurant := testutil.CreateRestaurant(t, owner)
	menu := testutil.CreateMenu(t, restaurant, "2025-03-01", models.MenuItems{"Soup": 5})

	notVoted, err := authz.HasNotVoted(db, voter.ID, menu.ID)
	if err != nil {
		t.Fatalf("HasNotVoted failed: %v", err)
	}
	if !notVoted {
		t.Error("Expected HasNotVoted to be true before any vote")
	}

	if err := db.Create(&models.Vote{UserID: voter.ID, MenuID: menu.ID}).Error; err != nil {
		t.Fatalf("Failed to create vote: %v", err)
	}

	notVoted, err = authz.HasNotVoted(db, voter.ID, menu.ID)
	if err != nil {
		t.Fatalf("HasNotVoted failed: %v", err)
	}
	if notVoted {
		t.Error("Expected HasNotVoted to be false after voting")
	}
}
