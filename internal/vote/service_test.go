package vote_test

import (
	"errors"
	"testing"

	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/testutil"
	"lunchvote-backend/internal/vote"

	"gorm.io/gorm"
)

func TestCast(t *testing.T) {
	db := testutil.SetupDB(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	voter := testutil.CreateUser(t, models.RoleEmployee)
	restaurant := testutil.CreateRestaurant(t, owner)
	menu := testutil.CreateMenu(t, restaurant, "2025-03-01", models.MenuItems{"Soup": 5})

	v, err := vote.Cast(db, voter.ID, menu.ID)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if v.UserID != voter.ID || v.MenuID != menu.ID {
		t.Errorf("Cast recorded (%d, %d), want (%d, %d)", v.UserID, v.MenuID, voter.ID, menu.ID)
	}

	// Second attempt is rejected and the ledger stays at one row.
	if _, err := vote.Cast(db, voter.ID, menu.ID); !errors.Is(err, vote.ErrAlreadyVoted) {
		t.Errorf("Second Cast returned %v, want ErrAlreadyVoted", err)
	}

	var count int64
	db.Model(&models.Vote{}).Where("user_id = ? AND menu_id = ?", voter.ID, menu.ID).Count(&count)
	if count != 1 {
		t.Errorf("Vote count = %d, want 1", count)
	}
}

func TestCastMenuNotFound(t *testing.T) {
	db := testutil.SetupDB(t)

	voter := testutil.CreateUser(t, models.RoleEmployee)
	if _, err := vote.Cast(db, voter.ID, 9999); !errors.Is(err, vote.ErrMenuNotFound) {
		t.Errorf("Cast returned %v, want ErrMenuNotFound", err)
	}
}

// The unique index is the authoritative guard when concurrent requests slip
// past the pre-check.
func TestVoteUniqueConstraint(t *testing.T) {
	db := testutil.SetupDB(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	voter := testutil.CreateUser(t, models.RoleEmployee)
	restaurant := testutil.CreateRestaurant(t, owner)
	menu := testutil.CreateMenu(t, restaurant, "2025-03-01", models.MenuItems{"Soup": 5})

	if err := db.Create(&models.Vote{UserID: voter.ID, MenuID: menu.ID}).Error; err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := db.Create(&models.Vote{UserID: voter.ID, MenuID: menu.ID}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Second insert returned %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestResults(t *testing.T) {
	db := testutil.SetupDB(t)

	ownerA := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	ownerB := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	ownerC := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	restaurantA := testutil.CreateRestaurant(t, ownerA)
	restaurantB := testutil.CreateRestaurant(t, ownerB)
	restaurantC := testutil.CreateRestaurant(t, ownerC)

	menuA := testutil.CreateMenu(t, restaurantA, "2025-03-01", models.MenuItems{"Soup": 5})
	menuB := testutil.CreateMenu(t, restaurantB, "2025-03-01", models.MenuItems{"Burger": 12})
	menuC := testutil.CreateMenu(t, restaurantC, "2025-03-01", models.MenuItems{"Salad": 6})
	// A menu on another day must not appear in the tally.
	testutil.CreateMenu(t, restaurantA, "2025-03-02", models.MenuItems{"Stew": 8})

	voters := make([]*models.User, 3)
	for i := range voters {
		voters[i] = testutil.CreateUser(t, models.RoleEmployee)
	}

	// menuB gets 2 votes, menuA gets 1, menuC none.
	for _, v := range []struct {
		userID uint
		menuID uint
	}{
		{voters[0].ID, menuB.ID},
		{voters[1].ID, menuB.ID},
		{voters[2].ID, menuA.ID},
	} {
		if _, err := vote.Cast(db, v.userID, v.menuID); err != nil {
			t.Fatalf("Cast failed: %v", err)
		}
	}

	results, err := vote.Results(db, menuA.Date)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Results returned %d entries, want 3 (zero-vote menus included)", len(results))
	}

	want := []vote.Result{
		{Restaurant: restaurantB.Name, MenuID: menuB.ID, Votes: 2},
		{Restaurant: restaurantA.Name, MenuID: menuA.ID, Votes: 1},
		{Restaurant: restaurantC.Name, MenuID: menuC.ID, Votes: 0},
	}
	for i, w := range want {
		if results[i] != w {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], w)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].Votes > results[i-1].Votes {
			t.Errorf("Results are not non-increasing at index %d", i)
		}
	}
}

// Equal vote counts are ordered by menu id ascending so the output is
// reproducible.
func TestResultsTieBreak(t *testing.T) {
	db := testutil.SetupDB(t)

	ownerA := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	ownerB := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	restaurantA := testutil.CreateRestaurant(t, ownerA)
	restaurantB := testutil.CreateRestaurant(t, ownerB)

	menuA := testutil.CreateMenu(t, restaurantA, "2025-03-01", models.MenuItems{"Soup": 5})
	menuB := testutil.CreateMenu(t, restaurantB, "2025-03-01", models.MenuItems{"Burger": 12})

	voterA := testutil.CreateUser(t, models.RoleEmployee)
	voterB := testutil.CreateUser(t, models.RoleEmployee)
	if _, err := vote.Cast(db, voterA.ID, menuA.ID); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if _, err := vote.Cast(db, voterB.ID, menuB.ID); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	results, err := vote.Results(db, menuA.Date)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Results returned %d entries, want 2", len(results))
	}
	if results[0].MenuID != menuA.ID || results[1].MenuID != menuB.ID {
		t.Errorf("Tied results ordered (%d, %d), want menu id ascending (%d, %d)",
			results[0].MenuID, results[1].MenuID, menuA.ID, menuB.ID)
	}
}

func TestResultsEmptyDay(t *testing.T) {
	db := testutil.SetupDB(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	restaurant := testutil.CreateRestaurant(t, owner)
	menu := testutil.CreateMenu(t, restaurant, "2025-03-01", models.MenuItems{"Soup": 5})

	// Another day with no menus at all.
	results, err := vote.Results(db, menu.Date.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Results returned %d entries for an empty day, want 0", len(results))
	}
}
