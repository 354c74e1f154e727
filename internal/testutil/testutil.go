// Package testutil provides the shared test database, app construction and
// fixture helpers used by the handler and service tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"lunchvote-backend/internal/auth"
	"lunchvote-backend/internal/config"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/router"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TestPassword = "testpass123"

// Config returns a config suitable for tests, bypassing the env checks in
// config.Load.
func Config() *config.Config {
	return &config.Config{
		HTTPPort:    "8080",
		JWTSecret:   "test-secret-test-secret-test-secret!",
		CORSOrigins: "http://localhost:5173",
	}
}

// SetupDB points database.DB at a fresh SQLite file for the duration of the
// test. TranslateError is on, matching the production Postgres setup, so
// unique violations surface as gorm.ErrDuplicatedKey in both.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewApp returns a Fiber app wired to a fresh test database.
func NewApp(t *testing.T) *fiber.App {
	t.Helper()
	SetupDB(t)
	return router.New(Config())
}

var userSeq int

func CreateUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()

	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		Name:         fmt.Sprintf("User%d", userSeq),
		Surname:      "Test",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

var restaurantSeq int

func CreateRestaurant(t *testing.T, owner *models.User) *models.Restaurant {
	t.Helper()

	restaurantSeq++
	restaurant := models.Restaurant{
		Name:    fmt.Sprintf("Restaurant %d", restaurantSeq),
		OwnerID: owner.ID,
	}
	if err := database.DB.Create(&restaurant).Error; err != nil {
		t.Fatalf("Failed to create test restaurant: %v", err)
	}
	return &restaurant
}

func AddEmployee(t *testing.T, restaurant *models.Restaurant, employee *models.User) {
	t.Helper()
	if err := database.DB.Model(restaurant).Association("Employees").Append(employee); err != nil {
		t.Fatalf("Failed to add employee: %v", err)
	}
}

func CreateMenu(t *testing.T, restaurant *models.Restaurant, date string, items models.MenuItems) *models.Menu {
	t.Helper()

	parsed, err := parseDate(date)
	if err != nil {
		t.Fatalf("Bad menu date %q: %v", date, err)
	}
	menu := models.Menu{
		RestaurantID: restaurant.ID,
		Date:         parsed,
		Items:        items,
	}
	if err := database.DB.Create(&menu).Error; err != nil {
		t.Fatalf("Failed to create test menu: %v", err)
	}
	return &menu
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return models.DateOnly(t), nil
}

func AccessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(Config().JWTSecret, user)
	if err != nil {
		t.Fatalf("Failed to generate access token: %v", err)
	}
	return token
}

func RefreshToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateRefreshToken(Config().JWTSecret, user)
	if err != nil {
		t.Fatalf("Failed to generate refresh token: %v", err)
	}
	return token
}

// DoJSON performs a request against the app. token may be empty for public
// endpoints; body may be nil.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	return resp
}

func DecodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
