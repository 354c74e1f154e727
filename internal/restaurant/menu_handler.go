package restaurant

import (
	"errors"
	"time"

	"lunchvote-backend/internal/audit"
	"lunchvote-backend/internal/auth"
	"lunchvote-backend/internal/authz"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MenuResponse struct {
	ID           uint             `json:"id"`
	RestaurantID uint             `json:"restaurant_id"`
	Date         string           `json:"date"`
	Items        models.MenuItems `json:"items"`
	CreatedAt    string           `json:"created_at"`
}

type CreateMenuRequest struct {
	Date  *string          `json:"date"` // "2006-01-02" format, today when empty
	Items models.MenuItems `json:"items"`
}

type UpdateMenuRequest struct {
	Date  *string          `json:"date"`
	Items models.MenuItems `json:"items"`
}

func newMenuResponse(m *models.Menu) MenuResponse {
	return MenuResponse{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Date:         m.Date.Format("2006-01-02"),
		Items:        m.Items,
		CreatedAt:    m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseMenuDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return models.DateOnly(t), nil
}

// loadMenu resolves :menuID scoped to the :id restaurant of the path.
func loadMenu(c *fiber.Ctx) (*models.Menu, uint, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return nil, 0, err
	}

	var menu models.Menu
	err = database.DB.
		Where("id = ? AND restaurant_id = ?", c.Params("menuID"), c.Params("id")).
		First(&menu).Error
	if err != nil {
		return nil, 0, fiber.NewError(fiber.StatusNotFound, "Menu not found.")
	}

	return &menu, userID, nil
}

func requireMenuOwner(userID uint, menu *models.Menu) error {
	ok, err := authz.IsMenuOwner(database.DB, userID, menu)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not verify ownership")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Only the restaurant owner can perform this action")
	}
	return nil
}

func ListMenusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restaurant not found")
		}

		var menus []models.Menu
		if err := database.DB.Where("restaurant_id = ?", restaurant.ID).Order("date DESC").Find(&menus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menus")
		}

		res := make([]MenuResponse, 0, len(menus))
		for i := range menus {
			res = append(res, newMenuResponse(&menus[i]))
		}
		return c.JSON(res)
	}
}

// CreateMenuHandler publishes the restaurant's menu for a date. At most one
// menu may exist per restaurant per date; the unique index settles races the
// pre-check misses.
func CreateMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, userID, err := loadRestaurant(c, true)
		if err != nil {
			return err
		}

		var body CreateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Items == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Menu items are required")
		}

		date := models.DateOnly(time.Now())
		if body.Date != nil && *body.Date != "" {
			date, err = parseMenuDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			}
		}

		var existing int64
		database.DB.Model(&models.Menu{}).
			Where("restaurant_id = ? AND date = ?", restaurant.ID, date).
			Count(&existing)
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "A menu for this date already exists.")
		}

		menu := models.Menu{
			RestaurantID: restaurant.ID,
			Date:         date,
			Items:        body.Items,
		}
		if err := database.DB.Create(&menu).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "A menu for this date already exists.")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create menu")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "menu",
			EntityID:    menu.ID,
			Action:      models.AuditActionCreate,
			Description: "Menu created for " + restaurant.Name + " on " + menu.Date.Format("2006-01-02"),
			After:       newMenuResponse(&menu),
		})

		return c.Status(fiber.StatusCreated).JSON(newMenuResponse(&menu))
	}
}

func GetMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menu, _, err := loadMenu(c)
		if err != nil {
			return err
		}
		return c.JSON(newMenuResponse(menu))
	}
}

func UpdateMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menu, userID, err := loadMenu(c)
		if err != nil {
			return err
		}
		if err := requireMenuOwner(userID, menu); err != nil {
			return err
		}

		var body UpdateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := newMenuResponse(menu)

		if body.Date != nil && *body.Date != "" {
			date, err := parseMenuDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			}
			menu.Date = date
		}
		if body.Items != nil {
			menu.Items = body.Items
		}

		if err := database.DB.Save(menu).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "A menu for this date already exists.")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update menu")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "menu",
			EntityID:    menu.ID,
			Action:      models.AuditActionUpdate,
			Description: "Menu updated for " + menu.Date.Format("2006-01-02"),
			Before:      before,
			After:       newMenuResponse(menu),
		})

		return c.JSON(newMenuResponse(menu))
	}
}

func DeleteMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		menu, userID, err := loadMenu(c)
		if err != nil {
			return err
		}
		if err := requireMenuOwner(userID, menu); err != nil {
			return err
		}

		before := newMenuResponse(menu)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			return tx.Delete(menu).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete menu")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "menu",
			EntityID:    menu.ID,
			Action:      models.AuditActionDelete,
			Description: "Menu deleted for " + menu.Date.Format("2006-01-02"),
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DailyMenuHandler returns today's menu for a restaurant as a 0-or-1 element
// list. Any authenticated user may read it, membership is not required.
func DailyMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restaurant not found")
		}

		today := models.DateOnly(time.Now())
		var menus []models.Menu
		err := database.DB.
			Where("restaurant_id = ? AND date = ?", restaurant.ID, today).
			Find(&menus).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load daily menu")
		}

		res := make([]MenuResponse, 0, len(menus))
		for i := range menus {
			res = append(res, newMenuResponse(&menus[i]))
		}
		return c.JSON(res)
	}
}
