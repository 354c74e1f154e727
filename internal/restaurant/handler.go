package restaurant

import (
	"errors"
	"strings"

	"lunchvote-backend/internal/audit"
	"lunchvote-backend/internal/auth"
	"lunchvote-backend/internal/authz"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmployeeResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type RestaurantResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	OwnerID   uint               `json:"owner_id"`
	Employees []EmployeeResponse `json:"employees"`
	CreatedAt string             `json:"created_at"`
}

type CreateRestaurantRequest struct {
	Name string `json:"name"`
}

type UpdateRestaurantRequest struct {
	Name *string `json:"name"`
}

type AddEmployeeRequest struct {
	EmployeeID uint `json:"employee_id"`
}

func newRestaurantResponse(r *models.Restaurant) RestaurantResponse {
	employees := make([]EmployeeResponse, 0, len(r.Employees))
	for _, e := range r.Employees {
		employees = append(employees, EmployeeResponse{
			ID:      e.ID,
			Email:   e.Email,
			Name:    e.Name,
			Surname: e.Surname,
		})
	}
	return RestaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		OwnerID:   r.OwnerID,
		Employees: employees,
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// loadRestaurant resolves the :id path param. ownerOnly additionally enforces
// the ownership gate before any mutation happens.
func loadRestaurant(c *fiber.Ctx, ownerOnly bool) (*models.Restaurant, uint, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return nil, 0, err
	}

	var restaurant models.Restaurant
	if err := database.DB.Preload("Employees").First(&restaurant, "id = ?", c.Params("id")).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusNotFound, "Restaurant not found")
	}

	if ownerOnly && !authz.IsRestaurantOwner(userID, &restaurant) {
		return nil, 0, fiber.NewError(fiber.StatusForbidden, "Only the restaurant owner can perform this action")
	}

	return &restaurant, userID, nil
}

func userEmail(userID uint) string {
	var user models.User
	if err := database.DB.Select("email").First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Email
}

func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurants []models.Restaurant
		if err := database.DB.Preload("Employees").Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list restaurants")
		}

		res := make([]RestaurantResponse, 0, len(restaurants))
		for i := range restaurants {
			res = append(res, newRestaurantResponse(&restaurants[i]))
		}
		return c.JSON(res)
	}
}

// CreateRestaurantHandler registers the acting restaurant_admin as owner.
// Route-level RequireRole keeps employees out.
func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Restaurant name cannot be empty")
		}

		restaurant := models.Restaurant{
			Name:    body.Name,
			OwnerID: userID,
		}
		if err := database.DB.Create(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Restaurant name is already taken")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create restaurant")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionCreate,
			Description: "Restaurant created: " + restaurant.Name,
			After:       newRestaurantResponse(&restaurant),
		})

		return c.Status(fiber.StatusCreated).JSON(newRestaurantResponse(&restaurant))
	}
}

func GetRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, _, err := loadRestaurant(c, false)
		if err != nil {
			return err
		}
		return c.JSON(newRestaurantResponse(restaurant))
	}
}

func UpdateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, userID, err := loadRestaurant(c, true)
		if err != nil {
			return err
		}

		var body UpdateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := newRestaurantResponse(restaurant)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Restaurant name cannot be empty")
			}
			restaurant.Name = name
		}

		if err := database.DB.Save(restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Restaurant name is already taken")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update restaurant")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionUpdate,
			Description: "Restaurant updated: " + restaurant.Name,
			Before:      before,
			After:       newRestaurantResponse(restaurant),
		})

		return c.JSON(newRestaurantResponse(restaurant))
	}
}

// DeleteRestaurantHandler removes the restaurant together with its menus,
// their votes and the employee memberships, all in one transaction.
func DeleteRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, userID, err := loadRestaurant(c, true)
		if err != nil {
			return err
		}

		before := newRestaurantResponse(restaurant)

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			menuIDs := tx.Model(&models.Menu{}).Select("id").Where("restaurant_id = ?", restaurant.ID)
			if err := tx.Where("menu_id IN (?)", menuIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Menu{}).Error; err != nil {
				return err
			}
			if err := tx.Model(restaurant).Association("Employees").Clear(); err != nil {
				return err
			}
			return tx.Delete(restaurant).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete restaurant")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "restaurant",
			EntityID:    restaurant.ID,
			Action:      models.AuditActionDelete,
			Description: "Restaurant deleted: " + restaurant.Name,
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddEmployeeHandler appends a user with role=employee to the restaurant's
// employee set. The join table's composite primary key keeps the set free of
// duplicates even when two identical requests race.
func AddEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurant, userID, err := loadRestaurant(c, true)
		if err != nil {
			return err
		}

		var body AddEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var employee models.User
		err = database.DB.
			Where("id = ? AND role = ?", body.EmployeeID, models.RoleEmployee).
			First(&employee).Error
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid employee ID or user is not an employee.")
		}

		var member int64
		database.DB.Table("restaurant_employees").
			Where("restaurant_id = ? AND user_id = ?", restaurant.ID, employee.ID).
			Count(&member)
		if member > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Employee is already added.")
		}

		if err := database.DB.Model(restaurant).Association("Employees").Append(&employee); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Employee is already added.")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add employee")
		}

		audit.Record(audit.LogOptions{
			UserID:      userID,
			UserEmail:   userEmail(userID),
			EntityType:  "employee",
			EntityID:    employee.ID,
			Action:      models.AuditActionCreate,
			Description: "Employee " + employee.Email + " added to " + restaurant.Name,
		})

		// reload so the response reflects the stored membership set
		if err := database.DB.Preload("Employees").First(restaurant, restaurant.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load restaurant")
		}

		return c.JSON(newRestaurantResponse(restaurant))
	}
}
