package auth

import (
	"errors"
	"strings"

	"lunchvote-backend/internal/config"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Name     string          `json:"name" validate:"required,max=50"`
	Surname  string          `json:"surname" validate:"max=50"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=employee restaurant_admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Surname   string          `json:"surname"`
	Role      models.UserRole `json:"role"`
	CreatedAt string          `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Surname:   u.Surname,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)
		body.Surname = strings.TrimSpace(body.Surname)
		if body.Role == "" {
			body.Role = models.RoleEmployee
		}

		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Email, name and a password of at least 6 characters are required")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Email:        body.Email,
			Name:         body.Name,
			Surname:      body.Surname,
			PasswordHash: string(hash),
			Role:         body.Role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Email is already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(NewUserResponse(&user))
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
		}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}

		access, err := GenerateAccessToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}
		refresh, err := GenerateRefreshToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"access":  access,
			"refresh": refresh,
			"user":    NewUserResponse(&user),
		})
	}
}

// RefreshHandler exchanges a valid, non-blacklisted refresh token for a new
// access token.
func RefreshHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Refresh == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Refresh token is required")
		}

		claims, err := ParseToken(cfg.JWTSecret, body.Refresh)
		if err != nil || claims.TokenType != TokenTypeRefresh {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired refresh token")
		}

		var revoked int64
		database.DB.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked)
		if revoked > 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired refresh token")
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired refresh token")
		}

		access, err := GenerateAccessToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{"access": access})
	}
}

// LogoutHandler blacklists the presented refresh token.
func LogoutHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Refresh == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Refresh token is required")
		}

		claims, err := ParseToken(cfg.JWTSecret, body.Refresh)
		if err != nil || claims.TokenType != TokenTypeRefresh {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired refresh token")
		}

		revoked := models.RevokedToken{
			JTI:       claims.ID,
			UserID:    claims.UserID,
			ExpiresAt: claims.ExpiresAt.Time,
		}
		if err := database.DB.Create(&revoked).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired refresh token")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not revoke token")
		}

		return c.SendStatus(fiber.StatusResetContent)
	}
}

func ProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(NewUserResponse(&user))
	}
}
