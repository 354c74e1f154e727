package vote

import (
	"errors"
	"time"

	"lunchvote-backend/internal/audit"
	"lunchvote-backend/internal/auth"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CastVoteRequest struct {
	Menu uint `json:"menu"`
}

type VoteResponse struct {
	ID        uint   `json:"id"`
	Menu      uint   `json:"menu"`
	CreatedAt string `json:"created_at"`
}

func CastVoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CastVoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Menu == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menu is required")
		}

		vote, err := Cast(database.DB, userID, body.Menu)
		if err != nil {
			if errors.Is(err, ErrMenuNotFound) || errors.Is(err, ErrAlreadyVoted) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not cast vote")
		}

		audit.Record(audit.LogOptions{
			UserID:     userID,
			EntityType: "vote",
			EntityID:   vote.ID,
			Action:     models.AuditActionCreate,
		})

		return c.Status(fiber.StatusCreated).JSON(VoteResponse{
			ID:        vote.ID,
			Menu:      vote.MenuID,
			CreatedAt: vote.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/votes/results?date=2025-03-01 — date defaults to today.
func ResultsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := time.Now()
		if dateStr := c.Query("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			}
			date = parsed
		}

		results, err := Results(database.DB, date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load voting results")
		}

		return c.JSON(results)
	}
}
