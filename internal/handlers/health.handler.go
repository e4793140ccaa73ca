package handlers

import (
	"riskcheck/internal/app"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := app.Database.SQL.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return errorResponse(c, ErrStoreUnavailable)
		}

		return c.JSON(fiber.Map{
			"status":      "ok",
			"environment": app.Config.Environment,
		})
	})
}
