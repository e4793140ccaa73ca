package handlers

import (
	"errors"
	"riskcheck/internal/app"
	"riskcheck/internal/handlers/middleware"
	"riskcheck/internal/logger"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app)
	NewUserHandler(*app, api).Register()
	NewRequestHandler(*app, api).Register()
	NewTestingHandler(*app, api).Register()
	NewAnalyticsHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// errorResponse maps the operation-boundary error taxonomy onto HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{"message": "error", "error": err.Error()})
}

func currentUser(c *fiber.Ctx) (User, bool) {
	user, ok := c.Locals("user").(User)
	return user, ok && user.ID != ""
}
