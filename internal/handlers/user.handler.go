package handlers

import (
	"riskcheck/internal/app"
	userController "riskcheck/internal/controllers/users"
	"riskcheck/internal/handlers/middleware"
	"riskcheck/internal/logger"
	"time"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *userController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)

	users.Get("/", h.middleware.RequireAuth(), h.getUser)
	users.Post("/logout", h.middleware.RequireAuth(), h.logout)
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		h.log.Function("getUser").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	user, sessionID, err := h.controller.Login(c.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	ttl := time.Duration(h.controller.Config.SessionTTLHours) * time.Hour
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(middleware.SessionCookie)
	if err := h.controller.Logout(c.Context(), sessionID); err != nil {
		h.log.Function("logout").Warn("failed to delete session", "error", err)
	}

	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"message": "success"})
}
