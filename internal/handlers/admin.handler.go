package handlers

import (
	"riskcheck/internal/app"
	userController "riskcheck/internal/controllers/users"
	"riskcheck/internal/logger"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	controller *userController.UserController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireRole(RoleAdmin))

	admin.Post("/users", h.createUser)
	admin.Get("/users", h.listUsers)
}

type CreateUserPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	log := h.log.Function("createUser")

	var payload CreateUserPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Er("failed to parse create user request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse create user request"})
	}

	user, err := h.controller.RegisterUser(c.Context(), payload.Name, payload.Email, payload.Password, payload.Role)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "user": user})
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.controller.ListUsers(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "users": users})
}
