package handlers

import (
	"riskcheck/internal/app"
	testingController "riskcheck/internal/controllers/testing"
	"riskcheck/internal/logger"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TestingHandler struct {
	Handler
	controller *testingController.TestingController
}

type SaveResultPayload struct {
	// Status null or absent means clear the current draft selection.
	Status *string `json:"status"`
}

func NewTestingHandler(app app.App, router fiber.Router) *TestingHandler {
	log := logger.New("handlers").File("testing_handler")
	return &TestingHandler{
		controller: app.TestingController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TestingHandler) Register() {
	auth := h.middleware.RequireAuth()
	tester := h.middleware.RequireRole(RoleTesteador, RoleAdmin)

	h.router.Put("/workers/:id/result", auth, tester, h.saveResult)
	h.router.Delete("/workers/:id/result", auth, tester, h.clearResult)
	h.router.Post("/requests/:id/finalize", auth, tester, h.finalize)
}

func (h *TestingHandler) saveResult(c *fiber.Ctx) error {
	log := h.log.Function("saveResult")

	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	var payload SaveResultPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Er("failed to parse save result payload", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse result payload"})
	}

	workerID := c.Params("id")

	// A null status is the "deselect" action.
	if payload.Status == nil {
		if err := h.controller.ClearResult(c.Context(), user.ID, workerID); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"message": "success"})
	}

	if err := h.controller.SaveResult(c.Context(), user.ID, workerID, *payload.Status); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *TestingHandler) clearResult(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	if err := h.controller.ClearResult(c.Context(), user.ID, c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *TestingHandler) finalize(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	if err := h.controller.FinalizeRequest(c.Context(), user.ID, c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
