package handlers

import (
	"riskcheck/internal/app"
	requestController "riskcheck/internal/controllers/requests"
	"riskcheck/internal/logger"
	"riskcheck/internal/utils"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	Handler
	controller *requestController.RequestController
}

// CreateRequestPayload carries an upload that the client has already decoded
// into row maps; column-name normalization happens server side.
type CreateRequestPayload struct {
	Date string           `json:"date"`
	Rows []map[string]any `json:"rows"`
}

func NewRequestHandler(app app.App, router fiber.Router) *RequestHandler {
	log := logger.New("handlers").File("request_handler")
	return &RequestHandler{
		controller: app.RequestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RequestHandler) Register() {
	requests := h.router.Group("/requests", h.middleware.RequireAuth())

	requests.Post("/", h.middleware.RequireRole(RoleSolicitante, RoleAdmin), h.create)
	requests.Get("/", h.list)
	requests.Get("/pending", h.middleware.RequireRole(RoleTesteador, RoleAdmin), h.listPending)
	requests.Get("/:id", h.get)
	requests.Post("/:id/backfill", h.middleware.RequireRole(RoleAdmin), h.backfill)
}

func (h *RequestHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	var payload CreateRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Er("failed to parse create request payload", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request payload"})
	}

	scheduledFor, valid := utils.ParseScheduledDate(payload.Date)
	if !valid {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "error", "error": "missing or invalid scheduled date"})
	}

	rows := utils.NormalizeRosterRows(payload.Rows)

	requestID, err := h.controller.CreateRequestWithRoster(c.Context(), user.ID, scheduledFor, rows)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "requestId": requestID})
}

func (h *RequestHandler) list(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	requests, err := h.controller.ListRequests(c.Context(), ScopeFor(user))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "requests": requests})
}

func (h *RequestHandler) listPending(c *fiber.Ctx) error {
	requests, err := h.controller.ListPendingRequests(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "requests": requests})
}

func (h *RequestHandler) get(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	request, err := h.controller.GetRequest(c.Context(), c.Params("id"), ScopeFor(user))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "request": request})
}

func (h *RequestHandler) backfill(c *fiber.Ctx) error {
	created, err := h.controller.BackfillHistory(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "created": created})
}
