package handlers

import (
	"riskcheck/internal/app"
	analyticsController "riskcheck/internal/controllers/analytics"
	"riskcheck/internal/logger"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Handler
	controller *analyticsController.AnalyticsController
}

func NewAnalyticsHandler(app app.App, router fiber.Router) *AnalyticsHandler {
	log := logger.New("handlers").File("analytics_handler")
	return &AnalyticsHandler{
		controller: app.AnalyticsController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AnalyticsHandler) Register() {
	analytics := h.router.Group("/analytics", h.middleware.RequireAuth())

	analytics.Get("/", h.getReport)
	analytics.Get("/options", h.getOptions)
	analytics.Get("/export", h.export)
}

func queryFilters(c *fiber.Ctx) AnalyticsFilters {
	filters := AnalyticsFilters{
		Year:         c.Query("year"),
		Month:        c.Query("month"),
		Day:          c.Query("day"),
		BusinessUnit: c.Query("businessUnit"),
		SubArea:      c.Query("subArea"),
	}

	// Selectors send "all" for an unset choice.
	if filters.BusinessUnit == "all" {
		filters.BusinessUnit = ""
	}
	if filters.SubArea == "all" {
		filters.SubArea = ""
	}

	return filters
}

func (h *AnalyticsHandler) getReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	report, err := h.controller.GetReport(c.Context(), queryFilters(c), ScopeFor(user))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "report": report})
}

func (h *AnalyticsHandler) getOptions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	options, err := h.controller.GetFilterOptions(c.Context(), queryFilters(c), ScopeFor(user))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "options": options})
}

func (h *AnalyticsHandler) export(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return errorResponse(c, ErrUnauthorized)
	}

	payload, err := h.controller.ExportResultsCSV(c.Context(), queryFilters(c), ScopeFor(user))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resultados.csv"`)
	return c.Send(payload)
}
