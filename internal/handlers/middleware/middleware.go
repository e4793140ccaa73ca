package middleware

import (
	"riskcheck/config"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"

	. "riskcheck/internal/models"

	"github.com/gofiber/fiber/v2"
)

const SessionCookie = "session"

type Middleware struct {
	db             database.DB
	config         config.Config
	userRepo       repositories.UserRepository
	sessionService *services.SessionService
	log            logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	userRepo repositories.UserRepository,
	sessionService *services.SessionService,
) Middleware {
	return Middleware{
		db:             db,
		config:         config,
		userRepo:       userRepo,
		sessionService: sessionService,
		log:            logger.New("middleware"),
	}
}

// RequireAuth resolves the session cookie to a User and stores it in locals.
// Core operations always receive the caller explicitly from there; nothing
// below the handler layer reads cookies.
func (m Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "not authenticated"})
		}

		session, err := m.sessionService.Get(c.Context(), sessionID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "invalid session"})
		}

		user, err := m.userRepo.GetByID(c.Context(), session.UserID)
		if err != nil {
			m.log.Function("RequireAuth").Warn("session user not found", "userID", session.UserID)
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "invalid session"})
		}

		c.Locals("user", *user)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set. Must run
// after RequireAuth.
func (m Middleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "not authenticated"})
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "error", "error": "insufficient role"})
	}
}
