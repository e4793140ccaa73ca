package userController

import (
	"context"
	"errors"
	"fmt"
	"riskcheck/config"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"

	. "riskcheck/internal/models"
)

type UserController struct {
	userRepo       repositories.UserRepository
	sessionService *services.SessionService
	Config         config.Config
	log            logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionService *services.SessionService,
	config config.Config,
) *UserController {
	return &UserController{
		userRepo:       userRepo,
		sessionService: sessionService,
		Config:         config,
		log:            logger.New("UserController"),
	}
}

// Login verifies the credentials and issues a session. Unknown email and bad
// password are indistinguishable to the caller.
func (c *UserController) Login(ctx context.Context, email, password string) (*User, string, error) {
	log := c.log.Function("Login")

	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: missing email or password", ErrValidation)
	}

	user, err := c.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrUnauthorized
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrUnauthorized
	}

	sessionID, err := c.sessionService.Create(ctx, *user)
	if err != nil {
		return nil, "", log.Err("failed to create session", err, "userID", user.ID)
	}

	log.Info("user logged in", "userID", user.ID, "role", user.Role)
	return user, sessionID, nil
}

func (c *UserController) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return c.sessionService.Delete(ctx, sessionID)
}

// RegisterUser creates a managed account. Admin-only; the handler enforces
// the role, the controller enforces the input.
func (c *UserController) RegisterUser(ctx context.Context, name, email, password, role string) (*User, error) {
	log := c.log.Function("RegisterUser")

	if name == "" || email == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := c.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := &User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (c *UserController) ListUsers(ctx context.Context) ([]*User, error) {
	return c.userRepo.GetAll(ctx)
}
