package services

import (
	"context"
	"riskcheck/config"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"time"

	. "riskcheck/internal/models"

	"github.com/google/uuid"
)

type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type SessionService struct {
	db     database.DB
	config config.Config
	log    logger.Logger
}

func NewSessionService(db database.DB, config config.Config) *SessionService {
	return &SessionService{
		db:     db,
		config: config,
		log:    logger.New("SessionService"),
	}
}

func (s *SessionService) ttl() time.Duration {
	hours := s.config.SessionTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *SessionService) Create(ctx context.Context, user User) (string, error) {
	log := s.log.Function("Create")

	sessionID := uuid.New().String()
	session := Session{UserID: user.ID, Role: user.Role}

	if err := database.NewCacheBuilder(s.db.Cache.Session, "session:"+sessionID).
		WithStruct(session).
		WithTTL(s.ttl()).
		WithContext(ctx).
		Set(); err != nil {
		return "", log.Err("failed to store session", err, "userID", user.ID)
	}

	return sessionID, nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (Session, error) {
	log := s.log.Function("Get")

	var session Session
	found, err := database.NewCacheBuilder(s.db.Cache.Session, "session:"+sessionID).
		WithContext(ctx).
		Get(&session)
	if err != nil {
		return Session{}, log.Err("failed to read session", err)
	}
	if !found {
		return Session{}, ErrUnauthorized
	}

	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	log := s.log.Function("Delete")

	if err := database.NewCacheBuilder(s.db.Cache.Session, "session:"+sessionID).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to delete session", err)
	}

	return nil
}
