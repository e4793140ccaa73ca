package repositories

import (
	"context"
	"errors"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"riskcheck/internal/services"

	. "riskcheck/internal/models"

	"gorm.io/gorm"
)

type TestRequestRepository interface {
	GetByID(ctx context.Context, id string) (*TestRequest, error)
	Create(ctx context.Context, request *TestRequest) error
	GetBySolicitante(ctx context.Context, solicitanteID string) ([]*TestRequest, error)
	GetAll(ctx context.Context) ([]*TestRequest, error)
	GetByStatus(ctx context.Context, status string) ([]*TestRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type testRequestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRequest(db database.DB) TestRequestRepository {
	return &testRequestRepository{
		db:  db,
		log: logger.New("testRequestRepository"),
	}
}

func (r *testRequestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *testRequestRepository) GetByID(ctx context.Context, id string) (*TestRequest, error) {
	log := r.log.Function("GetByID")

	var request TestRequest
	err := r.getDB(ctx).
		Preload("Workers").
		Preload("Workers.Result").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get test request by id", err, "id", id)
	}

	return &request, nil
}

func (r *testRequestRepository) Create(ctx context.Context, request *TestRequest) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(request).Error; err != nil {
		return log.Err("failed to create test request", err, "solicitanteID", request.SolicitanteID)
	}

	return nil
}

func (r *testRequestRepository) GetBySolicitante(ctx context.Context, solicitanteID string) ([]*TestRequest, error) {
	log := r.log.Function("GetBySolicitante")

	var requests []*TestRequest
	err := r.getDB(ctx).
		Preload("Workers").
		Preload("Workers.Result").
		Where("solicitante_id = ?", solicitanteID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, log.Err("failed to get requests by solicitante", err, "solicitanteID", solicitanteID)
	}

	return requests, nil
}

func (r *testRequestRepository) GetAll(ctx context.Context) ([]*TestRequest, error) {
	log := r.log.Function("GetAll")

	var requests []*TestRequest
	err := r.getDB(ctx).
		Preload("Workers").
		Preload("Workers.Result").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, log.Err("failed to get all requests", err)
	}

	return requests, nil
}

func (r *testRequestRepository) GetByStatus(ctx context.Context, status string) ([]*TestRequest, error) {
	log := r.log.Function("GetByStatus")

	var requests []*TestRequest
	err := r.getDB(ctx).
		Preload("Workers").
		Preload("Workers.Result").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, log.Err("failed to get requests by status", err, "status", status)
	}

	return requests, nil
}

func (r *testRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	log := r.log.Function("UpdateStatus")

	result := r.getDB(ctx).
		Model(&TestRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update request status", result.Error, "id", id, "status", status)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
