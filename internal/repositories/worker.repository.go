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

type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (*Worker, error)
	DistinctBusinessUnits(ctx context.Context, scope Scope) ([]string, error)
	DistinctSubAreas(ctx context.Context, scope Scope, businessUnit string) ([]string, error)
}

type workerRepository struct {
	db  database.DB
	log logger.Logger
}

func NewWorker(db database.DB) WorkerRepository {
	return &workerRepository{
		db:  db,
		log: logger.New("workerRepository"),
	}
}

func (r *workerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (*Worker, error) {
	log := r.log.Function("GetByID")

	var worker Worker
	err := r.getDB(ctx).Preload("Result").First(&worker, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get worker by id", err, "id", id)
	}

	return &worker, nil
}

func (r *workerRepository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	query := r.getDB(ctx).
		Model(&Worker{}).
		Joins("JOIN test_requests ON test_requests.id = workers.request_id AND test_requests.deleted_at IS NULL")

	if scope.RestrictToOwn {
		query = query.Where("test_requests.solicitante_id = ?", scope.UserID)
	}

	return query
}

func (r *workerRepository) DistinctBusinessUnits(ctx context.Context, scope Scope) ([]string, error) {
	log := r.log.Function("DistinctBusinessUnits")

	var units []string
	err := r.scoped(ctx, scope).
		Where("workers.business_unit <> ''").
		Distinct("workers.business_unit").
		Order("workers.business_unit").
		Pluck("workers.business_unit", &units).Error
	if err != nil {
		return nil, log.Err("failed to get distinct business units", err)
	}

	return units, nil
}

func (r *workerRepository) DistinctSubAreas(ctx context.Context, scope Scope, businessUnit string) ([]string, error) {
	log := r.log.Function("DistinctSubAreas")

	query := r.scoped(ctx, scope).Where("workers.sub_area <> ''")
	if businessUnit != "" {
		query = query.Where("workers.business_unit = ?", businessUnit)
	}

	var areas []string
	err := query.
		Distinct("workers.sub_area").
		Order("workers.sub_area").
		Pluck("workers.sub_area", &areas).Error
	if err != nil {
		return nil, log.Err("failed to get distinct sub areas", err, "businessUnit", businessUnit)
	}

	return areas, nil
}
