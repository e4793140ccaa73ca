package testingController

import (
	"context"
	"fmt"
	"riskcheck/internal/events"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"
	"time"

	. "riskcheck/internal/models"

	"github.com/google/uuid"
)

type TestingController struct {
	requestRepo        repositories.TestRequestRepository
	workerRepo         repositories.WorkerRepository
	resultRepo         repositories.TestResultRepository
	transactionService *services.TransactionService
	reportCache        *services.ReportCacheService
	eventBus           *events.EventBus
	log                logger.Logger
}

func New(
	requestRepo repositories.TestRequestRepository,
	workerRepo repositories.WorkerRepository,
	resultRepo repositories.TestResultRepository,
	transactionService *services.TransactionService,
	reportCache *services.ReportCacheService,
	eventBus *events.EventBus,
) *TestingController {
	return &TestingController{
		requestRepo:        requestRepo,
		workerRepo:         workerRepo,
		resultRepo:         resultRepo,
		transactionService: transactionService,
		reportCache:        reportCache,
		eventBus:           eventBus,
		log:                logger.New("TestingController"),
	}
}

// SaveResult records a draft risk result for a worker, keyed by worker ID so
// repeated saves overwrite rather than duplicate.
func (c *TestingController) SaveResult(ctx context.Context, userID, workerID, status string) error {
	if !ValidRiskStatus(status) {
		return fmt.Errorf("%w: unknown risk status %q", ErrValidation, status)
	}

	worker, err := c.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return err
	}

	request, err := c.requestRepo.GetByID(ctx, worker.RequestID)
	if err != nil {
		return err
	}
	if request.Status == RequestStatusCompleted {
		return fmt.Errorf("%w: request %s is already completed", ErrConflict, request.ID)
	}

	if err := c.resultRepo.Upsert(ctx, workerID, status); err != nil {
		return err
	}

	c.reportCache.Invalidate(ctx)
	c.publish(events.TypeResultSaved, worker.RequestID, userID, map[string]any{
		"workerId": workerID,
		"status":   status,
	})

	return nil
}

// ClearResult deletes a worker's draft result. Clearing a worker that has no
// draft is a no-op success, so consecutive clears are safe.
func (c *TestingController) ClearResult(ctx context.Context, userID, workerID string) error {
	worker, err := c.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return err
	}

	if err := c.resultRepo.DeleteDraftByWorkerID(ctx, workerID); err != nil {
		return err
	}

	c.reportCache.Invalidate(ctx)
	c.publish(events.TypeResultCleared, worker.RequestID, userID, map[string]any{
		"workerId": workerID,
	})

	return nil
}

// FinalizeRequest flips the request to COMPLETED and every owned result to
// non-draft, atomically. It is rejected while any worker still lacks a
// result. Finalizing an already completed request is a no-op.
func (c *TestingController) FinalizeRequest(ctx context.Context, userID, requestID string) error {
	log := c.log.Function("FinalizeRequest")

	request, err := c.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status == RequestStatusCompleted {
		return nil
	}

	missing, err := c.resultRepo.CountMissingByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d workers still lack a result", ErrConflict, missing)
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := c.requestRepo.UpdateStatus(txCtx, requestID, RequestStatusCompleted); err != nil {
			return err
		}
		return c.resultRepo.FinalizeByRequestID(txCtx, requestID)
	})
	if err != nil {
		return log.Err("failed to finalize request", err, "requestID", requestID)
	}

	c.reportCache.Invalidate(ctx)
	c.publish(events.TypeRequestFinalized, requestID, userID, nil)

	log.Info("request finalized", "requestID", requestID)
	return nil
}

func (c *TestingController) publish(eventType, requestID, userID string, data map[string]any) {
	if c.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Channel:   requestID,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now(),
	}

	if err := c.eventBus.Publish("results", event); err != nil {
		c.log.Function("publish").Warn("failed to publish event", "type", eventType, "error", err)
	}
}
