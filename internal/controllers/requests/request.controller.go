package requestController

import (
	"context"
	"fmt"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"
	"time"

	. "riskcheck/internal/models"
)

// HistoryNoteFormat renders the provenance date of a carried-forward result
// into its note field, dd/mm/yyyy.
const HistoryNoteDateLayout = "02/01/2006"

// HistoryWindowMonths is the trailing validity window for carry-forward.
const HistoryWindowMonths = 6

type RequestController struct {
	requestRepo        repositories.TestRequestRepository
	resultRepo         repositories.TestResultRepository
	transactionService *services.TransactionService
	reportCache        *services.ReportCacheService
	log                logger.Logger
}

func New(
	requestRepo repositories.TestRequestRepository,
	resultRepo repositories.TestResultRepository,
	transactionService *services.TransactionService,
	reportCache *services.ReportCacheService,
) *RequestController {
	return &RequestController{
		requestRepo:        requestRepo,
		resultRepo:         resultRepo,
		transactionService: transactionService,
		reportCache:        reportCache,
		log:                logger.New("RequestController"),
	}
}

// ResolveHistory finds, for each rut, the most recent finalized result from
// any other request created inside the trailing six-month window. The window
// start uses calendar-month subtraction. Most recent means latest owning
// request scheduled date, not latest creation; ties on scheduled date fall to
// the higher result ID. Ruts with no qualifying result are simply absent.
func (c *RequestController) ResolveHistory(
	ctx context.Context,
	ruts []string,
	excludeRequestID string,
	asOf time.Time,
) (map[string]HistoryEntry, error) {
	log := c.log.Function("ResolveHistory")

	lookup := make([]string, 0, len(ruts))
	for _, rut := range ruts {
		if rut != "" && rut != PlaceholderRut {
			lookup = append(lookup, rut)
		}
	}
	if len(lookup) == 0 {
		return map[string]HistoryEntry{}, nil
	}

	windowStart := asOf.AddDate(0, -HistoryWindowMonths, 0)

	candidates, err := c.resultRepo.FindHistoryCandidates(ctx, lookup, excludeRequestID, windowStart)
	if err != nil {
		return nil, log.Err("failed to resolve history", err, "ruts", len(lookup))
	}

	// Candidates arrive ordered best-first; keep the first hit per rut.
	history := make(map[string]HistoryEntry, len(candidates))
	for _, candidate := range candidates {
		if _, seen := history[candidate.Rut]; seen {
			continue
		}
		history[candidate.Rut] = HistoryEntry{
			Status:     candidate.Status,
			SourceDate: candidate.ScheduledFor,
		}
	}

	return history, nil
}

func historyNote(entry HistoryEntry) string {
	return fmt.Sprintf("Validación Histórica (%s)", entry.SourceDate.Format(HistoryNoteDateLayout))
}

// CreateRequestWithRoster ingests a normalized roster, resolves carry-forward
// history for every rut, and commits the request, its workers, and any
// historical results as one unit.
func (c *RequestController) CreateRequestWithRoster(
	ctx context.Context,
	requesterID string,
	scheduledFor time.Time,
	rows []RosterRow,
) (string, error) {
	log := c.log.Function("CreateRequestWithRoster")

	if requesterID == "" {
		return "", ErrUnauthorized
	}
	if scheduledFor.IsZero() {
		return "", fmt.Errorf("%w: missing scheduled date", ErrValidation)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: roster is empty", ErrValidation)
	}

	ruts := make([]string, 0, len(rows))
	for _, row := range rows {
		ruts = append(ruts, row.Rut)
	}

	history, err := c.ResolveHistory(ctx, ruts, "", time.Now())
	if err != nil {
		return "", err
	}

	request := &TestRequest{
		SolicitanteID: requesterID,
		ScheduledFor:  scheduledFor,
		Status:        RequestStatusPending,
	}

	for _, row := range rows {
		worker := Worker{
			Rut:          row.Rut,
			Name:         row.Name,
			CostCenter:   row.CostCenter,
			BusinessUnit: row.BusinessUnit,
			SubArea:      row.SubArea,
		}

		if entry, ok := history[row.Rut]; ok {
			worker.Result = &TestResult{
				Status:       entry.Status,
				IsDraft:      false,
				IsHistorical: true,
				Notes:        historyNote(entry),
			}
		}

		request.Workers = append(request.Workers, worker)
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return c.requestRepo.Create(txCtx, request)
	})
	if err != nil {
		return "", log.Err("failed to create request with roster", err,
			"requesterID", requesterID, "workers", len(rows))
	}

	c.reportCache.Invalidate(ctx)

	log.Info("request created",
		"requestID", request.ID,
		"workers", len(request.Workers),
		"carriedForward", len(history))

	return request.ID, nil
}

// BackfillHistory applies the same carry-forward resolution to workers of an
// existing PENDING request that still lack a result. Workers that already
// have a result of any kind are never touched, so the operation is idempotent.
// Returns the number of results created.
func (c *RequestController) BackfillHistory(ctx context.Context, requestID string) (int, error) {
	log := c.log.Function("BackfillHistory")

	request, err := c.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	if request.Status != RequestStatusPending {
		return 0, fmt.Errorf("%w: request %s is not pending", ErrConflict, requestID)
	}

	var missing []Worker
	for _, worker := range request.Workers {
		if worker.Result == nil {
			missing = append(missing, worker)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	ruts := make([]string, 0, len(missing))
	for _, worker := range missing {
		ruts = append(ruts, worker.Rut)
	}

	history, err := c.ResolveHistory(ctx, ruts, requestID, time.Now())
	if err != nil {
		return 0, err
	}

	var results []*TestResult
	for _, worker := range missing {
		entry, ok := history[worker.Rut]
		if !ok {
			continue
		}
		results = append(results, &TestResult{
			WorkerID:     worker.ID,
			Status:       entry.Status,
			IsDraft:      false,
			IsHistorical: true,
			Notes:        historyNote(entry),
		})
	}
	if len(results) == 0 {
		return 0, nil
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return c.resultRepo.CreateBatch(txCtx, results)
	})
	if err != nil {
		return 0, log.Err("failed to backfill history", err, "requestID", requestID)
	}

	c.reportCache.Invalidate(ctx)

	log.Info("history backfilled", "requestID", requestID, "created", len(results))
	return len(results), nil
}

// GetRequest returns a request with its workers and results. Solicitantes can
// only see their own requests.
func (c *RequestController) GetRequest(ctx context.Context, requestID string, scope Scope) (*TestRequest, error) {
	request, err := c.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if scope.RestrictToOwn && request.SolicitanteID != scope.UserID {
		return nil, ErrUnauthorized
	}

	return request, nil
}

// ListRequests returns the requests visible under the scope, newest first.
func (c *RequestController) ListRequests(ctx context.Context, scope Scope) ([]*TestRequest, error) {
	if scope.RestrictToOwn {
		return c.requestRepo.GetBySolicitante(ctx, scope.UserID)
	}
	return c.requestRepo.GetAll(ctx)
}

// ListPendingRequests returns the testeador work queue.
func (c *RequestController) ListPendingRequests(ctx context.Context) ([]*TestRequest, error) {
	return c.requestRepo.GetByStatus(ctx, RequestStatusPending)
}
