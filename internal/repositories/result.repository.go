package repositories

import (
	"context"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"riskcheck/internal/services"
	"time"

	. "riskcheck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryCandidate is one finalized result from a prior request that may be
// carried forward for its rut.
type HistoryCandidate struct {
	ResultID     string    `json:"resultId"`
	Rut          string    `json:"rut"`
	Status       string    `json:"status"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// ResultQuery is the composed filter set for analytics row selection: the
// caller scope plus an optional date window and worker attribute filters.
type ResultQuery struct {
	Scope        Scope
	DateFrom     *time.Time
	DateTo       *time.Time
	BusinessUnit string
	SubArea      string
}

type TestResultRepository interface {
	FindHistoryCandidates(ctx context.Context, ruts []string, excludeRequestID string, windowStart time.Time) ([]HistoryCandidate, error)
	CreateBatch(ctx context.Context, results []*TestResult) error
	Upsert(ctx context.Context, workerID, status string) error
	DeleteDraftByWorkerID(ctx context.Context, workerID string) error
	FinalizeByRequestID(ctx context.Context, requestID string) error
	CountMissingByRequestID(ctx context.Context, requestID string) (int64, error)
	GetRows(ctx context.Context, query ResultQuery) ([]ResultRow, error)
	GetScheduledDates(ctx context.Context, scope Scope) ([]time.Time, error)
}

type testResultRepository struct {
	db  database.DB
	log logger.Logger
}

func NewResult(db database.DB) TestResultRepository {
	return &testResultRepository{
		db:  db,
		log: logger.New("testResultRepository"),
	}
}

func (r *testResultRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// FindHistoryCandidates returns every finalized result for the given ruts
// whose owning request was created at or after windowStart, excluding the
// request being built. Rows come back most-recently-scheduled first, with
// result ID descending as the deterministic tie-break on equal dates, so the
// first row per rut is the winning candidate.
func (r *testResultRepository) FindHistoryCandidates(
	ctx context.Context,
	ruts []string,
	excludeRequestID string,
	windowStart time.Time,
) ([]HistoryCandidate, error) {
	log := r.log.Function("FindHistoryCandidates")

	if len(ruts) == 0 {
		return nil, nil
	}

	var candidates []HistoryCandidate
	query := r.getDB(ctx).
		Model(&TestResult{}).
		Select(`test_results.id AS result_id,
			workers.rut AS rut,
			test_results.status AS status,
			test_requests.scheduled_for AS scheduled_for`).
		Joins("JOIN workers ON workers.id = test_results.worker_id AND workers.deleted_at IS NULL").
		Joins("JOIN test_requests ON test_requests.id = workers.request_id AND test_requests.deleted_at IS NULL").
		Where("workers.rut IN ?", ruts).
		Where("test_results.is_draft = ?", false).
		Where("test_requests.created_at >= ?", windowStart).
		Order("test_requests.scheduled_for DESC, test_results.id DESC")

	if excludeRequestID != "" {
		query = query.Where("workers.request_id <> ?", excludeRequestID)
	}

	if err := query.Scan(&candidates).Error; err != nil {
		return nil, log.Err("failed to query history candidates", err, "ruts", len(ruts))
	}

	return candidates, nil
}

func (r *testResultRepository) CreateBatch(ctx context.Context, results []*TestResult) error {
	log := r.log.Function("CreateBatch")

	if len(results) == 0 {
		return nil
	}

	if err := r.getDB(ctx).Create(results).Error; err != nil {
		return log.Err("failed to create result batch", err, "count", len(results))
	}

	return nil
}

// Upsert saves an interactive draft result keyed by worker ID. A save over a
// carried-forward row turns it into a fresh draft observation.
func (r *testResultRepository) Upsert(ctx context.Context, workerID, status string) error {
	log := r.log.Function("Upsert")

	result := TestResult{
		WorkerID:     workerID,
		Status:       status,
		IsDraft:      true,
		IsHistorical: false,
	}

	err := r.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "worker_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":        status,
				"is_draft":      true,
				"is_historical": false,
				"notes":         "",
			}),
		}).
		Create(&result).Error
	if err != nil {
		return log.Err("failed to upsert test result", err, "workerID", workerID, "status", status)
	}

	return nil
}

// DeleteDraftByWorkerID removes a worker's draft result. Deleting when no
// draft exists is a no-op success. The delete is unscoped so the unique
// worker_id index stays free for the next save.
func (r *testResultRepository) DeleteDraftByWorkerID(ctx context.Context, workerID string) error {
	log := r.log.Function("DeleteDraftByWorkerID")

	err := r.getDB(ctx).
		Unscoped().
		Where("worker_id = ? AND is_draft = ?", workerID, true).
		Delete(&TestResult{}).Error
	if err != nil {
		return log.Err("failed to delete draft result", err, "workerID", workerID)
	}

	return nil
}

func (r *testResultRepository) FinalizeByRequestID(ctx context.Context, requestID string) error {
	log := r.log.Function("FinalizeByRequestID")

	err := r.getDB(ctx).
		Model(&TestResult{}).
		Where("worker_id IN (?)",
			r.getDB(ctx).Model(&Worker{}).Select("id").Where("request_id = ?", requestID),
		).
		Update("is_draft", false).Error
	if err != nil {
		return log.Err("failed to finalize results", err, "requestID", requestID)
	}

	return nil
}

// CountMissingByRequestID counts workers under the request that have no
// result row of any kind.
func (r *testResultRepository) CountMissingByRequestID(ctx context.Context, requestID string) (int64, error) {
	log := r.log.Function("CountMissingByRequestID")

	var count int64
	err := r.getDB(ctx).
		Model(&Worker{}).
		Joins("LEFT JOIN test_results ON test_results.worker_id = workers.id AND test_results.deleted_at IS NULL").
		Where("workers.request_id = ? AND test_results.id IS NULL", requestID).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count missing results", err, "requestID", requestID)
	}

	return count, nil
}

// GetRows selects finalized results joined with worker and request context,
// ordered by request scheduled date ascending.
func (r *testResultRepository) GetRows(ctx context.Context, query ResultQuery) ([]ResultRow, error) {
	log := r.log.Function("GetRows")

	db := r.getDB(ctx).
		Model(&TestResult{}).
		Select(`test_results.id AS id,
			test_results.status AS status,
			test_results.is_historical AS is_historical,
			test_requests.scheduled_for AS scheduled_for,
			workers.name AS worker_name,
			workers.rut AS worker_rut,
			workers.business_unit AS business_unit,
			workers.sub_area AS sub_area`).
		Joins("JOIN workers ON workers.id = test_results.worker_id AND workers.deleted_at IS NULL").
		Joins("JOIN test_requests ON test_requests.id = workers.request_id AND test_requests.deleted_at IS NULL").
		Where("test_results.is_draft = ?", false).
		Order("test_requests.scheduled_for ASC")

	if query.Scope.RestrictToOwn {
		db = db.Where("test_requests.solicitante_id = ?", query.Scope.UserID)
	}
	if query.DateFrom != nil {
		db = db.Where("test_requests.scheduled_for >= ?", *query.DateFrom)
	}
	if query.DateTo != nil {
		db = db.Where("test_requests.scheduled_for <= ?", *query.DateTo)
	}
	if query.BusinessUnit != "" {
		db = db.Where("workers.business_unit = ?", query.BusinessUnit)
	}
	if query.SubArea != "" {
		db = db.Where("workers.sub_area = ?", query.SubArea)
	}

	var rows []ResultRow
	if err := db.Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to query result rows", err)
	}

	return rows, nil
}

// GetScheduledDates returns the scheduled date of every finalized result
// under the scope, for cascading filter-option discovery.
func (r *testResultRepository) GetScheduledDates(ctx context.Context, scope Scope) ([]time.Time, error) {
	log := r.log.Function("GetScheduledDates")

	db := r.getDB(ctx).
		Model(&TestResult{}).
		Select("test_requests.scheduled_for").
		Joins("JOIN workers ON workers.id = test_results.worker_id AND workers.deleted_at IS NULL").
		Joins("JOIN test_requests ON test_requests.id = workers.request_id AND test_requests.deleted_at IS NULL").
		Where("test_results.is_draft = ?", false)

	if scope.RestrictToOwn {
		db = db.Where("test_requests.solicitante_id = ?", scope.UserID)
	}

	var dates []time.Time
	if err := db.Pluck("test_requests.scheduled_for", &dates).Error; err != nil {
		return nil, log.Err("failed to query scheduled dates", err)
	}

	return dates, nil
}
