package services

import (
	"context"
	"fmt"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"time"

	. "riskcheck/internal/models"
)

const REPORT_CACHE_EXPIRY = 5 * time.Minute

// ReportCacheService is a cache-aside layer for computed analytics reports.
// Any write that can change a report (roster creation, result saves,
// finalization) invalidates the whole report keyspace.
type ReportCacheService struct {
	db  database.DB
	log logger.Logger
}

func NewReportCacheService(db database.DB) *ReportCacheService {
	return &ReportCacheService{
		db:  db,
		log: logger.New("ReportCacheService"),
	}
}

func ReportCacheKey(scope Scope, filters AnalyticsFilters) string {
	owner := "all"
	if scope.RestrictToOwn {
		owner = scope.UserID
	}
	return fmt.Sprintf("report:%s:%s:%s:%s:%s:%s",
		owner, filters.Year, filters.Month, filters.Day, filters.BusinessUnit, filters.SubArea)
}

func (s *ReportCacheService) Get(ctx context.Context, key string, dest any) bool {
	if s.db.Cache.Report == nil {
		return false
	}

	found, err := database.NewCacheBuilder(s.db.Cache.Report, key).
		WithContext(ctx).
		Get(dest)
	if err != nil {
		s.log.Function("Get").Warn("failed to read report cache", "key", key, "error", err)
		return false
	}

	return found
}

func (s *ReportCacheService) Set(ctx context.Context, key string, value any) {
	if s.db.Cache.Report == nil {
		return
	}

	if err := database.NewCacheBuilder(s.db.Cache.Report, key).
		WithStruct(value).
		WithTTL(REPORT_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		s.log.Function("Set").Warn("failed to write report cache", "key", key, "error", err)
	}
}

func (s *ReportCacheService) Invalidate(ctx context.Context) {
	if s.db.Cache.Report == nil {
		return
	}

	client := s.db.Cache.Report
	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		s.log.Function("Invalidate").Warn("failed to invalidate report cache", "error", err)
	}
}
