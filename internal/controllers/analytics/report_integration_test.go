package analyticsController

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"riskcheck/internal/database"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"

	. "riskcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupController(t *testing.T) (database.DB, *AnalyticsController) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&User{}, &TestRequest{}, &Worker{}, &TestResult{}))

	db := database.DB{SQL: gormDB}
	controller := New(
		repositories.NewResult(db),
		repositories.NewWorker(db),
		services.NewReportCacheService(db),
	)

	return db, controller
}

type seedWorker struct {
	rut        string
	name       string
	unit       string
	subArea    string
	status     string
	draft      bool
	historical bool
}

func seedRequest(t *testing.T, db database.DB, solicitanteID string, scheduled time.Time, workers []seedWorker) {
	t.Helper()

	request := &TestRequest{
		SolicitanteID: solicitanteID,
		ScheduledFor:  scheduled,
		Status:        RequestStatusCompleted,
	}
	for _, w := range workers {
		request.Workers = append(request.Workers, Worker{
			Rut:          w.rut,
			Name:         w.name,
			BusinessUnit: w.unit,
			SubArea:      w.subArea,
			Result: &TestResult{
				Status:       w.status,
				IsDraft:      w.draft,
				IsHistorical: w.historical,
			},
		})
	}
	require.NoError(t, db.SQL.Create(request).Error)
}

func TestGetReport_FiltersByMonthAndIgnoresDrafts(t *testing.T) {
	db, controller := setupController(t)
	ctx := context.Background()

	march := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)
	april := time.Date(2024, time.April, 5, 12, 0, 0, 0, time.Local)

	seedRequest(t, db, "solicitante-1", march, []seedWorker{
		{rut: "1-1", name: "Juan", unit: "Mina", status: StatusSafe},
		{rut: "2-2", name: "Maria", unit: "Mina", status: StatusUnsafe},
		{rut: "3-3", name: "Pedro", unit: "Planta", status: StatusSafe, historical: true},
		{rut: "4-4", name: "Ana", unit: "Planta", status: StatusSafe, draft: true},
	})
	seedRequest(t, db, "solicitante-1", april, []seedWorker{
		{rut: "5-5", name: "Luis", unit: "Mina", status: StatusNeutral},
	})

	report, err := controller.GetReport(ctx,
		AnalyticsFilters{Year: "2024", Month: "3"}, Scope{UserID: "admin-1"})
	require.NoError(t, err)

	// Draft excluded entirely; April outside the window
	assert.Equal(t, 3, report.TotalProcessed)
	assert.Equal(t, 2, report.RealTestsCount)
	assert.Equal(t, 1, report.HistoricalCount)
	assert.Equal(t, 50, report.PassRate)

	require.Len(t, report.Trends, 1)
	assert.Equal(t, "3/2024", report.Trends[0].Date)
}

func TestGetReport_ScopeRestrictsToOwnRequests(t *testing.T) {
	db, controller := setupController(t)
	ctx := context.Background()

	day := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)
	seedRequest(t, db, "solicitante-1", day, []seedWorker{
		{rut: "1-1", name: "Juan", status: StatusSafe},
	})
	seedRequest(t, db, "solicitante-2", day, []seedWorker{
		{rut: "2-2", name: "Maria", status: StatusUnsafe},
	})

	own, err := controller.GetReport(ctx, AnalyticsFilters{},
		Scope{UserID: "solicitante-1", RestrictToOwn: true})
	require.NoError(t, err)
	assert.Equal(t, 1, own.TotalProcessed)
	assert.Equal(t, 100, own.PassRate)

	all, err := controller.GetReport(ctx, AnalyticsFilters{}, Scope{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalProcessed)
}

func TestGetReport_BusinessUnitFilter(t *testing.T) {
	db, controller := setupController(t)
	ctx := context.Background()

	day := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)
	seedRequest(t, db, "solicitante-1", day, []seedWorker{
		{rut: "1-1", name: "Juan", unit: "Mina", subArea: "Extracción", status: StatusSafe},
		{rut: "2-2", name: "Maria", unit: "Planta", subArea: "Molienda", status: StatusUnsafe},
	})

	report, err := controller.GetReport(ctx,
		AnalyticsFilters{BusinessUnit: "Mina"}, Scope{UserID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalProcessed)
	require.Len(t, report.BusinessUnitStats, 1)
	assert.Equal(t, "Mina", report.BusinessUnitStats[0].Unit)
}

func TestGetReport_InvalidFilters(t *testing.T) {
	_, controller := setupController(t)

	_, err := controller.GetReport(context.Background(),
		AnalyticsFilters{Month: "3"}, Scope{UserID: "admin-1"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestGetFilterOptions_CascadesFromSelection(t *testing.T) {
	db, controller := setupController(t)
	ctx := context.Background()

	seedRequest(t, db, "solicitante-1",
		time.Date(2023, time.November, 3, 12, 0, 0, 0, time.Local),
		[]seedWorker{{rut: "1-1", name: "Juan", unit: "Mina", subArea: "Extracción", status: StatusSafe}})
	seedRequest(t, db, "solicitante-1",
		time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local),
		[]seedWorker{{rut: "2-2", name: "Maria", unit: "Planta", subArea: "Molienda", status: StatusSafe}})
	seedRequest(t, db, "solicitante-1",
		time.Date(2024, time.March, 22, 12, 0, 0, 0, time.Local),
		[]seedWorker{{rut: "3-3", name: "Pedro", unit: "Planta", subArea: "Chancado", status: StatusUnsafe}})

	// No selection: all years, all months
	options, err := controller.GetFilterOptions(ctx, AnalyticsFilters{}, Scope{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2024"}, options.Years)
	assert.Equal(t, []string{"3", "11"}, options.Months)
	assert.Empty(t, options.Days)
	assert.Equal(t, []string{"Mina", "Planta"}, options.BusinessUnits)

	// Year selected: months narrow
	options, err = controller.GetFilterOptions(ctx,
		AnalyticsFilters{Year: "2024"}, Scope{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, options.Months)

	// Year and month selected: days appear
	options, err = controller.GetFilterOptions(ctx,
		AnalyticsFilters{Year: "2024", Month: "3"}, Scope{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "22"}, options.Days)

	// Business unit selected: sub-areas narrow
	options, err = controller.GetFilterOptions(ctx,
		AnalyticsFilters{BusinessUnit: "Planta"}, Scope{UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chancado", "Molienda"}, options.SubAreas)
}

func TestExportResultsCSV_SkipsHistoricalRows(t *testing.T) {
	db, controller := setupController(t)
	ctx := context.Background()

	day := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)
	seedRequest(t, db, "solicitante-1", day, []seedWorker{
		{rut: "1-1", name: "Juan", unit: "Mina", status: StatusSafe},
		{rut: "2-2", name: "Maria", unit: "Mina", status: StatusUnsafe, historical: true},
	})

	payload, err := controller.ExportResultsCSV(ctx, AnalyticsFilters{}, Scope{UserID: "admin-1"})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)

	// Header plus the single real result
	require.Len(t, records, 2)
	assert.Equal(t, "Juan", records[1][2])
}
