package analyticsController

import (
	"errors"
	"fmt"
	"testing"
	"time"

	. "riskcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(status string, historical bool, scheduled time.Time) ResultRow {
	return ResultRow{
		Status:       status,
		IsHistorical: historical,
		ScheduledFor: scheduled,
	}
}

func TestComputeReport_SplitsRealAndHistorical(t *testing.T) {
	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local)

	report := computeReport([]ResultRow{
		row(StatusSafe, false, march),
		row(StatusUnsafe, false, march),
		row(StatusSafe, true, march),
	})

	assert.Equal(t, 3, report.TotalProcessed)
	assert.Equal(t, 2, report.RealTestsCount)
	assert.Equal(t, 1, report.HistoricalCount)

	// 1 of 2 real results passed
	assert.Equal(t, 50, report.PassRate)

	require.Len(t, report.Trends, 1)
	assert.Equal(t, "3/2024", report.Trends[0].Date)
	assert.Equal(t, 2, report.Trends[0].Total)
	assert.Equal(t, 1, report.Trends[0].Safe)
	assert.Equal(t, 1, report.Trends[0].Unsafe)
}

func TestComputeReport_EmptyRows(t *testing.T) {
	report := computeReport(nil)

	assert.Equal(t, 0, report.TotalProcessed)
	assert.Equal(t, 0, report.PassRate)
	assert.Empty(t, report.StatusDistribution)
	assert.Empty(t, report.Trends)
	assert.Empty(t, report.BusinessUnitStats)
	assert.Empty(t, report.DetailedResults)
}

func TestComputeReport_PassRateRounds(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

	// 2 of 3 -> 66.67 rounds to 67
	report := computeReport([]ResultRow{
		row(StatusSafe, false, day),
		row(StatusSafe, false, day),
		row(StatusUnsafe, false, day),
	})
	assert.Equal(t, 67, report.PassRate)

	// 1 of 3 -> 33.33 rounds to 33
	report = computeReport([]ResultRow{
		row(StatusSafe, false, day),
		row(StatusUnsafe, false, day),
		row(StatusUnsafe, false, day),
	})
	assert.Equal(t, 33, report.PassRate)
}

func TestComputeReport_DistributionOmitsZeroSlices(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

	report := computeReport([]ResultRow{
		row(StatusSafe, false, day),
		row(StatusSafe, false, day),
		row(StatusNeutral, false, day),
	})

	require.Len(t, report.StatusDistribution, 2)
	assert.Equal(t, StatusSlice{Name: "Seguro", Value: 2, Fill: "#22c55e"}, report.StatusDistribution[0])
	assert.Equal(t, StatusSlice{Name: "Neutro", Value: 1, Fill: "#eab308"}, report.StatusDistribution[1])
}

func TestComputeReport_HistoricalExcludedFromAggregates(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

	report := computeReport([]ResultRow{
		row(StatusUnsafe, true, day),
		row(StatusUnsafe, true, day),
		row(StatusSafe, false, day),
	})

	assert.Equal(t, 100, report.PassRate)
	require.Len(t, report.StatusDistribution, 1)
	assert.Equal(t, "Seguro", report.StatusDistribution[0].Name)
	require.Len(t, report.Trends, 1)
	assert.Equal(t, 1, report.Trends[0].Total)
	assert.Len(t, report.DetailedResults, 1)
}

func TestTrendBuckets_ChronologicalAcrossYears(t *testing.T) {
	rows := []ResultRow{
		row(StatusSafe, false, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.Local)),
		row(StatusSafe, false, time.Date(2023, time.December, 5, 0, 0, 0, 0, time.Local)),
		row(StatusUnsafe, false, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)),
		row(StatusSafe, false, time.Date(2024, time.January, 20, 0, 0, 0, 0, time.Local)),
	}

	trends := trendBuckets(rows)

	require.Len(t, trends, 3)
	assert.Equal(t, "12/2023", trends[0].Date)
	assert.Equal(t, "1/2024", trends[1].Date)
	assert.Equal(t, "3/2024", trends[2].Date)
	assert.Equal(t, 2, trends[1].Total)
}

func TestBusinessUnitStats_SortedByTotalDescending(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

	rows := []ResultRow{
		{Status: StatusSafe, ScheduledFor: day, BusinessUnit: "Mina"},
		{Status: StatusUnsafe, ScheduledFor: day, BusinessUnit: "Planta"},
		{Status: StatusSafe, ScheduledFor: day, BusinessUnit: "Planta"},
		{Status: StatusNeutral, ScheduledFor: day, BusinessUnit: ""},
	}

	stats := businessUnitStats(rows)

	require.Len(t, stats, 3)
	assert.Equal(t, "Planta", stats[0].Unit)
	assert.Equal(t, 2, stats[0].Total)

	// Same total, alphabetical tie-break
	assert.Equal(t, "Mina", stats[1].Unit)
	assert.Equal(t, "Sin Unidad", stats[2].Unit)
	assert.Equal(t, 1, stats[2].Neutral)
}

func TestDetailListing_CapAndNamePlaceholder(t *testing.T) {
	day := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

	rows := make([]ResultRow, 0, DetailRowLimit+20)
	for i := 0; i < DetailRowLimit+20; i++ {
		rows = append(rows, ResultRow{
			ID:           fmt.Sprintf("r-%d", i),
			Status:       StatusSafe,
			ScheduledFor: day,
		})
	}

	details := detailListing(rows)

	assert.Len(t, details, DetailRowLimit)
	assert.Equal(t, "Sin Nombre", details[0].WorkerName)
}

func TestDateWindow_YearOnly(t *testing.T) {
	from, to, err := dateWindow(AnalyticsFilters{Year: "2024"})
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local), *from)
	assert.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 0, time.Local), *to)
}

func TestDateWindow_YearAndMonth(t *testing.T) {
	from, to, err := dateWindow(AnalyticsFilters{Year: "2024", Month: "2"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local), *from)
	// 2024 is a leap year
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.Local), *to)
}

func TestDateWindow_SingleDay(t *testing.T) {
	from, to, err := dateWindow(AnalyticsFilters{Year: "2024", Month: "3", Day: "15"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local), *from)
	assert.Equal(t, time.Date(2024, time.March, 15, 23, 59, 59, 0, time.Local), *to)
}

func TestDateWindow_NoFilters(t *testing.T) {
	from, to, err := dateWindow(AnalyticsFilters{})
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestDateWindow_InvalidCombinations(t *testing.T) {
	cases := []AnalyticsFilters{
		{Month: "3"},
		{Day: "15"},
		{Year: "2024", Day: "15"},
		{Year: "twenty"},
		{Year: "2024", Month: "13"},
		{Year: "2024", Month: "3", Day: "32"},
	}

	for _, filters := range cases {
		_, _, err := dateWindow(filters)
		assert.True(t, errors.Is(err, ErrValidation), "filters %+v", filters)
	}
}
