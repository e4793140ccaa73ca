package analyticsController

import (
	"context"
	"fmt"
	"riskcheck/internal/logger"
	"riskcheck/internal/repositories"
	"riskcheck/internal/services"
	"sort"
	"strconv"
	"time"

	. "riskcheck/internal/models"
)

// DetailRowLimit bounds the per-result listing in the report. It is a
// presentation cap only; every aggregate is computed over the full row set.
const DetailRowLimit = 100

type AnalyticsController struct {
	resultRepo  repositories.TestResultRepository
	workerRepo  repositories.WorkerRepository
	reportCache *services.ReportCacheService
	log         logger.Logger
}

func New(
	resultRepo repositories.TestResultRepository,
	workerRepo repositories.WorkerRepository,
	reportCache *services.ReportCacheService,
) *AnalyticsController {
	return &AnalyticsController{
		resultRepo:  resultRepo,
		workerRepo:  workerRepo,
		reportCache: reportCache,
		log:         logger.New("AnalyticsController"),
	}
}

// dateWindow translates a (year[, month[, day]]) filter into an inclusive
// scheduled-date range spanning the full calendar unit.
func dateWindow(filters AnalyticsFilters) (*time.Time, *time.Time, error) {
	if filters.Year == "" {
		if filters.Month != "" || filters.Day != "" {
			return nil, nil, fmt.Errorf("%w: month/day filter without year", ErrValidation)
		}
		return nil, nil, nil
	}

	year, err := strconv.Atoi(filters.Year)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid year %q", ErrValidation, filters.Year)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.Local)

	if filters.Month != "" {
		month, err := strconv.Atoi(filters.Month)
		if err != nil || month < 1 || month > 12 {
			return nil, nil, fmt.Errorf("%w: invalid month %q", ErrValidation, filters.Month)
		}

		if filters.Day != "" {
			day, err := strconv.Atoi(filters.Day)
			if err != nil || day < 1 || day > 31 {
				return nil, nil, fmt.Errorf("%w: invalid day %q", ErrValidation, filters.Day)
			}
			start = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			end = time.Date(year, time.Month(month), day, 23, 59, 59, 0, time.Local)
		} else {
			start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
			// Day zero of the next month is the last day of this one.
			end = time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.Local)
		}
	} else if filters.Day != "" {
		return nil, nil, fmt.Errorf("%w: day filter without month", ErrValidation)
	}

	return &start, &end, nil
}

// GetReport selects finalized results under the scope and filters and
// aggregates them. Historical rows count toward the headline totals only;
// all rates, distributions, trends, and breakdowns use real results.
func (c *AnalyticsController) GetReport(
	ctx context.Context,
	filters AnalyticsFilters,
	scope Scope,
) (*AnalyticsReport, error) {
	log := c.log.Function("GetReport")

	cacheKey := services.ReportCacheKey(scope, filters)
	var cached AnalyticsReport
	if c.reportCache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := c.fetchRows(ctx, filters, scope)
	if err != nil {
		return nil, err
	}

	report := computeReport(rows)
	c.reportCache.Set(ctx, cacheKey, report)

	log.Debug("report computed",
		"total", report.TotalProcessed,
		"real", report.RealTestsCount,
		"historical", report.HistoricalCount)

	return report, nil
}

func (c *AnalyticsController) fetchRows(
	ctx context.Context,
	filters AnalyticsFilters,
	scope Scope,
) ([]ResultRow, error) {
	from, to, err := dateWindow(filters)
	if err != nil {
		return nil, err
	}

	query := repositories.ResultQuery{
		Scope:        scope,
		DateFrom:     from,
		DateTo:       to,
		BusinessUnit: filters.BusinessUnit,
		SubArea:      filters.SubArea,
	}

	return c.resultRepo.GetRows(ctx, query)
}

// computeReport is the aggregation core. Rows are expected sorted by
// scheduled date ascending, as the repository returns them.
func computeReport(rows []ResultRow) *AnalyticsReport {
	report := &AnalyticsReport{
		TotalProcessed:     len(rows),
		StatusDistribution: []StatusSlice{},
		Trends:             []TrendBucket{},
		BusinessUnitStats:  []BusinessUnitStat{},
		DetailedResults:    []ResultDetail{},
	}

	var real []ResultRow
	for _, row := range rows {
		if row.IsHistorical {
			report.HistoricalCount++
		} else {
			real = append(real, row)
		}
	}
	report.RealTestsCount = len(real)

	var passed, failed, neutral int
	for _, row := range real {
		switch row.Status {
		case StatusSafe:
			passed++
		case StatusUnsafe:
			failed++
		case StatusNeutral:
			neutral++
		}
	}

	if report.RealTestsCount > 0 {
		report.PassRate = int(float64(passed)/float64(report.RealTestsCount)*100 + 0.5)
	}

	for _, slice := range []StatusSlice{
		{Name: "Seguro", Value: passed, Fill: "#22c55e"},
		{Name: "Inseguro", Value: failed, Fill: "#ef4444"},
		{Name: "Neutro", Value: neutral, Fill: "#eab308"},
	} {
		if slice.Value > 0 {
			report.StatusDistribution = append(report.StatusDistribution, slice)
		}
	}

	report.Trends = trendBuckets(real)
	report.BusinessUnitStats = businessUnitStats(real)
	report.DetailedResults = detailListing(real)

	return report
}

func trendBuckets(real []ResultRow) []TrendBucket {
	type monthKey struct {
		year  int
		month int
	}

	buckets := map[monthKey]*TrendBucket{}
	var order []monthKey

	for _, row := range real {
		key := monthKey{year: row.ScheduledFor.Year(), month: int(row.ScheduledFor.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &TrendBucket{Date: fmt.Sprintf("%d/%d", key.month, key.year)}
			buckets[key] = bucket
			order = append(order, key)
		}

		bucket.Total++
		switch row.Status {
		case StatusSafe:
			bucket.Safe++
		case StatusUnsafe:
			bucket.Unsafe++
		case StatusNeutral:
			bucket.Neutral++
		}
	}

	// Chronological ascending: year first, then month.
	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	trends := make([]TrendBucket, 0, len(order))
	for _, key := range order {
		trends = append(trends, *buckets[key])
	}
	return trends
}

func businessUnitStats(real []ResultRow) []BusinessUnitStat {
	stats := map[string]*BusinessUnitStat{}
	var order []string

	for _, row := range real {
		unit := row.BusinessUnit
		if unit == "" {
			unit = "Sin Unidad"
		}

		stat, ok := stats[unit]
		if !ok {
			stat = &BusinessUnitStat{Unit: unit}
			stats[unit] = stat
			order = append(order, unit)
		}

		stat.Total++
		switch row.Status {
		case StatusSafe:
			stat.Safe++
		case StatusUnsafe:
			stat.Unsafe++
		case StatusNeutral:
			stat.Neutral++
		}
	}

	// Descending by total, unit name as the stable tie-break.
	sort.Slice(order, func(i, j int) bool {
		a, b := stats[order[i]], stats[order[j]]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Unit < b.Unit
	})

	result := make([]BusinessUnitStat, 0, len(order))
	for _, unit := range order {
		result = append(result, *stats[unit])
	}
	return result
}

func detailListing(real []ResultRow) []ResultDetail {
	details := make([]ResultDetail, 0, len(real))
	for _, row := range real {
		if len(details) >= DetailRowLimit {
			break
		}

		name := row.WorkerName
		if name == "" {
			name = PlaceholderName
		}

		details = append(details, ResultDetail{
			ID:           row.ID,
			Date:         row.ScheduledFor,
			WorkerName:   name,
			WorkerRut:    row.WorkerRut,
			BusinessUnit: row.BusinessUnit,
			SubArea:      row.SubArea,
			Status:       row.Status,
		})
	}
	return details
}

// GetFilterOptions returns the selector values available under the current
// partial selection. Each level is constrained by the levels above it: a
// chosen year narrows months, a chosen month narrows days, and a chosen
// business unit narrows sub-areas.
func (c *AnalyticsController) GetFilterOptions(
	ctx context.Context,
	partial AnalyticsFilters,
	scope Scope,
) (*FilterOptionSets, error) {
	dates, err := c.resultRepo.GetScheduledDates(ctx, scope)
	if err != nil {
		return nil, err
	}

	options := &FilterOptionSets{
		BusinessUnits: []string{},
		SubAreas:      []string{},
		Years:         []string{},
		Months:        []string{},
		Days:          []string{},
	}

	yearsSeen := map[int]bool{}
	monthsSeen := map[int]bool{}
	daysSeen := map[int]bool{}

	for _, date := range dates {
		year := date.Year()
		month := int(date.Month())
		day := date.Day()

		yearsSeen[year] = true

		if partial.Year != "" {
			if strconv.Itoa(year) != partial.Year {
				continue
			}
			monthsSeen[month] = true
			if partial.Month != "" && strconv.Itoa(month) == partial.Month {
				daysSeen[day] = true
			}
		} else {
			monthsSeen[month] = true
		}
	}

	options.Years = sortedNumericStrings(yearsSeen)
	options.Months = sortedNumericStrings(monthsSeen)
	options.Days = sortedNumericStrings(daysSeen)

	units, err := c.workerRepo.DistinctBusinessUnits(ctx, scope)
	if err != nil {
		return nil, err
	}
	options.BusinessUnits = units

	areas, err := c.workerRepo.DistinctSubAreas(ctx, scope, partial.BusinessUnit)
	if err != nil {
		return nil, err
	}
	options.SubAreas = areas

	return options, nil
}

func sortedNumericStrings(seen map[int]bool) []string {
	values := make([]int, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}

	sort.Ints(values)

	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, strconv.Itoa(v))
	}
	return result
}
