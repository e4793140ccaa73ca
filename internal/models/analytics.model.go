package models

import "time"

type AnalyticsFilters struct {
	Year         string `json:"year,omitempty"`
	Month        string `json:"month,omitempty"`
	Day          string `json:"day,omitempty"`
	BusinessUnit string `json:"businessUnit,omitempty"`
	SubArea      string `json:"subArea,omitempty"`
}

// ResultRow is one finalized-or-draft result joined with its owning worker
// and request, the shape both the aggregator and the export consume.
type ResultRow struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	IsHistorical bool      `json:"isHistorical"`
	ScheduledFor time.Time `json:"scheduledFor"`
	WorkerName   string    `json:"workerName"`
	WorkerRut    string    `json:"workerRut"`
	BusinessUnit string    `json:"businessUnit"`
	SubArea      string    `json:"subArea"`
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

type TrendBucket struct {
	Date    string `json:"date"` // M/YYYY
	Total   int    `json:"total"`
	Safe    int    `json:"safe"`
	Unsafe  int    `json:"unsafe"`
	Neutral int    `json:"neutral"`
}

type BusinessUnitStat struct {
	Unit    string `json:"unit"`
	Safe    int    `json:"safe"`
	Neutral int    `json:"neutral"`
	Unsafe  int    `json:"unsafe"`
	Total   int    `json:"total"`
}

type ResultDetail struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	WorkerName   string    `json:"workerName"`
	WorkerRut    string    `json:"workerRut"`
	BusinessUnit string    `json:"businessUnit"`
	SubArea      string    `json:"subArea"`
	Status       string    `json:"status"`
}

type AnalyticsReport struct {
	TotalProcessed     int                `json:"totalProcessed"`
	RealTestsCount     int                `json:"realTestsCount"`
	HistoricalCount    int                `json:"historicalCount"`
	PassRate           int                `json:"passRate"`
	StatusDistribution []StatusSlice      `json:"statusDistribution"`
	Trends             []TrendBucket      `json:"trends"`
	BusinessUnitStats  []BusinessUnitStat `json:"businessUnitStats"`
	DetailedResults    []ResultDetail     `json:"detailedResults"`
}

type FilterOptionSets struct {
	BusinessUnits []string `json:"businessUnits"`
	SubAreas      []string `json:"subAreas"`
	Years         []string `json:"years"`
	Months        []string `json:"months"`
	Days          []string `json:"days"`
}
