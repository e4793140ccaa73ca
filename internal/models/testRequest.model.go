package models

import "time"

const (
	RequestStatusPending   = "PENDING"
	RequestStatusCompleted = "COMPLETED"
)

const (
	StatusSafe    = "SAFE"
	StatusNeutral = "NEUTRAL"
	StatusUnsafe  = "UNSAFE"
)

// Placeholder values applied when a roster row is missing the field entirely.
const (
	PlaceholderRut  = "S/N"
	PlaceholderName = "Sin Nombre"
)

type TestRequest struct {
	BaseUUIDModel
	SolicitanteID string    `gorm:"type:varchar(64);index;not null" json:"solicitanteId"`
	ScheduledFor  time.Time `gorm:"not null"                        json:"scheduledFor"`
	Status        string    `gorm:"type:varchar(20);not null"       json:"status"` // 'PENDING' or 'COMPLETED'
	Workers       []Worker  `gorm:"foreignKey:RequestID"            json:"workers,omitempty"`
}

// Worker is one roster row. The same rut can appear on many requests over
// time; each occurrence is its own row owned by exactly one request.
type Worker struct {
	BaseUUIDModel
	RequestID    string      `gorm:"type:varchar(64);index;not null" json:"requestId"`
	Rut          string      `gorm:"type:varchar(20);index;not null" json:"rut"`
	Name         string      `gorm:"type:varchar(120);not null"      json:"name"`
	CostCenter   string      `gorm:"type:varchar(80)"                json:"costCenter"`
	BusinessUnit string      `gorm:"type:varchar(80)"                json:"businessUnit"`
	SubArea      string      `gorm:"type:varchar(80)"                json:"subArea"`
	Result       *TestResult `gorm:"foreignKey:WorkerID"             json:"result,omitempty"`
}

// TestResult is the at-most-one evaluation attached to a worker. Historical
// rows are finalized copies carried forward from a prior request; they are
// never drafts.
type TestResult struct {
	BaseUUIDModel
	WorkerID     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"workerId"`
	Status       string `gorm:"type:varchar(20);not null"             json:"status"` // 'SAFE', 'NEUTRAL' or 'UNSAFE'
	IsDraft      bool   `gorm:"not null;default:false"                json:"isDraft"`
	IsHistorical bool   `gorm:"not null;default:false"                json:"isHistorical"`
	Notes        string `gorm:"type:text"                             json:"notes"`
}

func ValidRiskStatus(status string) bool {
	switch status {
	case StatusSafe, StatusNeutral, StatusUnsafe:
		return true
	}
	return false
}

// RosterRow is the strict record a roster upload is normalized into before it
// reaches any core operation.
type RosterRow struct {
	Rut          string `json:"rut"`
	Name         string `json:"name"`
	CostCenter   string `json:"costCenter"`
	BusinessUnit string `json:"businessUnit"`
	SubArea      string `json:"subArea"`
}

// HistoryEntry is a resolved carry-forward candidate for one rut.
type HistoryEntry struct {
	Status     string    `json:"status"`
	SourceDate time.Time `json:"sourceDate"`
}
