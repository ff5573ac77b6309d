package reports

import (
	"encoding/json"
	"time"
)

const (
	TypeJobStatistics      = "JobStatistics"
	TypeUserActivity       = "UserActivity"
	TypeApplicationMetrics = "ApplicationMetrics"
)

// Report is an append-only aggregate snapshot. Rows are never updated.
type Report struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	ReportType    string          `gorm:"size:100;index;not null" json:"reportType"`
	Data          json.RawMessage `gorm:"type:jsonb;not null;default:'{}'::jsonb" json:"data"`
	GeneratedDate time.Time       `gorm:"index;not null;default:now()" json:"generatedDate"`
}
