package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisRecord stores one completed analysis request: the input text, the
// structured result and the raw model output, for history and debugging.
type AnalysisRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"size:64;not null;index" json:"user_id"`
	Mode      string         `gorm:"size:20;not null" json:"mode"`
	Provider  string         `gorm:"size:50" json:"provider"`
	Model     string         `gorm:"size:100" json:"model"`
	Source    string         `gorm:"size:20" json:"source"` // model or heuristic
	InputText string         `gorm:"type:text;not null" json:"input_text"`
	Results   datatypes.JSON `gorm:"type:jsonb" json:"results"`
	RawOutput string         `gorm:"type:text" json:"raw_output"`
	LatencyMs int            `json:"latency_ms"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
