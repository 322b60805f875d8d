package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppDefault stores one global default settings value, editable by admins
// and used as a fallback for users with no stored settings.
type AppDefault struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_app_defaults_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Type      string    `gorm:"size:20;default:'string'" json:"type"` // string, bool, int, float, json
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *AppDefault) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (AppDefault) TableName() string {
	return "app_defaults"
}
