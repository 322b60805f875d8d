package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is a registered account. Anonymous visitors never get a Profile;
// they are identified only by the user_id cookie.
type Profile struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string            `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string            `gorm:"not null" json:"-"`
	IsAdmin      bool              `gorm:"default:false;index:idx_profiles_is_admin,where:is_admin = true" json:"is_admin"`
	Preferences  datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"preferences"`
	AuthProvider string            `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// WordSpacingPreference reads the word-spacing override from the preferences
// JSON. Returns nil when the preference was never set.
func (p *Profile) WordSpacingPreference() *float64 {
	if p.Preferences == nil {
		return nil
	}
	raw, ok := p.Preferences["word_spacing"]
	if !ok {
		return nil
	}
	// JSONMap round-trips numbers as float64
	if v, ok := raw.(float64); ok {
		return &v
	}
	return nil
}
