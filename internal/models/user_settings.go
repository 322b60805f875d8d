package models

import (
	"time"
)

// UserSettings is the per-user settings record, keyed by the anonymous
// user_id cookie value or the account UUID for registered users. Zero values
// mean "never set"; the settings resolver fills them from admin defaults and
// built-in constants at read time.
type UserSettings struct {
	UserID string `gorm:"size:64;primaryKey" json:"user_id"`

	// Model configuration
	Provider         string  `gorm:"size:50" json:"provider"`
	Model            string  `gorm:"size:100" json:"model"`
	APIKey           string  `gorm:"size:255" json:"api_key"`
	NiqqudPrompt     string  `gorm:"type:text" json:"niqqud_prompt"`
	SyllablePrompt   string  `gorm:"type:text" json:"syllable_prompt"`
	MorphologyPrompt string  `gorm:"type:text" json:"morphology_prompt"`
	Temperature      float64 `json:"temperature"`

	// Display configuration
	FontSize             int     `json:"font_size"`
	WordSpacing          float64 `json:"word_spacing"`
	LetterSpacing        float64 `json:"letter_spacing"`
	LineHeight           float64 `json:"line_height"`
	WordHighlightPadding int     `json:"word_highlight_padding"`
	HighlightColor       string  `gorm:"size:20" json:"highlight_color"`
	NiqqudColor          string  `gorm:"size:20" json:"niqqud_color"`
	StylePreset          string  `gorm:"size:50" json:"style_preset"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
