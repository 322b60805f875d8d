package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"gorm.io/gorm"
)

// Builtin is the last-resort settings layer: the constants every field falls
// back to when neither admin defaults nor stored user settings provide a value.
var Builtin = dto.Settings{
	Provider:         "openai",
	Model:            "gpt-4o-mini",
	NiqqudPrompt:     "אתה מנקד מקצועי. נקד את הטקסט העברי הבא במלואו, ללא הסברים. החזר JSON בלבד: {\"words\":[{\"surface\":\"\",\"vocalized\":\"\"}]}",
	SyllablePrompt:   "חלק כל מילה בטקסט המנוקד להברות. החזר JSON בלבד: {\"words\":[{\"surface\":\"\",\"vocalized\":\"\",\"syllables\":[]}]}",
	MorphologyPrompt: "נתח מורפולוגית כל מילה: שורש, חלק דיבר, מין, מספר ובניין. החזר JSON בלבד: {\"words\":[{\"surface\":\"\",\"vocalized\":\"\",\"root\":\"\",\"pos\":\"\",\"gender\":\"\",\"number\":\"\",\"binyan\":\"\"}]}",
	Temperature:      0.2,

	FontSize:             32,
	WordSpacing:          8,
	LetterSpacing:        0,
	LineHeight:           1.8,
	WordHighlightPadding: 4,
	HighlightColor:       "#fde047",
	NiqqudColor:          "#312e81",
	StylePreset:          "default",
}

type SettingsService struct {
	db       *gorm.DB
	defaults *DefaultsService
}

func NewSettingsService(db *gorm.DB, defaults *DefaultsService) *SettingsService {
	return &SettingsService{db: db, defaults: defaults}
}

// GetEffective returns the fully-resolved settings for userID. For
// authenticated callers accountID carries the profile whose word-spacing
// preference overrides the stored value.
func (s *SettingsService) GetEffective(userID string, accountID *uuid.UUID) (dto.Settings, error) {
	base, err := s.defaults.AsSettings()
	if err != nil {
		return dto.Settings{}, err
	}

	var stored *models.UserSettings
	var record models.UserSettings
	err = s.db.First(&record, "user_id = ?", userID).Error
	switch {
	case err == nil:
		stored = &record
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first visit, defaults only
	default:
		return dto.Settings{}, fmt.Errorf("failed to fetch settings: %w", err)
	}

	var pref *float64
	if accountID != nil {
		var profile models.Profile
		if err := s.db.First(&profile, "id = ?", *accountID).Error; err == nil {
			pref = profile.WordSpacingPreference()
		}
	}

	return Resolve(base, stored, pref), nil
}

// Resolve applies the settings precedence order: base (built-ins overlaid
// with admin defaults) < stored user settings < authenticated word-spacing
// preference. Zero-valued stored fields mean "never set" and keep the base
// value.
func Resolve(base dto.Settings, stored *models.UserSettings, wordSpacingPref *float64) dto.Settings {
	effective := base

	if stored != nil {
		if stored.Provider != "" {
			effective.Provider = stored.Provider
		}
		if stored.Model != "" {
			effective.Model = stored.Model
		}
		if stored.APIKey != "" {
			effective.APIKey = stored.APIKey
		}
		if stored.NiqqudPrompt != "" {
			effective.NiqqudPrompt = stored.NiqqudPrompt
		}
		if stored.SyllablePrompt != "" {
			effective.SyllablePrompt = stored.SyllablePrompt
		}
		if stored.MorphologyPrompt != "" {
			effective.MorphologyPrompt = stored.MorphologyPrompt
		}
		if stored.Temperature != 0 {
			effective.Temperature = stored.Temperature
		}
		if stored.FontSize != 0 {
			effective.FontSize = stored.FontSize
		}
		if stored.WordSpacing != 0 {
			effective.WordSpacing = stored.WordSpacing
		}
		if stored.LetterSpacing != 0 {
			effective.LetterSpacing = stored.LetterSpacing
		}
		if stored.LineHeight != 0 {
			effective.LineHeight = stored.LineHeight
		}
		if stored.WordHighlightPadding != 0 {
			effective.WordHighlightPadding = stored.WordHighlightPadding
		}
		if stored.HighlightColor != "" {
			effective.HighlightColor = stored.HighlightColor
		}
		if stored.NiqqudColor != "" {
			effective.NiqqudColor = stored.NiqqudColor
		}
		if stored.StylePreset != "" {
			effective.StylePreset = stored.StylePreset
		}
	}

	if wordSpacingPref != nil {
		effective.WordSpacing = *wordSpacingPref
	}

	return effective
}

// Save merges the partial update into the stored record, creating it on first
// write. Fields absent from the request keep their previously saved values.
func (s *SettingsService) Save(userID string, req *dto.UpdateSettingsRequest) error {
	var record models.UserSettings
	err := s.db.First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.UserSettings{UserID: userID}
	} else if err != nil {
		return fmt.Errorf("failed to fetch settings: %w", err)
	}

	applyUpdate(&record, req)

	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func applyUpdate(record *models.UserSettings, req *dto.UpdateSettingsRequest) {
	if req.Provider != nil {
		record.Provider = *req.Provider
	}
	if req.Model != nil {
		record.Model = *req.Model
	}
	if req.APIKey != nil {
		record.APIKey = *req.APIKey
	}
	if req.NiqqudPrompt != nil {
		record.NiqqudPrompt = *req.NiqqudPrompt
	}
	if req.SyllablePrompt != nil {
		record.SyllablePrompt = *req.SyllablePrompt
	}
	if req.MorphologyPrompt != nil {
		record.MorphologyPrompt = *req.MorphologyPrompt
	}
	if req.Temperature != nil {
		record.Temperature = *req.Temperature
	}
	if req.FontSize != nil {
		record.FontSize = *req.FontSize
	}
	if req.WordSpacing != nil {
		record.WordSpacing = *req.WordSpacing
	}
	if req.LetterSpacing != nil {
		record.LetterSpacing = *req.LetterSpacing
	}
	if req.LineHeight != nil {
		record.LineHeight = *req.LineHeight
	}
	if req.WordHighlightPadding != nil {
		record.WordHighlightPadding = *req.WordHighlightPadding
	}
	if req.HighlightColor != nil {
		record.HighlightColor = *req.HighlightColor
	}
	if req.NiqqudColor != nil {
		record.NiqqudColor = *req.NiqqudColor
	}
	if req.StylePreset != nil {
		record.StylePreset = *req.StylePreset
	}
}

// SetWordSpacingPreference writes the authenticated word-spacing override
// into the profile's preferences JSON.
func (s *SettingsService) SetWordSpacingPreference(accountID uuid.UUID, wordSpacing float64) error {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", accountID).Error; err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if profile.Preferences == nil {
		profile.Preferences = map[string]interface{}{}
	}
	profile.Preferences["word_spacing"] = wordSpacing

	if err := s.db.Model(&profile).Update("preferences", profile.Preferences).Error; err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}
