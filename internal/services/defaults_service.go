package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"gorm.io/gorm"
)

// DefaultsService manages the admin-editable global defaults, stored as typed
// key/value rows and overlaid onto the built-in constants.
type DefaultsService struct {
	db *gorm.DB
}

func NewDefaultsService(db *gorm.DB) *DefaultsService {
	return &DefaultsService{db: db}
}

type defaultSpec struct {
	key   string
	typ   string
	value func(s dto.Settings) string
	apply func(s *dto.Settings, raw string)
}

// No api_key entry: model keys are per-user or server-side env, never a
// global default.
var defaultSpecs = []defaultSpec{
	{"provider", "string",
		func(s dto.Settings) string { return s.Provider },
		func(s *dto.Settings, raw string) { s.Provider = raw }},
	{"model", "string",
		func(s dto.Settings) string { return s.Model },
		func(s *dto.Settings, raw string) { s.Model = raw }},
	{"niqqud_prompt", "string",
		func(s dto.Settings) string { return s.NiqqudPrompt },
		func(s *dto.Settings, raw string) { s.NiqqudPrompt = raw }},
	{"syllable_prompt", "string",
		func(s dto.Settings) string { return s.SyllablePrompt },
		func(s *dto.Settings, raw string) { s.SyllablePrompt = raw }},
	{"morphology_prompt", "string",
		func(s dto.Settings) string { return s.MorphologyPrompt },
		func(s *dto.Settings, raw string) { s.MorphologyPrompt = raw }},
	{"temperature", "float",
		func(s dto.Settings) string { return formatFloat(s.Temperature) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				s.Temperature = v
			}
		}},
	{"font_size", "int",
		func(s dto.Settings) string { return strconv.Itoa(s.FontSize) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.Atoi(raw); err == nil {
				s.FontSize = v
			}
		}},
	{"word_spacing", "float",
		func(s dto.Settings) string { return formatFloat(s.WordSpacing) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				s.WordSpacing = v
			}
		}},
	{"letter_spacing", "float",
		func(s dto.Settings) string { return formatFloat(s.LetterSpacing) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				s.LetterSpacing = v
			}
		}},
	{"line_height", "float",
		func(s dto.Settings) string { return formatFloat(s.LineHeight) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				s.LineHeight = v
			}
		}},
	{"word_highlight_padding", "int",
		func(s dto.Settings) string { return strconv.Itoa(s.WordHighlightPadding) },
		func(s *dto.Settings, raw string) {
			if v, err := strconv.Atoi(raw); err == nil {
				s.WordHighlightPadding = v
			}
		}},
	{"highlight_color", "string",
		func(s dto.Settings) string { return s.HighlightColor },
		func(s *dto.Settings, raw string) { s.HighlightColor = raw }},
	{"niqqud_color", "string",
		func(s dto.Settings) string { return s.NiqqudColor },
		func(s *dto.Settings, raw string) { s.NiqqudColor = raw }},
	{"style_preset", "string",
		func(s dto.Settings) string { return s.StylePreset },
		func(s *dto.Settings, raw string) { s.StylePreset = raw }},
}

// displayKeys is the read-only subset exposed to non-admins: styling only,
// never prompts or model configuration.
var displayKeys = map[string]bool{
	"font_size":              true,
	"word_spacing":           true,
	"letter_spacing":         true,
	"line_height":            true,
	"word_highlight_padding": true,
	"highlight_color":        true,
	"niqqud_color":           true,
	"style_preset":           true,
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Seed creates any missing default rows from the built-in constants. Existing
// rows are left untouched.
func (s *DefaultsService) Seed() error {
	for _, spec := range defaultSpecs {
		var existing models.AppDefault
		err := s.db.Where("key = ?", spec.key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := models.AppDefault{
				Key:   spec.key,
				Value: spec.value(Builtin),
				Type:  spec.typ,
			}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed default %s: %w", spec.key, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to query default %s: %w", spec.key, err)
		}
	}
	return nil
}

// AsSettings returns the built-in constants overlaid with the stored rows,
// forming the base layer of settings resolution.
func (s *DefaultsService) AsSettings() (dto.Settings, error) {
	rows, err := s.rows()
	if err != nil {
		return dto.Settings{}, err
	}

	settings := Builtin
	for _, spec := range defaultSpecs {
		if raw, ok := rows[spec.key]; ok {
			spec.apply(&settings, raw)
		}
	}
	return settings, nil
}

// All returns every default as a typed map, for the admin view.
func (s *DefaultsService) All() (map[string]interface{}, error) {
	return s.typedMap(nil)
}

// DisplayDefaults returns the read-only styling subset shown to non-admins.
func (s *DefaultsService) DisplayDefaults() (map[string]interface{}, error) {
	return s.typedMap(displayKeys)
}

func (s *DefaultsService) typedMap(filter map[string]bool) (map[string]interface{}, error) {
	settings, err := s.AsSettings()
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{})
	for _, spec := range defaultSpecs {
		if filter != nil && !filter[spec.key] {
			continue
		}
		raw := spec.value(settings)
		switch spec.typ {
		case "int":
			v, _ := strconv.Atoi(raw)
			result[spec.key] = v
		case "float":
			v, _ := strconv.ParseFloat(raw, 64)
			result[spec.key] = v
		case "bool":
			v, _ := strconv.ParseBool(raw)
			result[spec.key] = v
		default:
			result[spec.key] = raw
		}
	}
	return result, nil
}

// Update upserts rows for every field present in the partial request.
func (s *DefaultsService) Update(req *dto.UpdateSettingsRequest) error {
	type pending struct {
		key, value, typ string
	}
	var writes []pending

	addString := func(key string, v *string) {
		if v != nil {
			writes = append(writes, pending{key, *v, "string"})
		}
	}
	addInt := func(key string, v *int) {
		if v != nil {
			writes = append(writes, pending{key, strconv.Itoa(*v), "int"})
		}
	}
	addFloat := func(key string, v *float64) {
		if v != nil {
			writes = append(writes, pending{key, formatFloat(*v), "float"})
		}
	}

	addString("provider", req.Provider)
	addString("model", req.Model)
	addString("niqqud_prompt", req.NiqqudPrompt)
	addString("syllable_prompt", req.SyllablePrompt)
	addString("morphology_prompt", req.MorphologyPrompt)
	addFloat("temperature", req.Temperature)
	addInt("font_size", req.FontSize)
	addFloat("word_spacing", req.WordSpacing)
	addFloat("letter_spacing", req.LetterSpacing)
	addFloat("line_height", req.LineHeight)
	addInt("word_highlight_padding", req.WordHighlightPadding)
	addString("highlight_color", req.HighlightColor)
	addString("niqqud_color", req.NiqqudColor)
	addString("style_preset", req.StylePreset)

	for _, w := range writes {
		if err := s.set(w.key, w.value, w.typ); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultsService) set(key, value, typ string) error {
	var row models.AppDefault
	err := s.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.AppDefault{Key: key, Value: value, Type: typ}
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create default %s: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query default %s: %w", key, err)
	}

	row.Value = value
	row.Type = typ
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to update default %s: %w", key, err)
	}
	return nil
}

func (s *DefaultsService) rows() (map[string]string, error) {
	var rows []models.AppDefault
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch defaults: %w", err)
	}
	result := make(map[string]string, len(rows))
	for _, r := range rows {
		result[r.Key] = r.Value
	}
	return result, nil
}
