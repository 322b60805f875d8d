package dto

// Settings is the fully-populated settings object returned to clients. Every
// field is guaranteed non-zero-for-its-meaning after resolution: omitted or
// never-saved fields carry admin defaults or built-in constants.
type Settings struct {
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	APIKey           string  `json:"apiKey"`
	NiqqudPrompt     string  `json:"niqqudPrompt"`
	SyllablePrompt   string  `json:"syllablePrompt"`
	MorphologyPrompt string  `json:"morphologyPrompt"`
	Temperature      float64 `json:"temperature"`

	FontSize             int     `json:"fontSize"`
	WordSpacing          float64 `json:"wordSpacing"`
	LetterSpacing        float64 `json:"letterSpacing"`
	LineHeight           float64 `json:"lineHeight"`
	WordHighlightPadding int     `json:"wordHighlightPadding"`
	HighlightColor       string  `json:"highlightColor"`
	NiqqudColor          string  `json:"niqqudColor"`
	StylePreset          string  `json:"stylePreset"`
}

// UpdateSettingsRequest is a partial settings object: nil fields are left
// untouched in the stored record.
type UpdateSettingsRequest struct {
	Provider         *string  `json:"provider"`
	Model            *string  `json:"model"`
	APIKey           *string  `json:"apiKey"`
	NiqqudPrompt     *string  `json:"niqqudPrompt"`
	SyllablePrompt   *string  `json:"syllablePrompt"`
	MorphologyPrompt *string  `json:"morphologyPrompt"`
	Temperature      *float64 `json:"temperature"`

	FontSize             *int     `json:"fontSize"`
	WordSpacing          *float64 `json:"wordSpacing"`
	LetterSpacing        *float64 `json:"letterSpacing"`
	LineHeight           *float64 `json:"lineHeight"`
	WordHighlightPadding *int     `json:"wordHighlightPadding"`
	HighlightColor       *string  `json:"highlightColor"`
	NiqqudColor          *string  `json:"niqqudColor"`
	StylePreset          *string  `json:"stylePreset"`
}

type UpdateSettingsResponse struct {
	Success  bool     `json:"success"`
	Settings Settings `json:"settings"`
}

// DefaultsResponse is the admin view of the global defaults. Non-admins get
// the read-only display subset instead (see DisplayDefaults).
type DefaultsResponse struct {
	Editable bool                   `json:"editable"`
	Defaults map[string]interface{} `json:"defaults"`
}

type UpdateDefaultsResponse struct {
	Success  bool                   `json:"success"`
	Defaults map[string]interface{} `json:"defaults"`
}
