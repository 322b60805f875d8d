// Package presets holds the compile-time styling preset table used by the
// reading view.
package presets

// StylingPreset maps a preset id to the CSS class bundle the client applies
// to the text container, the highlighted word and the niqqud marks.
type StylingPreset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContainerClass string `json:"containerClass"`
	WordClass      string `json:"wordClass"`
	NiqqudClass    string `json:"niqqudClass"`
}

const DefaultPresetID = "default"

var presetTable = map[string]StylingPreset{
	"default": {
		ID:             "default",
		Name:           "ברירת מחדל",
		ContainerClass: "bg-white text-slate-900",
		WordClass:      "rounded bg-amber-100 px-1",
		NiqqudClass:    "text-indigo-900",
	},
	"high-contrast": {
		ID:             "high-contrast",
		Name:           "ניגודיות גבוהה",
		ContainerClass: "bg-black text-white",
		WordClass:      "rounded bg-yellow-300 px-1 text-black",
		NiqqudClass:    "text-yellow-300",
	},
	"sepia": {
		ID:             "sepia",
		Name:           "ספיה",
		ContainerClass: "bg-amber-50 text-stone-800",
		WordClass:      "rounded bg-orange-200 px-1",
		NiqqudClass:    "text-orange-800",
	},
	"night": {
		ID:             "night",
		Name:           "מצב לילה",
		ContainerClass: "bg-slate-900 text-slate-100",
		WordClass:      "rounded bg-indigo-700 px-1",
		NiqqudClass:    "text-indigo-300",
	},
	"print": {
		ID:             "print",
		Name:           "הדפסה",
		ContainerClass: "bg-white text-black",
		WordClass:      "underline decoration-dotted",
		NiqqudClass:    "text-black",
	},
}

// enumeration order for UI pickers
var presetOrder = []string{"default", "high-contrast", "sepia", "night", "print"}

// GetPreset returns the preset for id, falling back to the default preset for
// unknown or empty ids. Total: never fails.
func GetPreset(id string) StylingPreset {
	if p, ok := presetTable[id]; ok {
		return p
	}
	return presetTable[DefaultPresetID]
}

// AllPresets returns every preset in stable enumeration order.
func AllPresets() []StylingPreset {
	result := make([]StylingPreset, 0, len(presetOrder))
	for _, id := range presetOrder {
		result = append(result, presetTable[id])
	}
	return result
}

// PresetIDs returns the preset ids in stable enumeration order.
func PresetIDs() []string {
	result := make([]string, len(presetOrder))
	copy(result, presetOrder)
	return result
}
