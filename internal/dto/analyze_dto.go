package dto

// Analysis modes accepted by POST /api/analyze.
const (
	ModeNiqqud     = "niqqud"
	ModeSyllables  = "syllables"
	ModeMorphology = "morphology"
	ModeFull       = "full"
)

type AnalyzeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// WordAnalysis is one analyzed token of the input text.
type WordAnalysis struct {
	Surface   string   `json:"surface"`
	Vocalized string   `json:"vocalized"`
	Syllables []string `json:"syllables,omitempty"`
	Root      string   `json:"root,omitempty"`
	POS       string   `json:"pos,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Number    string   `json:"number,omitempty"`
	Binyan    string   `json:"binyan,omitempty"`
}

type AnalyzeResponse struct {
	Results []WordAnalysis `json:"results"`
	Raw     string         `json:"raw"`
	Source  string         `json:"source"` // model or heuristic
}
