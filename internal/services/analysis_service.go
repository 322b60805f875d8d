package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/hebrew"
	"github.com/nakdan-app/nakdan-backend/internal/identity"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"github.com/nakdan-app/nakdan-backend/internal/providers"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmptyText       = errors.New("text is required")
	ErrUnknownMode     = errors.New("unknown analysis mode")
	ErrUnknownProvider = errors.New("unknown provider")
)

const maxInputLength = 4000

// AnalysisService runs niqqud/syllable/morphology analysis through the
// configured chat-completions provider, with a heuristic fallback when no API
// key is available.
type AnalysisService struct {
	db       *gorm.DB
	registry *providers.Registry
	timeout  time.Duration
}

func NewAnalysisService(db *gorm.DB, registry *providers.Registry, timeout time.Duration) *AnalysisService {
	return &AnalysisService{db: db, registry: registry, timeout: timeout}
}

// --- chat-completions wire types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type annotationPayload struct {
	Words []dto.WordAnalysis `json:"words"`
}

// Analyze runs one analysis request with the caller's effective settings and
// persists the result.
func (s *AnalysisService) Analyze(userID string, req *dto.AnalyzeRequest, settings dto.Settings) (*dto.AnalyzeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	text = truncate(text, maxInputLength)

	mode := req.Mode
	if mode == "" {
		mode = dto.ModeFull
	}
	prompt, err := promptForMode(mode, settings)
	if err != nil {
		return nil, err
	}

	provider := s.registry.Get(settings.Provider)
	if provider == nil {
		return nil, ErrUnknownProvider
	}

	apiKey := settings.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(provider.KeyEnv)
	}

	start := time.Now()
	var resp *dto.AnalyzeResponse
	if apiKey == "" {
		resp = s.heuristicAnalyze(text)
	} else {
		resp, err = s.callProvider(provider, apiKey, prompt, text, settings)
		if err != nil {
			slog.Error("model analysis failed, using heuristic",
				"provider", provider.ID, "error", err.Error(), "action", "analyze")
			resp = s.heuristicAnalyze(text)
		}
	}

	s.record(userID, mode, provider.ID, settings.Model, text, resp, time.Since(start))
	return resp, nil
}

func promptForMode(mode string, settings dto.Settings) (string, error) {
	switch mode {
	case dto.ModeNiqqud:
		return settings.NiqqudPrompt, nil
	case dto.ModeSyllables:
		return settings.SyllablePrompt, nil
	case dto.ModeMorphology, dto.ModeFull:
		return settings.MorphologyPrompt, nil
	default:
		return "", ErrUnknownMode
	}
}

func (s *AnalysisService) callProvider(provider *providers.ProviderConfig, apiKey, prompt, text string, settings dto.Settings) (*dto.AnalyzeResponse, error) {
	model := settings.Model
	if model == "" {
		model = provider.DefaultModel
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
		Temperature: settings.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", provider.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: s.timeout}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", httpResp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, errors.New("provider returned no choices")
	}

	raw := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	content := StripCodeFence(raw)

	var payload annotationPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse annotation JSON: %w", err)
	}

	return &dto.AnalyzeResponse{
		Results: payload.Words,
		Raw:     raw,
		Source:  "model",
	}, nil
}

// heuristicAnalyze decomposes the input without a model: syllables for
// pointed words, surface-only tokens otherwise.
func (s *AnalysisService) heuristicAnalyze(text string) *dto.AnalyzeResponse {
	words := hebrew.Words(text)
	results := make([]dto.WordAnalysis, 0, len(words))
	for _, w := range words {
		entry := dto.WordAnalysis{
			Surface:   hebrew.StripNiqqud(w),
			Vocalized: w,
		}
		if hebrew.HasNiqqud(w) {
			entry.Syllables = hebrew.SplitSyllables(w)
		}
		results = append(results, entry)
	}

	raw, _ := json.Marshal(annotationPayload{Words: results})
	return &dto.AnalyzeResponse{
		Results: results,
		Raw:     string(raw),
		Source:  "heuristic",
	}
}

func (s *AnalysisService) record(userID, mode, provider, model, text string, resp *dto.AnalyzeResponse, latency time.Duration) {
	resultsJSON, err := json.Marshal(resp.Results)
	if err != nil {
		resultsJSON = []byte("[]")
	}

	rec := models.AnalysisRecord{
		UserID:    userID,
		Mode:      mode,
		Provider:  provider,
		Model:     model,
		Source:    resp.Source,
		InputText: text,
		Results:   datatypes.JSON(resultsJSON),
		RawOutput: resp.Raw,
		LatencyMs: int(latency.Milliseconds()),
	}

	if err := s.db.Create(&rec).Error; err != nil {
		slog.Error("failed to store analysis record", "error", err.Error(), "action", "analyze")
	}
}

// History returns the most recent analysis records for userID.
func (s *AnalysisService) History(userID string, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var records []models.AnalysisRecord
	if err := s.db.Scopes(identity.ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return records, nil
}

// truncate caps s at max bytes without splitting a multi-byte rune, so the
// stored input text stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// StripCodeFence removes an optional markdown code fence (``` or ```json)
// wrapping a model response.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines[1:], "\n"))
}
