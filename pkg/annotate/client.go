// Package annotate is the Go client for the analysis API. It mirrors the UI
// state container: one current analysis with idle/loading/success/error
// state, and the last raw response cached locally so a restart can show the
// previous result immediately.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// Status is the analysis state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// errAnalysisFailed is the user-facing message shown for any failure.
const errAnalysisFailed = "הניתוח נכשל. נסו שוב."

// Word is one analyzed token.
type Word struct {
	Surface   string   `json:"surface"`
	Vocalized string   `json:"vocalized"`
	Syllables []string `json:"syllables,omitempty"`
	Root      string   `json:"root,omitempty"`
	POS       string   `json:"pos,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Number    string   `json:"number,omitempty"`
	Binyan    string   `json:"binyan,omitempty"`
}

type analyzeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type analyzeResponse struct {
	Results []Word `json:"results"`
	Raw     string `json:"raw"`
	Source  string `json:"source"`
}

// Entry is the current analysis state. Validated distinguishes a response
// freshly checked against the API from one restored out of the local cache.
type Entry struct {
	Results   []Word
	Raw       string
	Validated bool
}

// Client calls the analysis API and tracks the current analysis state.
// Overlapping Analyze calls are allowed and resolve last-write-wins; callers
// that need ordering must serialize themselves.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Store
	token   string

	mu     sync.Mutex
	status Status
	entry  Entry
	errMsg string
}

// Option configures a Client.
type Option func(*Client)

// WithAuthToken sends a bearer token with every request.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a Client against baseURL, restoring the previously cached raw
// response from store when one exists. Cache parse failures are logged and
// swallowed: the raw text stays displayable, just unvalidated and without
// structured results.
func New(baseURL string, store Store, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second, Jar: jar},
		cache:   store,
		status:  StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore()
	return c
}

func (c *Client) restore() {
	if c.cache == nil {
		return
	}
	raw, err := c.cache.Load()
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Warn("failed to load cached analysis", "error", err)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = Entry{Raw: raw, Validated: false}

	var payload struct {
		Words []Word `json:"words"`
	}
	content := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// keep the raw text for display, no structured results
		slog.Warn("cached analysis did not parse", "error", err)
		return
	}
	c.entry.Results = payload.Words
	c.status = StatusSuccess
}

// Analyze submits text for morphological analysis. On success the structured
// results and raw response replace the current entry and the raw response is
// written to the cache.
func (c *Client) Analyze(ctx context.Context, text string) (*Entry, error) {
	c.mu.Lock()
	c.status = StatusLoading
	c.errMsg = ""
	c.mu.Unlock()

	resp, err := c.post(ctx, text)
	if err != nil {
		c.mu.Lock()
		c.status = StatusError
		c.errMsg = errAnalysisFailed
		c.mu.Unlock()
		return nil, err
	}

	entry := Entry{Results: resp.Results, Raw: resp.Raw, Validated: true}

	c.mu.Lock()
	c.status = StatusSuccess
	c.entry = entry
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Save(resp.Raw); err != nil {
			slog.Warn("failed to cache analysis", "error", err)
		}
	}
	return &entry, nil
}

func (c *Client) post(ctx context.Context, text string) (*analyzeResponse, error) {
	body, err := json.Marshal(analyzeRequest{Text: text, Mode: "morphology"})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/analyze", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis API returned status %d", httpResp.StatusCode)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearResults resets the state machine and removes the cached entry.
func (c *Client) ClearResults() {
	c.mu.Lock()
	c.status = StatusIdle
	c.entry = Entry{}
	c.errMsg = ""
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Clear(); err != nil {
			slog.Warn("failed to clear analysis cache", "error", err)
		}
	}
}

// Status returns the current state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Entry returns the current analysis entry.
func (c *Client) Entry() Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// Err returns the user-facing error message, empty unless status is error.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// stripCodeFence removes an optional markdown code fence (``` or ```json)
// wrapping a cached response.
func stripCodeFence(content string) string {
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
