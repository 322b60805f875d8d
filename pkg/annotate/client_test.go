package annotate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRaw = `{"words":[{"surface":"שלום","vocalized":"שָׁלוֹם","root":"שלמ"}]}`

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	return store, filepath.Join(dir, "morphology_last_response.json")
}

func analyzeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", handler)
	return httptest.NewServer(mux)
}

func TestNew_RestoresCachedResponse(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Save(sampleRaw))

	c := New("http://unused.invalid", store)

	assert.Equal(t, StatusSuccess, c.Status())
	entry := c.Entry()
	require.Len(t, entry.Results, 1)
	assert.Equal(t, "שלום", entry.Results[0].Surface)
	assert.False(t, entry.Validated, "restored entries are unvalidated until re-analyzed")
}

func TestNew_FencedAndUnfencedCacheParseIdentically(t *testing.T) {
	plainStore, _ := newStore(t)
	require.NoError(t, plainStore.Save(sampleRaw))
	plain := New("http://unused.invalid", plainStore)

	fencedStore, _ := newStore(t)
	require.NoError(t, fencedStore.Save("```json\n"+sampleRaw+"\n```"))
	fenced := New("http://unused.invalid", fencedStore)

	assert.Equal(t, plain.Entry().Results, fenced.Entry().Results)
	assert.Equal(t, StatusSuccess, fenced.Status())
}

func TestNew_UnparseableCacheKeepsRawText(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Save("not json at all"))

	c := New("http://unused.invalid", store)

	assert.Equal(t, StatusIdle, c.Status())
	entry := c.Entry()
	assert.Equal(t, "not json at all", entry.Raw)
	assert.Empty(t, entry.Results)
}

func TestNew_EmptyCacheStaysIdle(t *testing.T) {
	store, _ := newStore(t)

	c := New("http://unused.invalid", store)

	assert.Equal(t, StatusIdle, c.Status())
	assert.Empty(t, c.Entry().Raw)
}

func TestAnalyze_SuccessUpdatesStateAndCache(t *testing.T) {
	server := analyzeServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "שלום עולם", req.Text)
		assert.Equal(t, "morphology", req.Mode)

		json.NewEncoder(w).Encode(analyzeResponse{
			Results: []Word{{Surface: "שלום"}, {Surface: "עולם"}},
			Raw:     sampleRaw,
			Source:  "model",
		})
	})
	defer server.Close()

	store, path := newStore(t)
	c := New(server.URL, store)

	entry, err := c.Analyze(context.Background(), "שלום עולם")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, c.Status())
	assert.True(t, entry.Validated)
	require.Len(t, entry.Results, 2)

	cached, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRaw, string(cached))
}

func TestAnalyze_FailureSetsLocalizedError(t *testing.T) {
	server := analyzeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	store, _ := newStore(t)
	c := New(server.URL, store)

	_, err := c.Analyze(context.Background(), "שלום")
	require.Error(t, err)

	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, "הניתוח נכשל. נסו שוב.", c.Err())
}

func TestAnalyze_SendsBearerToken(t *testing.T) {
	server := analyzeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(analyzeResponse{Raw: "{}"})
	})
	defer server.Close()

	c := New(server.URL, nil, WithAuthToken("tok"))
	_, err := c.Analyze(context.Background(), "שלום")
	require.NoError(t, err)
}

func TestClearResults_ResetsStateAndRemovesCache(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, store.Save(sampleRaw))

	c := New("http://unused.invalid", store)
	require.Equal(t, StatusSuccess, c.Status())

	c.ClearResults()

	assert.Equal(t, StatusIdle, c.Status())
	assert.Empty(t, c.Entry().Raw)
	assert.Empty(t, c.Err())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_MissReturnsSentinel(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrCacheMiss)

	// clearing an empty store is fine
	assert.NoError(t, store.Clear())
}
