package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nakdan-app/nakdan-backend/internal/config"
	"github.com/nakdan-app/nakdan-backend/internal/database"
	"github.com/nakdan-app/nakdan-backend/internal/handlers"
	"github.com/nakdan-app/nakdan-backend/internal/middleware"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"github.com/nakdan-app/nakdan-backend/internal/providers"
	"github.com/nakdan-app/nakdan-backend/internal/routes"
	"github.com/nakdan-app/nakdan-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:        testJWTSecret,
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		AITimeout:        time.Second,
	}

	registry := providers.Defaults()
	authService := services.NewAuthService(db, cfg)
	defaultsService := services.NewDefaultsService(db)
	require.NoError(t, defaultsService.Seed())
	settingsService := services.NewSettingsService(db, defaultsService)
	analysisService := services.NewAnalysisService(db, registry, cfg.AITimeout)
	isAdmin := middleware.NewAdminCheck(db, cfg)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(registry),
		handlers.NewSettingsHandler(settingsService),
		handlers.NewDefaultsHandler(defaultsService, isAdmin),
		handlers.NewAnalysisHandler(analysisService, settingsService),
	)

	return &testEnv{app: app, db: db, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path, body string, mutate ...func(*http.Request)) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func userCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "user_id" {
			return c
		}
	}
	return nil
}

func (e *testEnv) createProfile(t *testing.T, email string, isAdmin bool) *models.Profile {
	t.Helper()
	profile := models.Profile{
		Email:       email,
		Password:    "x",
		IsAdmin:     isAdmin,
		Preferences: map[string]interface{}{},
	}
	require.NoError(t, e.db.Create(&profile).Error)
	return &profile
}

func (e *testEnv) tokenFor(t *testing.T, profile *models.Profile) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      profile.ID.String(),
		"email":    profile.Email,
		"is_admin": profile.IsAdmin,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(10 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestGetSettings_IssuesCookieExactlyOnce(t *testing.T) {
	env := newTestEnv(t)

	first := env.request(t, "GET", "/api/settings", "")
	assert.Equal(t, http.StatusOK, first.StatusCode)

	cookie := userCookie(first)
	require.NotNil(t, cookie, "first anonymous GET must issue the user_id cookie")
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 365*24*60*60, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	second := env.request(t, "GET", "/api/settings", "", func(r *http.Request) {
		r.AddCookie(cookie)
	})
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Nil(t, userCookie(second), "repeat requests must not re-issue the cookie")
}

func TestGetSettings_ReturnsFullyPopulatedDefaults(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/settings", "")
	body := decodeBody(t, resp)

	assert.Equal(t, float64(32), body["fontSize"])
	assert.Equal(t, float64(4), body["wordHighlightPadding"])
	assert.Equal(t, "default", body["stylePreset"])
	assert.NotEmpty(t, body["niqqudPrompt"])
}

func TestPutSettings_RoundTripAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)

	put := env.request(t, "PUT", "/api/settings", `{"fontSize": 40}`)
	require.Equal(t, http.StatusOK, put.StatusCode)
	cookie := userCookie(put)
	require.NotNil(t, cookie)

	putBody := decodeBody(t, put)
	assert.Equal(t, true, putBody["success"])

	get := env.request(t, "GET", "/api/settings", "", func(r *http.Request) {
		r.AddCookie(cookie)
	})
	body := decodeBody(t, get)
	assert.Equal(t, float64(40), body["fontSize"])
	assert.Equal(t, float64(4), body["wordHighlightPadding"], "omitted fields carry defaults")
}

func TestPutSettings_RejectsNonObjectBodies(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"null", `[1,2]`, `"text"`, "not json"} {
		resp := env.request(t, "PUT", "/api/settings", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestSettings_AuthenticatedPreferenceOverridesStored(t *testing.T) {
	env := newTestEnv(t)
	profile := env.createProfile(t, "reader@example.com", false)
	token := env.tokenFor(t, profile)

	// stored settings say 8, the preference write-through says 11
	put := env.request(t, "PUT", "/api/settings", `{"wordSpacing": 11}`, withBearer(token))
	require.Equal(t, http.StatusOK, put.StatusCode)

	// move the stored value without touching the preference
	require.NoError(t, env.db.Model(&models.UserSettings{}).
		Where("user_id = ?", profile.ID.String()).
		Update("word_spacing", 8).Error)

	get := env.request(t, "GET", "/api/settings", "", withBearer(token))
	body := decodeBody(t, get)
	assert.Equal(t, float64(11), body["wordSpacing"], "preference must beat the stored value")
}

func TestAdminDefaults_NonAdminGetsReadOnlyView(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/admin/defaults", "")
	body := decodeBody(t, resp)

	assert.Equal(t, false, body["editable"])
	defaults := body["defaults"].(map[string]interface{})
	assert.Contains(t, defaults, "font_size")
	assert.NotContains(t, defaults, "model")
}

func TestAdminDefaults_AdminGetsFullSet(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createProfile(t, "admin@example.com", true)

	resp := env.request(t, "GET", "/api/admin/defaults", "", withBearer(env.tokenFor(t, admin)))
	body := decodeBody(t, resp)

	assert.Equal(t, true, body["editable"])
	defaults := body["defaults"].(map[string]interface{})
	assert.Contains(t, defaults, "model")
	assert.Contains(t, defaults, "morphology_prompt")
}

func TestAdminDefaults_NonAdminPutForbiddenAndUnchanged(t *testing.T) {
	env := newTestEnv(t)
	user := env.createProfile(t, "user@example.com", false)

	resp := env.request(t, "PUT", "/api/admin/defaults", `{"fontSize": 99}`, withBearer(env.tokenFor(t, user)))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// anonymous writes are forbidden too
	anon := env.request(t, "PUT", "/api/admin/defaults", `{"fontSize": 99}`)
	assert.Equal(t, http.StatusForbidden, anon.StatusCode)

	var row models.AppDefault
	require.NoError(t, env.db.Where("key = ?", "font_size").First(&row).Error)
	assert.Equal(t, "32", row.Value, "rejected writes must never mutate stored defaults")
}

func TestAdminDefaults_AdminPutPersists(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createProfile(t, "admin@example.com", true)
	token := env.tokenFor(t, admin)

	resp := env.request(t, "PUT", "/api/admin/defaults", `{"fontSize": 48}`, withBearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	defaults := body["defaults"].(map[string]interface{})
	assert.Equal(t, float64(48), defaults["font_size"])

	// the new default feeds anonymous settings resolution
	get := env.request(t, "GET", "/api/settings", "")
	settings := decodeBody(t, get)
	assert.Equal(t, float64(48), settings["fontSize"])
}

func TestAdminDefaults_AdminTokenHeader(t *testing.T) {
	env := newTestEnv(t)

	cfg := *env.cfg
	cfg.AdminToken = "ops-token"
	isAdmin := middleware.NewAdminCheck(env.db, &cfg)

	app := fiber.New()
	defaultsService := services.NewDefaultsService(env.db)
	app.Put("/api/admin/defaults", handlers.NewDefaultsHandler(defaultsService, isAdmin).Update)

	req := httptest.NewRequest("PUT", "/api/admin/defaults", strings.NewReader(`{"fontSize": 50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "ops-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyze_EndToEndHeuristic(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("OPENAI_API_KEY", "")

	resp := env.request(t, "POST", "/api/analyze/", `{"text": "שָׁלוֹם", "mode": "morphology"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "heuristic", body["source"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
}

func TestAnalyze_EmptyTextRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/analyze/", `{"text": "  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPresets_Enumeration(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/presets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	ids := body["ids"].([]interface{})
	assert.Equal(t, "default", ids[0])
	assert.Len(t, body["presets"], len(ids))
}
