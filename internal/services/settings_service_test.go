package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/nakdan-app/nakdan-backend/internal/database"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newSettingsService(t *testing.T) (*SettingsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	defaults := NewDefaultsService(db)
	require.NoError(t, defaults.Seed())
	return NewSettingsService(db, defaults), db
}

func TestResolve_BuiltinsWhenNothingStored(t *testing.T) {
	effective := Resolve(Builtin, nil, nil)
	assert.Equal(t, Builtin, effective)
}

func TestResolve_StoredOverridesBase(t *testing.T) {
	stored := &models.UserSettings{FontSize: 40, HighlightColor: "#ff0000"}

	effective := Resolve(Builtin, stored, nil)

	assert.Equal(t, 40, effective.FontSize)
	assert.Equal(t, "#ff0000", effective.HighlightColor)
	// untouched fields keep built-ins
	assert.Equal(t, Builtin.WordHighlightPadding, effective.WordHighlightPadding)
	assert.Equal(t, Builtin.Model, effective.Model)
}

func TestResolve_PreferenceBeatsStored(t *testing.T) {
	stored := &models.UserSettings{WordSpacing: 8}
	pref := 12.5

	effective := Resolve(Builtin, stored, &pref)

	assert.Equal(t, 12.5, effective.WordSpacing)
}

func TestGetEffective_FirstVisitReturnsDefaults(t *testing.T) {
	svc, _ := newSettingsService(t)

	settings, err := svc.GetEffective(uuid.New().String(), nil)
	require.NoError(t, err)
	assert.Equal(t, Builtin.FontSize, settings.FontSize)
	assert.Equal(t, Builtin.StylePreset, settings.StylePreset)
}

func TestSave_PartialUpdateKeepsEarlierFields(t *testing.T) {
	svc, _ := newSettingsService(t)
	userID := uuid.New().String()

	color := "#00ff00"
	require.NoError(t, svc.Save(userID, &dto.UpdateSettingsRequest{HighlightColor: &color}))

	size := 40
	require.NoError(t, svc.Save(userID, &dto.UpdateSettingsRequest{FontSize: &size}))

	settings, err := svc.GetEffective(userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, settings.FontSize)
	assert.Equal(t, "#00ff00", settings.HighlightColor, "first write must survive the second partial update")
	assert.Equal(t, Builtin.WordHighlightPadding, settings.WordHighlightPadding)
}

func TestSave_RoundTripAppliesDefaultsForOmittedFields(t *testing.T) {
	svc, _ := newSettingsService(t)
	userID := uuid.New().String()

	size := 40
	require.NoError(t, svc.Save(userID, &dto.UpdateSettingsRequest{FontSize: &size}))

	settings, err := svc.GetEffective(userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, settings.FontSize)
	assert.Equal(t, 4, settings.WordHighlightPadding)
}

func TestSetWordSpacingPreference_OverridesInGet(t *testing.T) {
	svc, db := newSettingsService(t)

	profile := models.Profile{Email: "a@b.co", Password: "x", Preferences: map[string]interface{}{}}
	require.NoError(t, db.Create(&profile).Error)

	spacing := 14.0
	require.NoError(t, svc.Save(profile.ID.String(), &dto.UpdateSettingsRequest{WordSpacing: &spacing}))
	require.NoError(t, svc.SetWordSpacingPreference(profile.ID, 21))

	settings, err := svc.GetEffective(profile.ID.String(), &profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 21.0, settings.WordSpacing)
}

func TestGetEffective_AdminDefaultBeatsBuiltin(t *testing.T) {
	svc, db := newSettingsService(t)

	size := 48
	defaults := NewDefaultsService(db)
	require.NoError(t, defaults.Update(&dto.UpdateSettingsRequest{FontSize: &size}))

	settings, err := svc.GetEffective(uuid.New().String(), nil)
	require.NoError(t, err)
	assert.Equal(t, 48, settings.FontSize)
}
