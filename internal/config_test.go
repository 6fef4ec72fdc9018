package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
window_days: 30
currency: sek
store: SQLite
data_path: /tmp/subs.db
renewal_includes_today: true
timeline_months: 6
icons:
  Pets: "🐶"
log_level: Debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, "SEK", cfg.Currency)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/subs.db", cfg.ResolvedDataPath())
	assert.True(t, cfg.RenewalOptions().IncludeToday)
	assert.Equal(t, 6, cfg.TimelineMonths)
	assert.Equal(t, "🐶", cfg.Icons["Pets"])
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "currency: EUR\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
	assert.Equal(t, StoreJSON, cfg.Store)
	assert.Equal(t, DefaultTimelineMonths, cfg.TimelineMonths)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.RenewalOptions().IncludeToday)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "window_days: [", "parsing config file"},
		{"negative window", "window_days: -1", "window_days"},
		{"unknown store", "store: redis", "invalid store"},
		{"unknown log level", "log_level: chatty", "invalid log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)

	_, err = LoadConfigOrDefault(writeConfig(t, "store: nope"))
	assert.Error(t, err)
}

func TestConfig_ResolvedDataPathDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, filepath.Join(DefaultConfigDir(), "subscriptions.json"), cfg.ResolvedDataPath())

	cfg.Store = StoreSQLite
	assert.Equal(t, filepath.Join(DefaultConfigDir(), "subscriptions.db"), cfg.ResolvedDataPath())
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GenerateConfigTemplate(sampleSubs())
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "USD", loaded.Currency)
	assert.Equal(t, map[string]string{"Streaming": "🎬", "Wellness": "🧘"}, loaded.Icons)
}
