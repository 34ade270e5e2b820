package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campusmap.toml")
	src := `
[api]
base_url = "http://maps.example:9000"
token = "secret"

[map]
graph = "campus.json"
strategy = "time"

[animation]
speed = 4.5

[theme]
path = "#ff00ff"
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://maps.example:9000", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "campus.json", cfg.Map.Graph)
	assert.Equal(t, "time", cfg.Map.Strategy)
	assert.Equal(t, "walk", cfg.Map.Transport, "untouched keys keep defaults")
	assert.Equal(t, 50.0, cfg.Map.Padding)
	assert.Equal(t, 4.5, cfg.Animation.Speed)
	assert.Equal(t, 33*time.Millisecond, cfg.Animation.FrameInterval())
	assert.Equal(t, "#ff00ff", cfg.Theme["path"])
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "[api\nbase_url = 1"},
		{"negative padding", "[map]\npadding = -1"},
		{"zero speed", "[animation]\nspeed = 0"},
		{"bad strategy", "[map]\nstrategy = \"fastest\""},
		{"bad transport", "[map]\ntransport = \"car\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.src), 0o644))
			cfg, err := LoadFrom(path)
			assert.Error(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "campusmap.toml")
	cfg := Default()
	cfg.Map.Background = "https://maps.example/campus.png"
	cfg.Log.JSON = true

	require.NoError(t, Save(path, cfg))
	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/elsewhere.toml")
	assert.Equal(t, "/tmp/elsewhere.toml", Path())
}
