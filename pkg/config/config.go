// Package config loads the map settings from ~/.campusmap.toml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// EnvPath overrides the config file location.
const EnvPath = "CAMPUSMAP_CONFIG"

// Config holds all persistent settings.
type Config struct {
	API       API               `toml:"api"`
	Map       Map               `toml:"map"`
	Animation Animation         `toml:"animation"`
	Log       Log               `toml:"log"`
	Theme     map[string]string `toml:"theme,omitempty"` // element -> "#rrggbb"
}

// API locates the routing service.
type API struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token,omitempty"`
}

// Map selects the data to show.
type Map struct {
	Graph      string  `toml:"graph"`      // file path; empty fetches from the API
	Background string  `toml:"background"` // file path or URL
	Padding    float64 `toml:"padding"`
	Strategy   string  `toml:"strategy"`
	Transport  string  `toml:"transport"`
}

// Animation tunes route playback.
type Animation struct {
	Speed   float64 `toml:"speed"`    // edges per second
	FrameMS int     `toml:"frame_ms"` // frame interval
}

// FrameInterval returns the frame interval as a duration.
func (a Animation) FrameInterval() time.Duration {
	return time.Duration(a.FrameMS) * time.Millisecond
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
	File  string `toml:"file,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		API: API{BaseURL: "http://localhost:8000"},
		Map: Map{
			Padding:   50,
			Strategy:  "dist",
			Transport: "walk",
		},
		Animation: Animation{Speed: 2, FrameMS: 33},
		Log:       Log{Level: "info"},
	}
}

// Path returns the config file path.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".campusmap.toml"
	}
	return filepath.Join(home, ".campusmap.toml")
}

// Load reads the config from Path.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path over the defaults. A missing file
// yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects settings the map cannot run with.
func (c Config) Validate() error {
	if c.Map.Padding < 0 {
		return errors.Newf("map.padding must not be negative, got %v", c.Map.Padding)
	}
	if c.Animation.Speed <= 0 {
		return errors.Newf("animation.speed must be positive, got %v", c.Animation.Speed)
	}
	if c.Animation.FrameMS <= 0 {
		return errors.Newf("animation.frame_ms must be positive, got %d", c.Animation.FrameMS)
	}
	switch c.Map.Strategy {
	case "dist", "time":
	default:
		return errors.Newf("map.strategy must be dist or time, got %q", c.Map.Strategy)
	}
	switch c.Map.Transport {
	case "walk", "bike":
	default:
		return errors.Newf("map.transport must be walk or bike, got %q", c.Map.Transport)
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer f.Close()

	if _, err := f.WriteString("# campusmap configuration\n"); err != nil {
		return errors.Wrap(err, "write config")
	}
	return errors.Wrap(toml.NewEncoder(f).Encode(cfg), "encode config")
}
