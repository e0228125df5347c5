package config

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/lunar"
	"github.com/spf13/viper"
)

// DiscTheme holds the disc look. Colors are hex strings (#RRGGBB or
// #RRGGBBAA).
type DiscTheme struct {
	MoonColor           string  `mapstructure:"moon_color"`
	ShadowColor         string  `mapstructure:"shadow_color"`
	EarthshineColor     string  `mapstructure:"earthshine_color"`
	EarthshineIntensity float64 `mapstructure:"earthshine_intensity"`
	TerminatorSoftness  float64 `mapstructure:"terminator_softness"`
	ShowCraters         bool    `mapstructure:"show_craters"`
	ShowGlow            bool    `mapstructure:"show_glow"`
}

// Config holds all runtime configuration for the lunar tools.
// Values are populated from .lunar.yaml, LUNAR_* env vars, and CLI flags.
type Config struct {
	TimeZone      string    `mapstructure:"timezone"`
	Latitude      float64   `mapstructure:"latitude"`
	Longitude     float64   `mapstructure:"longitude"`
	ShowDetails   bool      `mapstructure:"show_details"`
	DiscSize      float64   `mapstructure:"disc_size"`
	WindowWidth   int       `mapstructure:"window_width"`
	WindowHeight  int       `mapstructure:"window_height"`
	PixelsPerHour float64   `mapstructure:"pixels_per_hour"`
	VisibleDays   int       `mapstructure:"visible_days"`
	CacheCapacity int       `mapstructure:"cache_capacity"`
	SnapshotDir   string    `mapstructure:"snapshot_dir"`
	Debug         bool      `mapstructure:"debug"`
	Verbose       bool      `mapstructure:"verbose"`
	Disc          DiscTheme `mapstructure:"disc"`
}

// ErrNoConfigFile is returned by Watch when viper has not read a config file.
var ErrNoConfigFile = errors.New("no config file in use")

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	def := lunar.DefaultDiscConfig()
	viper.SetDefault("timezone", "")
	viper.SetDefault("latitude", 0.0)
	viper.SetDefault("longitude", 0.0)
	viper.SetDefault("show_details", false)
	viper.SetDefault("disc_size", 0.0)
	viper.SetDefault("window_width", 480)
	viper.SetDefault("window_height", 640)
	viper.SetDefault("pixels_per_hour", lunar.DefaultPixelsPerHour)
	viper.SetDefault("visible_days", lunar.DefaultVisibleDays)
	viper.SetDefault("cache_capacity", lunar.DefaultCacheCapacity)
	viper.SetDefault("snapshot_dir", "snapshots")
	viper.SetDefault("debug", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("disc.moon_color", def.MoonColor.Hex())
	viper.SetDefault("disc.shadow_color", def.ShadowColor.Hex())
	viper.SetDefault("disc.earthshine_color", def.EarthshineColor.Hex())
	viper.SetDefault("disc.earthshine_intensity", def.EarthshineIntensity)
	viper.SetDefault("disc.terminator_softness", def.TerminatorSoftness)
	viper.SetDefault("disc.show_craters", !def.HideCraters)
	viper.SetDefault("disc.show_glow", !def.HideGlow)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. The result is
// validated: bad colors, zones or ranges are errors.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate checks fields that cannot be caught by type decoding.
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DiscConfig(); err != nil {
		return err
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	if c.PixelsPerHour <= 0 {
		return fmt.Errorf("pixels_per_hour must be positive, got %v", c.PixelsPerHour)
	}
	if c.VisibleDays <= 0 {
		return fmt.Errorf("visible_days must be positive, got %d", c.VisibleDays)
	}
	return nil
}

// Location resolves TimeZone. Empty means the host's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Observer returns the configured position, or nil when neither coordinate
// is set.
func (c Config) Observer() *lunar.Location {
	if c.Latitude == 0 && c.Longitude == 0 {
		return nil
	}
	return &lunar.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// DiscConfig converts the theme into renderer settings.
func (c Config) DiscConfig() (lunar.DiscConfig, error) {
	t := c.Disc
	var out lunar.DiscConfig
	for _, f := range []struct {
		key string
		src string
		dst *lunar.Color
	}{
		{"disc.moon_color", t.MoonColor, &out.MoonColor},
		{"disc.shadow_color", t.ShadowColor, &out.ShadowColor},
		{"disc.earthshine_color", t.EarthshineColor, &out.EarthshineColor},
	} {
		if f.src == "" {
			continue
		}
		col, err := lunar.ParseHexColor(f.src)
		if err != nil {
			return lunar.DiscConfig{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = col
	}
	for key, v := range map[string]float64{
		"disc.earthshine_intensity": t.EarthshineIntensity,
		"disc.terminator_softness":  t.TerminatorSoftness,
	} {
		if v < 0 || v > 1 {
			return lunar.DiscConfig{}, fmt.Errorf("%s %v out of range [0, 1]", key, v)
		}
	}
	out.EarthshineIntensity = explicitFraction(t.EarthshineIntensity)
	out.TerminatorSoftness = explicitFraction(t.TerminatorSoftness)
	out.HideCraters = !t.ShowCraters
	out.HideGlow = !t.ShowGlow
	return out, nil
}

// explicitFraction maps a configured value onto DiscConfig. viper supplies
// the defaults, so a zero here was asked for.
func explicitFraction(v float64) float64 {
	if v == 0 {
		return lunar.Off
	}
	return v
}

// ScrubConfig converts the timeline settings.
func (c Config) ScrubConfig() lunar.ScrubConfig {
	return lunar.ScrubConfig{PixelsPerHour: c.PixelsPerHour, VisibleDays: c.VisibleDays}
}

// reloader turns config file events into reloaded configs.
type reloader struct {
	mu       sync.Mutex
	stopped  bool
	onChange func(Config)
	onError  func(error)
}

func (r *reloader) onEvent(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	cfg, err := Load()
	if err != nil {
		if r.onError != nil {
			r.onError(err)
		}
		return
	}
	r.onChange(cfg)
}

func (r *reloader) stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Watch reloads the config file whenever it changes on disk and passes each
// valid result to onChange. Invalid files are reported to onError (which may
// be nil) and otherwise ignored, so the last good config stays in effect.
// Callbacks run on viper's watcher goroutine and stop once ctx is done.
func Watch(ctx context.Context, onChange func(Config), onError func(error)) error {
	if viper.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	r := &reloader{onChange: onChange, onError: onError}
	viper.OnConfigChange(r.onEvent)
	viper.WatchConfig()
	go func() {
		<-ctx.Done()
		r.stop()
	}()
	return nil
}
