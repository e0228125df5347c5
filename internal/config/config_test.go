package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/phanxgames/lunar"
	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"TimeZone", cfg.TimeZone, ""},
		{"WindowWidth", cfg.WindowWidth, 480},
		{"WindowHeight", cfg.WindowHeight, 640},
		{"PixelsPerHour", cfg.PixelsPerHour, 12.0},
		{"VisibleDays", cfg.VisibleDays, 7},
		{"CacheCapacity", cfg.CacheCapacity, 1000},
		{"SnapshotDir", cfg.SnapshotDir, "snapshots"},
		{"ShowDetails", cfg.ShowDetails, false},
		{"Debug", cfg.Debug, false},
		{"Disc.MoonColor", cfg.Disc.MoonColor, "#F4F1E8"},
		{"Disc.ShadowColor", cfg.Disc.ShadowColor, "#1B1E2B"},
		{"Disc.EarthshineColor", cfg.Disc.EarthshineColor, "#3A4A6B"},
		{"Disc.EarthshineIntensity", cfg.Disc.EarthshineIntensity, 0.15},
		{"Disc.TerminatorSoftness", cfg.Disc.TerminatorSoftness, 0.3},
		{"Disc.ShowCraters", cfg.Disc.ShowCraters, true},
		{"Disc.ShowGlow", cfg.Disc.ShowGlow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "timezone",
			envKey: "LUNAR_TIMEZONE",
			envVal: "Europe/Berlin",
			field:  func(c Config) any { return c.TimeZone },
			want:   "Europe/Berlin",
		},
		{
			name:   "pixels_per_hour",
			envKey: "LUNAR_PIXELS_PER_HOUR",
			envVal: "24",
			field:  func(c Config) any { return c.PixelsPerHour },
			want:   24.0,
		},
		{
			name:   "visible_days",
			envKey: "LUNAR_VISIBLE_DAYS",
			envVal: "9",
			field:  func(c Config) any { return c.VisibleDays },
			want:   9,
		},
		{
			name:   "show_details",
			envKey: "LUNAR_SHOW_DETAILS",
			envVal: "true",
			field:  func(c Config) any { return c.ShowDetails },
			want:   true,
		},
		{
			name:   "disc.show_glow",
			envKey: "LUNAR_DISC_SHOW_GLOW",
			envVal: "false",
			field:  func(c Config) any { return c.Disc.ShowGlow },
			want:   false,
		},
		{
			name:   "disc.moon_color",
			envKey: "LUNAR_DISC_MOON_COLOR",
			envVal: "#FFEEDD",
			field:  func(c Config) any { return c.Disc.MoonColor },
			want:   "#FFEEDD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("LUNAR")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".lunar.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	resetViper()
	viper.SetConfigFile(writeConfig(t, `
timezone: UTC
latitude: 51.5
longitude: -0.12
disc_size: 200
disc:
  shadow_color: "#000000"
  terminator_softness: 0
  show_craters: false
`))
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DiscSize != 200 {
		t.Errorf("DiscSize = %v, want 200", cfg.DiscSize)
	}
	if cfg.Disc.ShowCraters {
		t.Error("ShowCraters should be false from file")
	}
	if !cfg.Disc.ShowGlow {
		t.Error("ShowGlow should keep its default")
	}

	want := &lunar.Location{Latitude: 51.5, Longitude: -0.12}
	if diff := cmp.Diff(want, cfg.Observer()); diff != "" {
		t.Errorf("Observer() mismatch (-want +got):\n%s", diff)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad color", "disc:\n  moon_color: \"#GG0000\"\n", "disc.moon_color"},
		{"bad zone", "timezone: Mars/Olympus\n", "timezone"},
		{"softness range", "disc:\n  terminator_softness: 1.5\n", "terminator_softness"},
		{"latitude range", "latitude: 120\n", "latitude"},
		{"pixels per hour", "pixels_per_hour: -1\n", "pixels_per_hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetConfigFile(writeConfig(t, tt.body))
			if err := viper.ReadInConfig(); err != nil {
				t.Fatalf("ReadInConfig: %v", err)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestDiscConfig(t *testing.T) {
	resetViper()
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	got, err := cfg.DiscConfig()
	if err != nil {
		t.Fatalf("DiscConfig() error: %v", err)
	}

	want := lunar.DefaultDiscConfig()
	// Hex round trip quantizes to 8 bits, which the defaults already are.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiscConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscConfig_ExplicitZeros(t *testing.T) {
	resetViper()
	viper.SetConfigFile(writeConfig(t, `
disc:
  earthshine_intensity: 0
  terminator_softness: 0
  show_craters: false
`))
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	got, err := cfg.DiscConfig()
	if err != nil {
		t.Fatalf("DiscConfig() error: %v", err)
	}

	want := lunar.DefaultDiscConfig()
	want.EarthshineIntensity = lunar.Off
	want.TerminatorSoftness = lunar.Off
	want.HideCraters = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiscConfig() mismatch (-want +got):\n%s", diff)
	}
	// Zeros stay off through the renderer.
	r := lunar.NewDiscRenderer(got)
	if diff := cmp.Diff(want, r.Config()); diff != "" {
		t.Errorf("renderer config (-want +got):\n%s", diff)
	}
}

func TestObserver_UnsetIsNil(t *testing.T) {
	if (Config{}).Observer() != nil {
		t.Error("Observer() should be nil when no coordinates are set")
	}
}

func TestWatch_NoConfigFile(t *testing.T) {
	resetViper()
	err := Watch(t.Context(), func(Config) {}, nil)
	if !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("Watch() error = %v, want ErrNoConfigFile", err)
	}
}

func TestReloader(t *testing.T) {
	resetViper()
	path := writeConfig(t, "visible_days: 5\n")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	var got []Config
	var errs []error
	r := &reloader{
		onChange: func(c Config) { got = append(got, c) },
		onError:  func(err error) { errs = append(errs, err) },
	}

	// Chmod events are ignored.
	r.onEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	if len(got) != 0 {
		t.Fatalf("chmod should not reload, got %d configs", len(got))
	}

	r.onEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if len(got) != 1 || got[0].VisibleDays != 5 {
		t.Fatalf("write should reload once with visible_days=5, got %+v", got)
	}

	viper.Set("disc.moon_color", "nope")
	r.onEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if len(errs) != 1 {
		t.Errorf("invalid config should report one error, got %d", len(errs))
	}
	if len(got) != 1 {
		t.Errorf("invalid config should not be delivered, got %d configs", len(got))
	}

	r.stop()
	viper.Set("disc.moon_color", "#FFFFFF")
	r.onEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if len(got) != 1 {
		t.Errorf("stopped reloader should not deliver, got %d configs", len(got))
	}
}
