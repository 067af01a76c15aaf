package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("config: invalid")

const (
	BackendSim      = "sim"
	BackendChipmunk = "chipmunk"
)

type Telemetry struct {
	Path string `mapstructure:"path"`
}

type Stream struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// App holds the process level settings. Controller tuning lives in the
// prefab specs, not here.
type App struct {
	LogLevel   string    `mapstructure:"log_level"`
	Pretty     bool      `mapstructure:"pretty"`
	Backend    string    `mapstructure:"backend"`
	TickRate   int       `mapstructure:"tick_rate"`
	Steps      int       `mapstructure:"steps"`
	Gravity    float64   `mapstructure:"gravity"`
	Controller string    `mapstructure:"controller"`
	Arena      string    `mapstructure:"arena"`
	Script     string    `mapstructure:"script"`
	Watch      bool      `mapstructure:"watch"`
	WatchDir   string    `mapstructure:"watch_dir"`
	Telemetry  Telemetry `mapstructure:"telemetry"`
	Stream     Stream    `mapstructure:"stream"`
	Window     Window    `mapstructure:"window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty", true)
	v.SetDefault("backend", BackendSim)
	v.SetDefault("tick_rate", 60)
	v.SetDefault("steps", 600)
	v.SetDefault("gravity", 9.81)
	v.SetDefault("controller", "controller.yaml")
	v.SetDefault("arena", "arena.yaml")
	v.SetDefault("script", "walk_circuit.tengo")
	v.SetDefault("watch", true)
	v.SetDefault("watch_dir", "prefabs")

	v.SetDefault("telemetry.path", "")

	v.SetDefault("stream.addr", "")
	v.SetDefault("stream.path", "/poses")

	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 540)
	v.SetDefault("window.title", "locomotion")
}

// Load reads defaults, then the optional file at path, then LOCOMOTION_*
// environment variables (LOCOMOTION_STREAM_ADDR for stream.addr).
func Load(path string) (App, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LOCOMOTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return App{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return App{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := app.Validate(); err != nil {
		return App{}, err
	}
	return app, nil
}

// DT is the fixed step length.
func (a App) DT() float64 {
	return 1 / float64(a.TickRate)
}

func (a App) Validate() error {
	switch {
	case a.Backend != BackendSim && a.Backend != BackendChipmunk:
		return fmt.Errorf("%w: backend %q, want %s or %s", ErrInvalid, a.Backend, BackendSim, BackendChipmunk)
	case a.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, a.TickRate)
	case a.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalid, a.Steps)
	case a.Gravity < 0:
		return fmt.Errorf("%w: gravity is a magnitude, got %g", ErrInvalid, a.Gravity)
	case a.Controller == "":
		return fmt.Errorf("%w: controller spec is required", ErrInvalid)
	}
	return nil
}
