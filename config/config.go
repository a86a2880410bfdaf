// Package config provides configuration loading and access for the backdrop.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/steam/driver"
	"github.com/pthm-cable/steam/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     fluid.Params    `yaml:"fluid"`
	Driver    DriverConfig    `yaml:"driver"`
	Backend   BackendConfig   `yaml:"backend"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	HighDPI   bool   `yaml:"high_dpi"`
}

// DriverConfig holds pointer and frame-driver tuning.
type DriverConfig struct {
	VelocityScale       float64 `yaml:"velocity_scale"`
	PointerDecay        float64 `yaml:"pointer_decay"`
	SnapThreshold       float64 `yaml:"snap_threshold"`
	MinSampleDt         float64 `yaml:"min_sample_dt"` // seconds
	PointerDensityScale float64 `yaml:"pointer_density_scale"`
	IdleInterval        float64 `yaml:"idle_interval"` // seconds, 0 disables
	ReducedMotion       bool    `yaml:"reduced_motion"`
}

// BackendConfig selects and constrains the compute device.
type BackendConfig struct {
	Workers        int  `yaml:"workers"`          // 0 = GOMAXPROCS
	FloatTargets   bool `yaml:"float_targets"`    // false forces the ambient fallback
	LinearFilter   bool `yaml:"linear_filter"`    // false samples fields nearest
	MaxTextureSize int  `yaml:"max_texture_size"` // 0 = unbounded
}

// SceneConfig lists the obstacle regions shown by the hosts.
type SceneConfig struct {
	Regions []RegionConfig `yaml:"regions"`
}

// RegionConfig is one obstacle region in normalized coordinates, origin top-left.
type RegionConfig struct {
	Name   string  `yaml:"name"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Z      int     `yaml:"z"`
	VX     float64 `yaml:"vx"` // drift, normalized units per second
	VY     float64 `yaml:"vy"`
}

// Rect returns the region bounds.
func (r RegionConfig) Rect() fluid.Rect {
	return fluid.Rect{Left: r.Left, Right: r.Right, Top: r.Top, Bottom: r.Bottom}
}

// TelemetryConfig holds performance and statistics output settings.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks
	StatsWindow         float64 `yaml:"stats_window"`          // seconds per frame stats row
	OutputDir           string  `yaml:"output_dir"`            // empty disables CSV output
	LogStats            bool    `yaml:"log_stats"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MinSampleDt  time.Duration
	IdleInterval time.Duration
	StatsWindow  time.Duration
	FrameBudget  time.Duration // 1 / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	f := &c.Fluid
	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(f.SimScale > 0 && f.SimScale <= 1, "fluid.sim_scale must be in (0, 1], got %v", f.SimScale)
	check(f.PressureIterations >= 0, "fluid.pressure_iterations must not be negative, got %d", f.PressureIterations)
	check(f.DensityDissipation > 0 && f.DensityDissipation <= 1, "fluid.density_dissipation must be in (0, 1], got %v", f.DensityDissipation)
	check(f.VelocityDissipation > 0 && f.VelocityDissipation <= 1, "fluid.velocity_dissipation must be in (0, 1], got %v", f.VelocityDissipation)
	check(f.GradientDecay > 0 && f.GradientDecay <= 1, "fluid.gradient_decay must be in (0, 1], got %v", f.GradientDecay)
	check(f.MaxStepDt > 0, "fluid.max_step_dt must be positive, got %v", f.MaxStepDt)
	check(f.AdvectMargin >= 0 && f.AdvectMargin < 0.5, "fluid.advect_margin must be in [0, 0.5), got %v", f.AdvectMargin)
	check(f.Idle.MaxSpeed >= f.Idle.MinSpeed, "fluid.idle.max_speed must be >= min_speed")
	check(f.Obstacle.Tolerance > 0, "fluid.obstacle.tolerance must be positive, got %v", f.Obstacle.Tolerance)
	check(c.Driver.PointerDecay >= 0 && c.Driver.PointerDecay <= 1, "driver.pointer_decay must be in [0, 1], got %v", c.Driver.PointerDecay)
	check(c.Driver.MinSampleDt > 0, "driver.min_sample_dt must be positive, got %v", c.Driver.MinSampleDt)
	check(c.Driver.IdleInterval >= 0, "driver.idle_interval must not be negative, got %v", c.Driver.IdleInterval)
	check(c.Backend.Workers >= 0, "backend.workers must not be negative, got %d", c.Backend.Workers)
	for i, r := range c.Scene.Regions {
		check(r.Right > r.Left && r.Bottom > r.Top, "scene.regions[%d] %q is empty", i, r.Name)
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MinSampleDt = seconds(c.Driver.MinSampleDt)
	c.Derived.IdleInterval = seconds(c.Driver.IdleInterval)
	c.Derived.StatsWindow = seconds(c.Telemetry.StatsWindow)
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameBudget = time.Second / time.Duration(c.Screen.TargetFPS)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Device builds the compute device described by the backend section.
func (c *Config) Device() *fluid.CPUDevice {
	return fluid.NewCPUDevice(
		fluid.WithWorkers(c.Backend.Workers),
		fluid.WithCapabilities(fluid.Capabilities{
			FloatRenderTargets:   c.Backend.FloatTargets,
			LinearFloatFiltering: c.Backend.LinearFilter,
			MaxTextureSize:       c.Backend.MaxTextureSize,
		}),
	)
}

// DriverOptions assembles driver options. extra engine options are applied
// after the configured device.
func (c *Config) DriverOptions(extra ...fluid.Option) driver.Options {
	engineOpts := append([]fluid.Option{fluid.WithDevice(c.Device())}, extra...)
	return driver.Options{
		Fluid:               c.Fluid,
		EngineOptions:       engineOpts,
		VelocityScale:       c.Driver.VelocityScale,
		PointerDecay:        c.Driver.PointerDecay,
		SnapThreshold:       c.Driver.SnapThreshold,
		MinSampleDt:         c.Derived.MinSampleDt,
		PointerDensityScale: c.Driver.PointerDensityScale,
		RectTolerance:       c.Fluid.Obstacle.Tolerance,
		IdleInterval:        c.Derived.IdleInterval,
		ReducedMotion:       c.Driver.ReducedMotion,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
