// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Field      FieldConfig      `yaml:"field"`
	Chemotaxis ChemotaxisConfig `yaml:"chemotaxis"`
	Agents     AgentsConfig     `yaml:"agents"`
	Seeding    SeedingConfig    `yaml:"seeding"`
	Noise      NoiseConfig      `yaml:"noise"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and the integration schedule.
// Width/Height are both the field grid resolution and the world extent in
// world units; agents move in [0,Width)x[0,Height).
type WorldConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Steps  int     `yaml:"steps"` // headless run length in frames
	DT     float64 `yaml:"dt"`
	Seed   int64   `yaml:"seed"`
}

// FieldConfig holds reaction-diffusion parameters for the R/W field.
type FieldConfig struct {
	DR      float64 `yaml:"d_r"`      // resource diffusion coefficient
	DW      float64 `yaml:"d_w"`      // waste diffusion coefficient
	SigmaR  float64 `yaml:"sigma_r"`  // resource replenishment rate
	AlphaH  float64 `yaml:"alpha_h"`  // herbivore resource uptake rate
	BetaH   float64 `yaml:"beta_h"`   // herbivore waste emission rate
	LambdaR float64 `yaml:"lambda_r"` // resource decay rate
	LambdaW float64 `yaml:"lambda_w"` // waste decay rate
	HScale  float64 `yaml:"h_scale"`  // occupancy count -> density normalization
}

// ChemotaxisConfig holds agent movement and energy parameters.
type ChemotaxisConfig struct {
	ChiR          float64 `yaml:"chi_r"`          // resource attraction gain
	ChiW          float64 `yaml:"chi_w"`          // waste repulsion gain
	Kappa         float64 `yaml:"kappa"`          // gradient saturation constant
	Gamma         float64 `yaml:"gamma"`          // velocity damping per step
	VMax          float64 `yaml:"v_max"`          // speed clamp
	Eps0          float64 `yaml:"eps0"`           // basal energy drain rate
	EtaR          float64 `yaml:"eta_r"`          // energy gain per unit resource
	BounceDamping float64 `yaml:"bounce_damping"` // velocity scale on wall reflection
}

// AgentsConfig holds the agent batch parameters.
type AgentsConfig struct {
	Count         int     `yaml:"count"`
	InitialEnergy float64 `yaml:"initial_energy"`
	MaxEnergy     float64 `yaml:"max_energy"`
	SpawnMargin   float64 `yaml:"spawn_margin"` // distance from walls at spawn
}

// SeedingConfig shapes the initial resource distribution.
type SeedingConfig struct {
	CenterAmplitude float64 `yaml:"center_amplitude"`
	CenterSigmaPct  float64 `yaml:"center_sigma_pct"` // fraction of min dimension
	ClusterSigmaPct float64 `yaml:"cluster_sigma_pct"`
	SourceSigmaPct  float64 `yaml:"source_sigma_pct"`
	RampAmplitude   float64 `yaml:"ramp_amplitude"` // fraction of center amplitude
	SimplexAmp      float64 `yaml:"simplex_amp"`    // opensimplex layer amplitude (0 disables)
	SimplexScale    float64 `yaml:"simplex_scale"`  // noise frequency in grid units
}

// NoiseConfig holds optional per-step resource noise.
type NoiseConfig struct {
	Sigma float64 `yaml:"sigma"`
}

// ScreenConfig holds viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds metrics and snapshot cadence.
type TelemetryConfig struct {
	MetricsInterval     int   `yaml:"metrics_interval"`      // frames between metrics rows
	InvariantInterval   int   `yaml:"invariant_interval"`    // frames between invariant sweeps
	PerfWindow          int   `yaml:"perf_window"`           // rolling perf window in frames
	SnapshotSteps       []int `yaml:"snapshot_steps"`        // frames at which snapshots are written
	SnapshotFinal       bool  `yaml:"snapshot_final"`        // also snapshot the last frame
	CycleHistoryMinimum int   `yaml:"cycle_history_minimum"` // samples before cycle score is reported
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // World.DT as float32
	WorldW32 float32
	WorldH32 float32
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the configuration invariants that must hold before any
// simulation resource is allocated. Violations are fatal at setup time.
func (c *Config) Validate() error {
	if c.World.Width < 32 || c.World.Height < 32 {
		return fmt.Errorf("world size too small (%dx%d), minimum supported is 32x32",
			c.World.Width, c.World.Height)
	}
	if c.World.Steps <= 0 {
		return fmt.Errorf("step count must be greater than 0, got %d", c.World.Steps)
	}
	if c.World.DT <= 0 {
		return fmt.Errorf("time step (dt) must be positive, got %g", c.World.DT)
	}
	if c.Field.HScale <= 0 {
		return fmt.Errorf("h_scale must be positive, got %g", c.Field.HScale)
	}
	if c.Agents.Count <= 0 {
		return fmt.Errorf("agent count must be positive, got %d", c.Agents.Count)
	}
	if c.Agents.InitialEnergy <= 0 {
		return fmt.Errorf("initial energy must be positive, got %g", c.Agents.InitialEnergy)
	}
	if c.Chemotaxis.BounceDamping < 0 || c.Chemotaxis.BounceDamping > 1 {
		return fmt.Errorf("bounce_damping must be in [0,1], got %g", c.Chemotaxis.BounceDamping)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.World.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
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
