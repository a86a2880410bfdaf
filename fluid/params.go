package fluid

// DefaultGradientDecay is the uniform velocity decay applied after pressure
// gradient subtraction. It has no physical derivation; it bleeds off the slow
// energy build-up left by an approximate projection.
const DefaultGradientDecay = 0.999

// Params is the fixed configuration of one engine instance.
type Params struct {
	SimScale            float64 `yaml:"sim_scale"`           // grid texels per physical pixel
	PressureIterations  int     `yaml:"pressure_iterations"` // Jacobi sweeps per step
	DensityDissipation  float64 `yaml:"density_dissipation"` // multiplicative decay per advection
	VelocityDissipation float64 `yaml:"velocity_dissipation"`
	CurlStrength        float64 `yaml:"curl"`
	Buoyancy            float64 `yaml:"buoyancy"`
	UpDrift             float64 `yaml:"up_drift"`
	InjectRadiusPx      float64 `yaml:"inject_radius_px"` // splat radius in CSS pixels
	DensityAmount       float64 `yaml:"density_amount"`
	BaseNoise           float64 `yaml:"base_noise"` // ambient density seeded on (re)allocation
	SeedSplats          int     `yaml:"seed_splats"`
	GradientDecay       float64 `yaml:"gradient_decay"`
	MaxStepDt           float64 `yaml:"max_step_dt"`   // seconds
	AdvectMargin        float64 `yaml:"advect_margin"` // backtrace clamp, normalized units
	Seed                int64   `yaml:"seed"`

	Drift     DriftParams     `yaml:"drift"`
	Idle      IdleParams      `yaml:"idle"`
	Obstacle  ObstacleParams  `yaml:"obstacle"`
	Composite CompositeParams `yaml:"composite"`
}

// DriftParams controls the three orbiting background force sources.
type DriftParams struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`   // orbit phase per second
	Force   float64 `yaml:"force"`  // force multiplier per source
	Amount  float64 `yaml:"amount"` // density scale per source
}

// IdleParams controls the random swirl issued when nothing else moves.
type IdleParams struct {
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	ForceGain float64 `yaml:"force_gain"`
}

// ObstacleParams controls how UI regions displace the fluid.
type ObstacleParams struct {
	Tolerance float64 `yaml:"tolerance"` // per-edge equality tolerance
	Push      float64 `yaml:"push"`      // outward force per unit of extent
	Erase     float64 `yaml:"erase"`     // density scale of the interior splat
	Replenish float64 `yaml:"replenish"` // density scale on release
	MinExtent float64 `yaml:"min_extent"`
}

// CompositeParams is the palette of the final image. Colors are linear RGB
// in [0,1] before tone mapping.
type CompositeParams struct {
	BaseLow   [3]float64 `yaml:"base_low"`  // background at the bottom edge
	BaseHigh  [3]float64 `yaml:"base_high"` // background at the top edge
	WallTint  [3]float64 `yaml:"wall_tint"`
	Steam     [3]float64 `yaml:"steam"`
	Highlight float64    `yaml:"highlight"` // added to steam where mist is dense
	Dither    float64    `yaml:"dither"`
}

// DefaultParams returns the tuning used by the ambient backdrop.
func DefaultParams() Params {
	return Params{
		SimScale:            0.42,
		PressureIterations:  18,
		DensityDissipation:  0.996,
		VelocityDissipation: 0.992,
		CurlStrength:        26,
		Buoyancy:            0.04,
		UpDrift:             0,
		InjectRadiusPx:      18,
		DensityAmount:       0.38,
		BaseNoise:           0.22,
		SeedSplats:          28,
		GradientDecay:       DefaultGradientDecay,
		MaxStepDt:           0.016,
		AdvectMargin:        0.002,
		Seed:                1,
		Drift: DriftParams{
			Enabled: true,
			Rate:    0.25,
			Force:   40,
			Amount:  0.25,
		},
		Idle: IdleParams{
			MinSpeed:  0.001,
			MaxSpeed:  0.003,
			ForceGain: 180,
		},
		Obstacle: ObstacleParams{
			Tolerance: 0.02,
			Push:      260,
			Erase:     -1.0,
			Replenish: 0.2,
			MinExtent: 0.0005,
		},
		Composite: CompositeParams{
			BaseLow:   [3]float64{0.14, 0.14, 0.14},
			BaseHigh:  [3]float64{0.2, 0.2, 0.2},
			WallTint:  [3]float64{0.1, 0.1, 0.1},
			Steam:     [3]float64{0.65, 0.65, 0.65},
			Highlight: 0.6,
			Dither:    0.05,
		},
	}
}
