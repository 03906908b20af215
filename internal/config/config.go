// Package config loads arplacectl scenario files.
//
// A scenario is TOML: session capabilities and negotiation order, the
// scene metadata to place, an optional admin listener, the simulated
// device, and a scripted frame sequence. Keys that are absent keep the
// defaults; a relative asset.meta resolves against the scenario file.
// ARPLACE_* environment variables are applied last.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/danmuck/arplace/internal/placement"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr/sim"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config is a fully resolved scenario.
type Config struct {
	Session       placement.Config
	Asset         AssetConfig
	Admin         AdminConfig
	Platform      sim.Config
	FrameInterval time.Duration
	Frames        []FrameSpec
}

type AssetConfig struct {
	MetaPath string
	Name     string
}

// AdminConfig controls the status listener. An empty Addr disables it.
type AdminConfig struct {
	Addr        string
	CorsOrigins []string
}

// FrameSpec is one [[frames]] entry. Hit is a surface position; Yaw turns
// the hit pose about +Y. Matrix, when set, is a column-major hit transform
// and wins over Hit. Tracked defaults to true.
type FrameSpec struct {
	Tracked *bool     `toml:"tracked"`
	Hit     []float64 `toml:"hit"`
	Yaw     float64   `toml:"yaw"`
	Matrix  []float64 `toml:"matrix"`
	Tap     bool      `toml:"tap"`
	Repeat  int       `toml:"repeat"`
}

func Default() Config {
	return Config{
		Session:       placement.DefaultConfig(),
		Platform:      sim.DefaultConfig(),
		FrameInterval: 16 * time.Millisecond,
		Frames:        DefaultFrames(),
	}
}

// DefaultFrames scans empty floor, finds a surface, places, moves, then
// loses tracking.
func DefaultFrames() []FrameSpec {
	lost := false
	return []FrameSpec{
		{Repeat: 5},
		{Hit: []float64{0, 0, -1.5}, Repeat: 5},
		{Hit: []float64{0, 0, -1.5}, Tap: true},
		{Hit: []float64{0.6, 0, -2}, Yaw: 0.8, Repeat: 5},
		{Hit: []float64{0.6, 0, -2}, Yaw: 0.8, Tap: true},
		{Tracked: &lost, Repeat: 3},
		{Tracked: &lost, Tap: true},
	}
}

type fileConfig struct {
	Session struct {
		Required        []string `toml:"required"`
		Optional        []string `toml:"optional"`
		ReferenceSpaces []string `toml:"reference_spaces"`
		PlacementLift   float64  `toml:"placement_lift"`
	} `toml:"session"`
	Asset struct {
		Meta string `toml:"meta"`
		Name string `toml:"name"`
	} `toml:"asset"`
	Admin struct {
		Addr        string   `toml:"addr"`
		CorsOrigins []string `toml:"cors_origins"`
	} `toml:"admin"`
	Platform struct {
		Supported     bool     `toml:"supported"`
		DenySession   bool     `toml:"deny_session"`
		Features      []string `toml:"features"`
		Spaces        []string `toml:"spaces"`
		HitTest       bool     `toml:"hit_test"`
		Latency       string   `toml:"latency"`
		FrameInterval string   `toml:"frame_interval"`
	} `toml:"platform"`
	Frames []FrameSpec `toml:"frames"`
}

// envConfig is pre-filled from the loaded config; env.Parse only
// overwrites fields whose variable is set.
type envConfig struct {
	AdminAddr       string   `env:"ARPLACE_ADMIN_ADDR"`
	AssetMeta       string   `env:"ARPLACE_ASSET_META"`
	PlacementLift   float64  `env:"ARPLACE_PLACEMENT_LIFT"`
	ReferenceSpaces []string `env:"ARPLACE_REFERENCE_SPACES" envSeparator:","`
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		var err error
		if cfg, err = loadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load scenario config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}

	if meta.IsDefined("session", "required") {
		cfg.Session.Required = spatial.ParseCapabilities(raw.Session.Required)
	}
	if meta.IsDefined("session", "optional") {
		cfg.Session.Optional = spatial.ParseCapabilities(raw.Session.Optional)
	}
	if meta.IsDefined("session", "reference_spaces") {
		cfg.Session.SpaceOrder = parseSpaces(raw.Session.ReferenceSpaces)
	}
	if meta.IsDefined("session", "placement_lift") {
		cfg.Session.PlacementLift = raw.Session.PlacementLift
	}

	if meta.IsDefined("asset", "meta") {
		cfg.Asset.MetaPath = strings.TrimSpace(raw.Asset.Meta)
		if cfg.Asset.MetaPath != "" && !filepath.IsAbs(cfg.Asset.MetaPath) {
			cfg.Asset.MetaPath = filepath.Join(filepath.Dir(path), cfg.Asset.MetaPath)
		}
	}
	if meta.IsDefined("asset", "name") {
		cfg.Asset.Name = strings.TrimSpace(raw.Asset.Name)
	}
	if meta.IsDefined("admin", "addr") {
		cfg.Admin.Addr = strings.TrimSpace(raw.Admin.Addr)
	}
	if meta.IsDefined("admin", "cors_origins") {
		cfg.Admin.CorsOrigins = raw.Admin.CorsOrigins
	}

	if meta.IsDefined("platform", "supported") {
		cfg.Platform.Supported = raw.Platform.Supported
	}
	if meta.IsDefined("platform", "deny_session") {
		cfg.Platform.DenySession = raw.Platform.DenySession
	}
	if meta.IsDefined("platform", "features") {
		cfg.Platform.Features = spatial.ParseCapabilities(raw.Platform.Features)
	}
	if meta.IsDefined("platform", "spaces") {
		cfg.Platform.Spaces = parseSpaces(raw.Platform.Spaces)
	}
	if meta.IsDefined("platform", "hit_test") {
		cfg.Platform.HitTest = raw.Platform.HitTest
	}
	if meta.IsDefined("platform", "latency") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Platform.Latency))
		if err != nil {
			return Config{}, fmt.Errorf("parse platform.latency: %w", err)
		}
		cfg.Platform.Latency = d
	}
	if meta.IsDefined("platform", "frame_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Platform.FrameInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse platform.frame_interval: %w", err)
		}
		cfg.FrameInterval = d
	}

	if meta.IsDefined("frames") {
		cfg.Frames = raw.Frames
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	overrides := envConfig{
		AdminAddr:       cfg.Admin.Addr,
		AssetMeta:       cfg.Asset.MetaPath,
		PlacementLift:   cfg.Session.PlacementLift,
		ReferenceSpaces: spaceStrings(cfg.Session.SpaceOrder),
	}
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.Admin.Addr = strings.TrimSpace(overrides.AdminAddr)
	cfg.Asset.MetaPath = strings.TrimSpace(overrides.AssetMeta)
	cfg.Session.PlacementLift = overrides.PlacementLift
	cfg.Session.SpaceOrder = parseSpaces(overrides.ReferenceSpaces)
	return nil
}

// Validate rejects scenarios the lifecycle or simulator would refuse.
func Validate(cfg Config) error {
	if !cfg.Session.Required.Has(spatial.CapabilityHitTest) {
		return fmt.Errorf("%w: session.required must include %q", ErrInvalidConfig, spatial.CapabilityHitTest)
	}
	if err := placement.ValidateSpaceOrder(cfg.Session.SpaceOrder); err != nil {
		return fmt.Errorf("%w: session.reference_spaces: %w", ErrInvalidConfig, err)
	}
	for _, kind := range cfg.Platform.Spaces {
		if !kind.Known() {
			return fmt.Errorf("%w: platform.spaces: unknown space %q", ErrInvalidConfig, kind)
		}
	}
	if cfg.Platform.Latency < 0 {
		return fmt.Errorf("%w: platform.latency must not be negative", ErrInvalidConfig)
	}
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("%w: platform.frame_interval must be positive", ErrInvalidConfig)
	}
	for i, f := range cfg.Frames {
		if len(f.Hit) != 0 && len(f.Hit) != 3 {
			return fmt.Errorf("%w: frames[%d].hit must have 3 components", ErrInvalidConfig, i)
		}
		if len(f.Matrix) != 0 && len(f.Matrix) != 16 {
			return fmt.Errorf("%w: frames[%d].matrix must have 16 components", ErrInvalidConfig, i)
		}
		if f.Repeat < 0 {
			return fmt.Errorf("%w: frames[%d].repeat must not be negative", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Steps expands the frame script into simulator steps spaced by
// FrameInterval. A repeated entry taps only on its last frame.
func (c Config) Steps() []sim.Step {
	var steps []sim.Step
	t := time.Duration(0)
	for _, f := range c.Frames {
		n := max(f.Repeat, 1)
		for i := 0; i < n; i++ {
			steps = append(steps, sim.Step{Frame: f.frame(t), Tap: f.Tap && i == n-1})
			t += c.FrameInterval
		}
	}
	return steps
}

func (f FrameSpec) frame(t time.Duration) sim.Frame {
	if f.Tracked != nil && !*f.Tracked {
		return sim.Frame{T: t}
	}
	if len(f.Matrix) == 16 {
		var m spatial.Matrix4
		copy(m[:], f.Matrix)
		return sim.TrackedMatrix(t, &m)
	}
	if len(f.Hit) != 3 {
		return sim.Tracked(t, nil)
	}
	hit := spatial.Pose{
		Position:    spatial.V3(f.Hit[0], f.Hit[1], f.Hit[2]),
		Orientation: spatial.AxisAngle(spatial.V3(0, 1, 0), f.Yaw),
	}
	return sim.Tracked(t, &hit)
}

func parseSpaces(in []string) []spatial.ReferenceSpaceKind {
	out := make([]spatial.ReferenceSpaceKind, 0, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		out = append(out, spatial.ReferenceSpaceKind(v))
	}
	return out
}

func spaceStrings(kinds []spatial.ReferenceSpaceKind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}
