package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/ballistics/internal/core/observability/log"
	"github.com/zeusync/ballistics/internal/core/systems"
	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Vec is a vector written as a three element YAML sequence.
type Vec [3]float64

func (v Vec) Vec3() physics.Vec3 { return physics.V3(v[0], v[1], v[2]) }

// Config is the root document.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Rig        RigConfig        `yaml:"rig"`
	Prediction PredictionConfig `yaml:"prediction"`
	Scene      []ObjectConfig   `yaml:"scene,omitempty"`
	Timeline   TimelineConfig   `yaml:"timeline"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type RigConfig struct {
	Pivot        Vec          `yaml:"pivot"`
	MuzzleOffset Vec          `yaml:"muzzle_offset"`
	Aim          cannon.Aim   `yaml:"aim"`
	Launch       LaunchConfig `yaml:"launch"`
	Gravity      Vec          `yaml:"gravity"`
}

type LaunchConfig struct {
	Velocity            Vec     `yaml:"velocity"`
	UseForwardDirection bool    `yaml:"use_forward_direction"`
	Force               float64 `yaml:"force"`
}

type PredictionConfig struct {
	MaxTime    float64 `yaml:"max_time"`
	Resolution int     `yaml:"resolution"`
}

// ObjectConfig describes one collider; exactly one shape must be set.
type ObjectConfig struct {
	Name   string        `yaml:"name"`
	Plane  *PlaneConfig  `yaml:"plane,omitempty"`
	Sphere *SphereConfig `yaml:"sphere,omitempty"`
	Box    *BoxConfig    `yaml:"box,omitempty"`
}

type PlaneConfig struct {
	Point  Vec `yaml:"point"`
	Normal Vec `yaml:"normal"`
}

type SphereConfig struct {
	Center Vec     `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

type BoxConfig struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

type TimelineConfig struct {
	FixedDelta float64         `yaml:"fixed_delta"`
	Ticks      int             `yaml:"ticks"`
	Commands   []CommandConfig `yaml:"commands,omitempty"`
}

// CommandConfig is one timeline entry; exactly one action must be set.
type CommandConfig struct {
	Tick    int         `yaml:"tick"`
	Aim     *cannon.Aim `yaml:"aim,omitempty"`
	Fire    bool        `yaml:"fire,omitempty"`
	Gravity *Vec        `yaml:"gravity,omitempty"`
}

// Default mirrors the demo scene: a cannon on the ground firing straight up.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Encoding: "json"},
		Rig: RigConfig{
			Pivot:        Vec{0, 1, 0},
			MuzzleOffset: Vec{0, 0, 1},
			Launch:       LaunchConfig{Velocity: Vec{0, 1, 0}, Force: 1},
			Gravity:      Vec{0, -9.81, 0},
		},
		Prediction: PredictionConfig{MaxTime: 1, Resolution: 5},
		Scene: []ObjectConfig{
			{Name: "ground", Plane: &PlaneConfig{Normal: Vec{0, 1, 0}}},
		},
		Timeline: TimelineConfig{FixedDelta: 0.02, Ticks: 1},
	}
}

// Load decodes YAML on top of Default and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks every section and reports the first problem found.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalidConfig, err)
	}
	if c.Log.Encoding != "" && c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("%w: log: unknown encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	if err := c.Cannon().Validate(); err != nil {
		return fmt.Errorf("%w: rig: %w", ErrInvalidConfig, err)
	}
	if _, err := c.BuildScene(); err != nil {
		return fmt.Errorf("%w: scene: %w", ErrInvalidConfig, err)
	}
	if c.Timeline.FixedDelta <= 0 {
		return fmt.Errorf("%w: timeline: fixed_delta must be positive", ErrInvalidConfig)
	}
	if c.Timeline.Ticks < 0 {
		return fmt.Errorf("%w: timeline: ticks must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Schedule(); err != nil {
		return fmt.Errorf("%w: timeline: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Cannon converts the rig and prediction sections.
func (c Config) Cannon() cannon.Config {
	return cannon.Config{
		Mount: cannon.Mount{
			Pivot:        c.Rig.Pivot.Vec3(),
			MuzzleOffset: c.Rig.MuzzleOffset.Vec3(),
			Launch: cannon.Launch{
				Velocity:            c.Rig.Launch.Velocity.Vec3(),
				UseForwardDirection: c.Rig.Launch.UseForwardDirection,
				Force:               c.Rig.Launch.Force,
			},
		},
		Initial: cannon.State{
			Aim:     c.Rig.Aim,
			Gravity: c.Rig.Gravity.Vec3(),
		},
		MaxTime:    c.Prediction.MaxTime,
		Resolution: c.Prediction.Resolution,
	}
}

// BuildScene creates the colliders in declaration order.
func (c Config) BuildScene() (*physics.Scene, error) {
	scene := physics.NewScene()
	for i, o := range c.Scene {
		name := o.Name
		if name == "" {
			name = fmt.Sprintf("object-%d", i)
		}
		collider, err := o.collider()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if err := scene.Add(name, collider); err != nil {
			return nil, err
		}
	}
	return scene, nil
}

func (o ObjectConfig) collider() (physics.Collider, error) {
	var (
		out   physics.Collider
		count int
	)
	if o.Plane != nil {
		out, count = physics.Plane{Point: o.Plane.Point.Vec3(), Normal: o.Plane.Normal.Vec3()}, count+1
	}
	if o.Sphere != nil {
		out, count = physics.Sphere{Center: o.Sphere.Center.Vec3(), Radius: o.Sphere.Radius}, count+1
	}
	if o.Box != nil {
		out, count = physics.Box{Min: o.Box.Min.Vec3(), Max: o.Box.Max.Vec3()}, count+1
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of plane, sphere or box is required, got %d", count)
	}
	return out, nil
}

// Schedule converts the timeline commands.
func (c Config) Schedule() (systems.Schedule, error) {
	out := make(systems.Schedule, 0, len(c.Timeline.Commands))
	for i, cc := range c.Timeline.Commands {
		if cc.Tick < 0 || cc.Tick >= c.Timeline.Ticks {
			return nil, fmt.Errorf("command %d: tick %d outside [0, %d)", i, cc.Tick, c.Timeline.Ticks)
		}
		var cmds []cannon.Command
		if cc.Aim != nil {
			cmds = append(cmds, cannon.SetAim{Aim: *cc.Aim})
		}
		if cc.Fire {
			cmds = append(cmds, cannon.Fire{})
		}
		if cc.Gravity != nil {
			cmds = append(cmds, cannon.SetGravity{Gravity: cc.Gravity.Vec3()})
		}
		if len(cmds) != 1 {
			return nil, fmt.Errorf("command %d: exactly one of aim, fire or gravity is required, got %d", i, len(cmds))
		}
		out = append(out, systems.ScheduledCommand{Tick: cc.Tick, Command: cmds[0]})
	}
	return out, nil
}

// Logger builds the zap-backed logger described by the log section.
func (c Config) Logger(w io.Writer) *log.Logger {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.NewWithOptions(log.Options{Level: level, Encoding: c.Log.Encoding, Output: w})
}
