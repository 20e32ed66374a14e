// Package config holds the per-scene settings and their TOML overlay.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Resizable  bool   `toml:"resizable"`
	Fullscreen bool   `toml:"fullscreen"`
	VSync      bool   `toml:"vsync"`
	Samples    int    `toml:"samples"`
}

type Camera struct {
	FOV      float32    `toml:"fov"` // vertical, degrees
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
}

type Controls struct {
	Damping       bool       `toml:"damping"`
	DampingFactor float32    `toml:"damping_factor"`
	AutoRotate    bool       `toml:"auto_rotate"`
	MinDistance   float32    `toml:"min_distance"`
	MaxDistance   float32    `toml:"max_distance"`
	MinPolarAngle float32    `toml:"min_polar_angle"`
	MaxPolarAngle float32    `toml:"max_polar_angle"`
	Target        [3]float32 `toml:"target"`
}

type Lights struct {
	AmbientIntensity float32    `toml:"ambient_intensity"`
	SpotIntensity    float32    `toml:"spot_intensity"`
	SpotPosition     [3]float32 `toml:"spot_position"`
	SpotAngle        float32    `toml:"spot_angle"` // half-angle, degrees
	ShadowBias       float32    `toml:"shadow_bias"`
	ShadowMapSize    int        `toml:"shadow_map_size"`
}

// Model places one asset in the scene.
type Model struct {
	Path     string     `toml:"path"`
	Position [3]float32 `toml:"position"`
	Scale    float32    `toml:"scale"`
}

type Config struct {
	Assets   string   `toml:"assets"`
	Workers  int      `toml:"workers"`
	Window   Window   `toml:"window"`
	Camera   Camera   `toml:"camera"`
	Controls Controls `toml:"controls"`
	Lights   Lights   `toml:"lights"`

	// TimeStep is the per-frame advance: shader time for the cow scene,
	// mixer time for the bird scene.
	TimeStep float32 `toml:"time_step"`

	Cow     Model `toml:"cow"`
	Bird    Model `toml:"bird"`
	Remains Model `toml:"remains"`
}

func base(title string, step float32) Config {
	return Config{
		Assets:  ".",
		Workers: 2,
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     title,
			Resizable: true,
			VSync:     true,
			Samples:   4,
		},
		Camera: Camera{
			FOV:      22,
			Near:     1,
			Far:      1000,
			Position: [3]float32{140, 30, 60},
		},
		Controls: Controls{
			Damping:       true,
			DampingFactor: 0.05,
			MinDistance:   10,
			MaxDistance:   60,
			MinPolarAngle: 0.5,
			MaxPolarAngle: 1.5,
			Target:        [3]float32{0, 1, 0},
		},
		Lights: Lights{
			AmbientIntensity: 0.5,
			SpotIntensity:    1,
			SpotPosition:     [3]float32{0, 25, 0},
			SpotAngle:        60,
			ShadowBias:       -0.0001,
			ShadowMapSize:    1024,
		},
		TimeStep: step,
	}
}

// DefaultCow returns the settings of the displacement shader scene.
func DefaultCow() Config {
	c := base("Cow", 0.05)
	c.Cow = Model{Path: "cow/scene.gltf", Position: [3]float32{0, -8, 0}, Scale: 1}
	return c
}

// DefaultBird returns the settings of the animated bird scene.
func DefaultBird() Config {
	c := base("Bird", 0.01)
	c.Bird = Model{Path: "bird/scene.gltf", Position: [3]float32{0, 2, 0}, Scale: 1}
	c.Remains = Model{Path: "remains/scene.gltf", Position: [3]float32{0, -8, 0}, Scale: 1}
	return c
}

// Load overlays the TOML file at path onto defaults. Keys missing from the
// file keep their default values.
func Load(path string, defaults Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := defaults
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return defaults, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return defaults, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the scenes cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v out of (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v]", c.Camera.Near, c.Camera.Far))
	}
	if c.Controls.MinDistance > c.Controls.MaxDistance {
		errs = append(errs, fmt.Errorf("controls distance range [%v, %v]", c.Controls.MinDistance, c.Controls.MaxDistance))
	}
	if c.Controls.MinPolarAngle > c.Controls.MaxPolarAngle {
		errs = append(errs, fmt.Errorf("controls polar range [%v, %v]", c.Controls.MinPolarAngle, c.Controls.MaxPolarAngle))
	}
	for name, m := range map[string]Model{"cow": c.Cow, "bird": c.Bird, "remains": c.Remains} {
		if m.Path != "" && m.Scale <= 0 {
			errs = append(errs, fmt.Errorf("%s scale %v", name, m.Scale))
		}
	}
	return errors.Join(errs...)
}
