package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cow := DefaultCow()
	require.NoError(t, cow.Validate())
	assert.Equal(t, float32(0.05), cow.TimeStep)
	assert.Equal(t, "cow/scene.gltf", cow.Cow.Path)
	assert.Equal(t, [3]float32{0, -8, 0}, cow.Cow.Position)
	assert.Equal(t, float32(22), cow.Camera.FOV)
	assert.Equal(t, [3]float32{140, 30, 60}, cow.Camera.Position)
	assert.Equal(t, float32(10), cow.Controls.MinDistance)
	assert.Equal(t, float32(60), cow.Controls.MaxDistance)

	bird := DefaultBird()
	require.NoError(t, bird.Validate())
	assert.Equal(t, float32(0.01), bird.TimeStep)
	assert.Equal(t, "bird/scene.gltf", bird.Bird.Path)
	assert.Equal(t, "remains/scene.gltf", bird.Remains.Path)
	assert.Empty(t, bird.Cow.Path)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
assets = "/srv/models"
time_step = 0.02

[window]
width = 800

[cow]
position = [1.0, 2.0, 3.0]
`)
	cfg, err := Load(path, DefaultCow())
	require.NoError(t, err)

	assert.Equal(t, "/srv/models", cfg.Assets)
	assert.Equal(t, float32(0.02), cfg.TimeStep)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "Cow", cfg.Window.Title)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Cow.Position)
	assert.Equal(t, "cow/scene.gltf", cfg.Cow.Path)
	assert.Equal(t, float32(1), cfg.Cow.Scale)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
[camera]
near = 10.0
far = 5.0

[controls]
min_distance = 100.0

[cow]
scale = 0.0
`)
	defaults := DefaultCow()
	cfg, err := Load(path, defaults)
	require.Error(t, err)
	assert.Equal(t, defaults, cfg)
	assert.ErrorContains(t, err, "camera clip range")
	assert.ErrorContains(t, err, "controls distance range")
	assert.ErrorContains(t, err, "cow scale 0")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"), DefaultBird())
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "window = ["), DefaultBird())
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cfg := DefaultBird()
	cfg.Window.Height = 0
	cfg.Camera.FOV = 180
	cfg.Controls.MinPolarAngle = 2
	err := cfg.Validate()
	assert.ErrorContains(t, err, "window size 1280x0")
	assert.ErrorContains(t, err, "camera fov 180")
	assert.ErrorContains(t, err, "controls polar range")
}
