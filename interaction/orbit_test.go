package interaction

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"gltf-scenes/math"
	"gltf-scenes/scene"
)

func orbitAt(pos math.Vec3) *OrbitControls {
	cam := scene.NewCamera(scene.Degrees(22), 16.0/9.0, 1, 1000)
	cam.SetPosition(pos)
	cam.LookAt(math.Vec3{Y: 1})
	c := NewOrbitControls(cam)
	c.SetSize(1280, 720)
	return c
}

func TestOrbitClampsDistanceAndPolar(t *testing.T) {
	c := orbitAt(math.Vec3{X: 140, Y: 30, Z: 60})
	c.EnableDamping = true
	c.MinDistance, c.MaxDistance = 10, 60
	c.MinPolarAngle, c.MaxPolarAngle = 0.5, 1.5

	c.Update()
	assert.InDelta(t, 60, c.Distance(), 1e-3)
	assert.Equal(t, math.Vec3{Y: 1}, c.Camera.Target)

	for i := 0; i < 200; i++ {
		c.OnScroll(1)
		c.Update()
	}
	assert.InDelta(t, 10, c.Distance(), 1e-3)

	// drag the cursor a full viewport height down: the camera climbs
	c.OnMouseButton(MouseLeft, true, 0, 0)
	c.OnCursor(0, 720)
	c.OnMouseButton(MouseLeft, false, 0, 720)
	for i := 0; i < 200; i++ {
		c.Update()
	}
	assert.InDelta(t, 0.5, c.PolarAngle(), 1e-3)

	c.OnMouseButton(MouseLeft, true, 0, 720)
	c.OnCursor(0, 0)
	c.OnMouseButton(MouseLeft, false, 0, 0)
	for i := 0; i < 200; i++ {
		c.Update()
	}
	assert.InDelta(t, 1.5, c.PolarAngle(), 1e-3)
	assert.InDelta(t, 10, c.Distance(), 1e-3)
}

func TestOrbitRotateWithoutDamping(t *testing.T) {
	c := orbitAt(math.Vec3{Y: 1, Z: 20})

	// a quarter of the viewport height is a quarter turn
	c.OnMouseButton(MouseLeft, true, 100, 100)
	c.OnCursor(100+720.0/4, 100)
	c.Update()

	pos := c.Camera.Position
	assert.InDelta(t, -20, pos.X, 1e-3)
	assert.InDelta(t, 1, pos.Y, 1e-3)
	assert.InDelta(t, 0, pos.Z, 1e-3)

	// deltas are consumed
	c.Update()
	assert.InDelta(t, -20, c.Camera.Position.X, 1e-3)
}

func TestOrbitDampingKeepsMoving(t *testing.T) {
	c := orbitAt(math.Vec3{Y: 1, Z: 20})
	c.EnableDamping = true

	c.OnMouseButton(MouseLeft, true, 0, 0)
	c.OnCursor(50, 0)
	c.OnMouseButton(MouseLeft, false, 50, 0)

	c.Update()
	first := c.Camera.Position
	c.Update()
	second := c.Camera.Position
	assert.NotEqual(t, first, second, "motion continues after release")
	assert.InDelta(t, 20, c.Distance(), 1e-3)
}

func TestOrbitIgnoresOtherButtonsAndHover(t *testing.T) {
	c := orbitAt(math.Vec3{Y: 1, Z: 20})
	start := c.Camera.Position

	c.OnCursor(300, 300)
	c.OnMouseButton(1, true, 0, 0)
	c.OnCursor(600, 600)
	c.Update()
	assert.InDelta(t, start.X, c.Camera.Position.X, 1e-3)
	assert.InDelta(t, start.Z, c.Camera.Position.Z, 1e-3)
}

func TestOrbitZoom(t *testing.T) {
	c := orbitAt(math.Vec3{Y: 1, Z: 20})
	c.OnScroll(1)
	c.Update()
	assert.InDelta(t, 19, c.Distance(), 1e-3)

	c.OnScroll(-1)
	c.Update()
	assert.InDelta(t, 20, c.Distance(), 1e-3)

	c.EnableZoom = false
	c.OnScroll(1)
	c.Update()
	assert.InDelta(t, 20, c.Distance(), 1e-3)
	assert.InDelta(t, math32.Pi/2, c.PolarAngle(), 1e-3)
}
