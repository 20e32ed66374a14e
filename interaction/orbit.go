package interaction

import (
	"github.com/chewxy/math32"

	"gltf-scenes/math"
	"gltf-scenes/scene"
)

// MouseLeft is GLFW's left button index.
const MouseLeft = 0

// OrbitControls orbits a camera around Target. Left-drag rotates, scroll
// dollies. With damping, motion continues and decays over later Updates.
type OrbitControls struct {
	Camera *scene.Camera
	Target math.Vec3

	EnableDamping bool
	DampingFactor float32
	EnableZoom    bool
	EnableRotate  bool
	AutoRotate    bool
	RotateSpeed   float32
	ZoomSpeed     float32

	MinDistance, MaxDistance     float32
	MinPolarAngle, MaxPolarAngle float32

	// Height of the viewport in pixels; drag distances are relative to it.
	Height float32

	deltaTheta, deltaPhi float32
	scale                float32
	dragging             bool
	lastX, lastY         float64
}

func NewOrbitControls(camera *scene.Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		Target:        camera.Target,
		DampingFactor: 0.05,
		EnableZoom:    true,
		EnableRotate:  true,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math32.Pi,
		Height:        1,
		scale:         1,
	}
}

// SetSize records the viewport size in pixels.
func (c *OrbitControls) SetSize(width, height int) {
	if height > 0 {
		c.Height = float32(height)
	}
}

// OnMouseButton starts or ends a rotate drag.
func (c *OrbitControls) OnMouseButton(button int, pressed bool, x, y float64) {
	if button != MouseLeft {
		return
	}
	c.dragging = pressed && c.EnableRotate
	c.lastX, c.lastY = x, y
}

// OnCursor feeds cursor motion; it only acts while dragging.
func (c *OrbitControls) OnCursor(x, y float64) {
	if !c.dragging {
		return
	}
	dx, dy := float32(x-c.lastX), float32(y-c.lastY)
	c.lastX, c.lastY = x, y
	c.deltaTheta -= 2 * math32.Pi * dx / c.Height * c.RotateSpeed
	c.deltaPhi -= 2 * math32.Pi * dy / c.Height * c.RotateSpeed
}

// OnScroll dollies in for positive yoff and out for negative.
func (c *OrbitControls) OnScroll(yoff float64) {
	if !c.EnableZoom || yoff == 0 {
		return
	}
	zoom := math32.Pow(0.95, c.ZoomSpeed)
	if yoff > 0 {
		c.scale *= zoom
	} else {
		c.scale /= zoom
	}
}

// Update moves the camera by the pending rotation and dolly, applies the
// distance and polar clamps and aims the camera at Target.
func (c *OrbitControls) Update() {
	offset := c.Camera.Position.Sub(c.Target)
	radius := offset.Length()
	var theta, phi float32
	if radius > 0 {
		theta = math32.Atan2(offset.X, offset.Z)
		phi = math32.Acos(clamp(offset.Y/radius, -1, 1))
	}

	if c.AutoRotate {
		c.deltaTheta -= 2 * math32.Pi / 60 / 60 * 2
	}
	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}

	const eps = 0.000001
	phi = clamp(phi, c.MinPolarAngle, c.MaxPolarAngle)
	phi = clamp(phi, eps, math32.Pi-eps)

	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	sinPhi, cosPhi := math32.Sincos(phi)
	sinTheta, cosTheta := math32.Sincos(theta)
	offset = math.Vec3{
		X: radius * sinPhi * sinTheta,
		Y: radius * cosPhi,
		Z: radius * sinPhi * cosTheta,
	}
	c.Camera.SetPosition(c.Target.Add(offset))
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
	}
	c.scale = 1
}

// Distance returns the current camera to target distance.
func (c *OrbitControls) Distance() float32 {
	return c.Camera.Position.Distance(c.Target)
}

// PolarAngle returns the angle between +Y and the target-to-camera vector.
func (c *OrbitControls) PolarAngle() float32 {
	offset := c.Camera.Position.Sub(c.Target)
	r := offset.Length()
	if r == 0 {
		return 0
	}
	return math32.Acos(clamp(offset.Y/r, -1, 1))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}
