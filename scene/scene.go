package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"gltf-scenes/core"
	"gltf-scenes/math"
)

// Scene manages a collection of nodes, the active camera and the lights.
type Scene struct {
	Root       *Node
	Camera     *Camera
	Lights     []*Light
	ClearColor core.Color
}

type LightType int

const (
	LightAmbient LightType = iota
	LightSpot
)

// Light is either an ambient term or a spot light. Spot lights aim from
// Position at Target; SpotAngle is the cone half-angle in radians.
type Light struct {
	Type      LightType
	Color     core.Color
	Intensity float32

	Position  math.Vec3
	Target    math.Vec3
	SpotAngle float32
	Penumbra  float32

	CastShadow bool
	ShadowBias float32
}

func NewAmbientLight(color core.Color, intensity float32) *Light {
	return &Light{Type: LightAmbient, Color: color, Intensity: intensity}
}

// NewSpotLight returns a light at position aimed at the origin with a
// 60 degree half-angle cone.
func NewSpotLight(color core.Color, intensity float32, position math.Vec3) *Light {
	return &Light{
		Type:      LightSpot,
		Color:     color,
		Intensity: intensity,
		Position:  position,
		Target:    math.Vec3Zero,
		SpotAngle: math32.Pi / 3,
	}
}

// Direction returns the unit vector from Position to Target.
func (l *Light) Direction() math.Vec3 {
	return l.Target.Sub(l.Position).Normalize()
}

// Shadow camera clip range of spot lights.
const (
	ShadowNear float32 = 0.5
	ShadowFar  float32 = 500
)

// ShadowMatrix returns the view-projection of the spot light's shadow
// camera: a square frustum covering the full cone.
func (l *Light) ShadowMatrix() math.Mat4 {
	eye := mgl32.Vec3{l.Position.X, l.Position.Y, l.Position.Z}
	center := mgl32.Vec3{l.Target.X, l.Target.Y, l.Target.Z}
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(l.Direction().Y) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	vp := mgl32.Perspective(2*l.SpotAngle, 1, ShadowNear, ShadowFar).Mul4(mgl32.LookAtV(eye, center, up))
	return math.Mat4FromArray(vp)
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Lights:     make([]*Light, 0),
		ClearColor: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// Ambient returns the summed ambient colour, already scaled by intensity.
func (s *Scene) Ambient() core.Color {
	var sum core.Color
	for _, l := range s.Lights {
		if l.Type != LightAmbient {
			continue
		}
		c := l.Color.Scale(l.Intensity)
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	sum.A = 1
	return sum
}

// ShadowLight returns the first spot light that casts shadows, or nil.
func (s *Scene) ShadowLight() *Light {
	for _, l := range s.Lights {
		if l.Type == LightSpot && l.CastShadow {
			return l
		}
	}
	return nil
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			visible = append(visible, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// UpdateSkins re-poses every skinned mesh from its joints' current world
// matrices.
func (s *Scene) UpdateSkins() {
	s.Root.Traverse(func(n *Node) {
		if n.Skin != nil && n.Mesh != nil {
			n.Skin.Apply(n.Mesh, n.GetWorldMatrix())
		}
	})
}
