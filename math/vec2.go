package math

import "github.com/chewxy/math32"

// Vec2 carries texture coordinates and pointer positions in NDC.
type Vec2 struct {
	X, Y float32
}

var Vec2Zero = Vec2{}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Distance is the euclidean distance between two points.
func (v Vec2) Distance(other Vec2) float32 {
	return math32.Hypot(v.X-other.X, v.Y-other.Y)
}
