// Package interaction turns window input into pointer state, picking rays
// and orbit camera motion.
package interaction

import "gltf-scenes/math"

// Pointer tracks the cursor in normalised device coordinates: x and y in
// [-1, 1], y up.
type Pointer struct {
	NDC   math.Vec2
	Prev  math.Vec2
	moved bool
}

// SetFromPixels converts a window-space cursor position. It reports
// whether the NDC position changed; a change also arms the moved flag.
func (p *Pointer) SetFromPixels(x, y float64, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	p.Prev = p.NDC
	p.NDC = math.Vec2{
		X: float32(x/float64(width)*2 - 1),
		Y: float32(-(y/float64(height))*2 + 1),
	}
	changed := p.NDC != p.Prev
	if changed {
		p.moved = true
	}
	return changed
}

// TakeMoved reports whether the pointer moved since the last call and
// clears the flag.
func (p *Pointer) TakeMoved() bool {
	m := p.moved
	p.moved = false
	return m
}
