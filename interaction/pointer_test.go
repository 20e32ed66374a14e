package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gltf-scenes/math"
)

func TestPointerNDC(t *testing.T) {
	var p Pointer

	assert.True(t, p.SetFromPixels(0, 0, 1280, 720))
	assert.Equal(t, math.Vec2{X: -1, Y: 1}, p.NDC)

	assert.True(t, p.SetFromPixels(1280, 720, 1280, 720))
	assert.Equal(t, math.Vec2{X: 1, Y: -1}, p.NDC)
	assert.Equal(t, math.Vec2{X: -1, Y: 1}, p.Prev)

	assert.True(t, p.SetFromPixels(640, 360, 1280, 720))
	assert.Equal(t, math.Vec2Zero, p.NDC)

	assert.True(t, p.SetFromPixels(960, 180, 1280, 720))
	assert.InDelta(t, 0.5, p.NDC.X, 1e-6)
	assert.InDelta(t, 0.5, p.NDC.Y, 1e-6)
}

func TestPointerMovedFlag(t *testing.T) {
	var p Pointer
	assert.False(t, p.TakeMoved())

	p.SetFromPixels(10, 10, 100, 100)
	assert.True(t, p.TakeMoved())
	assert.False(t, p.TakeMoved(), "flag is consumed")

	// same position again is not a move
	assert.False(t, p.SetFromPixels(10, 10, 100, 100))
	assert.False(t, p.TakeMoved())
}

func TestPointerIgnoresEmptyViewport(t *testing.T) {
	var p Pointer
	assert.False(t, p.SetFromPixels(5, 5, 0, 720))
	assert.False(t, p.SetFromPixels(5, 5, 1280, 0))
	assert.Equal(t, math.Vec2Zero, p.NDC)
	assert.False(t, p.TakeMoved())
}
