// Package app wires the scene graph, camera controls, loader and renderer
// into the two viewer applications.
package app

import (
	"log/slog"

	"gltf-scenes/interaction"
	"gltf-scenes/loader"
	"gltf-scenes/scene"
)

// Renderer draws a scene. SetSize follows the window size.
type Renderer interface {
	Render(s *scene.Scene, camera *scene.Camera) error
	SetSize(width, height int)
}

// Policy is the per-scene frame update.
type Policy interface {
	Step(v *Viewer)
}

// Viewer owns one scene and runs its frame loop body. All methods must be
// called from the goroutine that polls window events.
type Viewer struct {
	Scene     *scene.Scene
	Camera    *scene.Camera
	Controls  *interaction.OrbitControls
	Pointer   interaction.Pointer
	Raycaster *interaction.Raycaster
	Loader    *loader.Loader
	Renderer  Renderer
	Progress  *ProgressIndicator
	Policy    Policy

	log           *slog.Logger
	hover         bool
	width, height int
}

// Hover reports whether the last pointer move landed on scene geometry.
func (v *Viewer) Hover() bool {
	return v.hover
}

// Size returns the last size passed to OnResize.
func (v *Viewer) Size() (int, int) {
	return v.width, v.height
}

// OnResize keeps the camera aspect and the render surface in step with the
// window. A zero height leaves the aspect untouched.
func (v *Viewer) OnResize(width, height int) {
	v.width, v.height = width, height
	v.Camera.UpdateAspectRatio(float32(width), float32(height))
	v.Controls.SetSize(width, height)
	v.Renderer.SetSize(width, height)
}

// OnPointerMove updates the pointer and recomputes hover with a recursive
// raycast against the scene root.
func (v *Viewer) OnPointerMove(x, y float64) {
	v.Controls.OnCursor(x, y)
	v.Pointer.SetFromPixels(x, y, v.width, v.height)
	v.Raycaster.SetFromCamera(v.Pointer.NDC, v.Camera)
	v.hover = len(v.Raycaster.IntersectObject(v.Scene.Root, true)) > 0
}

func (v *Viewer) OnMouseButton(button int, pressed bool, x, y float64) {
	v.Controls.OnMouseButton(button, pressed, x, y)
}

func (v *Viewer) OnScroll(xoff, yoff float64) {
	v.Controls.OnScroll(yoff)
}

// Frame runs one iteration of the render loop.
func (v *Viewer) Frame() error {
	v.Loader.Poll()
	if v.Policy != nil {
		v.Policy.Step(v)
	}
	v.Scene.UpdateSkins()
	v.Controls.Update()
	return v.Renderer.Render(v.Scene, v.Camera)
}
