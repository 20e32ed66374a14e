package renderer

import (
	"fmt"

	"gltf-scenes/internal/opengl"
	"gltf-scenes/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend:
// one shadow pass from the first shadow-casting spot light, then a forward
// pass over every visible mesh.
type RenderEngine struct {
	gl *opengl.Renderer

	FrustumCulling bool
	ShadowsEnabled bool

	// framebufferSize reports the drawable size in pixels, which differs
	// from the window size on high-DPI displays.
	framebufferSize func() (int, int)

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastTriangles int
	lastCulled    int
}

// NewRenderEngine initialises GL on the current context. shadowMapSize of
// zero disables shadows.
func NewRenderEngine(framebufferSize func() (int, int), shadowMapSize int) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	re := &RenderEngine{
		gl:              glRenderer,
		FrustumCulling:  true,
		framebufferSize: framebufferSize,
	}
	if shadowMapSize > 0 {
		if err := glRenderer.EnableShadows(shadowMapSize); err != nil {
			glRenderer.Destroy()
			return nil, fmt.Errorf("shadows: %w", err)
		}
		re.ShadowsEnabled = true
	}
	re.SetSize(framebufferSize())
	return re, nil
}

// Version returns the GL version string of the context.
func (re *RenderEngine) Version() string {
	return re.gl.Version()
}

// SetSize resizes the viewport to the current framebuffer. The window size
// arguments only matter when no framebuffer query is available.
func (re *RenderEngine) SetSize(width, height int) {
	if re.framebufferSize != nil {
		width, height = re.framebufferSize()
	}
	re.gl.SetViewport(width, height)
}

func (re *RenderEngine) Render(s *scene.Scene, camera *scene.Camera) error {
	if s == nil || camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	nodes := s.GetVisibleNodes()

	// ── Shadow pass ──────────────────────────────────────────────────────────
	spot := s.ShadowLight()
	lights := opengl.FrameLights{Ambient: s.Ambient(), Spot: spot}
	for _, l := range s.Lights {
		if lights.Spot == nil && l.Type == scene.LightSpot {
			lights.Spot = l
		}
	}

	if re.ShadowsEnabled && spot != nil {
		lightVP := spot.ShadowMatrix()
		re.gl.BeginShadowPass()
		for _, node := range nodes {
			if node.CastShadow {
				re.gl.DrawMeshShadow(node.Mesh, node.GetWorldMatrix().Mul(lightVP))
			}
		}
		re.gl.EndShadowPass()
		lights.LightViewProj = lightVP
		lights.Shadows = true
	}

	// ── Main pass ────────────────────────────────────────────────────────────
	re.gl.BeginFrame(s.ClearColor, lights)

	view := camera.GetViewMatrix()
	proj := camera.GetProjectionMatrix()
	frustum := scene.FrustumFromVP(camera.GetViewProjectionMatrix())

	objects, triangles, culled := 0, 0, 0
	var firstErr error
	for _, node := range nodes {
		model := node.GetWorldMatrix()
		if re.FrustumCulling && node.Mesh.HasLocalAABB {
			aabb := scene.ComputeAABB(node.Mesh, model)
			if !aabb.IntersectsFrustum(&frustum) {
				culled++
				continue
			}
		}
		if err := re.gl.DrawMesh(node.Mesh, model, view, proj, node.ReceiveShadow); err != nil && firstErr == nil {
			firstErr = err
		}
		objects++
		triangles += len(node.Mesh.Indices) / 3
	}

	re.lastObjects = objects
	re.lastTriangles = triangles
	re.lastCulled = culled
	return firstErr
}

// DrawStats returns the counts of the last Render call.
func (re *RenderEngine) DrawStats() (objects, triangles, culled int) {
	return re.lastObjects, re.lastTriangles, re.lastCulled
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}
