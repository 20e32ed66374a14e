package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltf-scenes/core"
	"gltf-scenes/math"
	"gltf-scenes/scene"
)

// quadNode is a 2x2 quad in the XY plane facing +Z, placed at z.
func quadNode(name string, z float32) *scene.Node {
	mesh := scene.CreateMeshFromData(name, []core.Vertex{
		{Position: math.Vec3{X: -1, Y: -1}, Normal: math.Vec3Front},
		{Position: math.Vec3{X: 1, Y: -1}, Normal: math.Vec3Front},
		{Position: math.Vec3{X: 1, Y: 1}, Normal: math.Vec3Front},
		{Position: math.Vec3{X: -1, Y: 1}, Normal: math.Vec3Front},
	}, []uint32{0, 1, 2, 0, 2, 3})
	n := scene.NewNode(name)
	n.Mesh = mesh
	n.SetPosition(math.Vec3{Z: z})
	return n
}

// offAxis aims between the quad's triangle diagonal and its edges.
var offAxis = math.Vec2{X: 0.05, Y: -0.03}

func pickScene() (*scene.Camera, *scene.Node, *scene.Node, *scene.Node) {
	cam := scene.NewCamera(scene.Degrees(60), 1, 0.1, 100)
	cam.SetPosition(math.Vec3{Z: 10})
	root := scene.NewNode("root")
	far := quadNode("far", -5)
	near := quadNode("near", 0)
	// added far first so sorting has work to do
	root.AddChild(far)
	root.AddChild(near)
	return cam, root, near, far
}

func TestSetFromCamera(t *testing.T) {
	cam, _, _, _ := pickScene()
	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2Zero, cam)

	assert.Equal(t, cam.Position, rc.Ray.Origin)
	assert.InDelta(t, 0, rc.Ray.Direction.X, 1e-5)
	assert.InDelta(t, 0, rc.Ray.Direction.Y, 1e-5)
	assert.InDelta(t, -1, rc.Ray.Direction.Z, 1e-5)

	rc.SetFromCamera(math.Vec2{X: 1}, cam)
	assert.Greater(t, rc.Ray.Direction.X, float32(0))
}

func TestIntersectObjectSortsNearestFirst(t *testing.T) {
	cam, root, near, far := pickScene()
	rc := NewRaycaster()
	rc.SetFromCamera(offAxis, cam)

	hits := rc.IntersectObject(root, true)
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Node)
	assert.Same(t, far, hits[1].Node)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
	assert.InDelta(t, 0, hits[0].Point.Z, 1e-4)
	assert.InDelta(t, -5, hits[1].Point.Z, 1e-4)
	assert.InDelta(t, 1, hits[0].Normal.Z, 1e-4)

	// the group itself has no mesh
	assert.Empty(t, rc.IntersectObject(root, false))
	assert.Len(t, rc.IntersectObject(near, false), 1)
}

func TestIntersectObjectMiss(t *testing.T) {
	cam, root, _, _ := pickScene()
	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{X: 0.9, Y: 0.9}, cam)
	assert.Empty(t, rc.IntersectObject(root, true))
}

func TestIntersectObjectSkipsHidden(t *testing.T) {
	cam, root, near, far := pickScene()
	near.Visible = false
	rc := NewRaycaster()
	rc.SetFromCamera(offAxis, cam)

	hits := rc.IntersectObject(root, true)
	require.Len(t, hits, 1)
	assert.Same(t, far, hits[0].Node)
}

func TestIntersectObjectRange(t *testing.T) {
	cam, root, near, _ := pickScene()
	rc := NewRaycaster()
	rc.SetFromCamera(offAxis, cam)
	rc.Far = 12

	hits := rc.IntersectObject(root, true)
	require.Len(t, hits, 1)
	assert.Same(t, near, hits[0].Node)
	assert.InDelta(t, 10, hits[0].Distance, 0.05)
}

func TestIntersectBackFace(t *testing.T) {
	_, root, near, _ := pickScene()
	rc := NewRaycaster()
	// from behind both quads, looking back towards +Z
	rc.Ray = Ray{Origin: math.Vec3{X: 0.2, Y: 0.1, Z: -2}, Direction: math.Vec3Front}

	hits := rc.IntersectObject(root, true)
	require.Len(t, hits, 1)
	assert.Same(t, near, hits[0].Node)
	assert.InDelta(t, 2, hits[0].Distance, 1e-4)
}

func TestIntersectSphereFrontAndBack(t *testing.T) {
	ball := scene.NewNode("ball")
	ball.Mesh = scene.CreateSphere(1, 32, 16)
	rc := NewRaycaster()
	rc.Ray = Ray{Origin: math.Vec3{X: 0.1, Y: 0.2, Z: 5}, Direction: math.Vec3Back}

	hits := rc.IntersectObject(ball, false)
	require.Len(t, hits, 2)
	// exact sphere: 5 -/+ sqrt(1 - 0.05)
	assert.InDelta(t, 4.025, hits[0].Distance, 0.02)
	assert.InDelta(t, 5.975, hits[1].Distance, 0.02)
	assert.Greater(t, hits[0].Point.Z, float32(0))
}
