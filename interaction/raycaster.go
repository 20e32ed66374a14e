package interaction

import (
	"sort"

	"github.com/chewxy/math32"

	"gltf-scenes/math"
	"gltf-scenes/scene"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Intersection is one ray hit against a mesh triangle.
type Intersection struct {
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Node     *scene.Node
	FaceIdx  int // triangle index in the mesh
}

// Raycaster picks meshes along a ray. Hits closer than Near or further
// than Far are dropped.
type Raycaster struct {
	Ray  Ray
	Near float32
	Far  float32
}

func NewRaycaster() *Raycaster {
	return &Raycaster{Far: math32.Inf(1)}
}

// SetFromCamera aims the ray from the camera through ndc.
func (rc *Raycaster) SetFromCamera(ndc math.Vec2, camera *scene.Camera) {
	invProj := camera.GetProjectionMatrix().Inverse()
	invView := camera.GetViewMatrix().Inverse()

	viewPoint := invProj.MulVec(math.Vec4{X: ndc.X, Y: ndc.Y, Z: 0.5, W: 1})
	viewPoint = viewPoint.Div(viewPoint.W)
	worldPoint := invView.MulVec(math.Vec4{X: viewPoint.X, Y: viewPoint.Y, Z: viewPoint.Z, W: 1})

	rc.Ray = Ray{
		Origin:    camera.Position,
		Direction: worldPoint.ToVec3().Sub(camera.Position).Normalize(),
	}
}

// IntersectObject tests root, and its descendants when recursive is set,
// and returns every hit sorted nearest first. Invisible subtrees are
// skipped.
func (rc *Raycaster) IntersectObject(root *scene.Node, recursive bool) []Intersection {
	var hits []Intersection
	rc.intersect(root, recursive, &hits)
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (rc *Raycaster) intersect(node *scene.Node, recursive bool, hits *[]Intersection) {
	if !node.Visible {
		return
	}
	if node.Mesh != nil {
		rc.intersectMesh(node, hits)
	}
	if !recursive {
		return
	}
	for _, child := range node.Children {
		rc.intersect(child, true, hits)
	}
}

func (rc *Raycaster) intersectMesh(node *scene.Node, hits *[]Intersection) {
	mesh := node.Mesh
	world := node.GetWorldMatrix()

	// broad phase
	if t, ok := rayAABBIntersect(rc.Ray, scene.ComputeAABB(mesh, world)); !ok || t > rc.Far {
		return
	}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(max(i0, i1, i2)) >= len(mesh.Vertices) {
			continue
		}
		v0 := world.MulVec3(mesh.Vertices[i0].Position)
		v1 := world.MulVec3(mesh.Vertices[i1].Position)
		v2 := world.MulVec3(mesh.Vertices[i2].Position)

		t, ok := mollerTrumbore(rc.Ray, v0, v1, v2)
		if !ok || t < rc.Near || t > rc.Far {
			continue
		}
		*hits = append(*hits, Intersection{
			Distance: t,
			Point:    rc.Ray.At(t),
			Normal:   v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(),
			Node:     node,
			FaceIdx:  i / 3,
		})
	}
}

// rayAABBIntersect is the slab test; it returns the entry distance.
func rayAABBIntersect(ray Ray, aabb scene.AABB) (float32, bool) {
	invDir := math.Vec3{
		X: 1.0 / ray.Direction.X,
		Y: 1.0 / ray.Direction.Y,
		Z: 1.0 / ray.Direction.Z,
	}

	t1 := (aabb.Min.X - ray.Origin.X) * invDir.X
	t2 := (aabb.Max.X - ray.Origin.X) * invDir.X
	t3 := (aabb.Min.Y - ray.Origin.Y) * invDir.Y
	t4 := (aabb.Max.Y - ray.Origin.Y) * invDir.Y
	t5 := (aabb.Min.Z - ray.Origin.Z) * invDir.Z
	t6 := (aabb.Max.Z - ray.Origin.Z) * invDir.Z

	tmin := max(min(t1, t2), min(t3, t4), min(t5, t6))
	tmax := min(max(t1, t2), max(t3, t4), max(t5, t6))

	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}

// mollerTrumbore intersects both faces of the triangle.
func mollerTrumbore(ray Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
