package scene

import (
	"github.com/chewxy/math32"

	"gltf-scenes/core"
	"gltf-scenes/math"
)

// CreateSphere generates a UV-sphere mesh centred on the origin.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	var vertices []core.Vertex
	var indices []uint32
	for ring := 0; ring <= rings; ring++ {
		sinPhi, cosPhi := math32.Sincos(float32(ring) * math32.Pi / float32(rings))
		for seg := 0; seg <= segments; seg++ {
			sinTheta, cosTheta := math32.Sincos(float32(seg) * 2 * math32.Pi / float32(segments))
			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}
	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreatePlane generates a flat XZ plane facing +Y.
func CreatePlane(width, depth float32) *Mesh {
	w, d := width/2, depth/2
	up := math.Vec3Up
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -w, Z: -d}, Normal: up, UV: math.Vec2{X: 0, Y: 0}},
		{Position: math.Vec3{X: w, Z: -d}, Normal: up, UV: math.Vec2{X: 1, Y: 0}},
		{Position: math.Vec3{X: w, Z: d}, Normal: up, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: -w, Z: d}, Normal: up, UV: math.Vec2{X: 0, Y: 1}},
	}
	return CreateMeshFromData("Plane", vertices, []uint32{0, 2, 1, 0, 3, 2})
}
