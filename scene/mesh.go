package scene

import (
	"gltf-scenes/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading. If nil, DefaultMaterial() is used.
	Material Material

	// Joints and Weights are the four skin influences per vertex.
	Joints  [][4]uint16
	Weights [][4]float32

	// BindVertices keeps the rest pose once a skin has deformed Vertices.
	BindVertices []core.Vertex

	// Revision increases whenever Vertices change after creation, so the
	// renderer knows to re-upload.
	Revision uint64

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
// Without indices the vertices are drawn as a plain triangle list.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	m.recomputeAABB()
	return m
}

// IsSkinned reports whether the mesh carries joint influences.
func (m *Mesh) IsSkinned() bool {
	return len(m.Joints) == len(m.Vertices) && len(m.Weights) == len(m.Vertices) && len(m.Vertices) > 0
}

// Touch marks Vertices as modified.
func (m *Mesh) Touch() {
	m.Revision++
	m.recomputeAABB()
}

func (m *Mesh) recomputeAABB() {
	if len(m.Vertices) == 0 {
		m.HasLocalAABB = false
		return
	}
	mn := m.Vertices[0].Position
	mx := mn
	for _, v := range m.Vertices[1:] {
		mn = mn.Min(v.Position)
		mx = mx.Max(v.Position)
	}
	m.LocalAABB = AABB{Min: mn, Max: mx}
	m.HasLocalAABB = true
}
