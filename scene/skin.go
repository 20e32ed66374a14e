package scene

import (
	"gltf-scenes/core"
	"gltf-scenes/math"
)

// Skin binds a mesh to a set of joint nodes. InverseBind[i] maps mesh
// space into the bind-pose space of Joints[i].
type Skin struct {
	Name        string
	Joints      []*Node
	InverseBind []math.Mat4

	jointMatrices []math.Mat4
}

// JointMatrices returns, per joint, the matrix taking a bind-pose vertex in
// mesh space to its posed position in mesh space.
func (s *Skin) JointMatrices(meshWorld math.Mat4) []math.Mat4 {
	if cap(s.jointMatrices) < len(s.Joints) {
		s.jointMatrices = make([]math.Mat4, len(s.Joints))
	}
	s.jointMatrices = s.jointMatrices[:len(s.Joints)]

	toMesh := meshWorld.Inverse()
	for i, joint := range s.Joints {
		ibm := math.Mat4Identity()
		if i < len(s.InverseBind) {
			ibm = s.InverseBind[i]
		}
		s.jointMatrices[i] = ibm.Mul(joint.GetWorldMatrix()).Mul(toMesh)
	}
	return s.jointMatrices
}

// Apply deforms mesh.Vertices from its bind pose using linear blend
// skinning and bumps the mesh revision.
func (s *Skin) Apply(mesh *Mesh, meshWorld math.Mat4) {
	if !mesh.IsSkinned() || len(s.Joints) == 0 {
		return
	}
	if mesh.BindVertices == nil {
		mesh.BindVertices = make([]core.Vertex, len(mesh.Vertices))
		copy(mesh.BindVertices, mesh.Vertices)
	}

	joints := s.JointMatrices(meshWorld)
	for i, bind := range mesh.BindVertices {
		var skin math.Mat4
		var total float32
		for k := 0; k < 4; k++ {
			w := mesh.Weights[i][k]
			j := int(mesh.Joints[i][k])
			if w == 0 || j >= len(joints) {
				continue
			}
			skin = addScaled(skin, joints[j], w)
			total += w
		}
		if total == 0 {
			mesh.Vertices[i] = bind
			continue
		}
		if total != 1 {
			skin = addScaled(math.Mat4{}, skin, 1/total)
		}
		v := bind
		v.Position = skin.MulVec3(bind.Position)
		v.Normal = skin.MulDir(bind.Normal).Normalize()
		mesh.Vertices[i] = v
	}
	mesh.Touch()
}

func addScaled(acc, m math.Mat4, w float32) math.Mat4 {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			acc[r][c] += m[r][c] * w
		}
	}
	return acc
}
