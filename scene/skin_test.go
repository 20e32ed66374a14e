package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltf-scenes/core"
	"gltf-scenes/math"
)

func skinnedMesh(weights [4]float32) *Mesh {
	m := CreateMeshFromData("skinned", []core.Vertex{
		{Position: math.Vec3{X: 1}, Normal: math.Vec3Up},
	}, nil)
	m.Joints = [][4]uint16{{0, 1, 0, 0}}
	m.Weights = [][4]float32{weights}
	return m
}

func TestSkinApplySingleJoint(t *testing.T) {
	joint := NewNode("joint")
	joint.SetPosition(math.Vec3{Y: 2})
	skin := &Skin{Joints: []*Node{joint}, InverseBind: []math.Mat4{math.Mat4Identity()}}

	mesh := skinnedMesh([4]float32{1, 0, 0, 0})
	require.True(t, mesh.IsSkinned())
	skin.Apply(mesh, math.Mat4Identity())

	assertVec3(t, math.Vec3{X: 1, Y: 2}, mesh.Vertices[0].Position)
	assertVec3(t, math.Vec3Up, mesh.Vertices[0].Normal)
	assertVec3(t, math.Vec3{X: 1}, mesh.BindVertices[0].Position)
	assert.Equal(t, uint64(1), mesh.Revision)

	// re-posing starts from the bind pose rather than compounding
	joint.SetPosition(math.Vec3{Y: 4})
	skin.Apply(mesh, math.Mat4Identity())
	assertVec3(t, math.Vec3{X: 1, Y: 4}, mesh.Vertices[0].Position)
}

func TestSkinApplyBlendsAndNormalizesWeights(t *testing.T) {
	rest := NewNode("rest")
	lifted := NewNode("lifted")
	lifted.SetPosition(math.Vec3{Y: 2})
	skin := &Skin{Joints: []*Node{rest, lifted}}

	// weights summing to 2 are rescaled to 0.5/0.5
	mesh := skinnedMesh([4]float32{1, 1, 0, 0})
	skin.Apply(mesh, math.Mat4Identity())
	assertVec3(t, math.Vec3{X: 1, Y: 1}, mesh.Vertices[0].Position)
}

func TestSkinApplyInMeshSpace(t *testing.T) {
	// mesh node and joint were both bound at x=5; the joint has since lifted
	meshWorld := math.Mat4Translation(math.Vec3{X: 5})
	joint := NewNode("joint")
	joint.SetPosition(math.Vec3{X: 5, Y: 1})
	bind := math.Mat4Translation(math.Vec3{X: -5})
	skin := &Skin{Joints: []*Node{joint}, InverseBind: []math.Mat4{bind}}

	mesh := skinnedMesh([4]float32{1, 0, 0, 0})
	skin.Apply(mesh, meshWorld)
	assertVec3(t, math.Vec3{X: -4, Y: 1}, mesh.Vertices[0].Position)
	assertVec3(t, math.Vec3{X: 1, Y: 1}, meshWorld.MulVec3(mesh.Vertices[0].Position))
}

func TestUpdateSkinsSkipsUnskinned(t *testing.T) {
	s := NewScene()
	plain := NewNode("plain")
	plain.Mesh = CreatePlane(1, 1)
	s.AddNode(plain)

	joint := NewNode("joint")
	joint.SetPosition(math.Vec3{Z: 3})
	s.AddNode(joint)
	skinned := NewNode("skinned")
	skinned.Mesh = skinnedMesh([4]float32{1, 0, 0, 0})
	skinned.Skin = &Skin{Joints: []*Node{joint}}
	s.AddNode(skinned)

	s.UpdateSkins()
	assert.Equal(t, uint64(0), plain.Mesh.Revision)
	assertVec3(t, math.Vec3{X: 1, Z: 3}, skinned.Mesh.Vertices[0].Position)
}
