package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltf-scenes/math"
)

type progressLog struct {
	done, total []int
}

func (p *progressLog) record(done, total int) {
	p.done = append(p.done, done)
	p.total = append(p.total, total)
}

func TestLoadGLTFQuad(t *testing.T) {
	var prog progressLog
	model, err := LoadGLTF("testdata/quad/scene.gltf", prog.record)
	require.NoError(t, err)
	assert.Empty(t, model.Warnings)

	// the root group is named after the model directory
	assert.Equal(t, "quad", model.Root.Name)
	require.Len(t, model.Root.Children, 1)
	top := model.Root.Children[0]
	assert.Equal(t, "root", top.Name)
	require.Len(t, top.Children, 1)
	quad := top.Children[0]
	assert.Equal(t, "quad", quad.Name)

	assertVec3(t, math.Vec3{X: 1, Y: 1}, quad.GetWorldMatrix().Translation())

	require.NotNil(t, quad.Mesh)
	assert.Len(t, quad.Mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, quad.Mesh.Indices)
	assert.Equal(t, math.Vec3Front, quad.Mesh.Vertices[0].Normal)
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, quad.Mesh.Vertices[2].UV)
	assert.Equal(t, AABB{Min: math.Vec3{X: -1, Y: -1}, Max: math.Vec3{X: 1, Y: 1}}, quad.Mesh.LocalAABB)
	assert.Equal(t, []*Node{quad}, model.Meshes())

	mat, ok := quad.Mesh.Material.(*StandardMaterial)
	require.True(t, ok, "material is %T", quad.Mesh.Material)
	assert.Equal(t, "painted", mat.Name)
	assert.InDelta(t, 0.5, mat.Albedo.G, tol)
	require.NotNil(t, mat.AlbedoTexture)
	require.Len(t, model.Textures, 1)
	assert.Same(t, model.Textures[0], mat.AlbedoTexture)
	assert.Equal(t, 2, mat.AlbedoTexture.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, mat.AlbedoTexture.Pixels[:4])

	require.Len(t, model.Animations, 1)
	clip := model.Animations[0]
	assert.Equal(t, "slide", clip.Name)
	assert.Equal(t, float32(1), clip.Duration)
	require.Len(t, clip.Tracks, 2)

	move := clip.Tracks[0]
	assert.Same(t, quad, move.Node)
	assert.Equal(t, PathTranslation, move.Path)
	assert.Equal(t, InterpolateLinear, move.Interpolation)
	assert.Equal(t, []float32{0, 1}, move.Times)
	assert.Equal(t, []float32{1, 0, 0, 3, 0, 0}, move.Values)

	grow := clip.Tracks[1]
	assert.Equal(t, PathScale, grow.Path)
	assert.Equal(t, InterpolateStep, grow.Interpolation)
	assert.Equal(t, []float32{1, 1, 1, 2, 2, 2}, grow.Values)

	// open + texture + mesh + nodes + animation
	require.NotEmpty(t, prog.done)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, prog.done)
	for _, total := range prog.total {
		assert.Equal(t, 5, total)
	}
}

func TestLoadGLTFRigged(t *testing.T) {
	model, err := LoadGLTF("testdata/rigged/scene.gltf", nil)
	require.NoError(t, err)

	// the points primitive is skipped with a warning
	require.Len(t, model.Warnings, 1)
	assert.ErrorContains(t, model.Warnings[0], "mesh 0 primitive 2")

	body := model.Root.Find("body")
	require.NotNil(t, body)
	assert.Nil(t, body.Mesh)
	assertVec3(t, math.Vec3{Z: 4}, body.GetWorldMatrix().Translation())

	require.Len(t, body.Children, 2)
	skinned, plain := body.Children[0], body.Children[1]
	assert.Equal(t, "body_prim0", skinned.Name)
	assert.Equal(t, "body_prim1", plain.Name)
	assert.True(t, skinned.Mesh.IsSkinned())
	assert.False(t, plain.Mesh.IsSkinned())
	assert.Equal(t, []uint32{0, 1, 2}, plain.Mesh.Indices)

	mat, ok := skinned.Mesh.Material.(*StandardMaterial)
	require.True(t, ok)
	assert.True(t, mat.DoubleSided)
	require.NotNil(t, mat.AlbedoTexture)
	assert.Equal(t, "embedded", mat.AlbedoTexture.Name)
	assert.Equal(t, []byte{0, 128, 255, 255}, mat.AlbedoTexture.Pixels)
	assert.Nil(t, plain.Mesh.Material)

	require.Len(t, model.Skins, 1)
	rig := model.Skins[0]
	joint := model.Root.Find("joint")
	require.NotNil(t, joint)
	assert.Equal(t, []*Node{joint}, rig.Joints)
	assert.Equal(t, []math.Mat4{math.Mat4Identity()}, rig.InverseBind)
	assert.Same(t, rig, body.Skin)
	assert.Same(t, rig, skinned.Skin)
	assert.Nil(t, plain.Skin)

	require.Len(t, model.Animations, 1)
	clip := model.Animations[0]
	assert.Equal(t, "animation_0", clip.Name)
	assert.Equal(t, float32(2), clip.Duration)
	track := clip.Tracks[0]
	assert.Equal(t, PathRotation, track.Path)
	// tangents are dropped, leaving one quaternion per key
	require.Len(t, track.Values, 8)
	assert.Equal(t, []float32{0, 0, 0, 1}, track.Values[:4])
	assert.InDelta(t, 0.70710677, track.Values[5], tol)
}

func TestLoadGLTFNormalizedRotation(t *testing.T) {
	model, err := LoadGLTF("testdata/quantized/scene.gltf", nil)
	require.NoError(t, err)

	// the byte translation channel has no float meaning and is skipped
	require.Len(t, model.Warnings, 1)
	assert.ErrorContains(t, model.Warnings[0], "animation 0 channel 1")
	assert.ErrorIs(t, model.Warnings[0], errUnsupportedOutput)

	require.Len(t, model.Animations, 1)
	clip := model.Animations[0]
	assert.Equal(t, "spin", clip.Name)
	require.Len(t, clip.Tracks, 1)
	track := clip.Tracks[0]
	assert.Equal(t, PathRotation, track.Path)
	assert.Same(t, model.Root.Find("spinner"), track.Node)
	require.Len(t, track.Values, 8)
	assert.Equal(t, []float32{0, 0, 0, 1}, track.Values[:4])
	assert.InDelta(t, 0.70710677, track.Values[5], tol)
	assert.InDelta(t, 0.70710677, track.Values[7], tol)
}

func TestKeyValuesDenormalizes(t *testing.T) {
	tests := []struct {
		name string
		out  any
		want []float32
	}{
		{"byte", [][4]int8{{127, -127, -128, 0}}, []float32{1, -1, -1, 0}},
		{"unsigned byte", [][4]uint8{{255, 0, 51, 0}}, []float32{1, 0, 0.2, 0}},
		{"short", [][4]int16{{32767, -32768, 0, 0}}, []float32{1, -1, 0, 0}},
		{"unsigned short", [][4]uint16{{65535, 0, 0, 0}}, []float32{1, 0, 0, 0}},
		{"float", [][3]float32{{1, 2, 3}}, []float32{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyValues(tt.out)
			require.True(t, ok)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}

	_, ok := keyValues([][3]uint8{{1, 2, 3}})
	assert.False(t, ok)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF("testdata/none/scene.gltf", nil)
	assert.ErrorContains(t, err, "gltf open")
}
