package scene

import (
	"sort"

	"gltf-scenes/core"
)

// Material is implemented by *StandardMaterial and *ShaderMaterial.
type Material interface {
	MaterialName() string
}

// StandardMaterial is lit by the scene's ambient and spot lights.
type StandardMaterial struct {
	Name   string
	Albedo core.Color // multiplied with AlbedoTexture if set

	// Upload via the renderer before drawing.
	AlbedoTexture *Texture
	DoubleSided   bool
}

func (m *StandardMaterial) MaterialName() string { return m.Name }

// DefaultMaterial returns a plain white matte material.
func DefaultMaterial() *StandardMaterial {
	return &StandardMaterial{
		Name:   "Default",
		Albedo: core.ColorWhite,
	}
}

// Uniform is a mutable shader input. Value may be float32, math.Vec2,
// math.Vec3, core.Color or *Texture.
type Uniform struct {
	Value any
}

// ShaderMaterial draws with user GLSL. The renderer prepends a prelude
// declaring the vertex attributes (position, normal, uv), the matrices
// (modelMatrix, viewMatrix, projectionMatrix, modelViewMatrix) and the
// fragment output fragColor.
type ShaderMaterial struct {
	Name           string
	VertexShader   string
	FragmentShader string
	Uniforms       map[string]*Uniform

	// GPUData caches the compiled program; owned by the renderer backend.
	GPUData interface{}
}

func (m *ShaderMaterial) MaterialName() string { return m.Name }

// Uniform returns the named uniform, or nil.
func (m *ShaderMaterial) Uniform(name string) *Uniform {
	return m.Uniforms[name]
}

// TextureSlots numbers the texture uniforms in name order, starting at
// first. Slots below first belong to the renderer.
func (m *ShaderMaterial) TextureSlots(first int) map[string]int {
	var names []string
	for name, u := range m.Uniforms {
		if _, ok := u.Value.(*Texture); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	slots := make(map[string]int, len(names))
	for i, name := range names {
		slots[name] = first + i
	}
	return slots
}

// BaseTexture returns the colour texture of any material kind.
func BaseTexture(m Material) *Texture {
	switch mat := m.(type) {
	case *StandardMaterial:
		return mat.AlbedoTexture
	case *ShaderMaterial:
		for _, u := range mat.Uniforms {
			if t, ok := u.Value.(*Texture); ok {
				return t
			}
		}
	}
	return nil
}
