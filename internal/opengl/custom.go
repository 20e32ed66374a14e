package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"gltf-scenes/core"
	"gltf-scenes/math"
	"gltf-scenes/scene"
)

// customProgram is a compiled ShaderMaterial with its uniform locations.
type customProgram struct {
	id  uint32
	err error

	modelMatrix, viewMatrix, projectionMatrix, modelViewMatrix int32

	uniforms map[string]int32
}

// program compiles mat on first use. A compile failure is cached so the
// error is reported once per material rather than every frame.
func (r *Renderer) program(mat *scene.ShaderMaterial) (*customProgram, error) {
	if p, ok := r.programs[mat]; ok {
		return p, p.err
	}
	p := &customProgram{uniforms: make(map[string]int32)}
	r.programs[mat] = p
	mat.GPUData = p

	id, err := newProgram(customVertPrelude+mat.VertexShader+"\x00", customFragPrelude+mat.FragmentShader+"\x00")
	if err != nil {
		p.err = fmt.Errorf("shader material %q: %w", mat.Name, err)
		return p, p.err
	}
	p.id = id
	loc := func(name string) int32 {
		return gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	p.modelMatrix = loc("modelMatrix")
	p.viewMatrix = loc("viewMatrix")
	p.projectionMatrix = loc("projectionMatrix")
	p.modelViewMatrix = loc("modelViewMatrix")
	for name := range mat.Uniforms {
		p.uniforms[name] = loc(name)
	}
	return p, nil
}

func (r *Renderer) useCustom(mat *scene.ShaderMaterial, model, view, proj math.Mat4) error {
	p, err := r.program(mat)
	if err != nil {
		return err
	}
	gl.UseProgram(p.id)
	setMat4(p.modelMatrix, model)
	setMat4(p.viewMatrix, view)
	setMat4(p.projectionMatrix, proj)
	setMat4(p.modelViewMatrix, model.Mul(view))

	slots := mat.TextureSlots(firstCustomUnit)
	for name, u := range mat.Uniforms {
		loc, ok := p.uniforms[name]
		if !ok || loc < 0 {
			continue
		}
		switch v := u.Value.(type) {
		case float32:
			gl.Uniform1f(loc, v)
		case int:
			gl.Uniform1i(loc, int32(v))
		case math.Vec2:
			gl.Uniform2f(loc, v.X, v.Y)
		case math.Vec3:
			gl.Uniform3f(loc, v.X, v.Y, v.Z)
		case core.Color:
			gl.Uniform4f(loc, v.R, v.G, v.B, v.A)
		case math.Mat4:
			setMat4(loc, v)
		case *scene.Texture:
			unit := slots[name]
			r.bindTexture(uint32(unit), v)
			gl.Uniform1i(loc, int32(unit))
		}
	}
	return nil
}
