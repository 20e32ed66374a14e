package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/chewxy/math32"
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"gltf-scenes/core"
	"gltf-scenes/math"
	"gltf-scenes/scene"
)

// Texture units. ShaderMaterial textures start after the shadow map.
const (
	albedoUnit      = 0
	shadowUnit      = 1
	firstCustomUnit = 2
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	Revision   uint64
}

// litUniforms are the locations of the built-in lit program.
type litUniforms struct {
	mvp, model, lightViewProj int32

	albedo, albedoTex, ambient int32

	hasSpot, spotPos, spotDir, spotColor int32
	spotCosOuter, spotCosInner           int32

	hasShadows, receiveShadow, shadowBias, shadowMap int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	lit    uint32
	litLoc litUniforms

	depth         uint32
	depthLightMVP int32

	shadowMap *ShadowMap
	white     *scene.Texture

	viewportW, viewportH int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
	programs  map[*scene.ShaderMaterial]*customProgram
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	lit, err := newProgram(litVertSrc, litFragSrc)
	if err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	depth, err := newProgram(depthVertSrc, depthFragSrc)
	if err != nil {
		return nil, fmt.Errorf("depth shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.FRAMEBUFFER_SRGB)

	loc := func(name string) int32 {
		return gl.GetUniformLocation(lit, gl.Str(name+"\x00"))
	}
	r := &Renderer{
		lit: lit,
		litLoc: litUniforms{
			mvp:           loc("mvp"),
			model:         loc("model"),
			lightViewProj: loc("lightViewProj"),
			albedo:        loc("matAlbedo"),
			albedoTex:     loc("albedoTex"),
			ambient:       loc("ambientColor"),
			hasSpot:       loc("hasSpot"),
			spotPos:       loc("spotPos"),
			spotDir:       loc("spotDir"),
			spotColor:     loc("spotColor"),
			spotCosOuter:  loc("spotCosOuter"),
			spotCosInner:  loc("spotCosInner"),
			hasShadows:    loc("hasShadows"),
			receiveShadow: loc("receiveShadow"),
			shadowBias:    loc("shadowBias"),
			shadowMap:     loc("shadowMap"),
		},
		depth:         depth,
		depthLightMVP: gl.GetUniformLocation(depth, gl.Str("lightMVP\x00")),
		white:         scene.NewSolidTexture("white", 255, 255, 255, 255),
		gpuMeshes:     make(map[*scene.Mesh]*GPUMesh),
		programs:      make(map[*scene.ShaderMaterial]*customProgram),
	}

	// texture units: albedo 0, shadow map 1
	gl.UseProgram(lit)
	gl.Uniform1i(r.litLoc.albedoTex, albedoUnit)
	gl.Uniform1i(r.litLoc.shadowMap, shadowUnit)

	if err := UploadTexture(r.white); err != nil {
		return nil, fmt.Errorf("white texture: %w", err)
	}
	return r, nil
}

// Version returns the driver's GL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// SetViewport resizes the OpenGL viewport and stores the dimensions for
// restoring after the shadow pass.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── Shadow pass ──────────────────────────────────────────────────────────────

// EnableShadows creates the depth FBO.  Call once after NewRenderer.
func (r *Renderer) EnableShadows(size int) error {
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	sm, err := NewShadowMap(size)
	if err != nil {
		return err
	}
	r.shadowMap = sm
	return nil
}

// BeginShadowPass binds the depth FBO.
func (r *Renderer) BeginShadowPass() {
	r.shadowMap.Bind()
	gl.UseProgram(r.depth)
}

// DrawMeshShadow draws a mesh into the depth buffer.
func (r *Renderer) DrawMeshShadow(mesh *scene.Mesh, lightMVP math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	setMat4(r.depthLightMVP, lightMVP)
	drawElements(gpu)
}

// EndShadowPass restores the default framebuffer and viewport.
func (r *Renderer) EndShadowPass() {
	r.shadowMap.Unbind()
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
}

// ── Main pass ────────────────────────────────────────────────────────────────

// FrameLights is the per-frame lighting input of the lit program.
type FrameLights struct {
	Ambient core.Color
	Spot    *scene.Light

	// LightViewProj maps world space into the shadow map; only read when
	// Shadows is set.
	LightViewProj math.Mat4
	Shadows       bool
}

// BeginFrame clears the framebuffer and sets per-frame lighting uniforms.
func (r *Renderer) BeginFrame(clear core.Color, lights FrameLights) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	loc := r.litLoc
	gl.UseProgram(r.lit)
	gl.Uniform3f(loc.ambient, lights.Ambient.R, lights.Ambient.G, lights.Ambient.B)

	if s := lights.Spot; s != nil {
		dir := s.Direction()
		c := s.Color.Scale(s.Intensity)
		gl.Uniform1i(loc.hasSpot, 1)
		gl.Uniform3f(loc.spotPos, s.Position.X, s.Position.Y, s.Position.Z)
		gl.Uniform3f(loc.spotDir, dir.X, dir.Y, dir.Z)
		gl.Uniform3f(loc.spotColor, c.R, c.G, c.B)
		outer, inner := spotCone(s)
		gl.Uniform1f(loc.spotCosOuter, outer)
		gl.Uniform1f(loc.spotCosInner, inner)
		gl.Uniform1f(loc.shadowBias, s.ShadowBias)
	} else {
		gl.Uniform1i(loc.hasSpot, 0)
	}

	if lights.Shadows && r.shadowMap != nil {
		setMat4(loc.lightViewProj, lights.LightViewProj)
		gl.ActiveTexture(gl.TEXTURE0 + shadowUnit)
		gl.BindTexture(gl.TEXTURE_2D, r.shadowMap.DepthTex)
		gl.Uniform1i(loc.hasShadows, 1)
	} else {
		gl.Uniform1i(loc.hasShadows, 0)
	}
}

// DrawMesh draws a mesh with its material. view and proj feed
// ShaderMaterial matrices; the lit program only needs mvp and model.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, model, view, proj math.Mat4, receiveShadow bool) error {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return nil
	}

	switch mat := mesh.Material.(type) {
	case *scene.ShaderMaterial:
		if err := r.useCustom(mat, model, view, proj); err != nil {
			return err
		}
	case *scene.StandardMaterial:
		r.useLit(mat, model, view, proj, receiveShadow)
	default:
		r.useLit(scene.DefaultMaterial(), model, view, proj, receiveShadow)
	}
	drawElements(gpu)
	return nil
}

func (r *Renderer) useLit(mat *scene.StandardMaterial, model, view, proj math.Mat4, receiveShadow bool) {
	loc := r.litLoc
	gl.UseProgram(r.lit)
	setMat4(loc.mvp, model.Mul(view).Mul(proj))
	setMat4(loc.model, model)
	gl.Uniform4f(loc.albedo, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B, mat.Albedo.A)
	gl.Uniform1i(loc.receiveShadow, boolToInt(receiveShadow))
	r.bindTexture(albedoUnit, mat.AlbedoTexture)
}

// bindTexture uploads tex on first use. A nil texture binds plain white.
func (r *Renderer) bindTexture(unit uint32, tex *scene.Texture) {
	if tex == nil || len(tex.Pixels) == 0 {
		tex = r.white
	}
	if tex.GLID == 0 {
		if err := UploadTexture(tex); err != nil {
			tex = r.white
		}
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
}

// ReleaseMesh frees the GPU buffers of mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	gl.DeleteBuffers(1, &gpu.EBO)
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for mat, p := range r.programs {
		gl.DeleteProgram(p.id)
		delete(r.programs, mat)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	DeleteTexture(r.white)
	gl.DeleteProgram(r.lit)
	gl.DeleteProgram(r.depth)
}

// ── Internal helpers ─────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data on first use and re-uploads the
// vertices whenever the mesh revision changes.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	stride := int(unsafe.Sizeof(core.Vertex{}))
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		if gpu.Revision != mesh.Revision {
			gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices))
			gl.BindBuffer(gl.ARRAY_BUFFER, 0)
			gpu.Revision = mesh.Revision
		}
		return gpu
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	usage := uint32(gl.STATIC_DRAW)
	if mesh.IsSkinned() {
		usage = gl.DYNAMIC_DRAW
	}

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		Revision:   mesh.Revision,
	}
	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*stride, gl.Ptr(mesh.Vertices), usage)

	var v core.Vertex
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, int32(stride), gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, int32(stride), gl.PtrOffset(int(unsafe.Offsetof(v.Normal))))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, int32(stride), gl.PtrOffset(int(unsafe.Offsetof(v.UV))))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

func drawElements(gpu *GPUMesh) {
	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// setMat4 uploads a row-vector matrix; its memory layout is already the
// column-major layout GLSL expects.
func setMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0][0])
}

// spotCone returns the cosines of the outer and inner cone angles.
func spotCone(l *scene.Light) (outer, inner float32) {
	outer = math32.Cos(l.SpotAngle)
	inner = math32.Cos(l.SpotAngle * (1 - l.Penumbra))
	if inner <= outer {
		inner = outer + 0.0001
	}
	return outer, inner
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
