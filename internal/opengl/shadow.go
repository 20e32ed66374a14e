package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// ShadowMap is the spot light's depth target. DepthTex is sampled with
// sampler2DShadow, so lookups return the 0..1 comparison result.
type ShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
}

var shadowTexParams = [][2]int32{
	{gl.TEXTURE_MIN_FILTER, gl.LINEAR},
	{gl.TEXTURE_MAG_FILTER, gl.LINEAR},
	{gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER},
	{gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER},
	{gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE},
	{gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL},
}

func NewShadowMap(size int) (*ShadowMap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shadow map size %d", size)
	}
	sm := &ShadowMap{Size: int32(size)}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, sm.Size, sm.Size, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	for _, p := range shadowTexParams {
		gl.TexParameteri(gl.TEXTURE_2D, uint32(p[0]), p[1])
	}
	// samples past the edge compare as fully lit
	lit := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &lit[0])
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, fmt.Errorf("shadow framebuffer incomplete (0x%X)", status)
	}
	return sm, nil
}

// Bind targets the depth texture for the shadow pass and clears it.
func (sm *ShadowMap) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Viewport(0, 0, sm.Size, sm.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// Unbind restores the window framebuffer. The caller resets the viewport.
func (sm *ShadowMap) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (sm *ShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
	}
	sm.FBO, sm.DepthTex = 0, 0
}
