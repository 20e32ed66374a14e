package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"gltf-scenes/scene"
)

// UploadTexture creates a mipmapped sRGB texture from tex.Pixels and
// records its name in tex.GLID. Must run on the GL goroutine.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("upload: nil texture")
	}
	if tex.Width <= 0 || tex.Height <= 0 || len(tex.Pixels) < 4*tex.Width*tex.Height {
		return fmt.Errorf("upload %q: %d bytes for %dx%d", tex.Name, len(tex.Pixels), tex.Width, tex.Height)
	}

	gl.GenTextures(1, &tex.GLID)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	defer gl.BindTexture(gl.TEXTURE_2D, 0)

	// glTF samplers default to repeat wrapping
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tex.Pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return nil
}

// DeleteTexture releases tex on the GPU. Textures never uploaded are ignored.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}
