package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// Texture is a decoded image kept on the CPU until the renderer uploads it.
type Texture struct {
	Name          string
	Width, Height int
	Pixels        []byte // tightly packed RGBA8, first row at the top
	GLID          uint32 // zero until uploaded
}

// LoadTexture decodes the image file at path.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	return DecodeTexture(path, data)
}

// DecodeTexture accepts PNG or JPEG data. Paletted, gray and sub-image
// sources are redrawn so Pixels always starts at the origin with no padding.
func DecodeTexture(name string, data []byte) (*Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	}
	return &Texture{Name: name, Width: b.Dx(), Height: b.Dy(), Pixels: rgba.Pix}, nil
}

// NewSolidTexture is a single pixel of the given colour.
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}
