package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextureConvertsToRGBA(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{
		color.RGBA{0, 0, 0, 255},
		color.RGBA{10, 20, 30, 255},
	})
	pal.SetColorIndex(2, 1, 1)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pal))

	tex, err := DecodeTexture("pal", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	require.Len(t, tex.Pixels, 3*2*4)

	last := (1*3 + 2) * 4
	assert.Equal(t, []byte{10, 20, 30, 255}, tex.Pixels[last:last+4])
	assert.Equal(t, []byte{0, 0, 0, 255}, tex.Pixels[0:4])
}

func TestDecodeTextureRejectsGarbage(t *testing.T) {
	_, err := DecodeTexture("junk", []byte("not an image"))
	assert.ErrorContains(t, err, `decode texture "junk"`)
}

func TestLoadTexture(t *testing.T) {
	tex, err := LoadTexture("testdata/quad/texture.png")
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[0:4])
	assert.Equal(t, []byte{255, 255, 255, 255}, tex.Pixels[12:16])

	_, err = LoadTexture("testdata/missing.png")
	assert.Error(t, err)
}
