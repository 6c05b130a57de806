// Package texture decodes material texture images into RGBA pixels
// ready for GPU upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Decode decodes texture data in any registered format (PNG, JPEG,
// TGA, BMP) and converts it to RGBA.
func Decode(data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding texture: %w", err)
	}
	return ToRGBA(img), nil
}

// LoadFile reads and decodes a texture from disk. The path is used
// as-is; callers resolve material-relative paths before calling.
func LoadFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture %s: %w", filepath.Base(path), err)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// ResolvePath joins a material's relative texture path onto the
// model's base directory. MTL paths are stored with forward slashes;
// they are converted to the host separator here.
func ResolvePath(baseDir, relPath string) string {
	return filepath.Join(baseDir, filepath.FromSlash(relPath))
}

// ToRGBA converts any image.Image to *image.RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			rgba.SetRGBA(x, y, color.RGBA{
				R: uint8(r16 >> 8),
				G: uint8(g16 >> 8),
				B: uint8(b16 >> 8),
				A: uint8(a16 >> 8),
			})
		}
	}
	return rgba
}

// SupportedExtension reports whether the path names a decodable
// texture format.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tga", ".bmp":
		return true
	}
	return false
}
