// Package asset decodes source images and keeps the working queue and decode cache.
package asset

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/page-composer/internal/placement"
)

// ErrDecode is returned when a source cannot be read or is not a supported image.
var ErrDecode = errors.New("decode failed")

// supportedExtensions lists the file types offered for selection.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsSupported checks if a file has a supported image extension.
func IsSupported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Asset is a decoded, read-only source image.
type Asset struct {
	ID     string
	Image  *image.RGBA
	Format string
}

// Dims returns the pixel dimensions of the decoded image.
func (a *Asset) Dims() placement.Dims {
	b := a.Image.Bounds()
	return placement.Dims{Width: b.Dx(), Height: b.Dy()}
}

// Decode reads the file at path and flattens it onto an opaque white RGB buffer.
func Decode(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, filepath.Base(path), err)
	}
	img := Flatten(src)
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: empty image", ErrDecode, filepath.Base(path))
	}
	return &Asset{ID: path, Image: img, Format: format}, nil
}

// Flatten converts src to an opaque RGBA image anchored at the origin,
// compositing any transparency over white.
func Flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
