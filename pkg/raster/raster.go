// Package raster decodes map images into a pixel buffer addressed by (x, y)
// with the origin at the top-left corner.
//
// PNG, JPEG and GIF are decoded by the standard library, BMP, TIFF and WebP
// by golang.org/x/image, and TGA by DecodeTGA (selected by file extension,
// since TGA has no magic number).
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("raster: image has no pixels")

// Image is a decoded map image.
type Image struct {
	img    image.Image
	bounds image.Rectangle
	format string
}

// Open decodes the image file at path.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	return Decode(f, filepath.Ext(path))
}

// Decode decodes an image from r. ext is the source file extension and is
// only consulted to recognise TGA data.
func Decode(r io.Reader, ext string) (*Image, error) {
	if strings.EqualFold(ext, ".tga") {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading TGA: %w", err)
		}
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, err
		}
		return New(img, "tga")
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return New(img, format)
}

// New wraps an already decoded image.
func New(img image.Image, format string) (*Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	return &Image{img: img, bounds: b, format: format}, nil
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.bounds.Dx() }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.bounds.Dy() }

// Format returns the codec name, e.g. "png" or "tga".
func (im *Image) Format() string { return im.format }

// Bit reports whether the first channel of pixel (x, y) is non-zero.
func (im *Image) Bit(x, y int) bool {
	return im.channel0(x, y) != 0
}

// Sample returns the first channel of pixel (x, y) in [0, 255]. For gray
// images this is the luminance, for colour images the red channel.
func (im *Image) Sample(x, y int) float64 {
	return float64(im.channel0(x, y))
}

// channel0 returns the stored first channel of pixel (x, y), independent of
// its alpha. Premultiplied colour models cannot recover a fully transparent
// pixel's value and read as 0 there.
func (im *Image) channel0(x, y int) uint8 {
	x += im.bounds.Min.X
	y += im.bounds.Min.Y
	switch m := im.img.(type) {
	case *image.Gray:
		return m.GrayAt(x, y).Y
	case *image.Gray16:
		return uint8(m.Gray16At(x, y).Y >> 8)
	case *image.NRGBA:
		return m.NRGBAAt(x, y).R
	case *image.NRGBA64:
		return uint8(m.NRGBA64At(x, y).R >> 8)
	case *image.Paletted:
		return nrgbaRed(m.Palette[m.ColorIndexAt(x, y)])
	}
	return nrgbaRed(im.img.At(x, y))
}

func nrgbaRed(c color.Color) uint8 {
	switch c := c.(type) {
	case color.NRGBA:
		return c.R
	case color.NRGBA64:
		return uint8(c.R >> 8)
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA).R
}
