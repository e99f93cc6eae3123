package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeTrueColor    = 2
	TGATypeGray         = 3
	TGATypeTrueColorRLE = 10
	TGATypeGrayRLE      = 11
)

const tgaHeaderSize = 18

// TGA errors.
var (
	ErrTGATruncated   = errors.New("raster: truncated TGA data")
	ErrTGAUnsupported = errors.New("raster: unsupported TGA variant")
)

// DecodeTGA decodes uncompressed or RLE true-colour (24/32 bit) and
// grayscale (8 bit) TGA data. Colour images decode to *image.NRGBA, gray
// images to *image.Gray. Bottom-up files are flipped so that row 0 is the
// top of the picture.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header", ErrTGATruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	}
	gray := imageType == TGATypeGray || imageType == TGATypeGrayRLE
	rle := imageType == TGATypeTrueColorRLE || imageType == TGATypeGrayRLE
	switch {
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: %d-bit gray", ErrTGAUnsupported, bpp)
	case !gray && imageType != TGATypeTrueColor && imageType != TGATypeTrueColorRLE:
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: %d-bit colour", ErrTGAUnsupported, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image ID", ErrTGATruncated)
	}

	d := &tgaDecoder{
		src:   data[offset:],
		bpp:   bpp / 8,
		width: width,
		rows:  height,
		flip:  !topToBottom,
	}
	var put func(x, y int, px []byte)
	var img image.Image
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		put = func(x, y int, px []byte) { g.SetGray(x, y, color.Gray{Y: px[0]}) }
		img = g
	} else {
		c := image.NewNRGBA(image.Rect(0, 0, width, height))
		put = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			c.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		img = c
	}

	var err error
	if rle {
		err = d.decodeRLE(put)
	} else {
		err = d.decodeRaw(put)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

type tgaDecoder struct {
	src   []byte
	pos   int
	bpp   int
	width int
	rows  int
	flip  bool
}

// pixel returns the next stored pixel.
func (d *tgaDecoder) pixel() ([]byte, error) {
	if d.pos+d.bpp > len(d.src) {
		return nil, fmt.Errorf("%w: pixel data at byte %d", ErrTGATruncated, d.pos)
	}
	px := d.src[d.pos : d.pos+d.bpp]
	d.pos += d.bpp
	return px, nil
}

// xy maps the n-th stored pixel to image coordinates.
func (d *tgaDecoder) xy(n int) (int, int) {
	x, y := n%d.width, n/d.width
	if d.flip {
		y = d.rows - 1 - y
	}
	return x, y
}

func (d *tgaDecoder) decodeRaw(put func(x, y int, px []byte)) error {
	total := d.width * d.rows
	for n := 0; n < total; n++ {
		px, err := d.pixel()
		if err != nil {
			return err
		}
		x, y := d.xy(n)
		put(x, y, px)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE(put func(x, y int, px []byte)) error {
	total := d.width * d.rows
	for n := 0; n < total; {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: RLE packet header at pixel %d", ErrTGATruncated, n)
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			px, err := d.pixel()
			if err != nil {
				return err
			}
			for i := 0; i < count && n < total; i++ {
				x, y := d.xy(n)
				put(x, y, px)
				n++
			}
			continue
		}
		for i := 0; i < count && n < total; i++ {
			px, err := d.pixel()
			if err != nil {
				return err
			}
			x, y := d.xy(n)
			put(x, y, px)
			n++
		}
	}
	return nil
}
