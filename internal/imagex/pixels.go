package imagex

import (
	"image"
)

// Pixels is a packed 8-bit sRGB buffer, three bytes per pixel, row-major.
type Pixels struct {
	Width  int
	Height int
	RGB    []uint8
}

// At returns the sRGB channels of pixel (x, y).
func (p Pixels) At(x, y int) (r, g, b uint8) {
	off := (y*p.Width + x) * 3
	return p.RGB[off], p.RGB[off+1], p.RGB[off+2]
}

// PixelsOf reads img into a Pixels buffer. Alpha is ignored; callers
// normalize first when the source may be translucent.
func PixelsOf(img image.Image) Pixels {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := Pixels{Width: w, Height: h, RGB: make([]uint8, w*h*3)}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < w; x++ {
				copy(p.RGB[(y*w+x)*3:], row[x*4:x*4+3])
			}
		}
		return p
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a != 0 && a != 0xffff {
				r, g, bl = r*0xffff/a, g*0xffff/a, bl*0xffff/a
			}
			off := (y*w + x) * 3
			p.RGB[off] = uint8(r >> 8)
			p.RGB[off+1] = uint8(g >> 8)
			p.RGB[off+2] = uint8(bl >> 8)
		}
	}
	return p
}

// Degenerate reports whether img has no pixels.
func Degenerate(img image.Image) bool {
	if img == nil {
		return true
	}
	b := img.Bounds()
	return b.Dx() <= 0 || b.Dy() <= 0
}
