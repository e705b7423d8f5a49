// Package imagex is the image codec capability used by the compressor and
// the blurhash encoder. Algorithms depend on the Codec interface so they can
// run against synthetic pixel buffers in tests.
package imagex

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Codec decodes, resizes and re-encodes images.
type Codec interface {
	// Decode reads an encoded image and applies its EXIF orientation.
	Decode(r io.Reader) (image.Image, error)

	// Normalize converts img into an opaque 8-bit NRGBA image.
	Normalize(img image.Image) *image.NRGBA

	// ResizePreservingAspect scales img down to maxWidth. Images that are
	// already narrow enough are returned unchanged.
	ResizePreservingAspect(img image.Image, maxWidth int) image.Image

	// Encode produces a JPEG payload. quality is in (0, 1].
	Encode(img image.Image, quality float64) ([]byte, error)

	// Downsample scales img to exactly width x height, ignoring aspect.
	Downsample(img image.Image, width, height int) image.Image
}

// JPEGCodec is the production Codec.
type JPEGCodec struct{}

var _ Codec = JPEGCodec{}

func (JPEGCodec) Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Normalize flattens transparency onto white; JPEG has no alpha channel.
func (JPEGCodec) Normalize(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func (JPEGCodec) ResizePreservingAspect(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

func (JPEGCodec) Encode(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(Quality(quality))); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (JPEGCodec) Downsample(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Quality maps a (0, 1] quality factor onto the JPEG 1..100 scale.
func Quality(q float64) int {
	if math.IsNaN(q) {
		return 1
	}
	v := int(math.Round(q * 100))
	switch {
	case v < 1:
		return 1
	case v > 100:
		return 100
	}
	return v
}
