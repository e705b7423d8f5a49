// Package blurhash encodes images into BlurHash placeholder strings.
//
// The output follows the published BlurHash grammar so any conforming decoder
// can paint the placeholder: one size digit, one quantised-maximum digit, four
// DC digits, then two digits per AC component, all in base 83.
package blurhash

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/imagex"
)

// DownsampleSize is the side of the square the image is scaled to before
// encoding. It only bounds encoding cost.
const DownsampleSize = 32

const (
	DefaultXComponents = 4
	DefaultYComponents = 3
)

var (
	ErrInvalidComponents = errors.New("blurhash: components must be between 1 and 9")
	ErrEmptyImage        = fmt.Errorf("blurhash: %w", common.ErrDegenerateImage)
	ErrInvalidHash       = errors.New("blurhash: invalid hash")
)

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		v := float64(i) / 255
		if v <= 0.04045 {
			srgbToLinear[i] = v / 12.92
		} else {
			srgbToLinear[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
}

// Encoder downsamples through a codec before encoding.
type Encoder struct {
	codec imagex.Codec
	size  int
}

func NewEncoder(codec imagex.Codec) *Encoder {
	return &Encoder{codec: codec, size: DownsampleSize}
}

// Encode hashes img with the given component grid.
func (e *Encoder) Encode(img image.Image, xComponents, yComponents int) (string, error) {
	if imagex.Degenerate(img) {
		return "", ErrEmptyImage
	}
	small := e.codec.Downsample(img, e.size, e.size)
	return EncodePixels(imagex.PixelsOf(small), xComponents, yComponents)
}

// Encode hashes img using the production codec.
func Encode(img image.Image, xComponents, yComponents int) (string, error) {
	return NewEncoder(imagex.JPEGCodec{}).Encode(img, xComponents, yComponents)
}

// EncodePixels hashes an already sized pixel buffer.
func EncodePixels(p imagex.Pixels, xComponents, yComponents int) (string, error) {
	if xComponents < 1 || xComponents > 9 || yComponents < 1 || yComponents > 9 {
		return "", ErrInvalidComponents
	}
	if p.Width <= 0 || p.Height <= 0 || len(p.RGB) < p.Width*p.Height*3 {
		return "", ErrEmptyImage
	}

	factors := basisFactors(p, xComponents, yComponents)
	dc, ac := factors[0], factors[1:]

	var sb strings.Builder
	sb.Grow(4 + 2*len(factors))

	sizeFlag := (xComponents - 1) + (yComponents-1)*9
	sb.WriteString(EncodeBase83(sizeFlag, 1))

	maximumValue := 1.0
	if len(ac) > 0 {
		actualMax := 0.0
		for _, f := range ac {
			for _, v := range f {
				actualMax = math.Max(actualMax, math.Abs(v))
			}
		}
		quantisedMax := clamp(int(math.Floor(actualMax*166-0.5)), 0, 82)
		maximumValue = float64(quantisedMax+1) / 166
		sb.WriteString(EncodeBase83(quantisedMax, 1))
	} else {
		sb.WriteString(EncodeBase83(0, 1))
	}

	sb.WriteString(EncodeBase83(encodeDC(dc), 4))
	for _, f := range ac {
		sb.WriteString(EncodeBase83(encodeAC(f, maximumValue), 2))
	}

	return sb.String(), nil
}

// basisFactors returns one linear-light RGB coefficient per component,
// rows outer, columns inner.
func basisFactors(p imagex.Pixels, xComponents, yComponents int) [][3]float64 {
	w, h := p.Width, p.Height

	cosX := make([]float64, xComponents*w)
	for i := 0; i < xComponents; i++ {
		for x := 0; x < w; x++ {
			cosX[i*w+x] = math.Cos(math.Pi * float64(i) * float64(x) / float64(w))
		}
	}
	cosY := make([]float64, yComponents*h)
	for j := 0; j < yComponents; j++ {
		for y := 0; y < h; y++ {
			cosY[j*h+y] = math.Cos(math.Pi * float64(j) * float64(y) / float64(h))
		}
	}

	factors := make([][3]float64, 0, xComponents*yComponents)
	for j := 0; j < yComponents; j++ {
		for i := 0; i < xComponents; i++ {
			scale := 2.0
			if i == 0 && j == 0 {
				scale = 1
			}

			var r, g, b float64
			for y := 0; y < h; y++ {
				cy := cosY[j*h+y]
				row := p.RGB[y*w*3:]
				for x := 0; x < w; x++ {
					basis := scale * cosX[i*w+x] * cy
					r += basis * srgbToLinear[row[x*3]]
					g += basis * srgbToLinear[row[x*3+1]]
					b += basis * srgbToLinear[row[x*3+2]]
				}
			}

			n := float64(w * h)
			factors = append(factors, [3]float64{r / n, g / n, b / n})
		}
	}
	return factors
}

func encodeDC(f [3]float64) int {
	return linearToSRGB(f[0])<<16 + linearToSRGB(f[1])<<8 + linearToSRGB(f[2])
}

func encodeAC(f [3]float64, maximumValue float64) int {
	q := func(v float64) int {
		return clamp(int(math.Floor(signPow(v/maximumValue, 0.5)*9+9.5)), 0, 18)
	}
	return q(f[0])*19*19 + q(f[1])*19 + q(f[2])
}

func linearToSRGB(v float64) int {
	v = math.Max(0, math.Min(1, v))
	if v <= 0.0031308 {
		return clamp(int(v*12.92*255+0.5), 0, 255)
	}
	return clamp(int((1.055*math.Pow(v, 1/2.4)-0.055)*255+0.5), 0, 255)
}

func signPow(v, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), exp), v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Components reads the component grid from a hash and checks that the hash
// length matches it.
func Components(hash string) (x, y int, err error) {
	if len(hash) < 6 {
		return 0, 0, fmt.Errorf("%w: too short", ErrInvalidHash)
	}
	sizeFlag, err := DecodeBase83(hash[:1])
	if err != nil {
		return 0, 0, err
	}
	x = sizeFlag%9 + 1
	y = sizeFlag/9 + 1

	if want := 4 + 2*x*y; len(hash) != want {
		return 0, 0, fmt.Errorf("%w: length %d, want %d for %dx%d", ErrInvalidHash, len(hash), want, x, y)
	}
	for i := 0; i < len(hash); i++ {
		if strings.IndexByte(alphabet, hash[i]) < 0 {
			return 0, 0, fmt.Errorf("%w: character %q", ErrInvalidHash, hash[i])
		}
	}
	return x, y, nil
}
