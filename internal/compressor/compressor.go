// Package compressor bounds an image to a byte budget and a maximum width by
// evaluating a fixed list of (quality, width) tiers.
package compressor

import (
	"context"
	"image"

	"github.com/dmitrijs2005/moments/internal/imagex"
	"github.com/dmitrijs2005/moments/internal/logging"
)

// fallbackDimension replaces a dimension that is unusable for layout.
const fallbackDimension = 100

type Options struct {
	MaxWidth       int
	MaxBytes       int
	InitialQuality float64
	MinQuality     float64
	QualityStep    float64
	WidthStep      int
	MinWidth       int
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:       1920,
		MaxBytes:       1_500_000,
		InitialQuality: 0.7,
		MinQuality:     0.3,
		QualityStep:    0.1,
		WidthStep:      200,
		MinWidth:       800,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = d.MaxBytes
	}
	if o.InitialQuality <= 0 || o.InitialQuality > 1 {
		o.InitialQuality = d.InitialQuality
	}
	if o.MinQuality <= 0 || o.MinQuality > o.InitialQuality {
		o.MinQuality = min(d.MinQuality, o.InitialQuality)
	}
	if o.QualityStep <= 0 {
		o.QualityStep = d.QualityStep
	}
	if o.WidthStep <= 0 {
		o.WidthStep = d.WidthStep
	}
	if o.MinWidth <= 0 {
		o.MinWidth = d.MinWidth
	}
	return o
}

// Result is the compressed image. An empty Data means the image must be
// skipped. Width and Height are always positive.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Quality float64
	// Image is the resized bitmap that Data encodes.
	Image image.Image
}

func (r Result) Empty() bool { return len(r.Data) == 0 }

type Compressor struct {
	codec imagex.Codec
	opts  Options
	tiers []Tier
	log   logging.Logger
}

func New(codec imagex.Codec, opts Options, log logging.Logger) *Compressor {
	opts = opts.withDefaults()
	return &Compressor{codec: codec, opts: opts, tiers: Tiers(opts), log: log}
}

func (c *Compressor) Options() Options { return c.opts }

// Compress returns the first tier whose payload fits MaxBytes, or the last
// tier when none does. It never fails; problems yield an empty payload.
func (c *Compressor) Compress(ctx context.Context, img image.Image) Result {
	if imagex.Degenerate(img) {
		c.log.Warn(ctx, "degenerate image, nothing to compress")
		w, h := 0, 0
		if img != nil {
			w, h = img.Bounds().Dx(), img.Bounds().Dy()
		}
		return Result{Width: guard(0, w), Height: guard(0, h)}
	}
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()

	var (
		best    Result
		resized image.Image
		resW    = -1
	)
	for i, tier := range c.tiers {
		if err := ctx.Err(); err != nil {
			c.log.Warn(ctx, "compression cancelled", "error", err)
			return Result{Width: srcW, Height: srcH}
		}

		if resized == nil || tier.MaxWidth != resW {
			next := c.codec.ResizePreservingAspect(img, tier.MaxWidth)
			// Same bitmap at the same quality encodes to the same bytes.
			if best.Data != nil && next.Bounds().Dx() == best.Width && tier.Quality == best.Quality {
				resW = tier.MaxWidth
				continue
			}
			resized, resW = next, tier.MaxWidth
		}

		data, err := c.codec.Encode(resized, tier.Quality)
		if err != nil {
			c.log.Warn(ctx, "encode failed", "tier", i, "quality", tier.Quality, "error", err)
			return Result{Width: srcW, Height: srcH}
		}

		b := resized.Bounds()
		best = Result{
			Data:    data,
			Width:   guard(b.Dx(), srcW),
			Height:  guard(b.Dy(), srcH),
			Quality: tier.Quality,
			Image:   resized,
		}
		c.log.Debug(ctx, "tier encoded", "tier", i, "quality", tier.Quality, "width", best.Width, "bytes", len(data))

		if len(data) <= c.opts.MaxBytes {
			return best
		}
	}

	c.log.Warn(ctx, "byte budget exhausted", "bytes", len(best.Data), "max_bytes", c.opts.MaxBytes)
	return best
}

func guard(v, original int) int {
	if v > 0 {
		return v
	}
	if original > 0 {
		return original
	}
	return fallbackDimension
}
