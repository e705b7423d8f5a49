// Package ingest turns selected images into uploaded image descriptors.
//
// For every new image the orchestrator normalizes colors, compresses,
// computes a blurhash of the compressed bitmap and uploads the payload.
// Images already uploaded (kept across an edit) pass through untouched.
// The first upload failure aborts the batch; uploads that already succeeded
// are not rolled back.
package ingest

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/moments/internal/blurhash"
	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/compressor"
	"github.com/dmitrijs2005/moments/internal/imagex"
	"github.com/dmitrijs2005/moments/internal/logging"
	"github.com/dmitrijs2005/moments/internal/models"
	"github.com/dmitrijs2005/moments/internal/storage"
)

const ContentType = "image/jpeg"

// Selection is one picked image. A non-empty ExistingURL marks an image
// that was uploaded before; otherwise Image holds the decoded source.
type Selection struct {
	ExistingURL string
	Image       image.Image
	Width       int
	Height      int
	BlurHash    string
}

// Existing wraps an uploaded image so it is carried forward unchanged.
func Existing(img models.ThoughtImage) Selection {
	return Selection{ExistingURL: img.URL, Width: img.Width, Height: img.Height, BlurHash: img.BlurHash}
}

// FromImage wraps a decoded image.
func FromImage(img image.Image) Selection {
	var w, h int
	if img != nil {
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	return Selection{Image: img, Width: w, Height: h}
}

type Compressor interface {
	Compress(ctx context.Context, img image.Image) compressor.Result
}

type Hasher interface {
	Encode(img image.Image, xComponents, yComponents int) (string, error)
}

type KeyGenerator interface {
	Next() string
}

// Upload describes one stored object, reported to the Recorder.
type Upload struct {
	BatchID   string
	Index     int
	ObjectKey string
	Bytes     int
	Image     models.ThoughtImage
}

// Recorder observes successful uploads. Its errors are logged, never
// returned: bookkeeping must not fail a publish.
type Recorder interface {
	RecordUpload(ctx context.Context, u Upload) error
}

type Orchestrator struct {
	codec      imagex.Codec
	compressor Compressor
	hasher     Hasher
	uploader   storage.Uploader
	keys       KeyGenerator
	recorder   Recorder
	log        logging.Logger

	workers     int
	xComponents int
	yComponents int
}

type Option func(*Orchestrator)

// WithWorkers processes up to n images at once. Output order still follows
// input order. n <= 1 keeps processing strictly sequential.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.workers = n }
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithKeyGenerator(k KeyGenerator) Option {
	return func(o *Orchestrator) { o.keys = k }
}

func WithComponents(x, y int) Option {
	return func(o *Orchestrator) { o.xComponents, o.yComponents = x, y }
}

func NewOrchestrator(codec imagex.Codec, comp Compressor, hasher Hasher, uploader storage.Uploader, log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		codec:       codec,
		compressor:  comp,
		hasher:      hasher,
		uploader:    uploader,
		keys:        storage.NewKeyGenerator(storage.DefaultDir),
		log:         log,
		workers:     1,
		xComponents: blurhash.DefaultXComponents,
		yComponents: blurhash.DefaultYComponents,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Ingest returns one descriptor per selection, in selection order, minus
// the images that produced no payload. On failure it returns no
// descriptors.
func (o *Orchestrator) Ingest(ctx context.Context, selections []Selection) ([]models.ThoughtImage, error) {
	results := make([]*models.ThoughtImage, len(selections))

	if o.workers <= 1 {
		for i, s := range selections {
			d, err := o.process(ctx, i, s)
			if err != nil {
				return nil, err
			}
			results[i] = d
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for i, s := range selections {
			i, s := i, s
			g.Go(func() error {
				d, err := o.process(gctx, i, s)
				if err != nil {
					return err
				}
				results[i] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make([]models.ThoughtImage, 0, len(results))
	for _, d := range results {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

// process returns nil, nil for a skipped image.
func (o *Orchestrator) process(ctx context.Context, i int, s Selection) (*models.ThoughtImage, error) {
	if s.ExistingURL != "" {
		return &models.ThoughtImage{URL: s.ExistingURL, Width: s.Width, Height: s.Height, BlurHash: s.BlurHash}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := o.log.With("index", i)

	if imagex.Degenerate(s.Image) {
		log.Warn(ctx, "skipping image", "error", common.ErrDegenerateImage)
		return nil, nil
	}

	normalized := o.codec.Normalize(s.Image)
	res := o.compressor.Compress(ctx, normalized)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Empty() {
		log.Warn(ctx, "skipping image", "error", common.ErrEmptyPayload)
		return nil, nil
	}

	hashSource := res.Image
	if hashSource == nil {
		hashSource = normalized
	}
	hash, err := o.hasher.Encode(hashSource, o.xComponents, o.yComponents)
	if err != nil {
		log.Warn(ctx, "blurhash failed, uploading without placeholder", "error", err)
		hash = ""
	}

	key := o.keys.Next()
	url, err := o.uploader.Put(ctx, res.Data, key, ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload image %d: %w", i, err)
	}

	d := &models.ThoughtImage{URL: url, Width: res.Width, Height: res.Height, BlurHash: hash}
	log.Info(ctx, "image uploaded", "key", key, "bytes", len(res.Data), "width", d.Width, "height", d.Height)

	if o.recorder != nil {
		u := Upload{BatchID: BatchFromContext(ctx), Index: i, ObjectKey: key, Bytes: len(res.Data), Image: *d}
		if err := o.recorder.RecordUpload(ctx, u); err != nil {
			log.Warn(ctx, "could not record upload", "key", key, "error", err)
		}
	}
	return d, nil
}

type batchKey struct{}

// ContextWithBatch tags uploads made under ctx with a batch ID.
func ContextWithBatch(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchKey{}, batchID)
}

func BatchFromContext(ctx context.Context) string {
	id, _ := ctx.Value(batchKey{}).(string)
	return id
}
