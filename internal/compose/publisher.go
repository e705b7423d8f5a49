// Package compose publishes a drafted thought: it validates the draft,
// uploads its new images and then creates or updates the thought.
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moments/internal/ingest"
	"github.com/dmitrijs2005/moments/internal/logging"
	"github.com/dmitrijs2005/moments/internal/models"
)

type Ingester interface {
	Ingest(ctx context.Context, selections []ingest.Selection) ([]models.ThoughtImage, error)
}

type ThoughtsAPI interface {
	Create(ctx context.Context, req models.CreateThoughtRequest) (*models.Thought, error)
	Update(ctx context.Context, id string, req models.UpdateThoughtRequest) (*models.Thought, error)
}

type Ledger interface {
	MarkPublished(ctx context.Context, batchID string) (int64, error)
}

type Publisher struct {
	ingester   Ingester
	api        ThoughtsAPI
	ledger     Ledger
	log        logging.Logger
	checkToken func(now time.Time) error
	now        func() time.Time
	newBatchID func() string
}

// NewPublisher builds a publisher. ledger may be nil. checkToken runs before
// any upload and may be nil.
func NewPublisher(ing Ingester, api ThoughtsAPI, ledger Ledger, checkToken func(time.Time) error, log logging.Logger) *Publisher {
	return &Publisher{
		ingester:   ing,
		api:        api,
		ledger:     ledger,
		log:        log,
		checkToken: checkToken,
		now:        time.Now,
		newBatchID: uuid.NewString,
	}
}

func (p *Publisher) Publish(ctx context.Context, d Draft) (*models.Thought, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(d.Content)
	tags := NormalizeTags(d.Tags)
	visibility := d.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	if p.checkToken != nil {
		if err := p.checkToken(p.now()); err != nil {
			return nil, err
		}
	}

	batchID := p.newBatchID()
	log := p.log.With("batch", batchID)
	ctx = ingest.ContextWithBatch(ctx, batchID)

	images, err := p.ingester.Ingest(ctx, d.Selections)
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}

	var th *models.Thought
	if d.ThoughtID == "" {
		th, err = p.api.Create(ctx, models.CreateThoughtRequest{
			Content: content, Images: images, Tags: tags, Visibility: visibility,
		})
	} else {
		th, err = p.api.Update(ctx, d.ThoughtID, models.UpdateThoughtRequest{
			Content: &content, Images: &images, Tags: &tags, Visibility: &visibility,
		})
	}
	if err != nil {
		log.Warn(ctx, "thought not saved, uploads left unpublished", "images", len(images), "error", err)
		return nil, fmt.Errorf("save thought: %w", err)
	}

	if p.ledger != nil {
		if _, err := p.ledger.MarkPublished(ctx, batchID); err != nil {
			log.Warn(ctx, "could not mark batch published", "error", err)
		}
	}
	log.Info(ctx, "thought published", "id", th.ID, "images", len(images))
	return th, nil
}
