// Package ledger keeps a local record of uploaded objects and of the batches
// that ended up in a published thought. Uploads of a batch that never got
// published are orphans: they stay in the bucket with nothing pointing at
// them.
package ledger

import (
	"context"
	"time"

	"github.com/dmitrijs2005/moments/internal/models"
)

// DatabaseName is the ledger file name inside the data directory.
const DatabaseName = "moments.db"

type Upload struct {
	ID          string
	BatchID     string
	Index       int
	ObjectKey   string
	Bytes       int
	Image       models.ThoughtImage
	CreatedAt   time.Time
	PublishedAt *time.Time
}

type Repository interface {
	Record(ctx context.Context, u Upload) error
	// MarkPublished flags every upload of the batch and returns how many
	// rows changed.
	MarkPublished(ctx context.Context, batchID string) (int64, error)
	// ListUnpublished returns uploads created before olderThan whose batch
	// was never published, oldest first.
	ListUnpublished(ctx context.Context, olderThan time.Time) ([]Upload, error)
	ListByBatch(ctx context.Context, batchID string) ([]Upload, error)
}
