package ledger

import (
	"context"

	"github.com/dmitrijs2005/moments/internal/ingest"
)

// Recorder writes every upload reported by the ingest orchestrator to the
// ledger.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) RecordUpload(ctx context.Context, u ingest.Upload) error {
	return r.repo.Record(ctx, Upload{
		BatchID:   u.BatchID,
		Index:     u.Index,
		ObjectKey: u.ObjectKey,
		Bytes:     u.Bytes,
		Image:     u.Image,
	})
}
