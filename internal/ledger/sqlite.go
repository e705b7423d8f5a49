package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moments/internal/dbx"
	"github.com/dmitrijs2005/moments/internal/ledger/migrations"
)

// Open opens (and migrates) the ledger database at dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return dbx.OpenSQLite(ctx, dsn, migrations.FS)
}

// SQLiteRepository implements Repository on top of the ledger database.
// Timestamps are stored as unix milliseconds.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Record(ctx context.Context, u Upload) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO uploads (id, batch_id, idx, object_key, url, width, height, blurhash, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.BatchID, u.Index, u.ObjectKey, u.Image.URL, u.Image.Width, u.Image.Height,
		u.Image.BlurHash, u.Bytes, u.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record upload %s: %w", u.ObjectKey, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, batchID string) (int64, error) {
	at := r.now().UnixMilli()

	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE uploads SET published_at = ? WHERE batch_id = ? AND published_at IS NULL`, at, batchID)
		if err != nil {
			return 0, fmt.Errorf("failed to mark uploads: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO batches (id, uploads, published_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET uploads = batches.uploads + excluded.uploads,
				published_at = excluded.published_at`,
			batchID, affected, at)
		if err != nil {
			return 0, fmt.Errorf("failed to insert batch: %w", err)
		}
		return affected, nil
	})
}

const selectUploads = `SELECT id, batch_id, idx, object_key, url, width, height, blurhash, bytes, created_at, published_at FROM uploads`

func (r *SQLiteRepository) ListUnpublished(ctx context.Context, olderThan time.Time) ([]Upload, error) {
	return r.query(ctx, selectUploads+` WHERE published_at IS NULL AND created_at < ? ORDER BY created_at, idx`,
		olderThan.UnixMilli())
}

func (r *SQLiteRepository) ListByBatch(ctx context.Context, batchID string) ([]Upload, error) {
	return r.query(ctx, selectUploads+` WHERE batch_id = ? ORDER BY idx`, batchID)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]Upload, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select uploads: %w", err)
	}
	defer rows.Close()

	var result []Upload
	for rows.Next() {
		var (
			u         Upload
			created   int64
			published sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &u.BatchID, &u.Index, &u.ObjectKey, &u.Image.URL, &u.Image.Width,
			&u.Image.Height, &u.Image.BlurHash, &u.Bytes, &created, &published); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		u.CreatedAt = time.UnixMilli(created)
		if published.Valid {
			t := time.UnixMilli(published.Int64)
			u.PublishedAt = &t
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload rows: %w", err)
	}
	return result, nil
}
