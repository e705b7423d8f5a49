package dbx

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

var testMigrations = fstest.MapFS{
	"00001_uploads.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE uploads (object_key TEXT PRIMARY KEY, batch_id TEXT NOT NULL, published_at INTEGER);
CREATE TABLE batches (id TEXT PRIMARY KEY, uploads INTEGER NOT NULL);

-- +goose Down
DROP TABLE batches;
DROP TABLE uploads;
`)},
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "ledger.db"), testMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "uploads"))
	require.True(t, tableExists(t, db, "batches"))

	_, err = db.ExecContext(ctx, `INSERT INTO uploads(object_key, batch_id) VALUES ('moments/a.jpg', 'b1')`)
	require.NoError(t, err)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "ledger.db")

	db, err := OpenSQLite(ctx, dsn, testMigrations)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db, testMigrations))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, dsn, testMigrations)
	require.NoError(t, err, "reopening a migrated database must succeed")
	require.NoError(t, db.Close())
}

func TestOpenSQLite_BadMigration(t *testing.T) {
	bad := fstest.MapFS{
		"00001_bad.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nCREATE TABLE (;\n")},
	}
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"), bad)
	require.Error(t, err)
}
