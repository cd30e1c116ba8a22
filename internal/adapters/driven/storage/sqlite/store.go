package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/pdfrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is a SQLite-backed implementation of driven.VectorStore.
type VectorStore struct {
	db   *sqlx.DB
	path string
}

// embeddingRow is a stored chunk as read from the embeddings table.
type embeddingRow struct {
	ID        string         `db:"id"`
	Document  string         `db:"document"`
	Metadata  sql.NullString `db:"cmetadata"`
	Embedding []byte         `db:"embedding"`
}

// DefaultPath returns ~/.pdfrag/vectors.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pdfrag", "vectors.db"), nil
}

// NewVectorStore opens or creates the database at path.
// If path is empty, defaults to ~/.pdfrag/vectors.db.
func NewVectorStore(path string) (*VectorStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrStore, err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStore, err)
	}

	// Foreign keys are per connection; a single connection keeps cascades on.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling foreign keys: %w", domain.ErrStore, err)
	}

	s := &VectorStore{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrStore, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *VectorStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *VectorStore) Path() string {
	return s.path
}

// Upsert stores docs in the collection, creating it if needed.
func (s *VectorStore) Upsert(ctx context.Context, collection string, docs []domain.StoredDocument) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrStore, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	collectionID, err := ensureCollection(ctx, tx, collection)
	if err != nil {
		return err
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO embeddings (collection_id, id, document, cmetadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection_id, id) DO UPDATE SET
			document = excluded.document,
			cmetadata = excluded.cmetadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing upsert: %w", domain.ErrStore, err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document id is required", domain.ErrStore)
		}
		meta, err := marshalMetadata(doc.Metadata)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrStore, doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, collectionID, doc.ID, doc.Content, meta,
			float32SliceToBytes(doc.Embedding)); err != nil {
			return fmt.Errorf("%w: upserting %s: %w", domain.ErrStore, doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrStore, err)
	}
	return nil
}

// SimilaritySearch loads the collection and ranks it in process.
func (s *VectorStore) SimilaritySearch(
	ctx context.Context,
	collection string,
	vector []float32,
	k int,
	threshold *float64,
) ([]domain.ScoredResult, error) {
	var rows []embeddingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT e.id, e.document, e.cmetadata, e.embedding
		FROM embeddings e
		JOIN collections c ON c.uuid = e.collection_id
		WHERE c.name = ?
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: querying embeddings: %w", domain.ErrStore, err)
	}

	results := make([]domain.ScoredResult, 0, len(rows))
	for _, row := range rows {
		embedding := bytesToFloat32Slice(row.Embedding)
		if len(embedding) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d dimensions, %s has %d",
				domain.ErrStore, len(vector), row.ID, len(embedding))
		}
		meta, err := unmarshalMetadata(row.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrStore, row.ID, err)
		}
		results = append(results, domain.ScoredResult{
			ID:       row.ID,
			Content:  row.Document,
			Metadata: meta,
			Score:    similarity.Cosine(vector, embedding),
		})
	}

	return similarity.Rank(results, k, threshold), nil
}

// Count returns the number of documents in the collection.
func (s *VectorStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM embeddings e
		JOIN collections c ON c.uuid = e.collection_id
		WHERE c.name = ?
	`, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: counting embeddings: %w", domain.ErrStore, err)
	}
	return n, nil
}

// DeleteCollection removes the collection; its embeddings cascade.
func (s *VectorStore) DeleteCollection(ctx context.Context, collection string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection); err != nil {
		return fmt.Errorf("%w: deleting collection %s: %w", domain.ErrStore, collection, err)
	}
	return nil
}

// ensureCollection returns the collection's uuid, inserting it if missing.
func ensureCollection(ctx context.Context, tx *sqlx.Tx, name string) (string, error) {
	var id string
	err := tx.GetContext(ctx, &id, "SELECT uuid FROM collections WHERE name = ?", name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: looking up collection %s: %w", domain.ErrStore, name, err)
	}

	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx, "INSERT INTO collections (uuid, name) VALUES (?, ?)", id, name); err != nil {
		return "", fmt.Errorf("%w: creating collection %s: %w", domain.ErrStore, name, err)
	}
	return id, nil
}

// migrate runs all pending migrations and records each applied version.
func (s *VectorStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vectors.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func marshalMetadata(m map[string]string) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling metadata: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalMetadata(s sql.NullString) (map[string]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return m, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
