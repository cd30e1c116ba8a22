package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Config holds connection settings.
type Config struct {
	// URL is the connection string. A "+psycopg" style scheme suffix is accepted.
	URL string

	// UseJSONB stores chunk metadata as JSONB rather than JSON.
	UseJSONB bool
}

// VectorStore is a pgvector-backed implementation of driven.VectorStore.
type VectorStore struct {
	db *sqlx.DB
}

// searchRow is a single similarity query hit.
type searchRow struct {
	ID       string  `db:"id"`
	Document string  `db:"document"`
	Metadata []byte  `db:"cmetadata"`
	Score    float64 `db:"score"`
}

// NewVectorStore connects to Postgres and creates the schema if needed.
func NewVectorStore(ctx context.Context, cfg Config) (*VectorStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: database url is required", domain.ErrConfiguration)
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", NormalizeURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting: %w", domain.ErrStore, err)
	}

	for _, stmt := range schemaStatements(cfg.UseJSONB) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: preparing schema: %w", domain.ErrStore, err)
		}
	}

	return &VectorStore{db: db}, nil
}

// Upsert replaces docs with matching ids in the collection, creating it if needed.
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

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document id is required", domain.ErrStore)
		}
		ids = append(ids, doc.ID)
	}

	// Delete then insert works whether or not the table has a unique key on id.
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE collection_id = $1 AND id = ANY($2)", embeddingTable),
		collectionID, ids)
	if err != nil {
		return fmt.Errorf("%w: clearing previous ids: %w", domain.ErrStore, err)
	}

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (id, collection_id, embedding, document, cmetadata) VALUES ($1, $2, $3, $4, $5)",
		embeddingTable))
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", domain.ErrStore, err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		meta, err := json.Marshal(metadataOrEmpty(doc.Metadata))
		if err != nil {
			return fmt.Errorf("%w: %s: marshalling metadata: %w", domain.ErrStore, doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, collectionID, pgvector.NewVector(doc.Embedding),
			doc.Content, string(meta)); err != nil {
			return fmt.Errorf("%w: inserting %s: %w", domain.ErrStore, doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrStore, err)
	}
	return nil
}

// SimilaritySearch ranks the collection by cosine similarity in the database.
func (s *VectorStore) SimilaritySearch(
	ctx context.Context,
	collection string,
	vector []float32,
	k int,
	threshold *float64,
) ([]domain.ScoredResult, error) {
	if k <= 0 {
		return []domain.ScoredResult{}, nil
	}

	args := []any{pgvector.NewVector(vector), collection, k}
	if threshold != nil {
		args = append(args, *threshold)
	}

	var rows []searchRow
	if err := s.db.SelectContext(ctx, &rows, searchQuery(threshold != nil), args...); err != nil {
		return nil, fmt.Errorf("%w: similarity search: %w", domain.ErrStore, err)
	}

	results := make([]domain.ScoredResult, 0, len(rows))
	for _, row := range rows {
		meta, err := decodeMetadata(row.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrStore, row.ID, err)
		}
		results = append(results, domain.ScoredResult{
			ID:       row.ID,
			Content:  row.Document,
			Metadata: meta,
			Score:    row.Score,
		})
	}
	return results, nil
}

// Count returns the number of documents in the collection.
func (s *VectorStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, fmt.Sprintf(`SELECT COUNT(*)
FROM %s e
JOIN %s c ON c.uuid = e.collection_id
WHERE c.name = $1`, embeddingTable, collectionTable), collection)
	if err != nil {
		return 0, fmt.Errorf("%w: counting embeddings: %w", domain.ErrStore, err)
	}
	return n, nil
}

// DeleteCollection removes the collection; its embeddings cascade.
func (s *VectorStore) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE name = $1", collectionTable), collection)
	if err != nil {
		return fmt.Errorf("%w: deleting collection %s: %w", domain.ErrStore, collection, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *VectorStore) Close() error {
	return s.db.Close()
}

func ensureCollection(ctx context.Context, tx *sqlx.Tx, name string) (string, error) {
	var id string
	err := tx.GetContext(ctx, &id,
		fmt.Sprintf("SELECT uuid::text FROM %s WHERE name = $1", collectionTable), name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: looking up collection %s: %w", domain.ErrStore, name, err)
	}

	id = uuid.NewString()
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (uuid, name, cmetadata) VALUES ($1, $2, '{}')", collectionTable),
		id, name)
	if err != nil {
		return "", fmt.Errorf("%w: creating collection %s: %w", domain.ErrStore, name, err)
	}
	return id, nil
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// decodeMetadata reads stored metadata, stringifying non-string values
// written by other tools.
func decodeMetadata(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out, nil
}
