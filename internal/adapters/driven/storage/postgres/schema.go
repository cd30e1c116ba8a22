package postgres

import (
	"fmt"
	"strings"
)

// Table names shared with langchain's PGVector store.
const (
	collectionTable = "langchain_pg_collection"
	embeddingTable  = "langchain_pg_embedding"
)

// NormalizeURL strips a SQLAlchemy driver suffix such as "+psycopg" from the
// scheme so the URL can be handed to pgx.
func NormalizeURL(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}
	return scheme + "://" + rest
}

// metadataType returns the column type for chunk metadata.
func metadataType(useJSONB bool) string {
	if useJSONB {
		return "JSONB"
	}
	return "JSON"
}

// schemaStatements returns the idempotent DDL that prepares the database.
func schemaStatements(useJSONB bool) []string {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			uuid UUID PRIMARY KEY,
			name VARCHAR NOT NULL UNIQUE,
			cmetadata JSON
		)`, collectionTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR NOT NULL,
			collection_id UUID REFERENCES %s (uuid) ON DELETE CASCADE,
			embedding VECTOR,
			document VARCHAR,
			cmetadata %s
		)`, embeddingTable, collectionTable, metadataType(useJSONB)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%s_collection ON %s (collection_id, id)",
			embeddingTable, embeddingTable),
	}
	if useJSONB {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS ix_cmetadata_gin ON %s USING gin (cmetadata jsonb_path_ops)",
			embeddingTable))
	}
	return stmts
}

// searchQuery returns the similarity query. Arguments are the query vector,
// the collection name, k and, when withThreshold is set, the minimum score.
// Ties fall back to document order: positional ids share a prefix, so
// shorter ids come first.
func searchQuery(withThreshold bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT e.id, e.document, e.cmetadata, 1 - (e.embedding <=> $1) AS score
FROM %s e
JOIN %s c ON c.uuid = e.collection_id
WHERE c.name = $2`, embeddingTable, collectionTable)
	if withThreshold {
		b.WriteString("\n  AND 1 - (e.embedding <=> $1) >= $4")
	}
	b.WriteString("\nORDER BY e.embedding <=> $1, length(e.id), e.id\nLIMIT $3")
	return b.String()
}
