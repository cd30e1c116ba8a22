// Package postgres provides a pgvector-backed implementation of driven.VectorStore.
//
// The schema matches the langchain_pg_collection / langchain_pg_embedding
// layout, so collections written by other tools that use it can be queried
// directly. Connections go through pgx's database/sql driver wrapped in sqlx.
//
// Scores are cosine similarity computed in SQL as 1 - (embedding <=> query).
package postgres
