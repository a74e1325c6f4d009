// Package postgres provides a PostgreSQL implementation of the driven store
// interfaces, using pgvector for embeddings.
//
// The store opens connections through the pgx database/sql driver. Chunk
// embeddings live in a vector(D) column and similarity search is answered
// natively with the L2 operator (<->), so no chunk data leaves the database
// for a query.
//
// The schema is created on startup. It requires the vector extension.
package postgres
