package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/vector/linear"
	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed storage for every store interface.
type Store struct {
	db         *sql.DB
	dimensions int
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore connects to dsn and ensures the schema exists.
// dimensions fixes the size of the embedding column.
func NewStore(ctx context.Context, dsn string, dimensions int, opts ...Option) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db, dimensions: dimensions, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			file_hash TEXT NOT NULL UNIQUE,
			parsing_hash TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			failure_reason TEXT NOT NULL DEFAULT '',
			owner_id TEXT NOT NULL DEFAULT '',
			visibility TEXT NOT NULL DEFAULT 'public',
			uploaded_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status, uploaded_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			page INTEGER NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			source_start INTEGER NOT NULL,
			source_end INTEGER NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d)
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id, page, start_offset)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			requirements JSONB NOT NULL DEFAULT '[]',
			owner_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS query_cache (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS idempotency_keys (
			key TEXT PRIMARY KEY,
			request_hash TEXT NOT NULL,
			response BYTEA NOT NULL,
			resource_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dimensions returns the embedding column size.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// CacheStore returns a CacheStore interface backed by this store.
func (s *Store) CacheStore() driven.CacheStore {
	return &cacheStore{store: s}
}

// IdempotencyStore returns an IdempotencyStore interface backed by this store.
func (s *Store) IdempotencyStore() driven.IdempotencyStore {
	return &idempotencyStore{store: s}
}

// SimilaritySearch returns the native pgvector search.
func (s *Store) SimilaritySearch() driven.SimilaritySearch {
	return &similaritySearch{store: s}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nullVector maps an empty embedding to SQL NULL.
func nullVector(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v)
}

// ==================== Document Store ====================

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, filename, file_hash, parsing_hash, content, metadata,
	status, failure_reason, owner_id, visibility, uploaded_at`

const chunkColumns = `c.id, c.document_id, c.page, c.start_offset, c.end_offset,
	c.source_start, c.source_end, c.text, c.embedding`

func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			file_hash = EXCLUDED.file_hash,
			parsing_hash = EXCLUDED.parsing_hash,
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			status = EXCLUDED.status,
			failure_reason = EXCLUDED.failure_reason,
			owner_id = EXCLUDED.owner_id,
			visibility = EXCLUDED.visibility
	`, doc.ID, doc.Filename, doc.FileHash, doc.ParsingHash, doc.Content, string(metadata),
		string(doc.Status), doc.FailureReason, doc.OwnerID, string(doc.Visibility), doc.UploadedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: file hash %s", domain.ErrAlreadyExists, doc.FileHash)
		}
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *documentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	res, err := s.store.db.ExecContext(ctx,
		`UPDATE documents SET status = $1, failure_reason = $2 WHERE id = $3`,
		string(status), reason, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	for _, chunk := range chunks {
		if chunk.HasEmbedding() && len(chunk.Embedding) != s.store.dimensions {
			return fmt.Errorf("%w: chunk %s has %d, store expects %d",
				domain.ErrEmbeddingDimensionMismatch, chunk.ID, len(chunk.Embedding), s.store.dimensions)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, chunk := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, page, start_offset, end_offset,
				source_start, source_end, text, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				document_id = EXCLUDED.document_id,
				page = EXCLUDED.page,
				start_offset = EXCLUDED.start_offset,
				end_offset = EXCLUDED.end_offset,
				source_start = EXCLUDED.source_start,
				source_end = EXCLUDED.source_end,
				text = EXCLUDED.text,
				embedding = EXCLUDED.embedding
		`, chunk.ID, chunk.DocumentID, chunk.Page, chunk.StartOffset, chunk.EndOffset,
			chunk.SourceStart, chunk.SourceEnd, chunk.Text, nullVector(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("save chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (s *documentStore) FindByFileHash(ctx context.Context, fileHash string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE file_hash = $1`, fileHash)
	return scanDocument(row)
}

func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c WHERE c.document_id = $1
		ORDER BY c.page, c.start_offset
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

func (s *documentStore) GetChunksForDocuments(ctx context.Context, documentIDs []string) (map[string][]domain.Chunk, error) {
	result := make(map[string][]domain.Chunk, len(documentIDs))
	if len(documentIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(documentIDs))
	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c WHERE c.document_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY c.document_id, c.page, c.start_offset
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}
	for _, chunk := range chunks {
		result[chunk.DocumentID] = append(result[chunk.DocumentID], chunk)
	}
	return result, nil
}

func (s *documentStore) ListEmbeddedChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c JOIN documents d ON d.id = c.document_id
		WHERE d.status = $1 AND c.embedding IS NOT NULL
		ORDER BY c.id
	`, string(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("query embedded chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *documentStore) ListDocuments(ctx context.Context, filter driven.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Visibility != "" {
		args = append(args, string(filter.Visibility))
		conds = append(conds, fmt.Sprintf("visibility = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY uploaded_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// ==================== Similarity Search ====================

type similaritySearch struct {
	store *Store
}

var _ driven.SimilaritySearch = (*similaritySearch)(nil)

// Search orders by the pgvector L2 operator. Distances are recomputed in
// float64 on the client so scores match the linear scan exactly.
func (s *similaritySearch) Search(ctx context.Context, query []float32, limit int) ([]domain.ScoredChunk, error) {
	if len(query) != s.store.dimensions {
		return nil, fmt.Errorf("%w: query has %d, want %d",
			domain.ErrEmbeddingDimensionMismatch, len(query), s.store.dimensions)
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+chunkColumns+`
		FROM chunks c JOIN documents d ON d.id = c.document_id
		WHERE d.status = $1 AND c.embedding IS NOT NULL
		ORDER BY c.embedding <-> $2, c.id
		LIMIT $3
	`, string(domain.StatusCompleted), pgvector.NewVector(query), limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	hits := rescore(query, chunks)
	logger.Debug("pgvector search: %d hits", len(hits))
	return hits, nil
}

// rescore recomputes distances in float64 and reorders by (distance, id).
// The float32 pgvector ordering can disagree with float64 on near ties.
func rescore(query []float32, chunks []domain.Chunk) []domain.ScoredChunk {
	hits := make([]domain.ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		d := linear.Distance(query, chunk.Embedding)
		hits[i] = domain.ScoredChunk{Chunk: chunk, Distance: d, Score: linear.Score(d)}
	}
	linear.SortHits(hits)
	return hits
}

// ==================== Job Store ====================

type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

func (s *jobStore) SaveJob(ctx context.Context, job *domain.Job) error {
	requirements := job.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	reqJSON, err := json.Marshal(requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, description, requirements, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			requirements = EXCLUDED.requirements,
			owner_id = EXCLUDED.owner_id
	`, job.ID, job.Title, job.Description, string(reqJSON), job.OwnerID, job.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	var reqJSON []byte
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, description, requirements, owner_id, created_at
		FROM jobs WHERE id = $1
	`, id).Scan(&job.ID, &job.Title, &job.Description, &reqJSON, &job.OwnerID, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.CreatedAt = job.CreatedAt.UTC()
	if err := json.Unmarshal(reqJSON, &job.Requirements); err != nil {
		return nil, fmt.Errorf("unmarshal requirements: %w", err)
	}
	return &job, nil
}

// ==================== Cache Stores ====================

type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

func (s *cacheStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	err := s.store.db.QueryRowContext(ctx,
		`SELECT key, value, expires_at FROM query_cache WHERE key = $1`, key,
	).Scan(&entry.Key, &entry.Value, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("scan cache entry: %w", err)
	}
	if !entry.IsLive(s.store.now()) {
		return nil, domain.ErrCacheMiss
	}
	return &entry, nil
}

func (s *cacheStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_cache (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`, key, value, s.store.now().Add(ttl).UTC())
	if err != nil {
		return fmt.Errorf("save cache entry: %w", err)
	}
	return nil
}

func (s *cacheStore) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.purge(ctx, "query_cache")
}

type idempotencyStore struct {
	store *Store
}

var _ driven.IdempotencyStore = (*idempotencyStore)(nil)

func (s *idempotencyStore) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	var rec domain.IdempotencyRecord
	err := s.store.db.QueryRowContext(ctx, `
		SELECT key, request_hash, response, resource_id, created_at, expires_at
		FROM idempotency_keys WHERE key = $1
	`, key).Scan(&rec.Key, &rec.RequestHash, &rec.Response, &rec.ResourceID, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan idempotency record: %w", err)
	}
	if !rec.IsLive(s.store.now()) {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (s *idempotencyStore) Save(ctx context.Context, rec *domain.IdempotencyRecord) error {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, response, resource_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			request_hash = EXCLUDED.request_hash,
			response = EXCLUDED.response,
			resource_id = EXCLUDED.resource_id,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= $7
	`, rec.Key, rec.RequestHash, rec.Response, rec.ResourceID,
		rec.CreatedAt.UTC(), rec.ExpiresAt.UTC(), s.store.now().UTC())
	if err != nil {
		return fmt.Errorf("save idempotency record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save idempotency record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrConflictingKey, rec.Key)
	}
	return nil
}

func (s *idempotencyStore) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.purge(ctx, "idempotency_keys")
}

func (s *Store) purge(ctx context.Context, table string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", table, err)
	}
	return int(n), nil
}

// ==================== Helpers ====================

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var metadata []byte
	var status, visibility string

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.FileHash, &doc.ParsingHash, &doc.Content,
		&metadata, &status, &doc.FailureReason, &doc.OwnerID, &visibility, &doc.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	doc.Visibility = domain.Visibility(visibility)
	doc.UploadedAt = doc.UploadedAt.UTC()

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &doc, nil
}

func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embedding sql.Null[pgvector.Vector]

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Page,
			&chunk.StartOffset, &chunk.EndOffset, &chunk.SourceStart, &chunk.SourceEnd,
			&chunk.Text, &embedding); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if embedding.Valid {
			chunk.Embedding = embedding.V.Slice()
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return chunks, nil
}
