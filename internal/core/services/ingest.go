package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs uploads through parse, chunk, embed and persist.
//
// A document is saved as processing first and becomes completed only after
// every chunk is stored; any failure on the way marks it failed. Identical
// bytes short-circuit to the existing document before parsing.
type IngestService struct {
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	docStore driven.DocumentStore
	guard    *IdempotencyGuard
	now      func() time.Time
}

// NewIngestService creates a new ingest service.
// The guard is optional (can be nil).
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	guard *IdempotencyGuard,
) *IngestService {
	return &IngestService{
		registry: registry,
		pipeline: pipeline,
		docStore: docStore,
		guard:    guard,
		now:      time.Now,
	}
}

// ingestPayload is the part of an upload bound to an idempotency key.
type ingestPayload struct {
	Filename   string `json:"filename"`
	FileHash   string `json:"file_hash"`
	Visibility string `json:"visibility"`
}

// FileHash returns the SHA-256 (hex) of uploaded bytes.
func FileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Ingest parses, chunks, embeds and persists one file.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	logger.Section("Ingestion")

	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, req.Filename)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("%w: visibility %q", domain.ErrInvalidInput, visibility)
	}

	fileHash := FileHash(req.Content)
	logger.Debug("File %s: %d bytes, hash %s", req.Filename, len(req.Content), fileHash)

	var requestHash string
	if req.IdempotencyKey != "" && s.guard != nil {
		var err error
		requestHash, err = RequestHash(ingestPayload{
			Filename:   req.Filename,
			FileHash:   fileHash,
			Visibility: string(visibility),
		})
		if err != nil {
			return nil, err
		}

		var replayed driving.IngestResult
		ok, err := s.guard.Replay(ctx, req.IdempotencyKey, requestHash, &replayed)
		if err != nil {
			return nil, err
		}
		if ok {
			return &replayed, nil
		}
	}

	result, err := s.ingest(ctx, req, fileHash, visibility)
	if err != nil {
		return nil, err
	}

	if requestHash != "" {
		if err := s.guard.Remember(ctx, req.IdempotencyKey, requestHash, result.Document.ID, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *IngestService) ingest(
	ctx context.Context, req driving.IngestRequest, fileHash string, visibility domain.Visibility,
) (*driving.IngestResult, error) {
	existing, err := s.existing(ctx, fileHash)
	if err != nil || existing != nil {
		return existing, err
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Filename:   req.Filename,
		FileHash:   fileHash,
		Status:     domain.StatusProcessing,
		OwnerID:    req.OwnerID,
		Visibility: visibility,
		UploadedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent upload of the same bytes won.
			return s.existing(ctx, fileHash)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}
	logger.Debug("Document %s saved as %s", doc.ID, doc.Status)

	chunks, err := s.process(ctx, req, doc)
	if err != nil {
		return nil, s.fail(ctx, doc, err)
	}

	if err := s.docStore.UpdateStatus(ctx, doc.ID, domain.StatusCompleted, ""); err != nil {
		return nil, s.fail(ctx, doc, fmt.Errorf("complete document: %w", err))
	}
	doc.Status = domain.StatusCompleted
	doc.Pages = nil

	logger.Info("Ingested %s as %s: %d chunks", req.Filename, doc.ID, len(chunks))
	return &driving.IngestResult{Document: *doc, ChunkCount: len(chunks)}, nil
}

// process parses the upload and stores its chunks.
func (s *IngestService) process(ctx context.Context, req driving.IngestRequest, doc *domain.Document) ([]domain.Chunk, error) {
	parsed, err := s.registry.Parse(ctx, &domain.RawDocument{
		Filename: req.Filename,
		MIMEType: req.MIMEType,
		Content:  req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	logger.Debug("Parsed %d pages, %d characters", len(parsed.Pages), len([]rune(parsed.Text)))

	doc.Content = parsed.Text
	doc.ParsingHash = parsed.ContentHash
	doc.Metadata = parsed.Metadata
	doc.Pages = parsed.Pages
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save parsed document: %w", err)
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	return chunks, nil
}

// existing returns the result for an already ingested file, or nil.
// A failed earlier attempt is removed so the upload runs again.
func (s *IngestService) existing(ctx context.Context, fileHash string) (*driving.IngestResult, error) {
	found := domain.LookupOf(s.docStore.FindByFileHash(ctx, fileHash))
	switch found.State {
	case domain.LookupNotFound:
		return nil, nil
	case domain.LookupFailed:
		return nil, fmt.Errorf("find by file hash: %w", found.Err)
	}

	doc := found.Value
	if doc.Status == domain.StatusFailed {
		logger.Debug("Retrying failed document %s", doc.ID)
		if err := s.docStore.DeleteDocument(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("delete failed document: %w", err)
		}
		return nil, nil
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	logger.Info("File already ingested as %s", doc.ID)
	return &driving.IngestResult{Document: *doc, ChunkCount: len(chunks), Deduplicated: true}, nil
}

// fail marks doc failed and returns cause.
func (s *IngestService) fail(ctx context.Context, doc *domain.Document, cause error) error {
	logger.Warn("Ingestion of %s failed: %v", doc.ID, cause)
	if err := s.docStore.UpdateStatus(context.WithoutCancel(ctx), doc.ID, domain.StatusFailed, cause.Error()); err != nil {
		logger.Error("Could not mark %s failed: %v", doc.ID, err)
	}
	doc.Status = domain.StatusFailed
	doc.FailureReason = cause.Error()
	return fmt.Errorf("ingest %s: %w", doc.Filename, cause)
}
