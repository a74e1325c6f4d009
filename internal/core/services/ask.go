package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/logger"
	"github.com/custodia-labs/resumerag/internal/redact"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers queries with resumes ranked by chunk similarity.
type AskService struct {
	embedder   driven.EmbeddingService
	search     driven.SimilaritySearch
	aggregator *Aggregator
	cache      driven.CacheStore
	settings   domain.AskSettings
}

// NewAskService creates a new ask service.
// The cache is optional (can be nil).
func NewAskService(
	embedder driven.EmbeddingService,
	search driven.SimilaritySearch,
	docStore driven.DocumentStore,
	cache driven.CacheStore,
	settings domain.AskSettings,
) *AskService {
	defaults := domain.DefaultAppSettings().Ask
	if settings.DefaultK <= 0 {
		settings.DefaultK = defaults.DefaultK
	}
	if settings.Fanout <= 0 {
		settings.Fanout = defaults.Fanout
	}
	if settings.CacheTTL <= 0 {
		settings.CacheTTL = defaults.CacheTTL
	}

	return &AskService{
		embedder:   embedder,
		search:     search,
		aggregator: NewAggregator(docStore),
		cache:      cache,
		settings:   settings,
	}
}

// CacheKey is the query cache key for (query, k).
// It does not include the caller: cached answers are global.
func CacheKey(query string, k int) string {
	sum := sha256.Sum256([]byte(query + ":" + strconv.Itoa(k)))
	return hex.EncodeToString(sum[:])
}

// Ask embeds the query, searches chunks and ranks documents.
// Snippets are redacted for the caller's role after caching, so the
// cache only ever holds raw text.
func (s *AskService) Ask(ctx context.Context, req driving.AskRequest) (*domain.AskResponse, error) {
	logger.Section("Ask")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}

	k := req.K
	if k == 0 {
		k = s.settings.DefaultK
	}
	if k < domain.MinAskK || k > domain.MaxAskK {
		return nil, fmt.Errorf("%w: k must be between %d and %d", domain.ErrInvalidInput, domain.MinAskK, domain.MaxAskK)
	}
	logger.Debug("Query: %q, k=%d", query, k)

	key := CacheKey(query, k)
	answers, cached := s.cached(ctx, key)
	if !cached {
		var err error
		answers, err = s.rank(ctx, query, k)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, answers)
	}

	out := make([]domain.Answer, len(answers))
	for i, a := range answers {
		a.Score = roundScore(a.Score)
		a.Snippets = redact.Snippets(a.Snippets, req.Role)
		out[i] = a
	}

	logger.Info("Ask %q: %d answers (cached=%t)", query, len(out), cached)
	return &domain.AskResponse{
		QueryID: "q_" + uuid.New().String(),
		Query:   query,
		K:       k,
		Answers: out,
		Cached:  cached,
	}, nil
}

// rank runs embed, search and aggregate.
func (s *AskService) rank(ctx context.Context, query string, k int) ([]domain.Answer, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	limit := k * s.settings.Fanout
	hits, err := s.search.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	logger.Debug("Similarity search: %d hits (limit %d)", len(hits), limit)

	answers, err := s.aggregator.Aggregate(ctx, hits, k)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return answers, nil
}

// cached returns live cached answers. Cache failures count as misses.
func (s *AskService) cached(ctx context.Context, key string) ([]domain.Answer, bool) {
	if s.cache == nil {
		return nil, false
	}

	found := domain.LookupOf(s.cache.Get(ctx, key))
	switch found.State {
	case domain.LookupNotFound:
		logger.Debug("Cache miss for %s", key)
		return nil, false
	case domain.LookupFailed:
		logger.Warn("Cache read failed: %v", found.Err)
		return nil, false
	}

	var answers []domain.Answer
	if err := json.Unmarshal(found.Value.Value, &answers); err != nil {
		logger.Warn("Cache entry %s could not be decoded: %v", key, err)
		return nil, false
	}
	logger.Debug("Cache hit for %s", key)
	return answers, true
}

// store overwrites the cache entry for key. Failures are logged only.
func (s *AskService) store(ctx context.Context, key string, answers []domain.Answer) {
	if s.cache == nil {
		return
	}
	if answers == nil {
		answers = []domain.Answer{}
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		logger.Warn("Cache entry %s could not be encoded: %v", key, err)
		return
	}
	if err := s.cache.Put(ctx, key, raw, s.settings.CacheTTL); err != nil {
		logger.Warn("Cache write failed: %v", err)
	}
}
