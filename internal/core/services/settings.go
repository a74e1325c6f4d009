package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keyEmbedDims      = "embedding.dimensions"
	keyAskDefaultK    = "ask.default_k"
	keyAskFanout      = "ask.fanout"
	keyAskCacheTTL    = "ask.cache_ttl"
	keyJobsTopN       = "jobs.default_top_n"
	keyIdempotencyTTL = "idempotency.ttl"
	keyStorageDSN     = "storage.dsn"
	keyStorageDataDir = "storage.data_dir"
)

type settingKind int

const (
	kindInt settingKind = iota
	kindDuration
	kindString
)

// knownSettings lists every key in display order.
var knownSettings = []struct {
	key  string
	kind settingKind
}{
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyEmbedDims, kindInt},
	{keyAskDefaultK, kindInt},
	{keyAskFanout, kindInt},
	{keyAskCacheTTL, kindDuration},
	{keyJobsTopN, kindInt},
	{keyIdempotencyTTL, kindDuration},
	{keyStorageDSN, kindString},
	{keyStorageDataDir, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getNonNegativeInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Embedding: domain.EmbeddingSettings{
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		Ask: domain.AskSettings{
			DefaultK: s.getInt(keyAskDefaultK, defaults.Ask.DefaultK),
			Fanout:   s.getInt(keyAskFanout, defaults.Ask.Fanout),
			CacheTTL: s.getDuration(keyAskCacheTTL, defaults.Ask.CacheTTL),
		},
		Jobs: domain.JobSettings{
			DefaultTopN: s.getInt(keyJobsTopN, defaults.Jobs.DefaultTopN),
		},
		Idempotency: domain.IdempotencySettings{
			TTL: s.getDuration(keyIdempotencyTTL, defaults.Idempotency.TTL),
		},
		Storage: domain.StorageSettings{
			DSN:     s.configStore.GetString(keyStorageDSN),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunking.ChunkSize},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyAskDefaultK, settings.Ask.DefaultK},
		{keyAskFanout, settings.Ask.Fanout},
		{keyAskCacheTTL, settings.Ask.CacheTTL.String()},
		{keyJobsTopN, settings.Jobs.DefaultTopN},
		{keyIdempotencyTTL, settings.Idempotency.TTL.String()},
		{keyStorageDSN, settings.Storage.DSN},
		{keyStorageDataDir, settings.Storage.DataDir},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Validate checks that the effective settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunking.Overlap >= settings.Chunking.ChunkSize {
		return fmt.Errorf("%w: %s (%d) must be smaller than %s (%d)", domain.ErrInvalidInput,
			keyChunkOverlap, settings.Chunking.Overlap, keyChunkSize, settings.Chunking.ChunkSize)
	}
	if settings.Ask.DefaultK < domain.MinAskK || settings.Ask.DefaultK > domain.MaxAskK {
		return fmt.Errorf("%w: %s must be between %d and %d", domain.ErrInvalidInput,
			keyAskDefaultK, domain.MinAskK, domain.MaxAskK)
	}
	if settings.Jobs.DefaultTopN < domain.MinTopN || settings.Jobs.DefaultTopN > domain.MaxTopN {
		return fmt.Errorf("%w: %s must be between %d and %d", domain.ErrInvalidInput,
			keyJobsTopN, domain.MinTopN, domain.MaxTopN)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SetValue parses value for key and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	for _, known := range knownSettings {
		if known.key != key {
			continue
		}
		switch known.kind {
		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
			}
			return s.configStore.Set(key, n)
		case kindDuration:
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				return fmt.Errorf("%w: %s expects a positive duration, got %q", domain.ErrInvalidInput, key, value)
			}
			return s.configStore.Set(key, d.String())
		default:
			return s.configStore.Set(key, value)
		}
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// List returns every known setting with its effective value.
func (s *SettingsService) List() ([]driving.SettingValue, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	effective := map[string]string{
		keyChunkSize:      strconv.Itoa(settings.Chunking.ChunkSize),
		keyChunkOverlap:   strconv.Itoa(settings.Chunking.Overlap),
		keyEmbedDims:      strconv.Itoa(settings.Embedding.Dimensions),
		keyAskDefaultK:    strconv.Itoa(settings.Ask.DefaultK),
		keyAskFanout:      strconv.Itoa(settings.Ask.Fanout),
		keyAskCacheTTL:    settings.Ask.CacheTTL.String(),
		keyJobsTopN:       strconv.Itoa(settings.Jobs.DefaultTopN),
		keyIdempotencyTTL: settings.Idempotency.TTL.String(),
		keyStorageDSN:     settings.Storage.DSN,
		keyStorageDataDir: settings.Storage.DataDir,
	}

	values := make([]driving.SettingValue, 0, len(knownSettings))
	for _, known := range knownSettings {
		_, set := s.configStore.Get(known.key)
		values = append(values, driving.SettingValue{
			Key:       known.key,
			Value:     effective[known.key],
			IsDefault: !set,
		})
	}
	return values, nil
}

// Helper methods for reading config values with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

// getNonNegativeInt accepts an explicit zero.
func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if d := s.configStore.GetDuration(key); d > 0 {
		return d
	}
	return defaultVal
}
