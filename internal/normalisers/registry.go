package normalisers

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by extension.
// Files without an extension are dispatched by content type instead.
type Registry struct {
	mu          sync.RWMutex
	byExtension map[string][]driven.Normaliser
	byMIMEType  map[string][]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{
		byExtension: make(map[string][]driven.Normaliser),
		byMIMEType:  make(map[string][]driven.Normaliser),
	}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
// Higher priority normalisers are tried first for a shared extension.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range n.SupportedExtensions() {
		r.byExtension[ext] = insertByPriority(r.byExtension[ext], n)
	}
	for _, mt := range n.SupportedMIMETypes() {
		mt = strings.ToLower(mt)
		r.byMIMEType[mt] = insertByPriority(r.byMIMEType[mt], n)
	}
}

func insertByPriority(list []driven.Normaliser, n driven.Normaliser) []driven.Normaliser {
	list = append(list, n)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
	return list
}

// SupportedExtensions returns all extensions that can be parsed,
// including archive containers.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension)+1)
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	exts = append(exts, archiveExtension)
	sort.Strings(exts)
	return exts
}

// Parse normalises a raw document.
func (r *Registry) Parse(ctx context.Context, raw *domain.RawDocument) (*domain.ParseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	ext := raw.Extension()
	logger.Debug("Parsing %s (extension %q, %d bytes)", raw.Filename, ext, len(raw.Content))

	if ext == archiveExtension {
		entry, err := r.firstSupportedEntry(raw)
		if err != nil {
			return nil, err
		}
		logger.Debug("Archive %s: parsing entry %s", raw.Filename, entry.Filename)
		raw = entry
		ext = raw.Extension()
	}

	var (
		n  driven.Normaliser
		ok bool
	)
	if ext == "" {
		mediaType := contentType(raw)
		n, ok = r.lookupMIMEType(mediaType)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no extension and content type %q", domain.ErrUnsupportedFormat, raw.Filename, mediaType)
		}
		logger.Debug("Dispatching %s by content type %s", raw.Filename, mediaType)
	} else if n, ok = r.lookup(ext); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	res, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.Filename, err)
	}

	return BuildResult(res.Pages, res.Format), nil
}

// lookup returns the preferred normaliser for an extension.
func (r *Registry) lookup(ext string) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byExtension[ext]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

func (r *Registry) lookupMIMEType(mediaType string) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byMIMEType[mediaType]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// contentType returns the declared media type, or one sniffed from the
// content when none is declared. Parameters such as charset are dropped.
func contentType(raw *domain.RawDocument) string {
	declared := raw.MIMEType
	if strings.TrimSpace(declared) == "" {
		declared = http.DetectContentType(raw.Content)
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}
