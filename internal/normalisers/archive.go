package normalisers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// archiveExtension is the container format the registry unwraps.
const archiveExtension = ".zip"

// maxEntrySize bounds the decompressed size of an archive entry.
const maxEntrySize = 64 << 20

// firstSupportedEntry returns the first archive entry, in archive order,
// whose extension has a registered normaliser. Nested archives are skipped.
func (r *Registry) firstSupportedEntry(raw *domain.RawDocument) (*domain.RawDocument, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: reading archive %s: %v", domain.ErrInvalidInput, raw.Filename, err)
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := path.Base(file.Name)
		if strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(path.Ext(name))
		if ext == archiveExtension {
			continue
		}
		if _, ok := r.lookup(ext); !ok {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrInvalidInput, file.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, file.Name, err)
		}

		return &domain.RawDocument{
			Filename: name,
			Content:  content,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrNoSupportedEntry, raw.Filename)
}
