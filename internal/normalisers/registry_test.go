package normalisers

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// stubNormaliser returns the raw content split on "|" as pages.
type stubNormaliser struct {
	exts     []string
	mimes    []string
	priority int
	format   string
	err      error
	calls    int
}

func (s *stubNormaliser) SupportedExtensions() []string { return s.exts }
func (s *stubNormaliser) SupportedMIMETypes() []string  { return s.mimes }
func (s *stubNormaliser) Priority() int                 { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &driven.NormaliseResult{
		Pages:  strings.Split(string(raw.Content), "|"),
		Format: s.format,
	}, nil
}

func buildZip(t *testing.T, files ...[2]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, f := range files {
		fw, err := w.Create(f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRegistry_Parse(t *testing.T) {
	txt := &stubNormaliser{exts: []string{".txt"}, priority: 5, format: "txt"}
	registry := NewRegistry(txt)

	result, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "Resume.TXT",
		Content:  []byte("Jane Doe|page two"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, txt.calls)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "Jane Doe\npage two", result.Text)
	assert.Equal(t, "Jane Doe", result.Metadata.Name)
	assert.Equal(t, "txt", result.Metadata.Format)
}

func TestRegistry_Parse_NilDocument(t *testing.T) {
	_, err := NewRegistry().Parse(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_Parse_UnsupportedFormat(t *testing.T) {
	registry := NewRegistry(&stubNormaliser{exts: []string{".txt"}})

	_, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "photo.png",
		Content:  []byte("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".png")
}

func TestRegistry_Parse_NoExtensionUsesContentType(t *testing.T) {
	txt := &stubNormaliser{exts: []string{".txt"}, mimes: []string{"text/plain"}, format: "txt"}
	pdf := &stubNormaliser{exts: []string{".pdf"}, mimes: []string{"application/pdf"}, format: "pdf"}
	registry := NewRegistry(txt, pdf)
	ctx := context.Background()

	sniffed, err := registry.Parse(ctx, &domain.RawDocument{
		Filename: "resume",
		Content:  []byte("Jane Doe|Go engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "txt", sniffed.Metadata.Format)
	assert.Equal(t, 1, txt.calls)

	declared, err := registry.Parse(ctx, &domain.RawDocument{
		Filename: "resume",
		MIMEType: "Application/PDF; charset=binary",
		Content:  []byte("Jane Doe"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pdf", declared.Metadata.Format)
	assert.Equal(t, 1, pdf.calls)

	_, err = registry.Parse(ctx, &domain.RawDocument{
		Filename: "blob",
		Content:  []byte{0x00, 0x01, 0x02, 0xff},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "application/octet-stream")
}

func TestRegistry_Parse_UnknownExtensionIgnoresContentType(t *testing.T) {
	txt := &stubNormaliser{exts: []string{".txt"}, mimes: []string{"text/plain"}}
	registry := NewRegistry(txt)

	_, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "resume.xyz",
		MIMEType: "text/plain",
		Content:  []byte("Jane Doe"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, txt.calls)
}

func TestRegistry_Parse_NormaliserError(t *testing.T) {
	boom := errors.New("boom")
	registry := NewRegistry(&stubNormaliser{exts: []string{".txt"}, err: boom})

	_, err := registry.Parse(context.Background(), &domain.RawDocument{Filename: "a.txt"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a.txt")
}

func TestRegistry_PriorityOrder(t *testing.T) {
	low := &stubNormaliser{exts: []string{".txt"}, priority: 1, format: "low"}
	high := &stubNormaliser{exts: []string{".txt"}, priority: 90, format: "high"}
	registry := NewRegistry(low, high)

	result, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "a.txt",
		Content:  []byte("text"),
	})
	require.NoError(t, err)

	assert.Equal(t, "high", result.Metadata.Format)
	assert.Equal(t, 0, low.calls)
}

func TestRegistry_SupportedExtensions(t *testing.T) {
	registry := NewRegistry(
		&stubNormaliser{exts: []string{".txt", ".text"}},
		&stubNormaliser{exts: []string{".pdf"}},
	)

	assert.Equal(t, []string{".pdf", ".text", ".txt", ".zip"}, registry.SupportedExtensions())
}

func TestRegistry_Parse_ZipFirstSupportedEntry(t *testing.T) {
	txt := &stubNormaliser{exts: []string{".txt"}, format: "txt"}
	registry := NewRegistry(txt)

	content := buildZip(t,
		[2]string{"docs/", ""},
		[2]string{"__MACOSX/.hidden.txt", "hidden"},
		[2]string{"photo.png", "binary"},
		[2]string{"inner.zip", "nested"},
		[2]string{"resumes/jane.txt", "Jane Doe"},
		[2]string{"resumes/john.txt", "John Smith"},
	)

	result, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "bundle.zip",
		Content:  content,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", result.Text)
	assert.Equal(t, 1, txt.calls)
}

func TestRegistry_Parse_ZipNoSupportedEntry(t *testing.T) {
	registry := NewRegistry(&stubNormaliser{exts: []string{".txt"}})

	content := buildZip(t, [2]string{"photo.png", "binary"})

	_, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "bundle.zip",
		Content:  content,
	})
	assert.ErrorIs(t, err, domain.ErrNoSupportedEntry)
}

func TestRegistry_Parse_ZipCorrupt(t *testing.T) {
	registry := NewRegistry(&stubNormaliser{exts: []string{".txt"}})

	_, err := registry.Parse(context.Background(), &domain.RawDocument{
		Filename: "bundle.zip",
		Content:  []byte("not a zip"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
