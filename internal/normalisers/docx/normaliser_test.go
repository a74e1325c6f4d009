package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

// wordDocument wraps paragraphs in a document body.
func wordDocument(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(p)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().SupportedExtensions())
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	require.Len(t, mimeTypes, 1)
	assert.Contains(t, mimeTypes[0], "wordprocessingml")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	content := createTestDOCX(wordDocument(
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>Skills: React</w:t></w:r></w:p>`,
	))

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		Filename: "jane.docx",
		Content:  content,
	})
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "Jane Doe\nSkills: React", result.Pages[0])
	assert.Equal(t, "docx", result.Format)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_InvalidZip(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		Filename: "broken.docx",
		Content:  []byte("not a zip"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_MultipleRuns(t *testing.T) {
	content := createTestDOCX(wordDocument(
		`<w:p><w:r><w:t>Node</w:t></w:r><w:r><w:t>.js</w:t></w:r></w:p>`,
	))

	result, err := New().Normalise(context.Background(), &domain.RawDocument{Filename: "a.docx", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "Node.js", result.Pages[0])
}

func TestNormalise_EmptyParagraphKeepsBreak(t *testing.T) {
	content := createTestDOCX(wordDocument(
		`<w:p><w:r><w:t>Summary</w:t></w:r></w:p>`,
		`<w:p></w:p>`,
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>`,
	))

	result, err := New().Normalise(context.Background(), &domain.RawDocument{Filename: "a.docx", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "Summary\n\nExperience", result.Pages[0])
}

func TestNormalise_MissingDocumentXML(t *testing.T) {
	content := createTestDOCX("")

	result, err := New().Normalise(context.Background(), &domain.RawDocument{Filename: "a.docx", Content: content})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, result.Pages)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func BenchmarkNormalise(b *testing.B) {
	paras := make([]string, 200)
	for i := range paras {
		paras[i] = `<w:p><w:r><w:t>Built distributed systems in Go.</w:t></w:r></w:p>`
	}
	raw := &domain.RawDocument{Filename: "bench.docx", Content: createTestDOCX(wordDocument(paras...))}
	n := New()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Normalise(ctx, raw)
	}
}
