package normalisers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// NormaliseText applies the whitespace rules used for every format:
// line endings become "\n", runs of other whitespace inside a line become a
// single space, lines are trimmed, and more than one consecutive blank line
// collapses to one so paragraph breaks survive as "\n\n".
func NormaliseText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isInlineSpace), " ")
		if line == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	// Drop a trailing paragraph break.
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func isInlineSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// BuildResult turns raw page text into an offset-tracked ParseResult.
// pages[i] is page i+1; pages that normalise to nothing are skipped but
// keep their page number. Metadata.TotalPages counts only pages with
// text. Offsets count characters (runes) and advance by
// one extra character between pages.
func BuildResult(pages []string, format string) *domain.ParseResult {
	spans := make([]domain.PageSpan, 0, len(pages))
	texts := make([]string, 0, len(pages))
	offset := 0

	for i, raw := range pages {
		text := NormaliseText(raw)
		if text == "" {
			continue
		}
		length := utf8.RuneCountInString(text)
		spans = append(spans, domain.PageSpan{
			Page:  i + 1,
			Start: offset,
			End:   offset + length,
			Text:  text,
		})
		texts = append(texts, text)
		offset += length + 1
	}

	full := strings.Join(texts, "\n")
	meta := ExtractMetadata(full)
	meta.TotalPages = len(spans)
	meta.Format = format

	return &domain.ParseResult{
		Text:        full,
		Pages:       spans,
		ContentHash: HashText(full),
		Metadata:    meta,
	}
}

// HashText returns the hex SHA-256 of text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
