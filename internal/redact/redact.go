// Package redact removes personal data from text shown to callers.
//
// Redaction depends only on the caller's role: recruiters see raw text,
// every other role sees emails, phone numbers and SSNs replaced.
package redact

import (
	"regexp"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// Marker replaces every redacted span.
const Marker = "[REDACTED]"

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Applied in order; later patterns catch what earlier ones leave.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`),
	}

	ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// PII replaces emails, phone numbers and SSNs in text.
func PII(text string) string {
	text = emailPattern.ReplaceAllString(text, Marker)
	for _, p := range phonePatterns {
		text = p.ReplaceAllString(text, Marker)
	}
	return ssnPattern.ReplaceAllString(text, Marker)
}

// Text redacts text unless role may see personal data.
func Text(text string, role domain.Role) string {
	if role.SeesPII() {
		return text
	}
	return PII(text)
}

// Metadata masks the email and phone fields unless role may see them.
// Empty fields stay empty.
func Metadata(meta domain.DocumentMetadata, role domain.Role) domain.DocumentMetadata {
	if role.SeesPII() {
		return meta
	}
	if meta.Email != "" {
		meta.Email = Marker
	}
	if meta.Phone != "" {
		meta.Phone = Marker
	}
	return meta
}

// Snippets returns a redacted copy of snippets.
func Snippets(snippets []domain.Snippet, role domain.Role) []domain.Snippet {
	if snippets == nil {
		return nil
	}
	out := make([]domain.Snippet, len(snippets))
	for i, s := range snippets {
		s.Text = Text(s.Text, role)
		out[i] = s
	}
	return out
}
