package services

import (
	"crypto/sha256"
	"strings"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// Evidence extraction limits, in characters.
const (
	maxParagraphLen   = 500
	contextBefore     = 200
	contextAfter      = 300
	paragraphHashSpan = 100
	ellipsis          = "..."
)

// documentMatch is the unranked outcome of matching one document.
type documentMatch struct {
	score    float64
	evidence []domain.Evidence
	missing  []string
}

// matchDocument scores chunks against requirements.
//
// A requirement matches when it occurs, ignoring case, in the chunk texts
// joined by spaces. The score is the matched fraction. Evidence is taken
// from the first chunk containing each matched requirement, in requirement
// order; paragraphs already reported are skipped and at most three entries
// are kept.
func matchDocument(requirements []string, chunks []domain.Chunk) documentMatch {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	full := strings.ToLower(strings.Join(texts, " "))

	var matched []string
	missing := []string{}
	for _, req := range requirements {
		if strings.Contains(full, strings.ToLower(req)) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	result := documentMatch{missing: missing, evidence: []domain.Evidence{}}
	if len(requirements) == 0 || len(matched) == 0 {
		return result
	}
	result.score = float64(len(matched)) / float64(len(requirements))

	seen := make(map[[sha256.Size]byte]bool)
	for _, req := range matched {
		for _, chunk := range chunks {
			ev, ok := locateEvidence(chunk, req)
			if !ok {
				continue
			}
			h := sha256.Sum256([]byte(prefixRunes(ev.Text, paragraphHashSpan)))
			if !seen[h] {
				seen[h] = true
				ev.MatchedKeyword = keywordLabel(matched, ev.Text)
				result.evidence = append(result.evidence, ev)
			}
			break
		}
	}

	if len(result.evidence) > domain.MaxEvidence {
		result.evidence = result.evidence[:domain.MaxEvidence]
	}
	return result
}

// locateEvidence finds the paragraph of chunk around the first occurrence
// of req. Positions are in characters of the chunk text.
func locateEvidence(chunk domain.Chunk, req string) (domain.Evidence, bool) {
	// strings.ToLower maps rune for rune, so indexes into lower hold for text.
	text := []rune(chunk.Text)
	lower := []rune(strings.ToLower(chunk.Text))
	needle := []rune(strings.ToLower(req))

	pos := runeIndex(lower, needle, 0)
	if pos < 0 {
		return domain.Evidence{}, false
	}

	line := 1
	for _, r := range text[:pos] {
		if r == '\n' {
			line++
		}
	}

	start := runeLastIndex(text[:pos], []rune("\n\n"))
	if start < 0 {
		start = 0
	} else {
		start += 2
	}
	end := runeIndex(text, []rune("\n\n"), pos)
	if end < 0 {
		end = len(text)
	}
	paragraph := strings.TrimSpace(string(text[start:end]))

	if len([]rune(paragraph)) > maxParagraphLen {
		from := max(0, pos-contextBefore)
		to := min(len(text), pos+len(needle)+contextAfter)
		paragraph = strings.TrimSpace(string(text[from:to]))
		if from > 0 {
			paragraph = ellipsis + paragraph
		}
		if to < len(text) {
			paragraph += ellipsis
		}
	}

	return domain.Evidence{
		Page:       chunk.Page,
		Text:       paragraph,
		LineNumber: line,
	}, true
}

// keywordLabel lists the matched requirements found in paragraph,
// comma-joined in requirement order.
func keywordLabel(matched []string, paragraph string) string {
	lower := strings.ToLower(paragraph)
	var found []string
	for _, req := range matched {
		if strings.Contains(lower, strings.ToLower(req)) {
			found = append(found, req)
		}
	}
	return strings.Join(found, ", ")
}

// runeIndex returns the first index of needle in haystack at or after from.
func runeIndex(haystack, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// runeLastIndex returns the last index of needle in haystack.
func runeLastIndex(haystack, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
