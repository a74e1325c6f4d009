package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// requirementSplit separates candidate phrases in a job description.
var requirementSplit = regexp.MustCompile(`[,;\n]|\sand\s`)

// techVocabulary is scanned as lower-case substrings of the description.
var techVocabulary = []string{
	"react", "vue", "angular", "node", "nodejs", "python", "java", "javascript",
	"typescript", "go", "rust", "c++", "c#", "ruby", "php", "swift", "kotlin",
	"django", "flask", "express", "fastapi", "spring", "rails",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"docker", "kubernetes", "aws", "azure", "gcp", "terraform",
	"git", "ci/cd", "agile", "scrum", "rest", "graphql", "api",
	"frontend", "backend", "fullstack", "devops", "machine learning", "ai",
}

// ExtractRequirements derives the requirement list of a job description.
//
// Phrases between commas, semicolons, newlines and the word "and" are kept
// when they are 3 to 29 characters long and contain a letter or digit.
// Vocabulary keywords found in the description are appended in title case
// unless a kept phrase already contains them. The result is de-duplicated
// case-insensitively in first-seen order and capped at 20 entries.
func ExtractRequirements(description string) []string {
	var requirements []string

	for _, part := range requirementSplit.Split(description, -1) {
		part = strings.TrimSpace(part)
		n := utf8.RuneCountInString(part)
		if n > 2 && n < 30 && hasAlphanumeric(part) {
			requirements = append(requirements, part)
		}
	}

	lower := strings.ToLower(description)
	phrases := len(requirements)
	for _, keyword := range techVocabulary {
		if !strings.Contains(lower, keyword) || capturedBy(requirements[:phrases], keyword) {
			continue
		}
		requirements = append(requirements, titleCase(keyword))
	}

	seen := make(map[string]bool, len(requirements))
	unique := make([]string, 0, len(requirements))
	for _, req := range requirements {
		key := strings.ToLower(req)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, req)
	}

	if len(unique) > domain.MaxRequirements {
		unique = unique[:domain.MaxRequirements]
	}
	return unique
}

// capturedBy returns true if any phrase contains keyword, ignoring case.
func capturedBy(phrases []string, keyword string) bool {
	for _, p := range phrases {
		if strings.Contains(strings.ToLower(p), keyword) {
			return true
		}
	}
	return false
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "ci/cd" becomes "Ci/Cd".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
