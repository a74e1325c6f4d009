package normalisers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// nameScanLines is how many leading lines are considered for the name.
const nameScanLines = 5

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ExtractMetadata finds a name, email and phone number in resume text.
// Missing values are left empty.
func ExtractMetadata(text string) domain.DocumentMetadata {
	var meta domain.DocumentMetadata

	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > 2 {
			meta.Name = line
			break
		}
	}

	meta.Email = emailPattern.FindString(text)
	meta.Phone = strings.TrimSpace(phonePattern.FindString(text))

	return meta
}
