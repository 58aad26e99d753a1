package model

import (
	"strings"
	"unicode"
)

var headerExcludedTokens = []string{
	"email", "phone", "address", "resume", "cv", "experience",
	"education", "skills", "objective",
}

// NameValid implements the §4.3 name-validity check used to reject garbage
// names coming back from LLM extraction.
func NameValid(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return false
	}

	stripped := stripWhitespace(trimmed)
	if len(stripped) > 30 && isAllHex(stripped) {
		return false
	}

	if countAlpha(trimmed) < 2 {
		return false
	}

	if nonAlphanumericRatio(trimmed) > 0.5 {
		return false
	}

	return true
}

func stripWhitespace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAllHex(s string) bool {
	for _, r := range s {
		if !unicode.Is(unicode.Hex_Digit, r) {
			return false
		}
	}
	return true
}

func countAlpha(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func nonAlphanumericRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	nonAlnum := 0
	total := 0
	for _, r := range s {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			nonAlnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(nonAlnum) / float64(total)
}

// ExtractNameFromHeader implements the §4.3 direct header-extraction
// fallback: scan the first 2000 chars of CV text, split into trimmed
// non-empty lines, and return the first of the first 10 lines that looks
// like a name header. Returns "" if no line qualifies.
func ExtractNameFromHeader(cvText string) string {
	head := cvText
	if len(head) > 2000 {
		head = head[:2000]
	}

	lines := splitNonEmptyLines(head)
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		line := lines[i]
		if looksLikeNameHeader(line) {
			return line
		}
	}
	return ""
}

func splitNonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	var lines []string
	for _, l := range raw {
		trimmed := strings.TrimSpace(l)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func looksLikeNameHeader(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) < 2 || len(tokens) > 4 {
		return false
	}

	first := []rune(tokens[0])
	if len(first) == 0 || !unicode.IsUpper(first[0]) {
		return false
	}

	if countAlpha(line) < 4 {
		return false
	}

	lower := strings.ToLower(line)
	for _, excluded := range headerExcludedTokens {
		if strings.Contains(lower, excluded) {
			return false
		}
	}

	return true
}
