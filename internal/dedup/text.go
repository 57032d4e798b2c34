package dedup

import (
	"regexp"
	"strings"
)

var (
	segmentDelimiter   = regexp.MustCompile(`[ \t]{2,}|\n+`)
	internalWhitespace = regexp.MustCompile(`\s+`)
	verificationSuffix = regexp.MustCompile(`(?i)\s*with verification\s*$`)
)

// CleanField repairs a scraped title or company string before the duplicate
// check: collapses internal whitespace, strips a trailing "with verification"
// suffix, and undoes exact self-duplication (titles that arrive doubled from
// upstream scraping, e.g. "Acme Ltd  Acme Ltd").
func CleanField(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	// Segment doubling has to be detected before whitespace collapse: the
	// delimiter is the run of spaces/newlines itself.
	if segments := nonEmptySegments(trimmed); len(segments) >= 2 {
		first := strings.TrimSpace(segments[0])
		last := strings.TrimSpace(stripVerification(segments[len(segments)-1]))
		if first != "" && strings.EqualFold(first, last) {
			trimmed = first
		}
	}

	collapsed := internalWhitespace.ReplaceAllString(trimmed, " ")
	collapsed = strings.TrimSpace(stripVerification(collapsed))

	// Two equal halves by character count ("FooFoo"). Split on runes so
	// multibyte titles do not break mid-character.
	if runes := []rune(collapsed); len(runes) >= 2 && len(runes)%2 == 0 {
		half := len(runes) / 2
		if strings.EqualFold(string(runes[:half]), string(runes[half:])) {
			return strings.TrimSpace(string(runes[:half]))
		}
	}

	// Two equal halves by word count ("Senior Dev Senior Dev").
	if words := strings.Fields(collapsed); len(words) >= 2 && len(words)%2 == 0 {
		half := len(words) / 2
		if strings.EqualFold(strings.Join(words[:half], " "), strings.Join(words[half:], " ")) {
			return strings.Join(words[:half], " ")
		}
	}

	return collapsed
}

func stripVerification(s string) string {
	return verificationSuffix.ReplaceAllString(s, "")
}

func nonEmptySegments(s string) []string {
	raw := segmentDelimiter.Split(s, -1)
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if strings.TrimSpace(seg) != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
