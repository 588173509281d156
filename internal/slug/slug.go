package slug

import "strings"

// Slugify derives a canonical URL-safe identifier from free-text input.
// The codec makes no uniqueness guarantee; callers must detect collisions
// against their store.
func Slugify(text string) string {
	return SlugifyMax(text, 0)
}

// SlugifyMax behaves like Slugify but truncates the cleaned input to maxLen
// runes before hyphen runs are collapsed, so no broken artifacts survive past
// the limit. A maxLen of zero or less disables truncation.
func SlugifyMax(text string, maxLen int) string {
	lowered := strings.ToLower(text)

	var cleaned strings.Builder
	cleaned.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			cleaned.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			cleaned.WriteRune(' ')
		}
	}

	// Whitespace runs become single hyphens before truncation so the cut
	// lands on hyphen boundaries, not inside padding.
	hyphenated := strings.Join(strings.Fields(cleaned.String()), "-")

	if maxLen > 0 {
		runes := []rune(hyphenated)
		if len(runes) > maxLen {
			hyphenated = string(runes[:maxLen])
		}
	}

	for strings.Contains(hyphenated, "--") {
		hyphenated = strings.ReplaceAll(hyphenated, "--", "-")
	}

	return strings.Trim(hyphenated, "-")
}
