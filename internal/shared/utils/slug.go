package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a display name into a URL-safe slug.
// "Pişirme Grubu 700" -> "pisirme-grubu-700"
func GenerateSlug(input string) string {
	ascii := ReplaceTurkishChars(input)
	lower := strings.ToLower(ascii)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// ReplaceTurkishChars maps Turkish letters to their ASCII bases.
func ReplaceTurkishChars(input string) string {
	mappings := map[rune]rune{
		'ç': 'c', 'Ç': 'C',
		'ğ': 'g', 'Ğ': 'G',
		'ı': 'i', 'İ': 'I',
		'ö': 'o', 'Ö': 'O',
		'ş': 's', 'Ş': 'S',
		'ü': 'u', 'Ü': 'U',
	}

	result := make([]rune, 0, len(input))
	for _, r := range input {
		if replacement, ok := mappings[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}
	return string(result)
}
