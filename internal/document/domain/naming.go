package domain

import (
	"strings"
	"unicode"
)

// Unscrub converts a REST-conventional lower-kebab (or snake) doctype segment
// into the canonical doctype name: "sales-order" and "sales_order" both
// become "Sales Order".
func Unscrub(s string) string {
	replacer := strings.NewReplacer("-", " ", "_", " ")
	words := strings.Fields(replacer.Replace(s))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Scrub converts a canonical doctype name into its snake form:
// "Sales Order" becomes "sales_order".
func Scrub(s string) string {
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	return strings.ToLower(replacer.Replace(s))
}

// IsScrubbed reports whether a resource path segment uses the lower-cased
// naming convention and needs unscrubbing before doctype lookup.
func IsScrubbed(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsLower([]rune(s)[0])
}
