package core

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTag returns the dedup key of a tag name: NFC-normalized,
// trimmed and lower-cased. An empty result means the tag is skipped.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// NormalizeTags normalizes names and drops empty and repeated ones,
// keeping first-seen order.
func NormalizeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		tag := NormalizeTag(n)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
