package scraper

import (
	"regexp"
	"strings"
)

// Package-level compiled patterns, shared by every extraction call.
// The allow-list keeps word characters in any script, whitespace, the CJK
// unified ideograph block, and a small set of punctuation marks plus
// their full-width equivalents. Everything else (emoji, symbols, box
// drawing from signatures) is dropped.
var (
	reDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s\x{4e00}-\x{9fff}.,!?，。！？]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// CleanText normalizes scraped text: strips characters outside the
// allow-list, collapses whitespace runs to a single space, and trims.
// Lossy by design and idempotent.
func CleanText(text string) string {
	text = reDisallowed.ReplaceAllString(text, "")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
