package product

import (
	"strings"
	"unicode"
)

const (
	maxSentenceRunes = 160
	truncateRunes    = 140
)

// ShortSummary returns the explicit summary, or one derived from the description.
func (p Product) ShortSummary() string {
	if p.Summary != "" {
		return p.Summary
	}
	return DeriveSummary(p.Description)
}

// DeriveSummary takes the first sentence of text when it fits in 160 characters,
// otherwise the first 140 characters followed by an ellipsis.
func DeriveSummary(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	runes := []rune(text)

	if end := firstSentenceEnd(runes); end > 0 && end <= maxSentenceRunes {
		return string(runes[:end])
	}
	if len(runes) <= maxSentenceRunes {
		return text
	}
	return strings.TrimRightFunc(string(runes[:truncateRunes]), unicode.IsSpace) + "…"
}

// firstSentenceEnd is the rune length of the first sentence: a terminator followed by
// whitespace or the end of the text. 0 when there is none.
func firstSentenceEnd(runes []rune) int {
	for i, r := range runes {
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}
	return 0
}
