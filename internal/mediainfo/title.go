package mediainfo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMinorWords lists the words kept lowercase inside a title.
func DefaultMinorWords() []string {
	return []string{"a", "an", "and", "as", "at", "but", "by", "for", "from", "in", "of", "on", "or", "the", "to", "with"}
}

// TitleCaser capitalizes titles while keeping minor words lowercase. The first
// and last words are always capitalized.
type TitleCaser struct {
	minor map[string]struct{}
}

// NewTitleCaser builds a caser for the given minor-word set. A nil or empty set
// falls back to DefaultMinorWords.
func NewTitleCaser(minorWords []string) *TitleCaser {
	if len(minorWords) == 0 {
		minorWords = DefaultMinorWords()
	}
	minor := make(map[string]struct{}, len(minorWords))
	for _, word := range minorWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			minor[word] = struct{}{}
		}
	}
	return &TitleCaser{minor: minor}
}

// Normalize applies title casing to every whitespace-separated word.
// Normalize(Normalize(x)) == Normalize(x).
func (t *TitleCaser) Normalize(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}
	// cases.Caser keeps state between calls and is not safe for concurrent use.
	caser := cases.Title(language.Und)
	last := len(words) - 1
	for i, word := range words {
		lower := strings.ToLower(word)
		if i != 0 && i != last && t.isMinor(lower) {
			words[i] = lower
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

func (t *TitleCaser) isMinor(word string) bool {
	if t == nil {
		return false
	}
	_, ok := t.minor[word]
	return ok
}

var defaultCaser = NewTitleCaser(nil)

// NormalizeTitle title-cases using the default minor-word set.
func NormalizeTitle(title string) string {
	return defaultCaser.Normalize(title)
}
