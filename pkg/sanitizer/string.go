package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reSlotSeparators = regexp.MustCompile(`\s*-\s*`)

// TrimAndNormalize trims s and collapses every run of whitespace to a single
// space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeSlotNumber makes " a - 12 " and "A-12" the same slot number so the
// unique index catches both.
func NormalizeSlotNumber(slotNumber string) string {
	p := Pipeline{
		TrimAndNormalize,
		func(s string) string { return reSlotSeparators.ReplaceAllString(s, "-") },
		strings.ToUpper,
	}
	return p.Apply(slotNumber)
}

func NormalizeUserID(userID string) string {
	return strings.TrimSpace(userID)
}
