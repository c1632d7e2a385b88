package session

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/dailyenglish/internal/catalog"
)

// HintMask replaces hidden letters in an A1/A2 hint.
const HintMask = '_'

// longWord is the letter count from which the final letter is also revealed.
const longWord = 7

// Hint derives a progressively masked hint from the canonical answer. Lower
// levels disclose more:
//
//	A1, A2  each word keeps its first letter (and its last when the word has
//	        seven or more letters); other letters and apostrophes are masked
//	B1      first letter of each word followed by "..."
//	B2+     first letter of the first word and the word count
func Hint(answer string, level catalog.Level) string {
	words := strings.Fields(answer)
	if len(words) == 0 {
		return ""
	}

	switch rank := level.Rank(); {
	case rank <= 2:
		masked := make([]string, len(words))
		for i, w := range words {
			masked[i] = maskWord(w)
		}
		return strings.Join(masked, " ")
	case rank == 3:
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = firstRune(w) + "..."
		}
		return strings.Join(parts, " ")
	default:
		unit := "words"
		if len(words) == 1 {
			unit = "word"
		}
		return fmt.Sprintf("%s... (%d %s)", firstRune(words[0]), len(words), unit)
	}
}

func maskWord(word string) string {
	runes := []rune(word)
	letters := 0
	last := -1
	for i, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			last = i
		}
	}

	var b strings.Builder
	for i, r := range runes {
		switch {
		case i == 0:
			b.WriteRune(r)
		case i == last && letters >= longWord:
			b.WriteRune(r)
		case unicode.IsLetter(r) || isApostrophe(r):
			b.WriteRune(HintMask)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
