// Package answer decides whether a learner's typed answer matches an
// exercise's accepted answers.
package answer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// contractions maps common English contractions to their expanded form.
var contractions = map[string]string{
	"i'm":       "i am",
	"you're":    "you are",
	"he's":      "he is",
	"she's":     "she is",
	"it's":      "it is",
	"we're":     "we are",
	"they're":   "they are",
	"i've":      "i have",
	"you've":    "you have",
	"we've":     "we have",
	"they've":   "they have",
	"i'll":      "i will",
	"you'll":    "you will",
	"he'll":     "he will",
	"she'll":    "she will",
	"we'll":     "we will",
	"they'll":   "they will",
	"i'd":       "i would",
	"you'd":     "you would",
	"he'd":      "he would",
	"she'd":     "she would",
	"we'd":      "we would",
	"they'd":    "they would",
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"can't":     "cannot",
	"won't":     "will not",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"weren't":   "were not",
	"haven't":   "have not",
	"hasn't":    "has not",
	"hadn't":    "had not",
	"shouldn't": "should not",
	"wouldn't":  "would not",
	"couldn't":  "could not",
	"mustn't":   "must not",
	"let's":     "let us",
	"that's":    "that is",
	"there's":   "there is",
	"what's":    "what is",
	"who's":     "who is",
}

var (
	contractionPattern = buildContractionPattern()
	punctuation        = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()?¿¡\"]")
	whitespace         = regexp.MustCompile(`\s+`)
	apostrophes        = strings.NewReplacer("\u2019", "'", "\u2018", "'", "`", "'")
)

func buildContractionPattern() *regexp.Regexp {
	keys := make([]string, 0, len(contractions))
	for k := range contractions {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest first so alternation never stops at a shorter prefix.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Check reports whether input matches any of the accepted answers or
// synonyms after normalization.
//
// Normalization rules:
//   - Case-insensitive, surrounding whitespace ignored
//   - Contractions are expanded ("I'm" matches "I am")
//   - Punctuation is ignored ("late." matches "late")
//   - Accents are ignored ("cafe" matches "café")
//   - Runs of whitespace compare equal to a single space
func Check(input string, answers []string, synonyms []string) bool {
	got := Normalize(input)
	for _, list := range [][]string{answers, synonyms} {
		for _, candidate := range list {
			if candidate == "" {
				continue
			}
			if Normalize(candidate) == got {
				return true
			}
		}
	}
	return false
}

// Normalize returns the comparison form of s.
func Normalize(s string) string {
	s = apostrophes.Replace(s)
	s = cases.Fold().String(strings.TrimSpace(s))
	s = stripAccents(s)
	s = contractionPattern.ReplaceAllStringFunc(s, func(m string) string {
		return contractions[m]
	})
	s = punctuation.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
