package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExerciseType identifies the kind of prompt an exercise presents.
type ExerciseType string

const (
	TypeTranslation ExerciseType = "translation"
	TypeFill        ExerciseType = "fill"
	TypeVocab       ExerciseType = "vocab"
	TypePhrase      ExerciseType = "phrase"
)

// AllTypes returns all exercise types.
func AllTypes() []ExerciseType {
	return []ExerciseType{TypeTranslation, TypeFill, TypeVocab, TypePhrase}
}

// Level is a CEFR level label (A1..C2).
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}
}

// Rank maps the level to its ordinal, starting at 1 for A1.
// Unknown labels rank as A1.
func (l Level) Rank() int {
	for i, lv := range Levels() {
		if lv == l {
			return i + 1
		}
	}
	return 1
}

// LevelForRank returns the level with the given rank, or false if out of range.
func LevelForRank(rank int) (Level, bool) {
	levels := Levels()
	if rank < 1 || rank > len(levels) {
		return "", false
	}
	return levels[rank-1], true
}

// ParseLevel accepts a label ("B1", case-insensitive) or a rank ("3").
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, lv := range Levels() {
		if string(lv) == s || fmt.Sprint(i+1) == s {
			return lv, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Answer is the ordered list of acceptable answers. The first entry is the
// canonical one. In JSON it is either a single string or an array.
type Answer []string

// Canonical returns the first acceptable answer.
func (a Answer) Canonical() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// Display joins all acceptable answers for feedback.
func (a Answer) Display() string {
	return strings.Join(a, " / ")
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*a = Answer{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("answer must be a string or a list of strings: %w", err)
	}
	*a = Answer(list)
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// Exercise is a single practice item. Exercises are immutable once loaded.
type Exercise struct {
	ID       string       `json:"id"`
	Type     ExerciseType `json:"type"`
	Level    Level        `json:"level"`
	Topic    string       `json:"topic"`
	Prompt   string       `json:"prompt"`
	Answer   Answer       `json:"answer"`
	Synonyms []string     `json:"synonyms,omitempty"`
	Note     string       `json:"note,omitempty"`
}
