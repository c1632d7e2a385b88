// Package catalog holds the exercise pool: the record types, the embedded
// default catalog, record validation and the optional remote replacement.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/dailyenglish/internal/schema"
)

//go:embed data/exercises.json
var defaultExercisesJSON []byte

// ErrNotArray is returned by Parse when the payload is not a JSON array.
var ErrNotArray = errors.New("catalog: payload is not a JSON array")

// Catalog is an ordered, read-only exercise pool. Pool order matters: the
// queue builder and the extra-example lookup both scan in this order.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

// New builds a catalog from exercises, keeping their order. When IDs repeat,
// lookups resolve to the first occurrence.
func New(exercises []Exercise) *Catalog {
	c := &Catalog{
		exercises: make([]Exercise, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	copy(c.exercises, exercises)
	for i, ex := range c.exercises {
		if _, dup := c.byID[ex.ID]; !dup {
			c.byID[ex.ID] = i
		}
	}
	return c
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	exercises, dropped, err := Parse(defaultExercisesJSON)
	if err != nil || dropped > 0 {
		panic(fmt.Sprintf("embedded catalog is invalid (dropped %d): %v", dropped, err))
	}
	return New(exercises)
}

// All returns the exercises in pool order. Callers must not modify the slice.
func (c *Catalog) All() []Exercise {
	return c.exercises
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// Get returns the exercise with the given ID.
func (c *Catalog) Get(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i], true
}

// Topics returns the distinct topics in first-seen order.
func (c *Catalog) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, ex := range c.exercises {
		if !seen[ex.Topic] {
			seen[ex.Topic] = true
			topics = append(topics, ex.Topic)
		}
	}
	return topics
}

// Parse decodes a JSON array of exercise records. Records failing schema
// validation are dropped individually and counted; a payload that is not an
// array fails as a whole with ErrNotArray.
func Parse(data []byte) ([]Exercise, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	exercises := make([]Exercise, 0, len(raw))
	dropped := 0
	for _, rec := range raw {
		if err := schema.ValidateJSON(ExerciseSchema, rec); err != nil {
			dropped++
			continue
		}
		var ex Exercise
		if err := json.Unmarshal(rec, &ex); err != nil {
			dropped++
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises, dropped, nil
}
