// Package state defines the persisted root aggregate and its storage port.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/dailyenglish/internal/datekey"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/schema"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/streak"
)

// Version is the current persisted format.
const Version = 2

// Challenge tracks the daily challenge for one day.
type Challenge struct {
	Date       datekey.Key `json:"date"`
	ExerciseID string      `json:"exerciseId"`
	Completed  bool        `json:"completed"`
}

// CompletedOn reports whether the challenge was completed on day.
func (c Challenge) CompletedOn(day datekey.Key) bool {
	return c.Completed && c.Date == day
}

// State is everything the scheduler remembers between runs. It is replaced
// as a whole on every mutation.
type State struct {
	Version         int                 `json:"version"`
	ProgressByID    mastery.ProgressMap `json:"progressById"`
	LastSessionDate datekey.Key         `json:"lastSessionDate"`
	StreakDays      int                 `json:"streakDays"`
	ActivityDays    streak.Days         `json:"activityDays"`
	DailyChallenge  Challenge           `json:"dailyChallenge"`
	Session         session.Session     `json:"session"`
}

// New returns the state of a learner who has never practiced.
func New() State {
	return State{
		Version:      Version,
		ProgressByID: mastery.ProgressMap{},
		ActivityDays: streak.Days{},
	}
}

// Schema is the minimum shape a stored blob needs to be trusted.
var Schema = &schema.Schema{
	Name: "persisted-state",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"progressById": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"attempts":     map[string]any{"type": "integer", "minimum": 0},
						"failures":     map[string]any{"type": "integer", "minimum": 0},
						"masteryLevel": map[string]any{"type": "number", "minimum": 0},
					},
					"required": []any{"attempts", "failures", "masteryLevel"},
				},
			},
			"activityDays": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"session": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date":      map[string]any{"type": "string"},
					"queueIds":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"index":     map[string]any{"type": "integer", "minimum": 0},
					"completed": map[string]any{"type": "integer", "minimum": 0},
				},
				"required": []any{"date", "queueIds", "index", "completed"},
			},
		},
		"required": []any{"progressById", "session"},
	},
}

// Encode serializes st.
func Encode(st State) ([]byte, error) {
	st.Version = Version
	return json.Marshal(st)
}

// Decode validates and parses a stored blob. Missing optional fields are
// filled with defaults.
func Decode(raw []byte) (State, error) {
	if err := schema.ValidateJSON(Schema, raw); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	st := New()
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if st.ProgressByID == nil {
		st.ProgressByID = mastery.ProgressMap{}
	}
	if st.ActivityDays == nil {
		st.ActivityDays = streak.Days{}
	}
	if st.Session.AnsweredIDs == nil {
		st.Session.AnsweredIDs = session.IDSet{}
	}
	if st.Session.CorrectIDs == nil {
		st.Session.CorrectIDs = session.IDSet{}
	}
	st.Version = Version
	return st, nil
}
