package config

import "github.com/abhisek/dailyenglish/internal/catalog"

// Speech rates offered by the practice screen.
const (
	SpeechNormal = 1.0
	SpeechSlow   = 0.8
)

// DefaultLevelCap limits new learners to A1 material.
const DefaultLevelCap = 1

// Prefs are the learner's UI preferences. They select the queue filters and
// are stored separately from learning progress.
type Prefs struct {
	ModuleID   string  `json:"moduleId"`
	LevelCap   int     `json:"levelCap"`
	DailyGoal  int     `json:"dailyGoal"`
	SpeechRate float64 `json:"speechRate"`
}

// DefaultPrefs returns the preferences of a new learner.
func DefaultPrefs(dailyGoal int) Prefs {
	return Prefs{
		ModuleID:   catalog.AllModules,
		LevelCap:   DefaultLevelCap,
		DailyGoal:  dailyGoal,
		SpeechRate: SpeechNormal,
	}
}

// Normalize replaces unset or out-of-range fields with defaults. A LevelCap
// of zero is kept: it disables the level filter.
func (p Prefs) Normalize(dailyGoal int) Prefs {
	def := DefaultPrefs(dailyGoal)
	if p.ModuleID == "" {
		p.ModuleID = def.ModuleID
	}
	if p.LevelCap < 0 || p.LevelCap > len(catalog.Levels()) {
		p.LevelCap = def.LevelCap
	}
	if p.DailyGoal <= 0 {
		p.DailyGoal = def.DailyGoal
	}
	if p.SpeechRate <= 0 {
		p.SpeechRate = def.SpeechRate
	}
	return p
}
