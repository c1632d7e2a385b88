package mastery

// MasteryState is the display bucket an exercise falls into.
type MasteryState string

const (
	StateNew      MasteryState = "new"
	StateLearning MasteryState = "learning"
	StateMastered MasteryState = "mastered"
)

// StateOf classifies an exercise from its progress record. seen is false
// when no record exists yet.
func StateOf(p Progress, seen bool) MasteryState {
	switch {
	case !seen:
		return StateNew
	case IsMastered(p):
		return StateMastered
	default:
		return StateLearning
	}
}
