package components

import (
	"strings"

	"github.com/abhisek/dailyenglish/internal/streak"
	"github.com/abhisek/dailyenglish/internal/ui/theme"
)

const (
	dayActive   = "●"
	dayInactive = "○"
)

// WeekStrip renders the last seven days as a row of dots, oldest first.
type WeekStrip struct {
	Weekly streak.Weekly
}

// View renders the strip.
func (w WeekStrip) View() string {
	var b strings.Builder
	for i := range w.Weekly.Days {
		if i > 0 {
			b.WriteString(" ")
		}
		if w.Weekly.Active[i] {
			b.WriteString(theme.DayActive.Render(dayActive))
		} else {
			b.WriteString(theme.DayInactive.Render(dayInactive))
		}
	}
	return b.String()
}
