package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/dailyenglish/internal/app"
	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/mastery"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/ui/components"
	"github.com/abhisek/dailyenglish/internal/ui/layout"
	"github.com/abhisek/dailyenglish/internal/ui/theme"
)

var practiceHints = []layout.KeyHint{
	{Key: ":skip", Description: "next exercise"},
	{Key: ":forgot", Description: "I don't know"},
	{Key: ":quit", Description: "stop"},
}

func sessionTitle(kind session.Kind, moduleID string) string {
	switch kind {
	case session.KindQuickReview:
		return "Quick review"
	case session.KindChallenge:
		return "Daily challenge"
	default:
		return catalog.ModuleByID(moduleID).Label
	}
}

func renderExercise(w io.Writer, v app.View) {
	ex := v.Current
	tag := fmt.Sprintf("%d/%d  %s · %s · %s", v.Position, v.Total, ex.Level, ex.Type, ex.Topic)
	if ex.ID == v.ChallengeID && !v.ChallengeDone {
		tag += "  " + theme.Tip.Render("★ challenge")
	}
	fmt.Fprintln(w, theme.Subtitle.Render(tag))
	fmt.Fprintln(w, theme.Title.Render(ex.Prompt))
	if ex.Note != "" {
		fmt.Fprintln(w, theme.Hint.Render(ex.Note))
	}
}

func renderFeedback(w io.Writer, fb *session.Feedback) {
	var lines []string
	switch {
	case fb.Correct:
		lines = append(lines, theme.Correct.Render("✓ Correct"))
	case fb.Forgotten:
		lines = append(lines, theme.Incorrect.Render("✗ Not yet"))
	default:
		lines = append(lines, theme.Incorrect.Render("✗ Incorrect"))
	}
	if !fb.Correct {
		lines = append(lines, theme.Body.Render("Answer: "+fb.Expected))
		if fb.Hint != "" {
			lines = append(lines, theme.Hint.Render("Hint:   "+fb.Hint))
		}
		if fb.Extra != nil {
			lines = append(lines, theme.Subtitle.Render(fmt.Sprintf("Also: %s → %s", fb.Extra.Prompt, fb.Extra.Answer)))
		}
	}
	lines = append(lines, theme.Subtitle.Render(fmt.Sprintf("Mastery %+d%% → %d%%", fb.MasteryDelta, int(fb.MasteryAfter*100+0.5))))
	if fb.Tip != "" {
		lines = append(lines, theme.Tip.Render(fb.Tip))
	}
	if fb.ChallengeCompleted {
		lines = append(lines, theme.Correct.Render("★ Daily challenge complete!"))
	}
	fmt.Fprintln(w, theme.Card.Render(strings.Join(lines, "\n")))
}

func renderStats(w io.Writer, s app.Stats) {
	fmt.Fprintln(w, theme.Title.Render("Today · "+string(s.Today)))
	fmt.Fprintf(w, "Remaining: %d of %d\n", s.Remaining, s.QueueSize)
	fmt.Fprintln(w, components.NewProgressBar("Mastery ", float64(s.MasteryPercent)/100, true, 40).View())

	challenge := "pending"
	switch {
	case s.ChallengeID == "":
		challenge = "none"
	case s.ChallengeDone:
		challenge = theme.Correct.Render("done")
	}
	fmt.Fprintf(w, "Challenge: %s\n\n", challenge)

	fmt.Fprintln(w, theme.Title.Render("Progress"))
	fmt.Fprintf(w, "Streak: %d day(s) · %s\n", s.Streak, s.Tier.DisplayName())
	fmt.Fprintln(w, components.WeekStrip{Weekly: s.Weekly}.View())
	fmt.Fprintln(w, components.NewProgressBar("Week    ", float64(s.Weekly.Percent)/100, true, 40).View())
	fmt.Fprintf(w, "%d of %d days this week · %d session(s) completed\n",
		s.Weekly.Count, s.Weekly.Goal, s.SessionsThisWeek)
	fmt.Fprintf(w, "Exercises: %d new · %d learning · %d mastered\n",
		s.Counts[mastery.StateNew], s.Counts[mastery.StateLearning], s.Counts[mastery.StateMastered])
	if s.Lifetime.Answers > 0 {
		fmt.Fprintf(w, "Lifetime: %d answers, %.0f%% correct\n", s.Lifetime.Answers, s.Lifetime.Accuracy()*100)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, theme.Title.Render("To review"))
	if len(s.Review) == 0 {
		fmt.Fprintln(w, theme.Subtitle.Render("Everything mastered. New exercises unlock tomorrow."))
	} else {
		fmt.Fprintf(w, "Failed yesterday: %d · Not mastered: %d\n", s.FailedYesterday, s.Unmastered)
		for _, ex := range s.Review {
			fmt.Fprintf(w, "  • %s\n", ex.Prompt)
		}
	}
	if len(s.TopFailures) > 0 {
		fmt.Fprintln(w, theme.Subtitle.Render("Most common mistakes"))
		for _, tf := range s.TopFailures {
			fmt.Fprintf(w, "  %s: %d\n", tf.Topic, tf.Failures)
		}
	}
}
