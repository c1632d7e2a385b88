package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dailyenglish/internal/app"
	"github.com/abhisek/dailyenglish/internal/session"
	"github.com/abhisek/dailyenglish/internal/ui/layout"
	"github.com/abhisek/dailyenglish/internal/ui/theme"
)

// practiceMode selects how the session is prepared before the loop starts.
type practiceMode int

const (
	practiceDaily practiceMode = iota
	practiceReview
	practiceChallenge
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Work through today's queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, practiceDaily)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start a quick review of three exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, practiceReview)
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Put today's challenge at the front of the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, practiceChallenge)
	},
}

func runPractice(cmd *cobra.Command, mode practiceMode) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch mode {
	case practiceReview:
		if _, err := rt.ctrl.QuickReview(ctx); err != nil {
			return nothingOr(out, err)
		}
	case practiceChallenge:
		if _, err := rt.ctrl.StartChallenge(ctx); err != nil {
			return nothingOr(out, err)
		}
	}

	return practiceLoop(ctx, rt.ctrl, cmd.InOrStdin(), out)
}

// nothingOr prints the empty-queue message for ErrNothingToPractice and
// returns any other error.
func nothingOr(w io.Writer, err error) error {
	if errors.Is(err, app.ErrNothingToPractice) {
		fmt.Fprintln(w, theme.Subtitle.Render("No exercises available today."))
		return nil
	}
	return err
}

// practiceLoop reads answers line by line until the session is complete,
// input ends, or the learner quits. After feedback, an empty line moves on
// and any other input is a new attempt at the same exercise.
func practiceLoop(ctx context.Context, ctrl *app.Controller, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	prefs := ctrl.Prefs()

	for {
		if err := ctrl.Refresh(ctx); err != nil {
			return err
		}
		v := ctrl.View()
		if v.Phase != session.PhaseActive {
			return nothingOr(out, practiceDone(out, v))
		}

		fmt.Fprintln(out, layout.RenderHeader(sessionTitle(v.Kind, prefs.ModuleID), v.Streak, v.Remaining, layout.Width))
		renderExercise(out, v)
		fmt.Fprintln(out, layout.RenderFooter(practiceHints))

		attempted := false
	answer:
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case ":quit", ":q":
				return nil
			case ":skip", ":next":
				break answer
			case "":
				if attempted {
					break answer
				}
				continue
			}

			forgotten := line == ":forgot"
			if forgotten {
				line = ""
			}
			fb, err := ctrl.Submit(ctx, line, forgotten, nil)
			if err != nil {
				return nothingOr(out, err)
			}
			renderFeedback(out, fb)
			attempted = true
			if fb.Correct {
				break answer
			}
			fmt.Fprintln(out, theme.Subtitle.Render("Press Enter to continue or try again."))
		}

		finished, err := ctrl.Advance(ctx)
		if err != nil {
			return err
		}
		if finished {
			v := ctrl.View()
			fmt.Fprintln(out, theme.Correct.Render(fmt.Sprintf("Session complete! Streak: %d day(s).", v.Streak)))
			return nil
		}
		fmt.Fprintln(out)
	}
}

// practiceDone reports a session that has nothing left to show.
func practiceDone(w io.Writer, v app.View) error {
	if v.Total == 0 {
		return app.ErrNothingToPractice
	}
	fmt.Fprintln(w, theme.Correct.Render("Today's queue is done. Come back tomorrow!"))
	return nil
}
