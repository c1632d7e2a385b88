package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withPrefs, _ := cmd.Flags().GetBool("prefs")
		withHistory, _ := cmd.Flags().GetBool("history")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		effect := rt.ctrl.PlanReset(withPrefs, withHistory)

		fmt.Fprintln(out, "This will delete:")
		fmt.Fprintf(out, "  • progress for %d exercise(s)\n", effect.ProgressRecords)
		fmt.Fprintf(out, "  • %d activity day(s) and a %d-day streak\n", effect.ActivityDays, effect.StreakDays)
		if effect.ClearPrefs {
			fmt.Fprintln(out, "  • your preferences")
		}
		if effect.ClearHistory {
			fmt.Fprintln(out, "  • the answer history")
		}

		if !yes {
			fmt.Fprint(out, "Continue? [y/N] ")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				fmt.Fprintln(out, "\nAborted.")
				return scanner.Err()
			}
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := rt.ctrl.ApplyReset(cmd.Context(), effect); err != nil {
			return err
		}
		fmt.Fprintln(out, "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().Bool("prefs", false, "Also reset preferences")
	resetCmd.Flags().Bool("history", false, "Also delete the answer history")
}
