package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dailyenglish/internal/catalog"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Print today's queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if _, err := rt.waitCatalog(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		v := rt.ctrl.View()
		q := rt.ctrl.Queue()
		if len(q) == 0 {
			fmt.Fprintln(out, "No exercises available today.")
			return nil
		}

		prefs := rt.ctrl.Prefs()
		level := "any"
		if l, ok := catalog.LevelForRank(prefs.LevelCap); ok {
			level = "≤ " + string(l)
		}
		fmt.Fprintf(out, "%s · level %s · %s session\n\n",
			catalog.ModuleByID(prefs.ModuleID).Label, level, v.Kind)

		fmt.Fprintf(out, "%-3s  %-10s  %-5s  %-16s  %s\n", "#", "ID", "Level", "Topic", "Prompt")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for i, ex := range q {
			marker := " "
			if i < v.Position-1 || v.Position == 0 {
				marker = "✓"
			}
			if ex.ID == v.ChallengeID {
				marker = "★"
			}
			prompt := ex.Prompt
			if len(prompt) > 40 {
				prompt = prompt[:37] + "..."
			}
			fmt.Fprintf(out, "%s%-2d  %-10s  %-5s  %-16s  %s\n", marker, i+1, ex.ID, ex.Level, ex.Topic, prompt)
		}
		fmt.Fprintf(out, "\n%d exercise(s), %d remaining\n", v.Total, v.Remaining)
		return nil
	},
}
