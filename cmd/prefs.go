package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/config"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change practice preferences",
	Long: "Without flags, prints the current preferences. Changing the module, level\n" +
		"or daily goal rebuilds today's queue.",
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().String("module", "", "Practice series (see 'catalog modules'), or 'all'")
	prefsCmd.Flags().String("level", "", "Highest level to practice (A1..C2, 1..6, or 'any')")
	prefsCmd.Flags().Int("goal", 0, "Exercises per day")
	prefsCmd.Flags().Bool("slow", false, "Use the slow speech rate")
}

func runPrefs(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	p := rt.ctrl.Prefs()

	flags := cmd.Flags()
	if !flags.Changed("module") && !flags.Changed("level") && !flags.Changed("goal") && !flags.Changed("slow") {
		printPrefs(out, p)
		return nil
	}

	if flags.Changed("module") {
		id, _ := flags.GetString("module")
		if m := catalog.ModuleByID(id); m.ID != id {
			return fmt.Errorf("unknown module %q", id)
		}
		p.ModuleID = id
	}
	if flags.Changed("level") {
		raw, _ := flags.GetString("level")
		if raw == "any" {
			p.LevelCap = 0
		} else {
			level, err := catalog.ParseLevel(raw)
			if err != nil {
				return err
			}
			p.LevelCap = level.Rank()
		}
	}
	if flags.Changed("goal") {
		goal, _ := flags.GetInt("goal")
		if goal <= 0 {
			return fmt.Errorf("goal must be positive, got %d", goal)
		}
		p.DailyGoal = goal
	}
	if flags.Changed("slow") {
		slow, _ := flags.GetBool("slow")
		p.SpeechRate = config.SpeechNormal
		if slow {
			p.SpeechRate = config.SpeechSlow
		}
	}

	p, err = rt.ctrl.SetPrefs(ctx, p)
	if err != nil {
		return err
	}
	if err := rt.ctrl.Refresh(ctx); err != nil {
		return err
	}
	printPrefs(out, p)
	fmt.Fprintf(out, "Today's queue: %d exercise(s)\n", rt.ctrl.View().Total)
	return nil
}

func printPrefs(w io.Writer, p config.Prefs) {
	level := "any"
	if l, ok := catalog.LevelForRank(p.LevelCap); ok {
		level = string(l)
	}
	fmt.Fprintf(w, "Module:      %s (%s)\n", catalog.ModuleByID(p.ModuleID).Label, p.ModuleID)
	fmt.Fprintf(w, "Level cap:   %s\n", level)
	fmt.Fprintf(w, "Daily goal:  %d\n", p.DailyGoal)
	fmt.Fprintf(w, "Speech rate: %.1f\n", p.SpeechRate)
}
