package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Remind you every day while today's queue is unfinished",
	Long: "Runs in the foreground and checks once a day at reminder.hour. With --now it\n" +
		"checks once and exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, _ := cmd.Flags().GetBool("now")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		sched := reminder.New(time.Local, rt.cfg.Reminder.Hour, rt.ctrl, reminder.WriterNotifier{W: out}, rt.logger)

		if now {
			sent, err := sched.Check(cmd.Context())
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(out, "Today's queue is done. Nothing to remind.")
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		fmt.Fprintf(out, "Next reminder at %s. Press Ctrl+C to stop.\n", sched.NextRun().Format("Mon 15:04"))
		<-ctx.Done()
		rt.logger.Debug("reminder stopped", zap.Error(ctx.Err()))
		return nil
	},
}

func init() {
	remindCmd.Flags().Bool("now", false, "Check once and exit")
}
