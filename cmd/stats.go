package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := rt.ctrl.Stats(cmd.Context())
		if err != nil {
			return err
		}
		renderStats(cmd.OutOrStdout(), s)
		return nil
	},
}
