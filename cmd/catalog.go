package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dailyenglish/internal/catalog"
	"github.com/abhisek/dailyenglish/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the exercise catalog",
}

var catalogModulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the practice series",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cat := catalog.Default()
		counts := make(map[string]int)
		for _, ex := range cat.All() {
			counts[ex.Topic]++
		}

		fmt.Fprintf(out, "%-18s  %-18s  %s\n", "ID", "Label", "Exercises")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, m := range catalog.Modules {
			n := counts[m.ID]
			if catalog.IsAll(m.ID) {
				n = cat.Len()
			}
			fmt.Fprintf(out, "%-18s  %-18s  %d\n", m.ID, m.Label, n)
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the catalog in use, including a configured remote one",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		remote, err := rt.waitCatalog(cmd.Context())
		if err != nil {
			return err
		}
		cat := rt.ctrl.Catalog()
		out := cmd.OutOrStdout()

		source := "built-in"
		if remote {
			source = rt.cfg.Catalog.RemoteURL
		}
		fmt.Fprintf(out, "Source: %s\n", source)
		fmt.Fprintf(out, "%d exercise(s) in %d topic(s)\n", cat.Len(), len(cat.Topics()))

		byLevel := make(map[catalog.Level]int)
		for _, ex := range cat.All() {
			byLevel[ex.Level]++
		}
		for _, l := range catalog.Levels() {
			fmt.Fprintf(out, "  %s: %d\n", l, byLevel[l])
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a catalog JSON file record by record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		exercises, dropped, err := catalog.Parse(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d valid, %d invalid\n", len(exercises), dropped)
		if len(exercises) == 0 {
			return fmt.Errorf("%s has no valid exercises", args[0])
		}
		return nil
	},
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch [URL]",
	Short: "Download a remote catalog and report what would be used",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if len(args) == 1 {
			cfg.Catalog.RemoteURL = args[0]
		}
		if cfg.Catalog.RemoteURL == "" {
			return fmt.Errorf("no URL given and catalog.remote_url is not set")
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer logger.Sync()

		exercises, err := newFetcher(cfg, logger).Fetch(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No valid exercises; the built-in catalog stays in use.")
			return nil
		}
		fmt.Fprintf(out, "%d valid exercise(s); this catalog would replace the built-in one.\n", len(exercises))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogModulesCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogFetchCmd)
}
