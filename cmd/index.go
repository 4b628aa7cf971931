package cmd

import (
	"fmt"
	"time"

	"hyprdash/internal/index"

	"github.com/spf13/cobra"
)

var flagWorkers int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan desktop entries and resolve their icons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		icfg := indexConfig()
		if cmd.Flags().Changed("workers") {
			icfg.Workers = flagWorkers
		}
		if err := ensureDBDir(icfg.DBPath); err != nil {
			return err
		}

		idx, err := index.New(icfg)
		if err != nil {
			return err
		}
		defer idx.Close()

		theme := icfg.IconTheme
		if theme == "" {
			theme = "(none)"
		}
		fmt.Printf("Indexing applications (icon theme %s)...\n", theme)
		start := time.Now()

		stats, err := idx.Index(cmd.Context())
		elapsed := time.Since(start)

		if stats != nil {
			fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Entries: %d total, %d indexed, %d skipped\n",
				stats.EntriesTotal, stats.AppsIndexed, stats.EntriesSkipped)
			fmt.Printf("  Icons:   %d resolved, %d missing\n", stats.IconsResolved, stats.IconsMissing)
			fmt.Printf("  Pruned:  %d\n", stats.AppsPruned)
		}

		return err
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel workers (default from config, else number of CPUs)")
	rootCmd.AddCommand(indexCmd)
}
