package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <icon>...",
	Short: "Resolve icon names to files using the configured theme",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newResolver()
		out := cmd.OutOrStdout()

		missing := 0
		for _, name := range args {
			path, ok, err := r.Resolve(name, cfg.IconTheme)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", name, err)
			}
			if !ok {
				missing++
				fmt.Fprintf(out, "%s\tnot found\n", name)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", name, path)
		}
		if missing > 0 {
			return errors.New("some icons were not found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
