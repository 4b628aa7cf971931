package cmd

import (
	"fmt"
	"os"

	"hyprdash/internal/launcher"
	"hyprdash/internal/store"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch <desktop-id>",
	Short: "Start an indexed application by its desktop file ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openIndex()
		if err != nil {
			return err
		}
		defer st.Close()

		app, ok, err := st.GetApp(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("application %q not in index", args[0])
		}

		logger.Info("launch", "app", app.DesktopID, "exec", app.Exec)
		if err := launcher.Launch(app.Exec); err != nil {
			return fmt.Errorf("launch %s: %w", app.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Launched %s\n", app.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

// openIndex opens an existing index without creating one.
func openIndex() (*store.SQLiteStore, error) {
	path := dbPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("index not found at %s\nRun 'hyprdash index' first to build the index", path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return st, nil
}
