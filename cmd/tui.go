package cmd

import (
	"hyprdash/internal/tui"
)

func runTUI() error {
	return tui.Run(tui.Config{
		Index: indexConfig(),
	})
}
