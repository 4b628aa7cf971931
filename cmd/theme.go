package cmd

import (
	"fmt"
	"strings"

	"hyprdash/internal/icons"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "Show an icon theme's index and inheritance chain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.IconTheme
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			name = icons.HiColor
		}

		md := themeMarkdown(newResolver(), name)

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		out, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

// themeMarkdown describes a theme and the order its ancestors are searched in.
func themeMarkdown(r *icons.Resolver, theme string) string {
	var sb strings.Builder

	d, path, ok := r.Describe(theme)
	if !ok {
		fmt.Fprintf(&sb, "# %s\n\nNo `%s` found for this theme in any icon root.\n\n", theme, icons.IndexFile)
	} else {
		title := d.Name
		if title == "" {
			title = theme
		}
		fmt.Fprintf(&sb, "# %s\n\n", title)
		if d.Comment != "" {
			fmt.Fprintf(&sb, "%s\n\n", d.Comment)
		}
		fmt.Fprintf(&sb, "**Index:** `%s`  \n", path)
		fmt.Fprintf(&sb, "**Directories:** %d  \n", len(d.Directories))
		if len(d.Inherits) > 0 {
			fmt.Fprintf(&sb, "**Inherits:** %s\n\n", strings.Join(d.Inherits, ", "))
		} else {
			sb.WriteString("**Inherits:** (none)\n\n")
		}
	}

	sb.WriteString("## Search order\n\n")
	for i, t := range r.Chain(theme) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}

	if ok && len(d.Directories) > 0 {
		sb.WriteString("\n## Directories\n\n")
		for _, dir := range d.Directories {
			fmt.Fprintf(&sb, "- `%s`\n", dir)
		}
	}
	return sb.String()
}
