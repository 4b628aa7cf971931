package cmd

import (
	"context"
	"fmt"
	"strings"

	"hyprdash/internal/icons"
	"hyprdash/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing icon lookup and the application index",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	s := newMCPServer(st, newResolver(), cfg.IconTheme)
	return mcpserver.ServeStdio(s)
}

func newMCPServer(st store.Store, r *icons.Resolver, defaultTheme string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("hyprdash", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(resolveIconTool(), makeResolveIconHandler(r, defaultTheme))
	s.AddTool(listApplicationsTool(), makeListApplicationsHandler(st))
	s.AddTool(describeThemeTool(), makeDescribeThemeHandler(r, defaultTheme))
	return s
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func resolveIconTool() mcp.Tool {
	return mcp.NewTool("resolve_icon",
		mcp.WithDescription("Resolve a freedesktop icon name (or absolute path) to an image file, searching the theme, its ancestors, hicolor and pixmaps."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Icon name as written in a desktop entry's Icon= key, e.g. 'firefox'"),
		),
		mcp.WithString("theme",
			mcp.Description("Preferred icon theme (default: configured theme)"),
		),
	)
}

func listApplicationsTool() mcp.Tool {
	return mcp.NewTool("list_applications",
		mcp.WithDescription("List indexed applications with their exec line and resolved icon path."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive filter on name and comment"),
		),
	)
}

func describeThemeTool() mcp.Tool {
	return mcp.NewTool("describe_theme",
		mcp.WithDescription("Show an icon theme's index.theme metadata and the order themes are searched in."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("theme",
			mcp.Description("Theme directory name (default: configured theme, else hicolor)"),
		),
	)
}

// --- Handler factories ---

func makeResolveIconHandler(r *icons.Resolver, defaultTheme string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		theme := req.GetString("theme", defaultTheme)

		path, ok, err := r.Resolve(name, theme)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
		}
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("Icon %q not found (theme %q).", name, theme)), nil
		}
		return mcp.NewToolResultText(path), nil
	}
}

func makeListApplicationsHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := strings.TrimSpace(req.GetString("query", ""))

		var (
			apps []store.App
			err  error
		)
		if query == "" {
			apps, err = st.ListApps()
		} else {
			apps, err = st.SearchApps(query)
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list applications failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatApps(query, apps)), nil
	}
}

func makeDescribeThemeHandler(r *icons.Resolver, defaultTheme string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		theme := req.GetString("theme", defaultTheme)
		if theme == "" {
			theme = icons.HiColor
		}
		return mcp.NewToolResultText(themeMarkdown(r, theme)), nil
	}
}

// --- Formatting helpers ---

func formatApps(query string, apps []store.App) string {
	var sb strings.Builder
	if query != "" {
		fmt.Fprintf(&sb, "## Applications matching %q (%d)\n\n", query, len(apps))
	} else {
		fmt.Fprintf(&sb, "## Applications (%d)\n\n", len(apps))
	}

	for _, a := range apps {
		icon := a.IconPath
		if !a.HasIcon() {
			icon = "(no icon)"
		}
		fmt.Fprintf(&sb, "- **%s** `%s`: `%s`, icon %s\n", a.Name, a.DesktopID, a.Exec, icon)
	}
	return sb.String()
}
