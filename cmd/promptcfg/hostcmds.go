package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
	"github.com/germanamz/promptcfg/pkg/mcptools"
	"github.com/germanamz/promptcfg/pkg/preview"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
)

func toolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage a configuration's tool definitions",
	}

	cmd.AddCommand(toolsListCmd(), toolsImportCmd(a))

	return cmd
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "List the function tools of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(args[0])
			if err != nil {
				return err
			}

			if len(c.Tools) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("no tools"))
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "Type", "Name", "Description")
			for _, t := range c.Tools {
				name, desc := "", ""
				if t.Function != nil {
					name, desc = t.Function.Name, t.Function.Description
				}
				table.Append([]string{t.Type, name, desc})
			}
			table.Render()

			return nil
		},
	}
}

func toolsImportCmd(a *app) *cobra.Command {
	var sse string

	cmd := &cobra.Command{
		Use:   "import-mcp FILE [-- COMMAND ARGS...]",
		Short: "Append the tools of an MCP server to a configuration",
		Long: `Import connects to an MCP server, lists its tools and appends them as
function tools. Either spawn a stdio server after "--" or point --sse at a
running one. Tools already present by name are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, server := args[0], args[1:]
			ctx := cmd.Context()

			c, err := config.Load(path)
			if err != nil {
				return err
			}

			var client *mcptools.Client
			switch {
			case sse != "" && len(server) > 0:
				return errors.New("use either --sse or a server command, not both")
			case sse != "":
				client, err = mcptools.DialSSE(ctx, a.log, sse)
			case len(server) > 0:
				client, err = mcptools.Dial(ctx, a.log, server[0], server[1:]...)
			default:
				return errors.New("no MCP server: pass --sse URL or -- COMMAND ARGS")
			}
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck // best-effort shutdown of the server process

			updated, added, err := mcptools.Import(ctx, client, c)
			if err != nil {
				return err
			}

			if added == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("no new tools"))
				return nil
			}

			if err := config.Save(path, updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s imported %d tools into %s\n", styles.SuccessStyle.Render("✓"), added, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&sse, "sse", "", "URL of an SSE MCP server")

	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live payload previews over HTTP and WebSocket",
		Long: `Serve exposes POST /v1/payloads, GET /v1/models and the /v1/ws preview
socket for a browser editor. Allowed browser origins come from
PROMPTCFG_ALLOWED_ORIGINS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.settings.ServeAddr
			}

			srv := preview.New(preview.Options{
				Logger:         a.log,
				Models:         a.catalogCache(),
				AllowedOrigins: a.settings.AllowedOrigins,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "%s listening on http://%s\n", styles.TitleStyle.Render("promptcfg"), addr)

			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default PROMPTCFG_SERVE_ADDR)")

	return cmd
}
