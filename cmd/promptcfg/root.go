package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/germanamz/promptcfg/pkg/appenv"
	"github.com/germanamz/promptcfg/pkg/catalog"
)

// app carries state shared by every command.
type app struct {
	settings appenv.Settings
	log      *slog.Logger

	// fetcher overrides the catalog client; tests set it.
	fetcher catalog.Fetcher
	cache   *catalog.Cache

	// refresh drops the cached catalog before the next lookup.
	refresh bool
}

func newRootCmd(a *app) *cobra.Command {
	var (
		envFile  string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "promptcfg",
		Short:         "Build provider payloads from prompt configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := appenv.Load(cmd.Context(), envFile)
			if err != nil {
				return err
			}

			if logLevel != "" {
				lvl, err := appenv.ParseLevel(logLevel)
				if err != nil {
					return fmt.Errorf("--log-level: %w", err)
				}
				settings.LogLevel = lvl
			}

			a.settings = settings
			a.log = settings.NewLogger(cmd.ErrOrStderr())

			if settings.NoColor {
				color.NoColor = true
			}

			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override PROMPTCFG_LOG_LEVEL (debug, info, warn, error)")

	root.AddGroup(
		&cobra.Group{ID: "config", Title: "Configurations:"},
		&cobra.Group{ID: "catalog", Title: "Model catalog:"},
		&cobra.Group{ID: "host", Title: "Host integration:"},
	)

	for _, c := range []*cobra.Command{newCmd(a), renderCmd(a), varsCmd(a), diffCmd(a), validateCmd(a), editCmd(a)} {
		c.GroupID = "config"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{modelsCmd(a), costCmd(a)} {
		c.GroupID = "catalog"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{toolsCmd(a), serveCmd(a)} {
		c.GroupID = "host"
		root.AddCommand(c)
	}

	return root
}

// catalogCache returns the shared catalog cache, built on first use.
func (a *app) catalogCache() *catalog.Cache {
	if a.cache != nil {
		return a.cache
	}

	f := a.fetcher
	if f == nil {
		f = catalog.NewClient(a.settings.CatalogURL, a.log)
	}

	a.cache = catalog.NewCache(f, a.settings.CatalogTTL, a.log)

	return a.cache
}

// models returns the live catalog, or the offline fallback when the fetch
// fails. fallback reports which one was returned.
func (a *app) models(ctx context.Context) (models []catalog.Model, fallback bool) {
	cache := a.catalogCache()
	if a.refresh {
		cache.Invalidate()
		a.refresh = false
	}

	models, err := cache.Models(ctx)
	if err != nil {
		a.log.WarnContext(ctx, "using offline model list", "error", err)
		return catalog.Fallback(), true
	}
	return models, false
}

// parseVars turns repeated k=v flags into a map.
func parseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", p)
		}
		vars[strings.TrimSpace(k)] = v
	}

	return vars, nil
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return width
}
