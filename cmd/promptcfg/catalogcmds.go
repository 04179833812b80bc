package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/picker"
	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
	"github.com/germanamz/promptcfg/pkg/catalog"
	"github.com/germanamz/promptcfg/pkg/format"
	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/payloads/openai"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
)

func modelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse the model catalog",
	}

	cmd.PersistentFlags().BoolVar(&a.refresh, "refresh", false, "refetch the catalog instead of using the cached copy")

	cmd.AddCommand(
		modelsListCmd(a),
		modelsSearchCmd(a),
		modelsShowCmd(a),
		modelsProvidersCmd(a),
		modelsPickCmd(a),
	)

	return cmd
}

func modelsListCmd(a *app) *cobra.Command {
	var providers []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, fallback := a.models(cmd.Context())
			printModels(cmd.OutOrStdout(), catalog.Search(models, "", providers...), fallback)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&providers, "provider", "p", nil, "only show these provider prefixes")

	return cmd
}

func modelsSearchCmd(a *app) *cobra.Command {
	var providers []string

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search models by id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, fallback := a.models(cmd.Context())
			printModels(cmd.OutOrStdout(), catalog.Search(models, args[0], providers...), fallback)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&providers, "provider", "p", nil, "only search these provider prefixes")

	return cmd
}

func modelsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one model's catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, _ := a.models(cmd.Context())

			m, ok := catalog.FindByID(models, args[0])
			if !ok {
				return fmt.Errorf("model %q not found in catalog", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.TitleStyle.Render(m.ID))
			if m.Name != "" {
				fmt.Fprintln(out, m.Name)
			}
			fmt.Fprintf(out, "context      %s\n", format.ContextLength(m.ContextLength))
			fmt.Fprintf(out, "prompt       %s\n", format.Price(m.PromptPrice()))
			fmt.Fprintf(out, "completion   %s\n", format.Price(m.CompletionPrice()))
			if m.TopProvider != nil && m.TopProvider.MaxCompletionTokens > 0 {
				fmt.Fprintf(out, "max output   %s\n", format.ContextLength(m.TopProvider.MaxCompletionTokens))
			}
			if m.Architecture != nil && m.Architecture.Modality != "" {
				fmt.Fprintf(out, "modality     %s\n", m.Architecture.Modality)
			}
			if len(m.SupportedParameters) > 0 {
				fmt.Fprintf(out, "parameters   %s\n", strings.Join(m.SupportedParameters, ", "))
			}

			return nil
		},
	}
}

func modelsProvidersCmd(a *app) *cobra.Command {
	var allow []string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Count models per provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, fallback := a.models(cmd.Context())

			table := newTable(cmd.OutOrStdout(), "Provider", "Models")
			for _, pc := range catalog.GroupByProvider(models, allow...) {
				table.Append([]string{pc.Prefix, strconv.Itoa(pc.Count)})
			}
			table.Render()

			if fallback {
				fmt.Fprintln(cmd.OutOrStdout(), styles.WarningStyle.Render("catalog unavailable; showing the offline list"))
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&allow, "only", nil, "count only these provider prefixes")

	return cmd
}

func modelsPickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pick FILE",
		Short: "Choose a model interactively and save it into FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(args[0])
			if err != nil {
				return err
			}

			models, _ := a.models(cmd.Context())

			id, ok, err := picker.Run(models, c.Model)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("cancelled"))
				return nil
			}

			if err := config.Save(args[0], c.WithModel(id)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s model set to %s\n", styles.SuccessStyle.Render("✓"), id)

			return nil
		},
	}
}

func costCmd(a *app) *cobra.Command {
	var (
		outputTokens int
		vars         []string
	)

	cmd := &cobra.Command{
		Use:   "cost FILE",
		Short: "Estimate the USD cost of one request",
		Long: `Cost estimates input tokens from the rendered messages and tool
definitions (about four characters per token) and prices them with the
catalog entry of the configuration's model. Output tokens default to the
configuration's maxTokens.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseVars(vars)
			if err != nil {
				return err
			}

			c, err := config.Load(args[0])
			if err != nil {
				return err
			}

			input, err := inputTokens(c, overrides)
			if err != nil {
				return err
			}

			output := outputTokens
			if output <= 0 {
				output = c.MaxTokens
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model          %s\n", c.Model)
			fmt.Fprintf(out, "input tokens   ~%d\n", input)
			fmt.Fprintf(out, "output tokens  %d\n", output)

			models, _ := a.models(cmd.Context())
			m, ok := catalog.FindByID(models, c.Model)
			if !ok {
				fmt.Fprintf(out, "cost           %s\n", styles.DimStyle.Render("model not in catalog"))
				return nil
			}

			cost, ok := format.EstimateCost(input, output, ratePtr(m.PromptPrice()), ratePtr(m.CompletionPrice()))
			if !ok {
				fmt.Fprintf(out, "cost           %s\n", styles.DimStyle.Render("no pricing"))
				return nil
			}

			fmt.Fprintf(out, "cost           %s\n", cost)

			return nil
		},
	}

	cmd.Flags().IntVarP(&outputTokens, "output-tokens", "o", 0, "expected completion tokens (default: the configuration's maxTokens)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")

	return cmd
}

// inputTokens estimates the prompt side of c's OpenAI-style request.
func inputTokens(c config.Config, vars map[string]string) (int, error) {
	_, msgs := openai.Build(c, vars)

	toolBytes := 0
	if len(c.Tools) > 0 {
		data, err := json.Marshal(c.Tools)
		if err != nil {
			return 0, fmt.Errorf("encode tools: %w", err)
		}
		toolBytes = len(data)
	}

	return payloads.EstimateInputTokens(msgs, len(c.Tools), toolBytes), nil
}

func ratePtr(price string) *float64 {
	v, ok := format.CostPerMillion(price)
	if !ok {
		return nil
	}
	return &v
}

func printModels(w io.Writer, models []catalog.Model, fallback bool) {
	if len(models) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render("no models match"))
		return
	}

	table := newTable(w, "ID", "Name", "Context", "Prompt", "Completion")
	for _, m := range models {
		table.Append([]string{
			m.ID,
			m.Name,
			format.ContextLength(m.ContextLength),
			format.Price(m.PromptPrice()),
			format.Price(m.CompletionPrice()),
		})
	}
	table.Render()

	if fallback {
		fmt.Fprintln(w, styles.WarningStyle.Render("catalog unavailable; showing the offline list"))
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
