package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/format"
	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/preview"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/template"
)

func newCmd(a *app) *cobra.Command {
	var (
		name  string
		model string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Write a default configuration with a fresh id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			c := config.New(name, model)
			if err := config.Save(path, c); err != nil {
				return err
			}

			a.log.DebugContext(cmd.Context(), "configuration created", "path", path, "id", c.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", styles.SuccessStyle.Render("created"), path, c.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Untitled", "display name")
	cmd.Flags().StringVar(&model, "model", "openai/gpt-4o", "provider-qualified model id")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func renderCmd(a *app) *cobra.Command {
	var (
		target string
		vars   []string
		pretty bool
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE|GLOB...",
		Short: "Print the provider payload of one or more configurations",
		Long: `Render builds the request body for --target (openai, openrouter, anthropic
or langchain). Template variables come from the configuration's sample inputs,
overridden by --var name=value. Nothing is sent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseVars(vars)
			if err != nil {
				return err
			}

			files, err := expandArgs(args)
			if err != nil {
				return err
			}

			results := make(map[string]any, len(files))
			var docs []string

			for _, path := range files {
				c, err := config.Load(path)
				if err != nil {
					return err
				}

				resp, err := preview.Render(preview.Request{Config: c, Variables: overrides, Target: preview.Target(target)})
				if err != nil {
					return err
				}

				if len(resp.Missing) > 0 {
					a.log.WarnContext(cmd.Context(), "unresolved template variables", "path", path, "missing", resp.Missing)
				}

				if pretty {
					doc, err := markdownPreview(path, resp)
					if err != nil {
						return err
					}
					docs = append(docs, doc)
					continue
				}

				if full {
					results[path] = resp
				} else {
					results[path] = resp.Payload
				}
			}

			out := cmd.OutOrStdout()

			if pretty {
				fmt.Fprintln(out, format.RenderMarkdown(strings.Join(docs, "\n\n---\n\n"), terminalWidth(out), true))
				return nil
			}

			if len(files) == 1 {
				return writeJSON(out, results[files[0]])
			}
			return writeJSON(out, results)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", string(preview.TargetOpenAI), "payload target: openai, openrouter, anthropic, langchain")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render a markdown preview instead of JSON")
	cmd.Flags().BoolVar(&full, "full", false, "print messages and variable bookkeeping along with the payload")

	return cmd
}

func varsCmd(_ *app) *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "vars FILE",
		Short: "List template variables and where their values come from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseVars(vars)
			if err != nil {
				return err
			}

			c, err := config.Load(args[0])
			if err != nil {
				return err
			}

			rows := variableRows(c, overrides)
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styles.DimStyle.Render("no template variables"))
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "Variable", "Value", "Source")
			for _, r := range rows {
				table.Append([]string{r[0], r[1], styleSource(r[2])})
			}
			table.Render()

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")

	return cmd
}

// variableRows lists the user template's variables with value and source:
// "--var", "sample" or "missing".
func variableRows(c config.Config, overrides map[string]string) [][]string {
	merged := payloads.MergeVariables(c, overrides)

	var rows [][]string
	for _, name := range template.ExtractVariables(c.UserPromptTemplate) {
		v, ok := merged[name]
		switch {
		case !ok:
			rows = append(rows, []string{name, "", "missing"})
		case hasKey(overrides, name):
			rows = append(rows, []string{name, format.Truncate(v, 40), "--var"})
		default:
			rows = append(rows, []string{name, format.Truncate(v, 40), "sample"})
		}
	}

	return rows
}

// styleSource colours the source column: missing values stand out, set ones
// are green.
func styleSource(source string) string {
	if source == "missing" {
		return styles.VarMissingStyle.Render(source)
	}
	return styles.VarSetStyle.Render(source)
}

func hasKey(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}

func diffCmd(_ *app) *cobra.Command {
	var (
		target string
		vars   []string
	)

	cmd := &cobra.Command{
		Use:   "diff A B",
		Short: "Show a unified diff of the payloads of two configurations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseVars(vars)
			if err != nil {
				return err
			}

			var bodies [2]string
			for i, path := range args {
				c, err := config.Load(path)
				if err != nil {
					return err
				}

				resp, err := preview.Render(preview.Request{Config: c, Variables: overrides, Target: preview.Target(target)})
				if err != nil {
					return err
				}

				data, err := json.MarshalIndent(resp.Payload, "", "  ")
				if err != nil {
					return fmt.Errorf("encode payload: %w", err)
				}
				bodies[i] = string(data) + "\n"
			}

			diff, err := payloadDiff(args[0], args[1], bodies[0], bodies[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if diff == "" {
				fmt.Fprintln(out, styles.DimStyle.Render("payloads are identical"))
				return nil
			}

			fmt.Fprint(out, colorizeDiff(diff))

			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", string(preview.TargetOpenAI), "payload target: openai, openrouter, anthropic, langchain")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")

	return cmd
}

// payloadDiff returns a unified diff of two rendered payloads, or "" when
// they are equal.
func payloadDiff(fromName, toName, from, to string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}

	return out, nil
}

var (
	diffAdd  = color.New(color.FgGreen)
	diffDel  = color.New(color.FgRed)
	diffHunk = color.New(color.FgCyan)
	diffHead = color.New(color.Bold)
)

func colorizeDiff(diff string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			sb.WriteString(diffHead.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			sb.WriteString(diffHunk.Sprint(line))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(diffAdd.Sprint(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(diffDel.Sprint(line))
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE|GLOB...",
		Short: "Check configurations for out-of-range values and malformed schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range files {
				c, err := config.Load(path)
				if err == nil {
					err = c.Validate()
				}

				if err != nil {
					failed++
					a.log.DebugContext(cmd.Context(), "validation failed", "path", path, "error", err)
					fmt.Fprintf(out, "%s %s\n", styles.ErrorStyle.Render("✗"), path)
					for _, line := range strings.Split(err.Error(), "\n") {
						fmt.Fprintf(out, "    %s\n", line)
					}
					continue
				}

				fmt.Fprintf(out, "%s %s\n", styles.SuccessStyle.Render("✓"), path)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d configurations invalid", failed, len(files))
			}

			return nil
		},
	}
}

// expandArgs expands glob arguments. Plain paths pass through unchanged; a
// glob that matches nothing is an error.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			files = append(files, arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q: %w", arg, errNoMatch)
		}

		files = append(files, matches...)
	}

	return files, nil
}

var errNoMatch = errors.New("no files match")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	return nil
}

// markdownPreview renders one rendered configuration as markdown.
func markdownPreview(path string, resp preview.Response) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s · %s\n\n", path, resp.Target)

	if len(resp.Messages) > 0 {
		sb.WriteString("**Messages**\n\n")
		for _, m := range resp.Messages {
			fmt.Fprintf(&sb, "- `%s`: %s\n", m.Role, strings.ReplaceAll(m.Content, "\n", " "))
		}
		sb.WriteString("\n")
	}

	if len(resp.Missing) > 0 {
		fmt.Fprintf(&sb, "**Missing variables:** `%s`\n\n", strings.Join(resp.Missing, "`, `"))
	}

	data, err := json.MarshalIndent(resp.Payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	sb.WriteString("```json\n")
	sb.Write(data)
	sb.WriteString("\n```\n")

	return sb.String(), nil
}
