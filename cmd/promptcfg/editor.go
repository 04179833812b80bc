package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
)

// Editor working type. Numbers are kept as strings so an empty field can
// mean "unset" in the form.
type editorConfig struct {
	Name        string
	Description string
	Model       string

	SystemPrompt       string
	UserPromptTemplate string

	Temperature       string
	TopP              string
	MaxTokens         string
	TopK              string
	FrequencyPenalty  string
	PresencePenalty   string
	RepetitionPenalty string
	MinP              string
	StopSequences     string // comma-separated

	ResponseFormat  string
	ToolChoice      string
	Reasoning       bool
	ReasoningEffort string

	SampleInputs string // one name=value per line
}

func editCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a configuration in an interactive form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			c, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ec := configToEditor(c)

			for {
				save, err := editorMenu(&ec)
				if err != nil {
					return err
				}
				if !save {
					fmt.Fprintln(out, styles.DimStyle.Render("discarded changes"))
					return nil
				}

				updated, err := editorToConfig(c, ec)
				if err == nil {
					err = updated.Validate()
				}
				if err != nil {
					reportInvalid(out, err)
					continue
				}

				if err := config.Save(path, updated); err != nil {
					return err
				}

				a.log.DebugContext(cmd.Context(), "configuration saved", "path", path)
				fmt.Fprintf(out, "%s saved %s\n", styles.SuccessStyle.Render("✓"), path)

				return nil
			}
		},
	}
}

func reportInvalid(w io.Writer, err error) {
	fmt.Fprintln(w, styles.ErrorStyle.Render("configuration is invalid; returning to the menu"))
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// configToEditor converts a Config to the editor working model.
func configToEditor(c config.Config) editorConfig {
	ec := editorConfig{
		Name:               c.Name,
		Description:        c.Description,
		Model:              c.Model,
		SystemPrompt:       c.SystemPrompt,
		UserPromptTemplate: c.UserPromptTemplate,
		Temperature:        formatFloatPtr(c.Temperature),
		TopP:               formatFloatPtr(c.TopP),
		MaxTokens:          formatInt(c.MaxTokens),
		TopK:               formatInt(c.TopK),
		FrequencyPenalty:   formatFloat(c.FrequencyPenalty),
		PresencePenalty:    formatFloat(c.PresencePenalty),
		RepetitionPenalty:  formatFloat(c.RepetitionPenalty),
		MinP:               formatFloat(c.MinP),
		StopSequences:      strings.Join(c.StopSequences, ", "),
		ResponseFormat:     string(c.ResponseFormat),
		ToolChoice:         string(c.ToolChoice),
		Reasoning:          c.Reasoning,
		ReasoningEffort:    string(c.ReasoningEffort),
	}

	if ec.ResponseFormat == "" {
		ec.ResponseFormat = string(config.ResponseText)
	}
	if ec.ToolChoice == "" {
		ec.ToolChoice = string(config.ToolChoiceAuto)
	}
	if ec.ReasoningEffort == "" {
		ec.ReasoningEffort = string(config.EffortMedium)
	}

	lines := make([]string, 0, len(c.SampleInputs))
	for _, k := range slices.Sorted(maps.Keys(c.SampleInputs)) {
		lines = append(lines, k+"="+c.SampleInputs[k])
	}
	ec.SampleInputs = strings.Join(lines, "\n")

	return ec
}

// editorToConfig applies the editor model on top of base. Fields the editor
// does not show (id, tools, schema, metadata) are kept from base.
func editorToConfig(base config.Config, ec editorConfig) (config.Config, error) {
	c := base.Clone()
	var errs []error

	c.Name = strings.TrimSpace(ec.Name)
	c.Description = strings.TrimSpace(ec.Description)
	c.Model = strings.TrimSpace(ec.Model)
	c.SystemPrompt = ec.SystemPrompt
	c.UserPromptTemplate = ec.UserPromptTemplate

	var err error
	if c.Temperature, err = parseFloatPtr(ec.Temperature); err != nil {
		errs = append(errs, fmt.Errorf("temperature: %w", err))
	}
	if c.TopP, err = parseFloatPtr(ec.TopP); err != nil {
		errs = append(errs, fmt.Errorf("topP: %w", err))
	}
	if c.MaxTokens, err = parseInt(ec.MaxTokens); err != nil {
		errs = append(errs, fmt.Errorf("maxTokens: %w", err))
	}
	if c.TopK, err = parseInt(ec.TopK); err != nil {
		errs = append(errs, fmt.Errorf("topK: %w", err))
	}
	if c.FrequencyPenalty, err = parseFloat(ec.FrequencyPenalty); err != nil {
		errs = append(errs, fmt.Errorf("frequencyPenalty: %w", err))
	}
	if c.PresencePenalty, err = parseFloat(ec.PresencePenalty); err != nil {
		errs = append(errs, fmt.Errorf("presencePenalty: %w", err))
	}
	if c.RepetitionPenalty, err = parseFloat(ec.RepetitionPenalty); err != nil {
		errs = append(errs, fmt.Errorf("repetitionPenalty: %w", err))
	}
	if c.MinP, err = parseFloat(ec.MinP); err != nil {
		errs = append(errs, fmt.Errorf("minP: %w", err))
	}

	c.StopSequences = nil
	for _, s := range strings.Split(ec.StopSequences, ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.StopSequences = append(c.StopSequences, s)
		}
	}

	c.ResponseFormat = config.ResponseFormat(ec.ResponseFormat)
	c.ToolChoice = config.ToolChoice(ec.ToolChoice)
	c.Reasoning = ec.Reasoning
	c.ReasoningEffort = config.ReasoningEffort(ec.ReasoningEffort)

	inputs, err := parseSampleInputs(ec.SampleInputs)
	if err != nil {
		errs = append(errs, err)
	}
	c.SampleInputs = inputs

	if err := errors.Join(errs...); err != nil {
		return base, err
	}

	return c, nil
}

// editorMenu shows the top-level menu until the user saves or quits. save is
// false when the user quits without saving.
func editorMenu(ec *editorConfig) (save bool, err error) {
	for {
		var choice string

		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Prompt configuration").
				Options(
					huh.NewOption("Name & model", "identity"),
					huh.NewOption("Prompts", "prompts"),
					huh.NewOption("Sampling", "sampling"),
					huh.NewOption("Output & tools", "output"),
					huh.NewOption("Sample inputs", "inputs"),
					huh.NewOption("Save & exit", "save"),
					huh.NewOption("Quit without saving", "quit"),
				).
				Value(&choice),
		)).Run()
		if err != nil {
			return false, err
		}

		var form *huh.Form
		switch choice {
		case "identity":
			form = identityForm(ec)
		case "prompts":
			form = promptsForm(ec)
		case "sampling":
			form = samplingForm(ec)
		case "output":
			form = outputForm(ec)
		case "inputs":
			form = huh.NewForm(huh.NewGroup(
				huh.NewText().Title("Sample inputs (name=value per line)").Value(&ec.SampleInputs).
					Validate(func(s string) error { _, err := parseSampleInputs(s); return err }),
			))
		case "save":
			return true, nil
		case "quit":
			return false, nil
		}

		if form == nil {
			continue
		}
		if err := form.Run(); err != nil {
			return false, err
		}
	}
}

func identityForm(ec *editorConfig) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&ec.Name),
		huh.NewInput().Title("Description").Value(&ec.Description),
		huh.NewInput().Title("Model (provider/model)").Value(&ec.Model),
	))
}

func promptsForm(ec *editorConfig) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewText().Title("System prompt").Value(&ec.SystemPrompt),
		huh.NewText().Title("User prompt template ({{variable}} placeholders)").Value(&ec.UserPromptTemplate),
	))
}

func samplingForm(ec *editorConfig) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Temperature (0-2, empty = unset)").Value(&ec.Temperature).Validate(validateOptionalFloat),
			huh.NewInput().Title("Top P (0-1, empty = unset)").Value(&ec.TopP).Validate(validateOptionalFloat),
			huh.NewInput().Title("Max tokens (0 = unset)").Value(&ec.MaxTokens).Validate(validateOptionalInt),
			huh.NewInput().Title("Top K (0 = unset)").Value(&ec.TopK).Validate(validateOptionalInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("Frequency penalty (-2 to 2)").Value(&ec.FrequencyPenalty).Validate(validateOptionalFloat),
			huh.NewInput().Title("Presence penalty (-2 to 2)").Value(&ec.PresencePenalty).Validate(validateOptionalFloat),
			huh.NewInput().Title("Repetition penalty (0-2)").Value(&ec.RepetitionPenalty).Validate(validateOptionalFloat),
			huh.NewInput().Title("Min P (0-1)").Value(&ec.MinP).Validate(validateOptionalFloat),
			huh.NewInput().Title("Stop sequences (comma-separated)").Value(&ec.StopSequences),
		).Title("Penalties"),
	)
}

func outputForm(ec *editorConfig) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Response format").
			Options(
				huh.NewOption("Text", string(config.ResponseText)),
				huh.NewOption("JSON object", string(config.ResponseJSONObject)),
				huh.NewOption("JSON schema", string(config.ResponseJSONSchema)),
			).
			Value(&ec.ResponseFormat),
		huh.NewSelect[string]().
			Title("Tool choice").
			Options(
				huh.NewOption("Auto", string(config.ToolChoiceAuto)),
				huh.NewOption("None", string(config.ToolChoiceNone)),
				huh.NewOption("Required", string(config.ToolChoiceRequired)),
			).
			Value(&ec.ToolChoice),
		huh.NewConfirm().Title("Reasoning").Value(&ec.Reasoning),
		huh.NewSelect[string]().
			Title("Reasoning effort").
			Options(
				huh.NewOption("Low", string(config.EffortLow)),
				huh.NewOption("Medium", string(config.EffortMedium)),
				huh.NewOption("High", string(config.EffortHigh)),
			).
			Value(&ec.ReasoningEffort),
	))
}

func parseSampleInputs(s string) (map[string]string, error) {
	var inputs map[string]string
	for i, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("sample inputs line %d: want name=value", i+1)
		}

		if inputs == nil {
			inputs = make(map[string]string)
		}
		inputs[k] = v
	}
	return inputs, nil
}

func validateOptionalFloat(s string) error {
	_, err := parseFloat(s)
	return err
}

func validateOptionalInt(s string) error {
	_, err := parseInt(s)
	return err
}

func parseFloatPtr(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return v, nil
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
