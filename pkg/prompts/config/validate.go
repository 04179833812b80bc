package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("config: invalid")

// Validate checks parameter domains, enum values, tool definitions and the
// well-formedness of every embedded JSON schema. All problems are reported
// together. Payload builders do not require a valid Config.
func (c Config) Validate() error {
	var errs []error

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	if c.Temperature != nil {
		check(inRange(*c.Temperature, 0, 2), "temperature %v outside [0, 2]", *c.Temperature)
	}
	if c.TopP != nil {
		check(inRange(*c.TopP, 0, 1), "topP %v outside [0, 1]", *c.TopP)
	}
	check(c.MaxTokens >= 0, "maxTokens %d is negative", c.MaxTokens)
	check(c.TopK >= 0 && c.TopK <= 500, "topK %d outside [0, 500]", c.TopK)
	check(inRange(c.FrequencyPenalty, -2, 2), "frequencyPenalty %v outside [-2, 2]", c.FrequencyPenalty)
	check(inRange(c.PresencePenalty, -2, 2), "presencePenalty %v outside [-2, 2]", c.PresencePenalty)
	check(inRange(c.RepetitionPenalty, 0, 2), "repetitionPenalty %v outside [0, 2]", c.RepetitionPenalty)
	check(inRange(c.MinP, 0, 1), "minP %v outside [0, 1]", c.MinP)

	switch c.ResponseFormat {
	case "", ResponseText, ResponseJSONObject:
	case ResponseJSONSchema:
		if c.JSONSchema != nil {
			check(c.JSONSchema.Name != "", "jsonSchema name is required")
			if err := resolveSchema(c.JSONSchema.Schema); err != nil {
				errs = append(errs, fmt.Errorf("%w: jsonSchema: %w", ErrInvalid, err))
			}
		}
	default:
		check(false, "unknown responseFormat %q", c.ResponseFormat)
	}

	switch c.ToolChoice {
	case "", ToolChoiceAuto, ToolChoiceNone, ToolChoiceRequired:
	default:
		check(false, "unknown toolChoice %q", c.ToolChoice)
	}

	switch c.ReasoningEffort {
	case "", EffortLow, EffortMedium, EffortHigh:
	default:
		check(false, "unknown reasoningEffort %q", c.ReasoningEffort)
	}

	names := make(map[string]struct{}, len(c.Tools))
	for i, t := range c.Tools {
		if t.Type != "function" {
			continue
		}
		if t.Function == nil || t.Function.Name == "" {
			check(false, "tools[%d]: function name is required", i)
			continue
		}
		if _, dup := names[t.Function.Name]; dup {
			check(false, "tools[%d]: duplicate function name %q", i, t.Function.Name)
		}
		names[t.Function.Name] = struct{}{}

		if t.Function.Parameters != nil {
			if err := resolveSchema(t.Function.Parameters); err != nil {
				errs = append(errs, fmt.Errorf("%w: tools[%d] %q parameters: %w", ErrInvalid, i, t.Function.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// resolveSchema round-trips a JSON-like schema through jsonschema.Schema and
// resolves it, which rejects unknown types, bad patterns and dangling refs.
func resolveSchema(m map[string]any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	if _, err := s.Resolve(nil); err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}

	return nil
}
