package openai

import (
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
)

// ToSDKParams maps a built payload onto the official SDK's request params so
// a host can send it with openai-go. Fields without a typed SDK slot (top_k,
// min_p, repetition_penalty, reasoning) are carried as extra body fields.
func ToSDKParams(p Payload) openaisdk.ChatCompletionNewParams {
	params := openaisdk.ChatCompletionNewParams{
		Model:    p.Model,
		Messages: make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(p.Messages)),
	}

	for _, m := range p.Messages {
		switch m.Role {
		case role.System:
			params.Messages = append(params.Messages, openaisdk.SystemMessage(m.Content))
		case role.Assistant:
			params.Messages = append(params.Messages, openaisdk.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openaisdk.UserMessage(m.Content))
		}
	}

	if p.Temperature != nil {
		params.Temperature = openaisdk.Float(*p.Temperature)
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(p.MaxTokens))
	}
	if p.TopP != nil {
		params.TopP = openaisdk.Float(*p.TopP)
	}
	if p.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openaisdk.Float(p.FrequencyPenalty)
	}
	if p.PresencePenalty != 0 {
		params.PresencePenalty = openaisdk.Float(p.PresencePenalty)
	}
	if len(p.Stop) > 0 {
		params.Stop = openaisdk.ChatCompletionNewParamsStopUnion{OfStringArray: p.Stop}
	}

	if rf := p.ResponseFormat; rf != nil {
		switch rf.Type {
		case config.ResponseJSONObject:
			params.ResponseFormat = openaisdk.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			}
		case config.ResponseJSONSchema:
			if rf.JSONSchema != nil {
				js := shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   rf.JSONSchema.Name,
					Schema: rf.JSONSchema.Schema,
				}
				if rf.JSONSchema.Strict != nil {
					js.Strict = openaisdk.Bool(*rf.JSONSchema.Strict)
				}
				params.ResponseFormat = openaisdk.ChatCompletionNewParamsResponseFormatUnion{
					OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{JSONSchema: js},
				}
			}
		}
	}

	for _, t := range p.Tools {
		if t.Type != "function" || t.Function == nil {
			continue
		}

		fn := shared.FunctionDefinitionParam{
			Name:       t.Function.Name,
			Parameters: t.Function.Parameters,
		}
		if t.Function.Description != "" {
			fn.Description = openaisdk.String(t.Function.Description)
		}

		params.Tools = append(params.Tools, openaisdk.ChatCompletionToolParam{Function: fn})
	}

	if p.ToolChoice != "" {
		params.ToolChoice = openaisdk.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openaisdk.String(string(p.ToolChoice)),
		}
	}

	extra := make(map[string]any)
	if p.TopK > 0 {
		extra["top_k"] = p.TopK
	}
	if p.MinP != 0 {
		extra["min_p"] = p.MinP
	}
	if p.RepetitionPenalty != 0 {
		extra["repetition_penalty"] = p.RepetitionPenalty
	}
	if p.Reasoning != nil {
		extra["reasoning"] = map[string]any{"effort": string(p.Reasoning.Effort)}
	}
	if len(extra) > 0 {
		params.SetExtraFields(extra)
	}

	return params
}
