// Package preview turns configurations into provider payloads for live
// previews, both as a plain function and over HTTP and WebSocket.
package preview

import (
	"errors"
	"fmt"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/payloads/anthropic"
	"github.com/germanamz/promptcfg/pkg/payloads/langchain"
	"github.com/germanamz/promptcfg/pkg/payloads/openai"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/template"
)

// Target names a payload builder.
type Target string

const (
	TargetOpenAI     Target = "openai"
	TargetOpenRouter Target = "openrouter"
	TargetAnthropic  Target = "anthropic"
	TargetLangChain  Target = "langchain"
)

// Targets lists every supported target.
var Targets = []Target{TargetOpenAI, TargetOpenRouter, TargetAnthropic, TargetLangChain}

// ErrUnknownTarget is returned by Render for a target outside Targets.
var ErrUnknownTarget = errors.New("unknown target")

// Request asks for the payload of Config for Target.
type Request struct {
	Config    config.Config     `json:"config"`
	Variables map[string]string `json:"variables,omitempty"`
	Target    Target            `json:"target"`
}

// Response carries the built payload and the template bookkeeping a preview
// pane shows next to it.
type Response struct {
	Target         Target             `json:"target"`
	Payload        any                `json:"payload"`
	Messages       []payloads.Message `json:"messages"`
	InputVariables []string           `json:"inputVariables"`
	Missing        []string           `json:"missing"`
}

// LangChainPayload is the langchain target's payload.
type LangChainPayload struct {
	Prompt langchain.PromptTemplate `json:"prompt"`
	Client langchain.ClientTarget   `json:"client"`
}

// Render builds the payload for req.
func Render(req Request) (Response, error) {
	resp := Response{
		Target:         req.Target,
		InputVariables: nonNil(template.ExtractVariables(req.Config.UserPromptTemplate)),
		Missing:        nonNil(template.Missing(req.Config.UserPromptTemplate, payloads.MergeVariables(req.Config, req.Variables))),
	}

	switch req.Target {
	case TargetOpenAI:
		resp.Payload, resp.Messages = openai.Build(req.Config, req.Variables)
	case TargetOpenRouter:
		resp.Payload, resp.Messages = openai.BuildOpenRouter(req.Config, req.Variables)
	case TargetAnthropic:
		resp.Payload, resp.Messages = anthropic.Build(req.Config, req.Variables)
	case TargetLangChain:
		pt := langchain.ToPromptTemplate(req.Config)
		resp.Payload = LangChainPayload{Prompt: pt, Client: langchain.ClientTargetFor(req.Config)}
		resp.Messages = pt.Messages()
	default:
		return Response{}, fmt.Errorf("preview: %w %q", ErrUnknownTarget, req.Target)
	}

	if resp.Messages == nil {
		resp.Messages = []payloads.Message{}
	}

	return resp, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
