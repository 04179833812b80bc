// Package payloads translates a prompt configuration into provider request
// bodies.
//
// It is organized into sub-packages, one per target integration:
//   - [github.com/germanamz/promptcfg/pkg/payloads/openai]: OpenAI-compatible chat completions (also OpenRouter)
//   - [github.com/germanamz/promptcfg/pkg/payloads/anthropic]: Anthropic Messages API
//   - [github.com/germanamz/promptcfg/pkg/payloads/langchain]: prompt templates and model kwargs for orchestration frameworks
//
// Every builder is a pure function of a config.Config and an optional variable
// map. Each target has its own field rules; defaults and wire names differ
// per target.
package payloads
