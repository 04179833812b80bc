package payloads

import (
	"math"
	"strings"

	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
	"github.com/germanamz/promptcfg/pkg/prompts/template"
)

// Message is one chat message of a generated payload.
type Message struct {
	Role    role.Role `json:"role"`
	Content string    `json:"content"`
}

// MergeVariables layers call-time variables over the configuration's sample
// inputs. Call-time values win on collision.
func MergeVariables(c config.Config, vars map[string]string) map[string]string {
	return template.Merge(c.SampleInputs, vars)
}

// ResolveUserPrompt resolves the user template of c against its merged
// variables.
func ResolveUserPrompt(c config.Config, vars map[string]string) string {
	return template.Resolve(c.UserPromptTemplate, MergeVariables(c, vars))
}

// StripProvider returns the last "/"-separated segment of a model id. An id
// without "/" is returned unchanged.
func StripProvider(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

// Finite reports whether v can be encoded as a JSON number. Builders treat
// NaN and infinities as unset.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
