// Package quickstart derives the setup artifacts for a provider selection:
// the init-stack command line and the prompt handed to an AI coding agent.
package quickstart

import "strings"

// CommandPrefix is pasted verbatim into a user's terminal; do not reword it.
const CommandPrefix = "npx @stackframe/init-stack --providers "

// ProviderCSV joins ids with commas in the given order.
func ProviderCSV(ids []string) string {
	return strings.Join(ids, ",")
}

// BuildCommand returns the init-stack invocation for ids, or "" when ids is
// empty. Order is preserved and nothing is deduplicated.
func BuildCommand(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return CommandPrefix + ProviderCSV(ids)
}

// Setup bundles everything derived from one selection.
type Setup struct {
	Providers []string `json:"providers"`
	Command   string   `json:"command"`
	Prompt    string   `json:"prompt"`
}

// Generate derives a Setup. An empty selection yields an empty command and
// no prompt.
func Generate(ids []string) Setup {
	s := Setup{
		Providers: append([]string{}, ids...),
		Command:   BuildCommand(ids),
	}
	if len(ids) > 0 {
		s.Prompt = BuildPrompt(ids)
	}
	return s
}
