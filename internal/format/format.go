package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stack-auth/stack-quickstart/internal/quickstart"
)

// OutputFormat represents the format for non-interactive mode output
type OutputFormat string

const (
	// TextFormat prints only the requested artifact (default)
	TextFormat OutputFormat = "text"

	// JSONFormat prints the whole setup as a JSON object
	JSONFormat OutputFormat = "json"
)

// IsValid checks if the output format is valid
func (f OutputFormat) IsValid() bool {
	return f == TextFormat || f == JSONFormat
}

// String returns the string representation of the output format
func (f OutputFormat) String() string {
	return string(f)
}

// Artifact selects which derived text the text format prints.
type Artifact string

const (
	CommandArtifact Artifact = "command"
	PromptArtifact  Artifact = "prompt"
)

// Text returns the artifact's text from setup.
func (a Artifact) Text(setup quickstart.Setup) string {
	if a == PromptArtifact {
		return setup.Prompt
	}
	return setup.Command
}

type jsonOutput struct {
	quickstart.Setup
	Copied bool `json:"copied"`
}

// FormatSetup renders setup according to the specified format. copied
// reports whether the artifact reached the clipboard and is only carried by
// the JSON format.
func FormatSetup(setup quickstart.Setup, artifact Artifact, copied bool, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		return artifact.Text(setup), nil
	case JSONFormat:
		out := jsonOutput{Setup: setup, Copied: copied}
		if out.Providers == nil {
			out.Providers = []string{}
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
