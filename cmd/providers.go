package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/stack-auth/stack-quickstart/internal/format"
	"github.com/stack-auth/stack-quickstart/internal/provider"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the authentication providers you can select",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := outputFormatFlag(cmd)
		if err != nil {
			return err
		}

		all := provider.All()
		if outputFormat == format.JSONFormat {
			return writeJSON(cmd, all)
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(styles.Muted()).
			Headers("ID", "NAME", "DESCRIPTION", "DOCS")
		for _, p := range all {
			t.Row(p.ID, p.Icon+" "+p.Name, p.Description, quickstart.DocLink(p.ID))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Describe what Stack Auth gives you beyond sign-in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := outputFormatFlag(cmd)
		if err != nil {
			return err
		}
		if outputFormat == format.JSONFormat {
			return writeJSON(cmd, quickstart.Features)
		}
		fmt.Fprint(cmd.OutOrStdout(), styles.RenderMarkdown(quickstart.FeaturesMarkdown(), 80))
		return nil
	},
}

func outputFormatFlag(cmd *cobra.Command) (format.OutputFormat, error) {
	s, _ := cmd.Flags().GetString("output-format")
	f := format.OutputFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid output format: %s", s)
	}
	return f, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
