// Package docs renders the documentation panel: links for the current
// selection and a scannable code for the overview page.
package docs

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/provider"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stack-auth/stack-quickstart/internal/tui/components/qr"
	"github.com/stack-auth/stack-quickstart/internal/tui/styles"
)

// View lists the overview link and one link per selected provider, with the
// overview QR code on the right when it fits in width.
func View(ids []string, width int) string {
	var links strings.Builder
	links.WriteString(styles.Title().Render("Documentation") + "\n\n")
	links.WriteString(styles.Bold().Render("Overview") + "\n")
	links.WriteString(quickstart.DocsOverviewURL + "\n")

	if len(ids) == 0 {
		links.WriteString("\n" + styles.Muted().Render("Select a provider to see its guide."))
	}
	for _, p := range provider.Resolve(ids) {
		links.WriteString("\n" + styles.Bold().Render(p.Name) + "\n")
		links.WriteString(quickstart.DocLink(p.ID) + "\n")
	}
	left := strings.TrimRight(links.String(), "\n")

	code, size, err := qr.Generate(quickstart.DocsOverviewURL)
	if err != nil {
		slog.Error("Failed to render QR code", "error", err)
		return styles.Panel(false).Render(left)
	}
	if width > 0 && lipgloss.Width(left)+size+6 > width {
		return styles.Panel(false).Render(left)
	}

	right := lipgloss.JoinVertical(lipgloss.Center,
		strings.TrimRight(code, "\n"),
		styles.Muted().Render("scan for the docs"),
	)
	return styles.Panel(false).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	)
}
