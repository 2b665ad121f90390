package docs

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stretchr/testify/assert"
)

func TestViewListsSelectedProviders(t *testing.T) {
	view := ansi.Strip(View([]string{"github", "otp"}, 200))

	assert.Contains(t, view, quickstart.DocsOverviewURL)
	assert.Contains(t, view, quickstart.DocLink("github"))
	assert.Contains(t, view, quickstart.DocLink("otp"))
	assert.NotContains(t, view, quickstart.DocLink("google"))
	assert.Contains(t, view, "scan for the docs")
}

func TestViewEmptySelection(t *testing.T) {
	view := ansi.Strip(View(nil, 200))
	assert.Contains(t, view, "Select a provider")
}

func TestViewDropsCodeWhenNarrow(t *testing.T) {
	view := ansi.Strip(View([]string{"email"}, 40))
	assert.NotContains(t, view, "scan for the docs")
	assert.Contains(t, view, quickstart.DocLink("email"))
}
