package options

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
	"github.com/stretchr/testify/assert"
)

func TestViewShowsBothOptions(t *testing.T) {
	m := New()
	m.SetSize(100, 40)
	m.SetSetup(quickstart.Generate([]string{"google", "github"}))

	view := ansi.Strip(m.View())
	assert.Contains(t, view, CodersTitle)
	assert.Contains(t, view, VibeTitle)
	assert.Contains(t, view, "npx @stackframe/init-stack --providers google,github")
	for _, step := range quickstart.CoderSteps {
		assert.Contains(t, view, step)
	}
	for _, item := range quickstart.CoderChecklist {
		assert.Contains(t, view, item)
	}
	assert.Contains(t, view, "Part 1")
}

func TestWrapPrompt(t *testing.T) {
	prompt := quickstart.BuildPrompt([]string{"facebook"})
	wrapped := wrapPrompt(prompt, 30)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 30, "line %q", line)
	}
	assert.Equal(t, prompt, wrapPrompt(prompt, 0))
}

func TestSetSetupKeepsSetup(t *testing.T) {
	m := New()
	setup := quickstart.Generate([]string{"otp"})
	m.SetSetup(setup)
	assert.Equal(t, setup, m.Setup())
}
