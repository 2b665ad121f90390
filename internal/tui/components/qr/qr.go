// Package qr renders QR codes with half-block characters so two module rows
// fit in one terminal line.
package qr

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
	"rsc.io/qr"
)

var topsBottoms = []rune{' ', '▀', '▄', '█'}

// Generate encodes text and returns the rendered code with its module size.
func Generate(text string) (string, int, error) {
	code, err := qr.Encode(text, qr.L)
	if err != nil {
		return "", 0, err
	}

	t := theme.CurrentTheme()
	qrStyle := lipgloss.NewStyle().Foreground(t.Text()).Background(t.Background())

	var result strings.Builder
	for y := 0; y < code.Size-1; y += 2 {
		var line strings.Builder
		for x := 0; x < code.Size; x++ {
			var num int8
			if code.Black(x, y) {
				num += 1
			}
			if code.Black(x, y+1) {
				num += 2
			}
			line.WriteRune(topsBottoms[num])
		}
		result.WriteString(qrStyle.Render(line.String()) + "\n")
	}

	// odd sizes leave one row for the bottom half of the last line
	if code.Size%2 == 1 {
		var last strings.Builder
		for x := 0; x < code.Size; x++ {
			if code.Black(x, code.Size-1) {
				last.WriteRune('▀')
			} else {
				last.WriteRune(' ')
			}
		}
		result.WriteString(qrStyle.Render(last.String()) + "\n")
	}

	return result.String(), code.Size, nil
}
