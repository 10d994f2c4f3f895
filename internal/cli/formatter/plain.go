package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetPlain switches rendering to plain ASCII without color escapes, for
// output piped to files or other programs. SetPlain(false) restores the
// profile detected from the terminal.
func SetPlain(plain bool) {
	if plain {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
