package formatter

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 100

type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConfigureColor drops to plain ASCII output when w is not a terminal or
// NO_COLOR is set, so piped output and scripts see no escape codes.
func ConfigureColor(w io.Writer) {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" || !IsTerminal(w) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
}

// TerminalWidth returns the column count of w, or DefaultWidth.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(fdWriter)
	if !ok || !IsTerminal(w) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
