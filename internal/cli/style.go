package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette holds the ANSI-256 color values used throughout the CLI.
var (
	clrBrand = lipgloss.Color("41") // spotify green
	clrGreen = lipgloss.Color("114")
	clrRed   = lipgloss.Color("203")
	clrCyan  = lipgloss.Color("81")
	clrDim   = lipgloss.Color("245")
	clrWhite = lipgloss.Color("255")
)

// styles wraps lipgloss renderers that respect TTY detection. When
// output is not a terminal (piped, redirected), all styling is disabled
// and raw text is emitted.
type styles struct {
	enabled bool

	Brand lipgloss.Style
	Green lipgloss.Style
	Red   lipgloss.Style
	Cyan  lipgloss.Style
	Dim   lipgloss.Style
	Bold  lipgloss.Style

	Header lipgloss.Style
	Key    lipgloss.Style
	Value  lipgloss.Style
	Error  lipgloss.Style
}

// newStyles creates a styles instance. Colors are enabled only when w
// points to a terminal file descriptor.
func newStyles(w io.Writer) styles {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}

	s := styles{enabled: enabled}

	if !enabled {
		noop := lipgloss.NewStyle()
		s.Brand = noop
		s.Green = noop
		s.Red = noop
		s.Cyan = noop
		s.Dim = noop
		s.Bold = noop
		s.Header = noop
		s.Key = noop
		s.Value = noop
		s.Error = noop
		return s
	}

	s.Brand = lipgloss.NewStyle().Foreground(clrBrand)
	s.Green = lipgloss.NewStyle().Foreground(clrGreen)
	s.Red = lipgloss.NewStyle().Foreground(clrRed)
	s.Cyan = lipgloss.NewStyle().Foreground(clrCyan)
	s.Dim = lipgloss.NewStyle().Foreground(clrDim)
	s.Bold = lipgloss.NewStyle().Bold(true)

	s.Header = lipgloss.NewStyle().Bold(true).Foreground(clrBrand)
	s.Key = lipgloss.NewStyle().Foreground(clrDim)
	s.Value = lipgloss.NewStyle().Foreground(clrWhite)
	s.Error = lipgloss.NewStyle().Foreground(clrRed).Bold(true)

	return s
}

// kv formats a key-value pair like "  Key:  value".
func (s styles) kv(key, value string) string {
	if !s.enabled {
		return fmt.Sprintf("  %-18s %s", key+":", value)
	}
	return fmt.Sprintf("  %s %s",
		s.Key.Render(fmt.Sprintf("%-18s", key+":")),
		s.Value.Render(value),
	)
}

// sectionHeader formats a section header.
func (s styles) sectionHeader(title string) string {
	if !s.enabled {
		return title
	}
	return s.Header.Render(title)
}

// dim wraps text in dim/muted styling.
func (s styles) dim(text string) string {
	if !s.enabled {
		return text
	}
	return s.Dim.Render(text)
}

// ok returns a styled check mark line.
func (s styles) ok(text string) string {
	if !s.enabled {
		return "  OK   " + text
	}
	return "  " + s.Green.Render("OK") + "   " + text
}

// fail returns a styled failure line.
func (s styles) fail(text string) string {
	if !s.enabled {
		return "  FAIL " + text
	}
	return "  " + s.Error.Render("FAIL") + " " + text
}
