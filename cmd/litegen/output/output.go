package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Writer receives all output. Tests replace it.
var Writer io.Writer = os.Stdout

// Success prints a success message
func Success(format string, args ...any) {
	fmt.Fprint(Writer, successStyle.Render("✓ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...any) {
	fmt.Fprint(Writer, warningStyle.Render("⚠ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...any) {
	fmt.Fprint(Writer, errorStyle.Render("✗ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...any) {
	fmt.Fprint(Writer, infoStyle.Render("ℹ "))
	fmt.Fprintf(Writer, format+"\n", args...)
}

// Muted prints a muted message
func Muted(format string, args ...any) {
	fmt.Fprintln(Writer, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func Section(title string) {
	fmt.Fprintln(Writer)
	fmt.Fprintln(Writer, primaryStyle.Render(title))
	fmt.Fprintln(Writer, mutedStyle.Render(strings.Repeat("═", len(title))))
}

// Diff prints the lines of a snapshot diff, colored by their leading marker.
func Diff(diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch t := strings.TrimSpace(line); {
		case t == "":
			fmt.Fprintln(Writer)
		case t[0] == '+':
			fmt.Fprintln(Writer, successStyle.Render(line))
		case t[0] == '-':
			fmt.Fprintln(Writer, errorStyle.Render(line))
		case t[0] == '~':
			fmt.Fprintln(Writer, warningStyle.Render(line))
		default:
			fmt.Fprintln(Writer, line)
		}
	}
}
