// Package output provides styled terminal output for the raven CLI.
//
// Functions use lipgloss for styling but abstract away the details from
// callers. Everything is written to the package writer, stdout by default.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	return verboseMode
}

// SetOutput redirects output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Writer returns the current output writer.
func Writer() io.Writer {
	return out
}

// Success prints a success message with a check mark in green.
//
// Example:
//
//	output.Success("Analysis completed")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✔ "+msg))
}

// Error prints an error message with ❌ emoji and red color.
// Use this for failures that need user attention.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	fmt.Fprintln(out, warnStyle.Render("⚠ "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Header prints a section title.
func Header(title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(title))
}

// Step prints an indented step message in gray, truncated to the
// terminal width.
//
// Example:
//
//	output.Step("com.zoo.Dog -> com.zoo.Animal")
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render(Truncate("   "+msg, TerminalWidth())))
}

// KeyValue prints an aligned label and value.
func KeyValue(label string, value any) {
	fmt.Fprintf(out, "   %s %v\n", labelStyle.Render(fmt.Sprintf("%-28s", label+":")), value)
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("🔍 "+msg))
	}
}

// Rule prints a horizontal separator as wide as the terminal.
func Rule() {
	fmt.Fprintln(out, stepStyle.Render(strings.Repeat("─", TerminalWidth())))
}

// TerminalWidth returns the terminal width, defaulting to 80 if unable to
// detect it.
func TerminalWidth() int {
	f, ok := out.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// Truncate shortens s to maxWidth runes, marking the cut with "...".
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = defaultWidth
	}
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return "..."[:maxWidth]
	}
	runes := []rune(s)
	return string(runes[:maxWidth-3]) + "..."
}
