// Package output provides styled terminal output for the CLI.
//
// Functions use lipgloss for styling but abstract away the details from
// callers.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// Verbose reports whether verbose mode is enabled.
func Verbose() bool {
	return verboseMode
}

// Success prints a completed-operation message in green.
func Success(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

// Error prints a failure message in red.
func Error(msg string) {
	fmt.Println(errorStyle.Render("✗ " + msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("! " + msg))
}

// Info prints a status update in cyan.
func Info(msg string) {
	fmt.Println(infoStyle.Render(msg))
}

// Step prints an indented sub-item in gray.
func Step(msg string) {
	fmt.Println(stepStyle.Render("   " + msg))
}

// Debug prints a gray detail line only when verbose mode is enabled.
func Debug(msg string) {
	if verboseMode {
		fmt.Println(stepStyle.Render("· " + msg))
	}
}

// Rule prints a horizontal rule sized to the terminal, capped at 80 cols.
func Rule() {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	fmt.Println(stepStyle.Render(strings.Repeat("─", width)))
}
