// Package input provides interactive terminal input utilities.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Confirm asks a yes/no question on the terminal. Enter accepts the
// default shown in the hint; an unrecognized answer counts as no.
// Prompts go to stderr so they never mix with generated output.
func Confirm(message string, defaultYes bool) bool {
	return confirm(os.Stdin, os.Stderr, message, defaultYes)
}

func confirm(in io.Reader, out io.Writer, message string, defaultYes bool) bool {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	fmt.Fprintf(out, "%s %s ",
		promptStyle.Render("? "+message),
		hintStyle.Render("("+hint+")"))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return defaultYes
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "":
		return defaultYes
	default:
		return false
	}
}
