// Package ui is the terminal front end: colored status output and the
// prompts that stand in for the editor's dialogs.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// UI provides user interface methods
type UI struct {
	output         io.Writer
	nonInteractive bool // If true, prompts return their defaults
	colorInfo      *color.Color
	colorSuccess   *color.Color
	colorWarning   *color.Color
	colorError     *color.Color
	colorBold      *color.Color
}

// New creates a new UI instance
func New() *UI {
	return &UI{
		output:       os.Stderr,
		colorInfo:    color.New(color.FgBlue),
		colorSuccess: color.New(color.FgGreen),
		colorWarning: color.New(color.FgYellow),
		colorError:   color.New(color.FgRed),
		colorBold:    color.New(color.Bold),
	}
}

// NewWithWriter creates a UI with custom output writer (useful for testing)
func NewWithWriter(w io.Writer) *UI {
	ui := New()
	ui.output = w
	return ui
}

// SetNonInteractive enables or disables non-interactive mode
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

func (u *UI) Info(msg string) {
	u.colorInfo.Fprintf(u.output, "[INFO] %s\n", msg)
}

func (u *UI) Success(msg string) {
	u.colorSuccess.Fprintf(u.output, "[OK] %s\n", msg)
}

func (u *UI) Warning(msg string) {
	u.colorWarning.Fprintf(u.output, "[WARN] %s\n", msg)
}

func (u *UI) Error(msg string) {
	u.colorError.Fprintf(u.output, "[ERROR] %s\n", msg)
}

// Header prints a bold section title.
func (u *UI) Header(msg string) {
	u.colorBold.Fprintf(u.output, "\n%s\n", msg)
}

// Printf prints plain text.
func (u *UI) Printf(format string, args ...any) {
	fmt.Fprintf(u.output, format, args...)
}
