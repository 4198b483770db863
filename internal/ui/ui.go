// Package ui renders mind maps, search results and status messages on a
// terminal.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("standard input is not a terminal")

type UI struct {
	writer   io.Writer
	useColor bool
}

func NewUI(w io.Writer, useColor bool) *UI {
	return &UI{writer: w, useColor: useColor}
}

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

func (u *UI) Print(message string) {
	fmt.Fprint(u.writer, message)
}

func (u *UI) Printf(format string, args ...any) {
	fmt.Fprintf(u.writer, format, args...)
}

func (u *UI) Println(message string) {
	fmt.Fprintln(u.writer, message)
}

func (u *UI) PrintlnColored(message string, color Color) {
	fmt.Fprintln(u.writer, u.colorize(message, color))
}

func (u *UI) Error(message string) {
	fmt.Fprintf(u.writer, "%s %s\n", u.colorize("!", ColorRed), u.colorize(message, ColorLightOrange))
}

func (u *UI) Success(message string) {
	u.PrintlnColored(message, ColorLightGreen)
}

func (u *UI) Warning(message string) {
	fmt.Fprintf(u.writer, "%s %s\n", u.colorize("?", ColorLightRed), u.colorize(message, ColorLightYellow))
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// PromptString builds the REPL prompt. The document name is omitted when no
// document is open; a trailing star marks unsaved changes.
func (u *UI) PromptString(document, selected string, dirty bool) string {
	var b strings.Builder
	if document != "" {
		b.WriteString(u.colorize(document, ColorLightPurple))
		if dirty {
			b.WriteString(u.colorize("*", ColorLightRed))
		}
		if selected != "" {
			b.WriteString(u.colorize(" @ ", ColorWhite))
			b.WriteString(u.colorize(selected, ColorYellow))
		}
		b.WriteString(" ")
	}
	b.WriteString(u.colorize("> ", ColorGreen))
	return b.String()
}

// ReadPassword reads a line from the terminal without echo.
func (u *UI) ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	u.Print(prompt)

	password, err := term.ReadPassword(fd)
	u.Println("")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
