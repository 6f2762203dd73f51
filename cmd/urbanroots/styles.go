package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/urbanroots/internal/notify"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// printToasts renders manager toasts as single lines on w.
func printToasts(w io.Writer) notify.Toaster {
	return notify.ToastFunc(func(t notify.Toast) {
		style := infoStyle
		switch t.Level {
		case notify.LevelSuccess:
			style = successStyle
		case notify.LevelError:
			style = errorStyle
		}
		line := t.Title
		if t.Body != "" {
			line += ": " + t.Body
		}
		fmt.Fprintln(w, style.Render(line))
	})
}

// writeHeader styles each column title separately so tabwriter still sees
// the tab stops.
func writeHeader(w io.Writer, cols ...string) {
	cells := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = headerStyle.Render(c)
		rules[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(w, strings.Join(cells, "\t"))
	fmt.Fprintln(w, strings.Join(rules, "\t"))
}
