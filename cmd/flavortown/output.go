package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/render"
)

const (
	ruleWidth      = 40
	bodyPreviewLen = 100
	maxWrapWidth   = 100
)

func (a *app) rule() {
	fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
}

func (a *app) warn(msg string) {
	fmt.Fprintln(a.out, a.styles.Warning.Render(msg))
}

func (a *app) success(msg string) {
	fmt.Fprintln(a.out, a.styles.Success.Render(msg))
}

func (a *app) dim(msg string) {
	fmt.Fprintln(a.out, a.styles.Dim.Render(msg))
}

// warnErr reports a non-fatal problem on stderr.
func (a *app) warnErr(format string, args ...any) {
	fmt.Fprintln(a.errOut, a.errStyles.Warning.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// markdown renders text with glamour when stdout is a terminal and returns it
// unchanged otherwise.
func (a *app) markdown(text string) string {
	if !a.tty || strings.TrimSpace(text) == "" {
		return text
	}
	width := 80
	if fd, ok := terminalFd(a.out); ok {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = min(w, maxWrapWidth)
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("glamour: %v", err)
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		debug.Log("glamour render: %v", err)
		return text
	}
	return strings.Trim(out, "\n")
}

// preview collapses whitespace and cuts text to n columns, marking the cut
// with "...".
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if runewidth.StringWidth(flat) <= n {
		return flat
	}
	return runewidth.Truncate(flat, n, "") + "..."
}

// padID left-aligns an id in the listing id column.
func padID(id string) string {
	return runewidth.FillRight(id, render.IDWidth)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("2006-01-02 15:04")
}
