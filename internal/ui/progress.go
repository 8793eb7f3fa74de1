// Package ui renders the live single-line download display. All updates
// come from the pipeline's stdout consumer, so no locking is needed.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NamanBalaji/ytdl/internal/ytdlp"
)

var (
	teal     = lipgloss.Color("#94e2d5")
	surface0 = lipgloss.Color("#313244")
	subtext0 = lipgloss.Color("#a6adc8")

	barFilledStyle = lipgloss.NewStyle().Foreground(teal)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(surface0)
	messageStyle   = lipgloss.NewStyle().Foreground(subtext0)
)

const barWidth = 40

const clearLine = "\r\x1b[K"

// Progress is a carriage-return redrawn progress line.
type Progress struct {
	w        io.Writer
	percent  float64
	message  string
	finished bool
}

// NewProgress creates a progress display writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Update sets the bar position and status message from a progress event.
func (p *Progress) Update(ev ytdlp.ProgressEvent) {
	if p.finished {
		return
	}

	p.percent = ev.Percent
	p.message = fmt.Sprintf("%s / %s | %s | ETA %s",
		ev.DownloadedString(), ev.TotalString(), ev.SpeedString(), ev.ETAString())
	p.render()
}

// Println prints an auxiliary status line above the bar and redraws it.
func (p *Progress) Println(line string) {
	fmt.Fprint(p.w, clearLine)
	fmt.Fprintln(p.w, line)

	if !p.finished {
		p.render()
	}
}

// Finish replaces the status message with a terminal one and ends the line.
// Further updates are ignored.
func (p *Progress) Finish(msg string) {
	if p.finished {
		return
	}

	p.message = msg
	p.render()
	p.finished = true

	fmt.Fprintln(p.w)
}

func (p *Progress) render() {
	fmt.Fprintf(p.w, "%s%s %5.1f%% | %s",
		clearLine, Bar(barWidth, p.percent/100), p.percent, messageStyle.Render(p.message))
}

// Bar returns a styled progress bar; percent is in [0, 1].
func Bar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	}

	if percent > 1.0 {
		percent = 1.0
	}

	filledWidth := int(float64(width) * percent)
	emptyWidth := width - filledWidth

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", emptyWidth)

	return barFilledStyle.Render(filled) + barEmptyStyle.Render(empty)
}
