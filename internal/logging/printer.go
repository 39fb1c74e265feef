package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes user-facing messages. Headings are green and errors red
// when the destination is a terminal; a copy of every message, unstyled,
// can go to a log file.
type Printer struct {
	out   io.Writer
	log   io.Writer
	color bool

	green  lipgloss.Style
	red    lipgloss.Style
	yellow lipgloss.Style
}

// NewPrinter returns a Printer for out. Colour is used only when out is a
// terminal and NO_COLOR is unset.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:    out,
		color:  IsTerminal(out) && os.Getenv("NO_COLOR") == "",
		green:  r.NewStyle().Foreground(lipgloss.Color("2")),
		red:    r.NewStyle().Foreground(lipgloss.Color("1")),
		yellow: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetLog mirrors every later message, timestamped, to w. A nil w stops it.
func (p *Printer) SetLog(w io.Writer) {
	if w == nil {
		p.log = nil
		return
	}
	p.log = NewStampWriter(w)
}

func (p *Printer) emit(style *lipgloss.Style, msg string) {
	if p.log != nil {
		fmt.Fprintln(p.log, msg)
	}
	if p.color && style != nil {
		msg = style.Render(msg)
	}
	fmt.Fprintln(p.out, msg)
}

// Green prints a heading.
func (p *Printer) Green(format string, args ...any) {
	p.emit(&p.green, fmt.Sprintf(format, args...))
}

// Normal prints a plain line.
func (p *Printer) Normal(format string, args ...any) {
	p.emit(nil, fmt.Sprintf(format, args...))
}

// Warning prints a yellow line.
func (p *Printer) Warning(format string, args ...any) {
	p.emit(&p.yellow, fmt.Sprintf(format, args...))
}

// Error prints "Error: msg" in red.
func (p *Printer) Error(msg string) {
	p.emit(&p.red, "Error: "+msg)
}

// Separator prints an empty line.
func (p *Printer) Separator() { p.emit(nil, "") }

// Check prints a ✓ or ✗ line.
func (p *Printer) Check(ok bool, text string) {
	p.Normal(" %s %s", Mark(ok), text)
}

// Mark is ✓ for true and ✗ for false.
func Mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// Columnize lays items out in n columns, filled top to bottom, separated
// by gap spaces.
func Columnize(items []string, n, gap int) string {
	if len(items) == 0 || n < 1 {
		return ""
	}
	if pad := n - len(items)%n; pad < n {
		items = append(append([]string(nil), items...), make([]string, pad)...)
	}
	rows := len(items) / n
	width := 0
	for _, it := range items {
		if len(it) > width {
			width = len(it)
		}
	}
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		cells := make([]string, n)
		for c := 0; c < n; c++ {
			cells[c] = fmt.Sprintf("%-*s", width, items[c*rows+r])
		}
		lines[r] = strings.Join(cells, strings.Repeat(" ", gap))
	}
	return strings.Join(lines, "\n")
}
