// Package console renders session output: the banner, result tables and
// one-line status messages.
package console

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
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

	headerStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorError).
			Padding(1, 4).
			Margin(1, 0)
)

// NoRows is printed instead of an empty table.
const NoRows = "No rows."

// Printer writes styled output to w.
type Printer struct {
	w io.Writer
}

// New creates a Printer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Banner prints the startup banner.
func (p *Printer) Banner(title string) {
	letters := strings.Join(strings.Split(strings.ToUpper(title), ""), " ")
	fmt.Fprintln(p.w, bannerStyle.Render(letters))
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle.Render("✓ "), format, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	p.line(warningStyle.Render("⚠ "), format, args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle.Render("✗ "), format, args...)
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle.Render("ℹ "), format, args...)
}

// Muted prints a muted message
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) line(icon, format string, args ...any) {
	fmt.Fprint(p.w, icon)
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Table prints rows under headers, or NoRows when there are none.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		p.Muted(NoRows)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(p.w, t.Render())
}

// Format renders a single cell value; nil and nil pointers are blank.
func Format(v any) string {
	if v == nil {
		return ""
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Cells formats a row of values.
func Cells(values ...any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Format(v)
	}
	return out
}
