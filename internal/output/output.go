// Package output provides consistent CLI output formatting with status icons and labeled sections.
package output

import (
	"fmt"
	"io"

	"github.com/Aman-CERP/tscheck/internal/ui"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles *ui.Styles
}

// New creates a new output Writer that writes plain text.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WithStyles returns a Writer that styles headers and status lines.
// A nil styles value keeps output plain.
func (w *Writer) WithStyles(styles *ui.Styles) *Writer {
	return &Writer{out: w.out, styles: styles}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	if w.styles != nil {
		msg = w.styles.Success.Render(msg)
	}
	w.Status("✅", msg)
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	if w.styles != nil {
		msg = w.styles.Warning.Render(msg)
	}
	w.Status("⚠️", msg)
}

// Section prints a blank line followed by a "--- title ---" header.
func (w *Writer) Section(title string) {
	header := "--- " + title + " ---"
	if w.styles != nil {
		header = w.styles.Header.Render(header)
	}
	_, _ = fmt.Fprintln(w.out)
	_, _ = fmt.Fprintln(w.out, header)
}

// Item prints one entry of a section, indented by two spaces.
func (w *Writer) Item(line string) {
	_, _ = fmt.Fprintf(w.out, "  %s\n", line)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
