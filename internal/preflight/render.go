package preflight

import (
	"encoding/json"
	"io"

	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/output"
	"github.com/Aman-CERP/tscheck/internal/ui"
)

// Section headers and the clean message of the text report.
const (
	CleanMessage      = "No TypeScript or lint errors"
	TypeErrorsSection = "TypeScript Errors"
	LintIssuesSection = "Lint Issues"
)

// Render writes res as JSON or as the text report. styles may be nil.
func Render(w io.Writer, res *Result, asJSON bool, styles *ui.Styles) error {
	if asJSON {
		return RenderJSON(w, res)
	}
	RenderText(output.New(w).WithStyles(styles), res)
	return nil
}

// RenderJSON writes res as two-space indented JSON followed by a newline.
func RenderJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// tsc messages are full of generics like Array<string>
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return errors.New(errors.ErrCodeRenderFailed, "failed to encode result", err)
	}
	return nil
}

// RenderText writes the human-readable report.
func RenderText(w *output.Writer, res *Result) {
	if !res.HasErrors {
		w.Success(CleanMessage)
		return
	}

	w.Warning(res.Summary)
	renderSection(w, TypeErrorsSection, res.TypeErrors)
	renderSection(w, LintIssuesSection, res.LintErrors)
}

func renderSection(w *output.Writer, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	w.Section(title)
	for _, e := range entries {
		w.Item(e)
	}
}
