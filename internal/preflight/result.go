package preflight

import (
	"fmt"
	"strings"
)

// Result is the merged outcome of one check.
type Result struct {
	HasErrors  bool     `json:"has_errors"`
	TypeErrors []string `json:"tsc_errors"`
	LintErrors []string `json:"qlty_errors"`
	Summary    string   `json:"summary"`
}

// NewResult builds a Result. Nil lists become empty so they encode as [].
func NewResult(typeErrors, lintErrors []string) *Result {
	if typeErrors == nil {
		typeErrors = []string{}
	}
	if lintErrors == nil {
		lintErrors = []string{}
	}
	return &Result{
		HasErrors:  len(typeErrors) > 0 || len(lintErrors) > 0,
		TypeErrors: typeErrors,
		LintErrors: lintErrors,
		Summary:    Summarize(len(typeErrors), len(lintErrors)),
	}
}

// Summarize describes the counts, e.g. "2 type error(s), 1 lint issue(s)".
func Summarize(typeErrors, lintErrors int) string {
	var parts []string
	if typeErrors > 0 {
		parts = append(parts, fmt.Sprintf("%d type error(s)", typeErrors))
	}
	if lintErrors > 0 {
		parts = append(parts, fmt.Sprintf("%d lint issue(s)", lintErrors))
	}
	if len(parts) == 0 {
		return "No errors"
	}
	return strings.Join(parts, ", ")
}
