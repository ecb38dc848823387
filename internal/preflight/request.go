package preflight

import "github.com/Aman-CERP/tscheck/internal/errors"

// Request describes one check.
type Request struct {
	// FilePath is the edited file, absolute or relative to the working directory.
	FilePath string

	// ProjectRoot skips root discovery when set.
	ProjectRoot string

	RunTypeChecker bool
	RunLinter      bool

	// OutputJSON selects the JSON renderer.
	OutputJSON bool
}

// Validate checks that the request names a file and at least one checker.
func (r Request) Validate() error {
	if r.FilePath == "" {
		return errors.ValidationError("file path is required", nil).
			WithSuggestion("Pass --file <path>")
	}
	if !r.RunTypeChecker && !r.RunLinter {
		return errors.New(errors.ErrCodeConflictingFlags, "no checker selected", nil).
			WithSuggestion("Use at most one of --tsc-only and --qlty-only")
	}
	return nil
}
