package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/tscheck/internal/doctor"
	"github.com/Aman-CERP/tscheck/internal/errors"
)

func newDoctorCmd(a *app) *cobra.Command {
	var (
		verbose     bool
		jsonOutput  bool
		file        string
		projectRoot string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment tscheck runs in",
		Long: `Run diagnostics to see what a check would do in this project.

Checks:
  - Project root (tsconfig.json or package.json in an ancestor)
  - Configuration (user, project and TSCHECK_* environment)
  - tsconfig presence (the type checker is skipped without it)
  - Type checker and lint tool on PATH

Missing tools are warnings: a check still runs and reports them.
Use --verbose for detailed diagnostic information.
Use --json for machine-readable output.`,
		Example: `  # Diagnose the current directory
  tscheck doctor

  # Diagnose the project a file belongs to
  tscheck doctor --file src/app.ts --verbose

  # JSON output for scripting
  tscheck doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := doctor.New(
				doctor.WithVerbose(verbose),
				doctor.WithOutput(cmd.OutOrStdout()),
			)

			results := checker.RunAll(cmd.Context(), doctor.Target{
				FilePath:    file,
				ProjectRoot: projectRoot,
				ConfigPath:  a.configPath,
			})

			if jsonOutput {
				if err := outputDoctorJSON(cmd, checker, results); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return &ExitError{Code: ExitFailed}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&file, "file", "", "Diagnose the project this file belongs to")
	cmd.Flags().StringVar(&projectRoot, "project-root", "", "Use this project root instead of searching")

	return cmd
}

// DoctorJSON is the structure for JSON output.
type DoctorJSON struct {
	Status   string               `json:"status"`
	Checks   []doctor.CheckResult `json:"checks"`
	Warnings []string             `json:"warnings,omitempty"`
	Errors   []string             `json:"errors,omitempty"`
}

func outputDoctorJSON(cmd *cobra.Command, checker *doctor.Checker, results []doctor.CheckResult) error {
	out := DoctorJSON{
		Status: checker.SummaryStatus(results),
		Checks: results,
	}

	for _, r := range results {
		if r.IsCritical() {
			out.Errors = append(out.Errors, r.Name+": "+r.Message)
		} else if r.Status != doctor.StatusPass {
			out.Warnings = append(out.Warnings, r.Name+": "+r.Message)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return errors.New(errors.ErrCodeRenderFailed, "failed to encode doctor report", err)
	}
	return nil
}
