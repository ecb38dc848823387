package cmd

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/logging"
	"github.com/Aman-CERP/tscheck/internal/ui"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	logFile string
}

func newLogsCmd(a *app) *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View the --debug log",
		Long: `Show the log written by runs with --debug (~/.tscheck/logs/tscheck.log).

By default the last 50 lines are shown. Use -f to follow new entries.`,
		Example: `  # Last 50 lines
  tscheck logs

  # Only warnings and errors
  tscheck logs --level warn

  # Follow tool runs
  tscheck logs -f --filter 'running tool'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts, a.styles(cmd.OutOrStdout()))
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level to show (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only show lines matching this regex")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Log file (default: ~/.tscheck/logs/tscheck.log)")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions, styles *ui.Styles) error {
	path := opts.logFile
	if path == "" {
		path = logging.DefaultLogPath()
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		var err error
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid filter pattern", err).
				WithDetail("filter", opts.filter)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		Styles:  styles,
	}, cmd.OutOrStdout())

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n---\n", path)

	if opts.follow {
		return followLogs(cmd.Context(), cmd, viewer, path)
	}

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return errors.New(errors.ErrCodeFileNotFound, "cannot read log file", err).
			WithDetail("path", path).
			WithSuggestion("Run a check with --debug to create it")
	}
	viewer.Print(entries)
	return nil
}

// followLogs prints new entries until the context is cancelled (Ctrl+C).
func followLogs(ctx context.Context, cmd *cobra.Command, viewer *logging.Viewer, path string) error {
	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), viewer.FormatEntry(entry))
		case err := <-errCh:
			if err != nil {
				return errors.New(errors.ErrCodeFileNotFound, "cannot follow log file", err).
					WithDetail("path", path)
			}
			return nil
		}
	}
}
