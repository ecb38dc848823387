// Package cmd provides the CLI commands for tscheck.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/tscheck/internal/config"
	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/logging"
	"github.com/Aman-CERP/tscheck/internal/preflight"
	"github.com/Aman-CERP/tscheck/internal/profiling"
	"github.com/Aman-CERP/tscheck/internal/telemetry"
	"github.com/Aman-CERP/tscheck/internal/ui"
	"github.com/Aman-CERP/tscheck/pkg/version"
)

// shutdownTimeout bounds flushing logs and telemetry on exit.
const shutdownTimeout = 5 * time.Second

// app holds the persistent flags and everything started from them.
type app struct {
	root *cobra.Command

	debug      bool
	trace      bool
	noColor    bool
	configPath string
	profile    profiling.Paths

	// logLevel follows logging.level once the config is loaded.
	logLevel  *slog.LevelVar
	shutdowns []func(context.Context) error
}

// checkOptions are the root command's own flags.
type checkOptions struct {
	file        string
	projectRoot string
	tscOnly     bool
	qltyOnly    bool
	jsonOutput  bool
}

// NewRootCmd creates the root command for the tscheck CLI.
func NewRootCmd() *cobra.Command {
	return newApp().root
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return newApp().execute(ctx, os.Args[1:])
}

func newApp() *app {
	a := &app{logLevel: new(slog.LevelVar)}
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "tscheck --file <path>",
		Short: "Type-check and lint a TypeScript file after an edit",
		Long: `tscheck runs the TypeScript compiler and the qlty linter against a single
file and reports what they found.

It finds the project root by walking up from the file to the nearest
directory holding tsconfig.json or package.json. The type checker only runs
when tsconfig.json is present there. A linter that is not installed is
skipped silently.

Exit status is 0 when both tools are clean, 1 when errors were found or no
project root exists, and 2 for invalid usage.`,
		Example: `  # Check a file after editing it
  tscheck --file src/app.ts

  # Machine-readable result for hooks
  tscheck --file src/app.ts --json

  # Only run the type checker
  tscheck --file src/app.ts --tsc-only`,
		Args:          cobra.NoArgs,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd, opts)
		},
	}

	cmd.SetVersionTemplate("tscheck version {{.Version}}\n")

	cmd.Flags().StringVar(&opts.file, "file", "", "File to check (required)")
	cmd.Flags().StringVar(&opts.projectRoot, "project-root", "", "Project root (default: nearest directory with tsconfig.json or package.json)")
	cmd.Flags().BoolVar(&opts.tscOnly, "tsc-only", false, "Only run the type checker")
	cmd.Flags().BoolVar(&opts.qltyOnly, "qlty-only", false, "Only run the linter")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("tsc-only", "qlty-only")

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.tscheck/logs/")
	cmd.PersistentFlags().BoolVar(&a.trace, "trace", false, "Print OpenTelemetry spans and metrics to stderr")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .tscheck.yaml in the project root)")
	cmd.PersistentFlags().StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Mem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.start

	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newVersionCmd())

	a.root = cmd
	return a
}

// execute runs the command tree, flushes logs and telemetry, reports the
// error if any, and returns the exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(ctx)
	a.shutdown()
	reportError(a.root.ErrOrStderr(), a.root.CommandPath(), err)
	return ExitCode(err)
}

// start sets up logging, tracing and profiling from the persistent flags.
func (a *app) start(cmd *cobra.Command, _ []string) error {
	if a.debug {
		cfg := logging.DebugConfig()
		a.logLevel.Set(slog.LevelDebug)
		cfg.Leveler = a.logLevel

		logger, cleanup, err := logging.Setup(cfg)
		if err != nil {
			return errors.New(errors.ErrCodeFileWrite, "failed to setup debug logging", err).
				WithDetail("path", cfg.FilePath)
		}
		a.onShutdown(func(context.Context) error {
			cleanup()
			return nil
		})
		slog.SetDefault(logger)
		slog.Info("Debug logging enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("version", version.Version),
			slog.String("command", cmd.CommandPath()))
	} else {
		// stdout belongs to the report, so diagnostics go to stderr
		slog.SetDefault(logging.Console(cmd.ErrOrStderr(), "warn"))
	}

	if a.trace {
		shutdown, err := telemetry.Setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		a.onShutdown(shutdown)
	}

	if a.profile.Enabled() {
		session, err := profiling.Start(a.profile)
		if err != nil {
			return err
		}
		a.onShutdown(session.Stop)
	}

	return nil
}

func (a *app) onShutdown(fn func(context.Context) error) {
	a.shutdowns = append(a.shutdowns, fn)
}

// shutdown runs the registered shutdowns in reverse order.
func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			slog.Warn("shutdown failed", slog.String("error", err.Error()))
		}
	}
	a.shutdowns = nil
}

// loadConfig loads the layered config for root and applies its log level.
func (a *app) loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(root, a.configPath)
	if err != nil {
		return nil, err
	}
	if a.debug {
		a.logLevel.Set(logging.LevelFromString(cfg.Logging.Level))
	}
	return cfg, nil
}

// styles returns colored styles when w is an interactive terminal and
// unstyled ones otherwise.
func (a *app) styles(w io.Writer) *ui.Styles {
	s := ui.NoColorStyles()
	if ui.ColorEnabled(w, a.noColor) {
		s = ui.DefaultStyles()
	}
	return &s
}

func (a *app) runCheck(cmd *cobra.Command, opts checkOptions) error {
	req := preflight.Request{
		FilePath:       opts.file,
		ProjectRoot:    opts.projectRoot,
		RunTypeChecker: !opts.qltyOnly,
		RunLinter:      !opts.tscOnly,
		OutputJSON:     opts.jsonOutput,
	}

	root, err := preflight.ResolveProjectRoot(req.FilePath, req.ProjectRoot)
	if err != nil {
		slog.Debug("project root not found", errors.LogAttrs(err)...)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), preflight.RootNotFoundMessage)
		return &ExitError{Code: ExitFailed}
	}
	req.ProjectRoot = root

	cfg, err := a.loadConfig(root)
	if err != nil {
		return err
	}

	checker, err := newChecker(cfg)
	if err != nil {
		return err
	}

	res, err := checker.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := preflight.Render(cmd.OutOrStdout(), res, req.OutputJSON, a.styles(cmd.OutOrStdout())); err != nil {
		return err
	}

	if res.HasErrors {
		return &ExitError{Code: ExitFailed}
	}
	return nil
}

// newChecker builds a preflight.Checker from the configuration.
func newChecker(cfg *config.Config) (*preflight.Checker, error) {
	typeCheck, err := toolFromConfig(cfg.TypeCheck)
	if err != nil {
		return nil, err
	}
	lint, err := toolFromConfig(cfg.Lint)
	if err != nil {
		return nil, err
	}

	return preflight.New(
		preflight.WithTypeCheckTool(typeCheck),
		preflight.WithLintTool(lint),
		preflight.WithTSConfigName(cfg.TypeCheck.ConfigFile),
		preflight.WithMaxErrors(cfg.Output.MaxErrors),
		preflight.WithLogger(slog.Default()),
	), nil
}

func toolFromConfig(tc config.ToolConfig) (preflight.Tool, error) {
	argv, err := tc.Argv()
	if err != nil {
		return preflight.Tool{}, errors.New(errors.ErrCodeInvalidCommand, err.Error(), err)
	}
	return preflight.Tool{
		Name:    tc.Name,
		Command: argv,
		Timeout: tc.TimeoutDuration(),
	}, nil
}
