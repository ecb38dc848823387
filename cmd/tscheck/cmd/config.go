package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/tscheck/configs"
	"github.com/Aman-CERP/tscheck/internal/config"
	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/output"
	"github.com/Aman-CERP/tscheck/internal/preflight"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration",
		Long: `Inspect and create tscheck configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/tscheck/config.yaml)
  3. Project config (.tscheck.yaml in the project root), or --config
  4. Environment variables (TSCHECK_*)`,
		Example: `  # Show effective configuration
  tscheck config show

  # List the files that are consulted
  tscheck config path

  # Write a project config with the defaults
  tscheck config init`,
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration a check in this directory would use, after merging
defaults, user config, project config and environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig(dir)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.InternalError("failed to marshal config", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List configuration file locations",
		Long:  `List every configuration file tscheck consults here, in precedence order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}

			paths := config.SearchPaths(dir)
			if a.configPath != "" {
				// --config replaces the project files
				paths = []string{config.GetUserConfigPath(), a.configPath}
			}

			out := output.New(cmd.OutOrStdout())
			for _, p := range paths {
				if _, err := os.Stat(p); err == nil {
					out.Status("✅", p)
				} else {
					out.Statusf("", "%s (not found)", p)
				}
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project configuration file",
		Long: `Write a commented .tscheck.yaml with the default settings into the project root
(or the current directory when no project root is found).

With --force an existing file is backed up before it is replaced.`,
		Example: `  # Create project config
  tscheck config init

  # Replace an existing config, keeping a backup
  tscheck config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	dir, err := projectDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ".tscheck.yaml")

	if existing := config.ProjectConfigPath(dir); existing != "" {
		if !force {
			out.Warning("Project configuration already exists")
			out.Statusf("📁", "Location: %s", existing)
			out.Newline()
			out.Status("💡", "Use --force to replace it (a backup is kept)")
			return nil
		}

		backupPath, err := config.BackupFile(existing)
		if err != nil {
			return err
		}
		out.Statusf("💾", "Backup: %s", backupPath)
		path = existing
	}

	if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0644); err != nil {
		return errors.New(errors.ErrCodeFileWrite, "failed to write config file", err).
			WithDetail("path", path)
	}

	out.Success("Created project configuration")
	out.Statusf("📁", "Location: %s", path)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the commands if you run tsc through pnpm, yarn or bun")
	out.Status("", "  2. Run 'tscheck config show' to verify")

	return nil
}

// projectDir returns the project root above the working directory, or the
// working directory itself when there is none.
func projectDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.IOError("failed to get current directory", err)
	}
	if root, err := preflight.FindProjectRootFrom(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}
