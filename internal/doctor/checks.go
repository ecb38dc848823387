package doctor

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/tscheck/internal/config"
	"github.com/Aman-CERP/tscheck/internal/errors"
	"github.com/Aman-CERP/tscheck/internal/preflight"
)

// CheckProjectRoot resolves the project root the way a check would.
// It returns the root, or "" when none was found.
func (c *Checker) CheckProjectRoot(filePath, override string) (CheckResult, string) {
	result := CheckResult{
		Name:     "project_root",
		Required: true,
	}

	var root string
	var err error
	if filePath == "" && override == "" {
		root, err = preflight.FindProjectRootFrom(".")
	} else {
		root, err = preflight.ResolveProjectRoot(filePath, override)
	}
	if err != nil {
		result.Status = StatusFail
		result.Message = preflight.RootNotFoundMessage
		_, result.Details = describe(err)
		return result, ""
	}

	result.Status = StatusPass
	result.Message = root
	return result, root
}

// CheckConfig loads the layered configuration. On failure it returns the
// defaults so later checks can still run.
func (c *Checker) CheckConfig(root, explicitPath string) (CheckResult, *config.Config) {
	result := CheckResult{
		Name:     "config",
		Required: true,
	}

	cfg, err := config.Load(root, explicitPath)
	if err != nil {
		result.Status = StatusFail
		result.Message, result.Details = describe(err)
		return result, config.NewConfig()
	}

	var sources []string
	if config.UserConfigExists() {
		sources = append(sources, config.GetUserConfigPath())
	}
	switch {
	case explicitPath != "":
		sources = append(sources, explicitPath)
	case root != "":
		if p := config.ProjectConfigPath(root); p != "" {
			sources = append(sources, p)
		}
	}

	result.Status = StatusPass
	if len(sources) == 0 {
		result.Message = "defaults"
	} else {
		result.Message = strings.Join(sources, ", ")
	}
	return result, cfg
}

// CheckTSConfig warns when the type checker would be skipped.
func (c *Checker) CheckTSConfig(root, name string) CheckResult {
	result := CheckResult{
		Name: "tsconfig",
	}

	path := filepath.Join(root, name)
	if _, err := os.Stat(path); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%s not found, type checking will be skipped", name)
		return result
	}

	result.Status = StatusPass
	result.Message = path
	return result
}

// CheckTool looks up the tool's executable on PATH.
func (c *Checker) CheckTool(name string, tool config.ToolConfig) CheckResult {
	result := CheckResult{
		Name:    name,
		Details: tool.Command,
	}

	argv, err := tool.Argv()
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}

	path, err := c.lookPath(argv[0])
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%s not found on PATH", argv[0])
		return result
	}

	result.Status = StatusPass
	result.Message = path
	return result
}

// describe splits a CheckError into its message and a one-line cause.
func describe(err error) (string, string) {
	var ce *errors.CheckError
	if !stderrors.As(err, &ce) {
		return err.Error(), ""
	}
	if ce.Cause == nil {
		return ce.Message, ce.Suggestion
	}
	return ce.Message, strings.Join(strings.Fields(ce.Cause.Error()), " ")
}
