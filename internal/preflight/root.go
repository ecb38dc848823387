package preflight

import (
	"os"
	"path/filepath"

	"github.com/Aman-CERP/tscheck/internal/errors"
)

// RootMarkers are the files whose presence marks a project root.
var RootMarkers = []string{"tsconfig.json", "package.json"}

// RootNotFoundMessage is printed when no ancestor holds a root marker.
const RootNotFoundMessage = "Could not find project root (no tsconfig.json or package.json)"

// FindProjectRoot returns the nearest directory at or above filePath's
// directory that contains a root marker. The filesystem root itself is
// never considered.
func FindProjectRoot(filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", errors.New(errors.ErrCodeProjectRootNotFound, RootNotFoundMessage, err).
			WithDetail("file", filePath)
	}

	root, ok := searchUp(filepath.Dir(abs))
	if ok {
		return root, nil
	}

	return "", errors.New(errors.ErrCodeProjectRootNotFound, RootNotFoundMessage, nil).
		WithDetail("file", abs).
		WithSuggestion("Pass --project-root or run from inside a TypeScript project")
}

// FindProjectRootFrom is FindProjectRoot for a search starting at dir itself.
func FindProjectRootFrom(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.New(errors.ErrCodeProjectRootNotFound, RootNotFoundMessage, err).
			WithDetail("dir", dir)
	}

	root, ok := searchUp(abs)
	if !ok {
		return "", errors.New(errors.ErrCodeProjectRootNotFound, RootNotFoundMessage, nil).
			WithDetail("dir", abs)
	}
	return root, nil
}

// searchUp walks from current towards the filesystem root, stopping before it.
func searchUp(current string) (string, bool) {
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		if hasRootMarker(current) {
			return current, true
		}
		current = parent
	}
	return "", false
}

// ResolveProjectRoot returns override made absolute when set, otherwise
// searches upward from filePath.
func ResolveProjectRoot(filePath, override string) (string, error) {
	if override == "" {
		return FindProjectRoot(filePath)
	}
	abs, err := filepath.Abs(override)
	if err != nil {
		return "", errors.New(errors.ErrCodeProjectRootNotFound, RootNotFoundMessage, err).
			WithDetail("project_root", override)
	}
	return abs, nil
}

func hasRootMarker(dir string) bool {
	for _, name := range RootMarkers {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
