package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlosdem/appstream/internal/config"
	"github.com/carlosdem/appstream/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // for loading documents
	PathCheckWrite                      // for writing converted output
)

// ValidatePath performs path validation for document reads and writes.
// It checks:
// 1. Path traversal (.. sequences)
// 2. Extension (.xml, .yml, .yaml or .md)
// 3. Directory restrictions (file must live under the working directory or an allowed_paths entry)
// 4. Symlink safety (intermediate directories are resolved, the file itself must not be a symlink)
//
// Symlink restrictions hold even with allow_unsafe_paths because
// O_NOFOLLOW is used at open time; validation failing early just gives
// a clearer error.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	// Reject paths containing ".." (traversal attempt)
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !allowedExtension(cleaned) {
		return errors.NewInvalidRequest("path must have a .xml, .yml, .yaml or .md extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// If unsafe paths are allowed, skip the directory checks (but NOT
	// the symlink checks).
	if cfg != nil && cfg.AllowUnsafePaths {
		if mode == PathCheckRead {
			if _, err := os.Stat(absPath); os.IsNotExist(err) {
				return errors.NewNotFound(path)
			}
		}
		if info, err := os.Lstat(absPath); err == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return errors.NewInvalidRequest("path must not be a symlink")
			}
		}
		return nil
	}

	roots, err := allowedRoots(cfg)
	if err != nil {
		return err
	}

	// Resolve the parent directory when it exists so a symlinked
	// intermediate component cannot smuggle the file outside an
	// allowed root.
	parentDir := filepath.Dir(absPath)
	if resolved, err := filepath.EvalSymlinks(parentDir); err == nil {
		parentDir = resolved
	}

	if !underAllowedRoot(parentDir, roots) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("path must be under the working directory or an allowed directory; allowed: %v", roots))
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewNotFound(path)
		}
	}

	// Reject symlink files for both read and write modes. O_NOFOLLOW at
	// open time would catch this too, but rejecting early gives a
	// clearer error.
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink")
		}
	}

	return nil
}

// allowedExtension reports whether the path carries one of the
// document extensions the tool handles.
func allowedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".yml", ".yaml", ".md":
		return true
	}
	return false
}

// allowedRoots returns the directory roots a path may live under: the
// current working directory plus any configured allowed_paths entries.
// Existing roots are resolved so symlinked allowed_paths entries match
// against their real targets.
func allowedRoots(cfg *config.Config) ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to get working directory: %w", err))
	}
	dirs := []string{cwd}

	// Add configured allowed paths (only absolute paths)
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

// underAllowedRoot reports whether dir equals or sits below one of the
// allowed roots.
func underAllowedRoot(dir string, roots []string) bool {
	dir = filepath.Clean(dir)
	for _, root := range roots {
		root = filepath.Clean(root)
		if dir == root || strings.HasPrefix(dir, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	// Check each path component
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
