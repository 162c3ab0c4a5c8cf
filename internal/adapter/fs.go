// Package adapter contains filesystem and process adapters for the covmeld CLI.
package adapter

import (
	"os"
	"path/filepath"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// FSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning coverage trees. It intentionally hides direct `os`
// access so the pipeline logic can be tested without touching the disk.
type FSAdapter interface {
	// ResolvePath returns the absolute path with symbolic links evaluated,
	// so a symlinked root behaves identically to a direct one.
	ResolvePath(path m.Path) (m.Path, error)

	// Walk traverses the provided root path recursively.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Remove deletes a single file.
	Remove(path m.Path) error

	// FileInfo returns metadata for a path so the domain can check existence.
	FileInfo(path m.Path) (os.FileInfo, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path

	// Glob returns the paths matching the given pattern.
	Glob(pattern string) ([]m.Path, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalFSAdapter is the concrete FSAdapter backed by the local filesystem.
type LocalFSAdapter struct{}

// NewLocalFSAdapter constructs a LocalFSAdapter ready to be wired into the
// pipeline.
func NewLocalFSAdapter() *LocalFSAdapter {
	return &LocalFSAdapter{}
}

// ResolvePath evaluates symlinks and makes the path absolute.
func (a *LocalFSAdapter) ResolvePath(path m.Path) (m.Path, error) {
	resolved, err := filepath.EvalSymlinks(string(path))
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// Walk iterates over all files under root, descending into subdirectories.
func (a *LocalFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Remove deletes a single file.
func (a *LocalFSAdapter) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// Glob returns the paths matching the given pattern.
func (a *LocalFSAdapter) Glob(pattern string) ([]m.Path, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(match))
	}

	return paths, nil
}
