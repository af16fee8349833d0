// Package adapter contains filesystem and persistence adapters for the
// makemod CLI.
package adapter

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	m "makemod.dev/pkg/makemod/internal/model"
)

// ModuleFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on when scanning a repository and writing generated files. It
// hides direct `os` access so the pipeline logic can be tested against a
// temp-directory fixture without touching the real repository.
type ModuleFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ListDir returns the immediate entries of a directory.
	ListDir(dir m.Path) ([]os.DirEntry, error)

	// Glob expands a glob pattern against the filesystem. Matching is
	// non-recursive unless the pattern itself says otherwise.
	Glob(pattern string) ([]string, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Remove deletes a single file.
	Remove(path m.Path) error

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalModuleFSAdapter is the concrete implementation backed by the local
// filesystem.
type LocalModuleFSAdapter struct{}

// NewLocalModuleFSAdapter constructs a LocalModuleFSAdapter ready to be
// wired into the workflow.
func NewLocalModuleFSAdapter() *LocalModuleFSAdapter {
	return &LocalModuleFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalModuleFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ListDir returns the immediate entries of dir.
func (a *LocalModuleFSAdapter) ListDir(dir m.Path) ([]os.DirEntry, error) {
	return os.ReadDir(string(dir))
}

// Glob expands pattern against the local filesystem.
func (a *LocalModuleFSAdapter) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// ReadFile loads file contents from disk.
func (a *LocalModuleFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalModuleFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Remove deletes the file at path.
func (a *LocalModuleFSAdapter) Remove(path m.Path) error {
	return os.Remove(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalModuleFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalModuleFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
