package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// TreeScanner recursively walks a directory and returns every regular file
// the classifier accepts, in traversal order. The tree is assumed acyclic;
// symlink cycles are not defended against.
type TreeScanner struct {
	fs         adapter.ModuleFSAdapter
	classifier *PathClassifier
}

// NewTreeScanner wires a scanner to a filesystem adapter and a classifier.
func NewTreeScanner(fs adapter.ModuleFSAdapter, classifier *PathClassifier) *TreeScanner {
	return &TreeScanner{fs: fs, classifier: classifier}
}

// Scan walks root and returns the accepted files paired with their parent
// directories. Paths keep the root prefix and use forward slashes. A missing
// root is an error; a misconfigured repository layout should abort the run.
func (s *TreeScanner) Scan(root m.Path) ([]m.DiscoveredFile, error) {
	if _, err := s.fs.FileInfo(root); err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}

	var files []m.DiscoveredFile

	err := s.fs.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		if !s.classifier.Matches(filepath.Base(path)) {
			slog.Debug("skipping file", "path", path)
			return nil
		}

		files = append(files, m.DiscoveredFile{
			Path: m.Path(filepath.ToSlash(path)),
			Dir:  m.Path(filepath.ToSlash(filepath.Dir(path))),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return files, nil
}
