package domain

import (
	"path"
	"strings"

	m "makemod.dev/pkg/makemod/internal/model"
)

// HeaderManifestBuilder emits the install-directory and HEADERS variables
// for one include root. Each directory under the root becomes a pair of
// assignments: an install path under $(includedir) and the header list that
// goes there.
type HeaderManifestBuilder struct {
	scanner *TreeScanner
}

// NewHeaderManifestBuilder wires a builder to a scanner.
func NewHeaderManifestBuilder(scanner *TreeScanner) *HeaderManifestBuilder {
	return &HeaderManifestBuilder{scanner: scanner}
}

// Build scans root and writes one dir/HEADERS pair per directory, in
// first-seen traversal order. Variable names are derived from the full
// relative subpath below the root's first segment, so two distinct
// directories can never collide to the same name.
func (b *HeaderManifestBuilder) Build(fw *FragmentWriter, root m.Path) error {
	files, err := b.scanner.Scan(root)
	if err != nil {
		return err
	}

	var order []m.Path

	byDir := make(map[m.Path][]string)

	for _, f := range files {
		if _, seen := byDir[f.Dir]; !seen {
			order = append(order, f.Dir)
		}

		byDir[f.Dir] = append(byDir[f.Dir], string(f.Path))
	}

	for _, dir := range order {
		// dir=include/casm/app -> subpath=casm/app, name=casm_app_include
		parts := strings.Split(string(dir), "/")[1:]
		subpath := path.Join(parts...)
		name := strings.Join(append(append([]string{}, parts...), "include"), "_")

		fw.Raw(name + "dir=$(includedir)/" + subpath + "\n\n")
		fw.Assign(name+"_HEADERS", byDir[dir])
	}

	return nil
}
