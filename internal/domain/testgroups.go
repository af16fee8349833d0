package domain

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// TestGroupDiscoverer finds unit-test groups and renders their build stanzas
// and run-wrapper scripts. A group is an immediate subdirectory of the
// unit-test root containing at least one recognized test source; each group
// compiles into one check binary run through one generated wrapper.
type TestGroupDiscoverer struct {
	fs  adapter.ModuleFSAdapter
	cfg m.Config
}

// NewTestGroupDiscoverer wires a discoverer to the filesystem and config.
func NewTestGroupDiscoverer(fs adapter.ModuleFSAdapter, cfg m.Config) *TestGroupDiscoverer {
	return &TestGroupDiscoverer{fs: fs, cfg: cfg}
}

// Discover lists the unit-test root and returns every group found, in
// directory-listing order. An unreadable test-source glob is fatal; an
// extra-dist glob failing (a group directory vanishing mid-scan) is skipped
// silently.
func (d *TestGroupDiscoverer) Discover() ([]m.TestGroup, error) {
	entries, err := d.fs.ListDir(d.cfg.UnitTestDir)
	if err != nil {
		return nil, fmt.Errorf("list unit-test dir %s: %w", d.cfg.UnitTestDir, err)
	}

	var groups []m.TestGroup

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := d.fs.JoinPath(string(d.cfg.UnitTestDir), entry.Name())

		tests, err := d.fs.Glob(filepath.Join(string(dir), d.cfg.TestSourceGlob))
		if err != nil {
			return nil, fmt.Errorf("glob test sources in %s: %w", dir, err)
		}

		if len(tests) == 0 {
			continue
		}

		slog.Info("test group found", "group", entry.Name(), "sources", len(tests))

		var extra []string

		for _, pattern := range d.cfg.ExtraDistGlobs {
			matches, err := d.fs.Glob(filepath.Join(string(dir), pattern))
			if err != nil {
				slog.Debug("extra-dist glob failed", "group", entry.Name(), "pattern", pattern, "err", err)
				continue
			}

			extra = append(extra, toSlashAll(matches)...)
		}

		groups = append(groups, m.TestGroup{
			Name:        entry.Name(),
			Dir:         m.Path(filepath.ToSlash(string(dir))),
			TestSources: toSlashAll(tests),
			ExtraDist:   extra,
			BinaryName:  d.cfg.TestBinaryPrefix + entry.Name(),
			WrapperName: d.cfg.WrapperPrefix + entry.Name(),
		})
	}

	return groups, nil
}

// RenderHarness writes the stanza shared by every group: the complete-test
// program, the internal testing library, and its sources gathered from the
// unit-test root itself.
func (d *TestGroupDiscoverer) RenderHarness(fw *FragmentWriter) error {
	fw.Append("check_PROGRAMS", d.cfg.CheckPrograms)
	fw.Append("noinst_LIBRARIES", d.cfg.LibTesting)

	var files []string

	for _, pattern := range d.cfg.HarnessLibGlobs {
		matches, err := d.fs.Glob(filepath.Join(string(d.cfg.UnitTestDir), pattern))
		if err != nil {
			return fmt.Errorf("glob harness sources %s: %w", pattern, err)
		}

		files = append(files, toSlashAll(matches)...)
	}

	if len(d.cfg.LibTesting) > 0 {
		fw.Assign(variableName(d.cfg.LibTesting[0])+"_SOURCES", files)
	}

	return nil
}

// RenderGroup writes one group's build stanza: registration, compiler
// flags, sources (harness first), link libraries in the fixed resolution
// order, extra-dist files, and the TESTS entry.
func (d *TestGroupDiscoverer) RenderGroup(fw *FragmentWriter, g m.TestGroup) {
	fw.Append("check_PROGRAMS", []string{g.BinaryName})
	fw.Assign(g.BinaryName+"_CXXFLAGS", d.cfg.TestCXXFlags)
	fw.Assign(g.BinaryName+"_SOURCES", append([]string{d.cfg.TestHarness}, g.TestSources...))

	// Link order matters for symbol resolution and must not change.
	ldadd := make([]string, 0, len(d.cfg.LibCasm)+len(d.cfg.BoostLibs)+len(d.cfg.BoostTestLibs)+len(d.cfg.LibTesting))
	ldadd = append(ldadd, d.cfg.LibCasm...)
	ldadd = append(ldadd, d.cfg.BoostLibs...)
	ldadd = append(ldadd, d.cfg.BoostTestLibs...)
	ldadd = append(ldadd, d.cfg.LibTesting...)
	fw.Assign(g.BinaryName+"_LDADD", ldadd)

	fw.Append("EXTRA_DIST", g.ExtraDist)
	fw.Append("TESTS", []string{path.Join(string(g.Dir), g.WrapperName)})
}

// WrapperBody returns the run_test_<group>.in script. The @...@ tokens are
// emitted literally; the configure pass substitutes them later, so the body
// must be reproduced exactly.
func (d *TestGroupDiscoverer) WrapperBody(g m.TestGroup) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	b.WriteString("GROUP=" + g.Name + "\n")
	b.WriteString("export PATH=@abs_top_builddir@:$PATH\n")
	b.WriteString("cd @abs_top_srcdir@\n")
	b.WriteString("mkdir -p @abs_top_srcdir@/" + string(d.cfg.UnitTestDir) + "/test_projects\n")
	b.WriteString(`: ${TEST_FLAGS:="--log_level=test_suite --catch_system_errors=no"}` + "\n")
	b.WriteString("@abs_top_builddir@/" + d.cfg.TestBinaryPrefix + "$GROUP ${TEST_FLAGS}\n")

	return b.String()
}

// WrapperPath returns the location the wrapper template is written to.
func (d *TestGroupDiscoverer) WrapperPath(g m.TestGroup) m.Path {
	return d.fs.JoinPath(string(g.Dir), g.WrapperName+".in")
}

// variableName canonicalizes a file name into an automake variable stem,
// e.g. libcasmtesting.a -> libcasmtesting_a.
func variableName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func toSlashAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.ToSlash(p))
	}

	return out
}
