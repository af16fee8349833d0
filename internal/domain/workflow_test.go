package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// writeRepoFixture lays out a miniature repository in the current working
// directory, covering every manifest root the default configuration expects.
func writeRepoFixture(t *testing.T) {
	t.Helper()

	writeTestFile(t, "include/casm/app/Foo.hh", "")
	writeTestFile(t, "include/casm/clex/Bar.hh", "")
	writeTestFile(t, "include/ccasm/api.h", "")

	writeTestFile(t, "src/casm/app/AppIO.cc", "")
	writeTestFile(t, "src/ccasm/api.cc", "")

	writeTestFile(t, "apps/ccasm/ccasm.cpp", "")
	writeTestFile(t, "apps/completer/complete.cpp", "")

	writeTestFile(t, "tests/unit/unit_test.cpp", "")
	writeTestFile(t, "tests/unit/Proj.hh", "")
	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/fixture.json", "")

	writeTestFile(t, "Makefile.am", "ACLOCAL_AMFLAGS = -I build-aux\n\n"+
		begin+"\n"+
		"include $(srcdir)/stale/Makemodule.am\n"+
		end+"\n")
	writeTestFile(t, "configure.ac", "AC_INIT([casm], [1.0])\n"+
		begin+"\n"+
		end+"\n"+
		"AC_OUTPUT\n")
}

func newTestWorkflow() Workflow {
	return NewWorkflow(adapter.NewLocalModuleFSAdapter(), m.DefaultConfig())
}

func TestWorkflow_Generate(t *testing.T) {
	chdirTemp(t)
	writeRepoFixture(t)

	summary, err := newTestWorkflow().Generate()
	require.NoError(t, err)

	wantFragments := []string{
		"include/casm/Makemodule.am",
		"include/ccasm/Makemodule.am",
		"src/casm/Makemodule.am",
		"src/ccasm/Makemodule.am",
		"apps/ccasm/Makemodule.am",
		"apps/completer/Makemodule.am",
		"tests/unit/Makemodule.am",
	}

	require.Len(t, summary.Fragments, len(wantFragments))

	for i, want := range wantFragments {
		assert.Equal(t, m.Path(want), summary.Fragments[i].Path)

		_, statErr := os.Stat(want)
		assert.NoError(t, statErr, "fragment %s not written", want)
	}

	assert.Equal(t, []string{"sample"}, summary.Groups)

	_, err = os.Stat("tests/unit/sample/run_test_sample.in")
	require.NoError(t, err)

	makefile, err := os.ReadFile("Makefile.am")
	require.NoError(t, err)
	assert.Contains(t, string(makefile), "include $(srcdir)/include/casm/Makemodule.am\n")
	assert.Contains(t, string(makefile), "include $(srcdir)/tests/unit/Makemodule.am\n")
	assert.NotContains(t, string(makefile), "stale/Makemodule.am")
	assert.Contains(t, string(makefile), "ACLOCAL_AMFLAGS = -I build-aux\n")

	configure, err := os.ReadFile("configure.ac")
	require.NoError(t, err)
	assert.Contains(t, string(configure),
		"AC_CONFIG_FILES([tests/unit/sample/run_test_sample], [chmod +x tests/unit/sample/run_test_sample])\n")
	assert.Contains(t, string(configure), "AC_OUTPUT\n")

	tests, err := os.ReadFile("tests/unit/Makemodule.am")
	require.NoError(t, err)
	assert.Contains(t, string(tests), "casm_unit_sample_SOURCES = \\\n  tests/unit/unit_test.cpp\\\n  tests/unit/sample/bar_test.cpp\n\n")
}

func TestWorkflow_Idempotent(t *testing.T) {
	chdirTemp(t)
	writeRepoFixture(t)

	workflow := newTestWorkflow()

	_, err := workflow.Generate()
	require.NoError(t, err)

	first := snapshotGenerated(t)

	_, err = workflow.Generate()
	require.NoError(t, err)

	second := snapshotGenerated(t)
	assert.Equal(t, first, second)
}

func TestWorkflow_RemovesStaleFragments(t *testing.T) {
	chdirTemp(t)
	writeRepoFixture(t)

	writeTestFile(t, "stale/Makemodule.am", "old\n")
	writeTestFile(t, "stale/Makemodule.am.test", "old\n")

	_, err := newTestWorkflow().Generate()
	require.NoError(t, err)

	_, err = os.Stat("stale/Makemodule.am")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat("stale/Makemodule.am.test")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkflow_MissingIncludeRootIsFatal(t *testing.T) {
	chdirTemp(t)
	writeRepoFixture(t)
	require.NoError(t, os.RemoveAll("include/ccasm"))

	_, err := newTestWorkflow().Generate()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkflow_MalformedMakefileIsFatal(t *testing.T) {
	chdirTemp(t)
	writeRepoFixture(t)
	writeTestFile(t, "Makefile.am", "no markers here\n")

	_, err := newTestWorkflow().Generate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBeginMarkerMissing)
}

// snapshotGenerated reads every generated file plus the two host files.
func snapshotGenerated(t *testing.T) map[string]string {
	t.Helper()

	snapshot := make(map[string]string)

	for _, path := range []string{"Makefile.am", "configure.ac", "tests/unit/sample/run_test_sample.in"} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		snapshot[path] = string(data)
	}

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() && filepath.Base(path) == "Makemodule.am" {
			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			snapshot[path] = string(data)
		}

		return nil
	})
	require.NoError(t, err)

	return snapshot
}
