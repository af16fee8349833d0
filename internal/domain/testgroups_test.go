package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

func newDiscoverer() *TestGroupDiscoverer {
	return NewTestGroupDiscoverer(adapter.NewLocalModuleFSAdapter(), m.DefaultConfig())
}

func TestTestGroupDiscoverer_DetectsGroups(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "tests/unit/unit_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/helper.hh", "")
	writeTestFile(t, "tests/unit/empty/README.md", "")
	writeTestFile(t, "tests/unit/loose_file.cpp", "")

	groups, err := newDiscoverer().Discover()
	require.NoError(t, err)

	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "sample", g.Name)
	assert.Equal(t, m.Path("tests/unit/sample"), g.Dir)
	assert.Equal(t, []string{"tests/unit/sample/bar_test.cpp"}, g.TestSources)
	assert.Equal(t, []string{"tests/unit/sample/helper.hh"}, g.ExtraDist)
	assert.Equal(t, "casm_unit_sample", g.BinaryName)
	assert.Equal(t, "run_test_sample", g.WrapperName)
}

func TestTestGroupDiscoverer_NoRecursionIntoGroupSubdirs(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/nested/deep_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/nested/fixture.json", "")

	groups, err := newDiscoverer().Discover()
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"tests/unit/sample/bar_test.cpp"}, groups[0].TestSources)
	assert.Empty(t, groups[0].ExtraDist)
}

func TestTestGroupDiscoverer_RenderGroup(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")
	writeTestFile(t, "tests/unit/sample/fixture.json", "")

	d := newDiscoverer()

	groups, err := d.Discover()
	require.NoError(t, err)
	require.Len(t, groups, 1)

	fw := NewFragmentWriter()
	d.RenderGroup(fw, groups[0])

	out := string(fw.Bytes())
	assert.Contains(t, out, "check_PROGRAMS += \\\n  casm_unit_sample\n\n")
	assert.Contains(t, out, "casm_unit_sample_CXXFLAGS = \\\n  $(AM_CXXFLAGS)\\\n  -I$(top_srcdir)/tests/unit/\n\n")

	// Harness entry file first, then the group's test sources.
	assert.Contains(t, out, "casm_unit_sample_SOURCES = \\\n  tests/unit/unit_test.cpp\\\n  tests/unit/sample/bar_test.cpp\n\n")

	// Library order is fixed for link resolution.
	assert.Contains(t, out, "casm_unit_sample_LDADD = \\\n"+
		"  libcasm.la\\\n"+
		"  $(BOOST_SYSTEM_LIB)\\\n"+
		"  $(BOOST_FILESYSTEM_LIB)\\\n"+
		"  $(BOOST_PROGRAM_OPTIONS_LIB)\\\n"+
		"  $(BOOST_REGEX_LIB)\\\n"+
		"  $(BOOST_CHRONO_LIB)\\\n"+
		"  $(BOOST_UNIT_TEST_FRAMEWORK_LIB)\\\n"+
		"  libcasmtesting.a\n\n")

	assert.Contains(t, out, "EXTRA_DIST += \\\n  tests/unit/sample/fixture.json\n\n")
	assert.Contains(t, out, "TESTS += \\\n  tests/unit/sample/run_test_sample\n\n")
}

func TestTestGroupDiscoverer_RenderHarness(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "tests/unit/unit_test.cpp", "")
	writeTestFile(t, "tests/unit/Proj.cc", "")
	writeTestFile(t, "tests/unit/Proj.hh", "")
	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")

	fw := NewFragmentWriter()
	require.NoError(t, newDiscoverer().RenderHarness(fw))

	out := string(fw.Bytes())
	assert.Contains(t, out, "check_PROGRAMS += \\\n  ccasm\n\n")
	assert.Contains(t, out, "noinst_LIBRARIES += \\\n  libcasmtesting.a\n\n")
	assert.Contains(t, out, "libcasmtesting_a_SOURCES = \\\n  tests/unit/unit_test.cpp\\\n  tests/unit/Proj.cc\\\n  tests/unit/Proj.hh\n\n")
}

func TestTestGroupDiscoverer_WrapperBody(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "tests/unit/sample/bar_test.cpp", "")

	d := newDiscoverer()

	groups, err := d.Discover()
	require.NoError(t, err)
	require.Len(t, groups, 1)

	want := "#!/bin/bash\n" +
		"GROUP=sample\n" +
		"export PATH=@abs_top_builddir@:$PATH\n" +
		"cd @abs_top_srcdir@\n" +
		"mkdir -p @abs_top_srcdir@/tests/unit/test_projects\n" +
		`: ${TEST_FLAGS:="--log_level=test_suite --catch_system_errors=no"}` + "\n" +
		"@abs_top_builddir@/casm_unit_$GROUP ${TEST_FLAGS}\n"
	assert.Equal(t, want, d.WrapperBody(groups[0]))

	assert.Equal(t, m.Path("tests/unit/sample/run_test_sample.in"), d.WrapperPath(groups[0]))
}

func TestTestGroupDiscoverer_MissingUnitTestDir(t *testing.T) {
	chdirTemp(t)

	_, err := newDiscoverer().Discover()
	require.Error(t, err)
}
