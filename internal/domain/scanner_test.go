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

func chdirTemp(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return tempDir
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func newDefaultScanner(t *testing.T) *TreeScanner {
	t.Helper()

	classifier, err := NewPathClassifier(defaultPattern())
	require.NoError(t, err)

	return NewTreeScanner(adapter.NewLocalModuleFSAdapter(), classifier)
}

func TestTreeScanner_ExcludesBuildArtifacts(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "include/casm/app/Foo.hh", "")
	writeTestFile(t, "include/casm/app/Foo.o", "")
	writeTestFile(t, "include/casm/app/.gitignore", "")
	writeTestFile(t, "include/casm/app/Foo.Plo", "")

	files, err := newDefaultScanner(t).Scan("include/casm")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, m.Path("include/casm/app/Foo.hh"), files[0].Path)
	assert.Equal(t, m.Path("include/casm/app"), files[0].Dir)
}

func TestTreeScanner_RecursesAndPairsDirectories(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "include/casm/Top.hh", "")
	writeTestFile(t, "include/casm/app/Foo.hh", "")
	writeTestFile(t, "include/casm/app/io/Deep.hh", "")

	files, err := newDefaultScanner(t).Scan("include/casm")
	require.NoError(t, err)

	require.Len(t, files, 3)

	dirs := make(map[m.Path]bool)
	for _, f := range files {
		dirs[f.Dir] = true
	}

	assert.True(t, dirs["include/casm"])
	assert.True(t, dirs["include/casm/app"])
	assert.True(t, dirs["include/casm/app/io"])
}

func TestTreeScanner_StableAcrossRuns(t *testing.T) {
	chdirTemp(t)

	writeTestFile(t, "src/casm/b.cc", "")
	writeTestFile(t, "src/casm/a.cc", "")
	writeTestFile(t, "src/casm/sub/c.cc", "")

	scanner := newDefaultScanner(t)

	first, err := scanner.Scan("src/casm")
	require.NoError(t, err)

	second, err := scanner.Scan("src/casm")
	require.NoError(t, err)

	// No particular order is promised, only stability on an unchanged tree.
	assert.Equal(t, first, second)
}

func TestTreeScanner_MissingRoot(t *testing.T) {
	chdirTemp(t)

	_, err := newDefaultScanner(t).Scan("include/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
