package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestScanRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"))
	writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "sub", "c.txt"))

	files := Scan(root, true)

	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "sub", "c.txt"),
	}
	assert.Equal(t, want, files)
}

func TestScanExcludesHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden", "file.txt"))
	writeFile(t, filepath.Join(root, "visible", "file.txt"))
	writeFile(t, filepath.Join(root, ".dotfile"))

	files := Scan(root, true)

	assert.Equal(t, []string{filepath.Join(root, "visible", "file.txt")}, files)
}

func TestScanNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"))
	writeFile(t, filepath.Join(root, "sub", "nested.txt"))
	writeFile(t, filepath.Join(root, ".ignored"))

	files := Scan(root, false)

	assert.Equal(t, []string{filepath.Join(root, "top.txt")}, files)
}

func TestScanMissingRootIsEmpty(t *testing.T) {
	files := Scan(filepath.Join(t.TempDir(), "does-not-exist"), true)
	assert.Empty(t, files)
}

func TestScanRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file)

	assert.Empty(t, Scan(file, true))
}

func TestScanOrderingIsDeterministic(t *testing.T) {
	root := t.TempDir()
	names := []string{"zeta.txt", "alpha.txt", "mid.txt", "beta.txt"}
	for _, n := range names {
		writeFile(t, filepath.Join(root, n))
	}

	files := Scan(root, true)
	require.Len(t, files, len(names))
	assert.True(t, sort.StringsAreSorted(files))

	again := Scan(root, true)
	assert.Equal(t, files, again)
}
