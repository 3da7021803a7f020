package mover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sortwise/sortwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestMoveSingleFile(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	file := filepath.Join(src, "photo.jpg")
	writeFile(t, file, "img")

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: file, Category: "Images", BasePath: base},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Moved)
	assert.Equal(t, filepath.Join(base, "Images", "photo.jpg"), results[0].Destination)
	assert.Empty(t, results[0].Error)

	_, err := os.Stat(results[0].Destination)
	assert.NoError(t, err)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err), "source must be gone after the move")
}

func TestMoveCollisionSuffixing(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	first := filepath.Join(src, "one", "photo.jpg")
	second := filepath.Join(src, "two", "photo.jpg")
	writeFile(t, first, "first")
	writeFile(t, second, "second")

	exec := NewExecutor(nil)
	results := exec.Move([]model.MoveRequest{
		{SourcePath: first, Category: "Images", BasePath: base},
		{SourcePath: second, Category: "Images", BasePath: base},
	})

	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(base, "Images", "photo.jpg"), results[0].Destination)
	assert.Equal(t, filepath.Join(base, "Images", "photo_1.jpg"), results[1].Destination)

	data, err := os.ReadFile(results[1].Destination)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestMoveCollisionIncrementsPastExisting(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	file := filepath.Join(src, "doc.pdf")
	writeFile(t, file, "new")
	writeFile(t, filepath.Join(base, "Documents", "doc.pdf"), "old")
	writeFile(t, filepath.Join(base, "Documents", "doc_1.pdf"), "old1")

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: file, Category: "Documents", BasePath: base},
	})

	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(base, "Documents", "doc_2.pdf"), results[0].Destination)
}

func TestMoveMissingSource(t *testing.T) {
	base := t.TempDir()

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: filepath.Join(t.TempDir(), "ghost.txt"), Category: "Documents", BasePath: base},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Moved)
	assert.Empty(t, results[0].Destination)
	assert.Contains(t, results[0].Error, "source not found")
}

func TestMoveDirectorySource(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: src, Category: "Misc", BasePath: base},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Moved)
	assert.Equal(t, "source is a directory", results[0].Error)
}

func TestMoveFailuresDoNotAbortBatch(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	good := filepath.Join(src, "good.txt")
	writeFile(t, good, "x")

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: filepath.Join(src, "missing.txt"), Category: "Documents", BasePath: base},
		{SourcePath: good, Category: "Documents", BasePath: base},
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Moved)
	assert.True(t, results[1].Moved)
}

func TestMoveResultsKeepRequestOrder(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	names := []string{"c.txt", "a.txt", "b.txt"}
	var requests []model.MoveRequest
	for _, n := range names {
		path := filepath.Join(src, n)
		writeFile(t, path, n)
		requests = append(requests, model.MoveRequest{SourcePath: path, Category: "Documents", BasePath: base})
	}

	results := NewExecutor(nil).Move(requests)

	require.Len(t, results, 3)
	for i, n := range names {
		assert.Equal(t, filepath.Join(src, n), results[i].SourcePath)
	}
}

func TestResolveCollisionPropagatesProbeErrors(t *testing.T) {
	// A name component beyond the filesystem limit makes stat fail with
	// something other than "does not exist"; that must surface as an
	// error, not be mistaken for a taken name.
	dest := filepath.Join(t.TempDir(), strings.Repeat("x", 300)+".txt")

	_, err := resolveCollision(dest)
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestResolveCollisionProbeErrorOnSuffixCandidate(t *testing.T) {
	// The initial name is taken and every suffixed candidate is
	// unprobeable; the loop must stop with an error instead of
	// incrementing forever.
	dir := t.TempDir()
	stem := strings.Repeat("z", 251)
	taken := filepath.Join(dir, stem+".txt")
	writeFile(t, taken, "occupied")

	_, err := resolveCollision(taken)
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestMoveExtensionlessCollision(t *testing.T) {
	src := t.TempDir()
	base := t.TempDir()
	file := filepath.Join(src, "README")
	writeFile(t, file, "new")
	writeFile(t, filepath.Join(base, "Documents", "README"), "old")

	results := NewExecutor(nil).Move([]model.MoveRequest{
		{SourcePath: file, Category: "Documents", BasePath: base},
	})

	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(base, "Documents", "README_1"), results[0].Destination)
}
