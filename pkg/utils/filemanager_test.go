package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating an existing directory is a no-op.
	require.NoError(t, EnsureDir(dir))

	assert.Error(t, EnsureDir(""))
}

func TestBuildOutputFileName(t *testing.T) {
	name := BuildOutputFileName("FacturaProforma_{operation}.pdf", "OA123456")
	assert.Equal(t, "FacturaProforma_OA123456.pdf", name)
}

func TestBuildOutputFileNameTimestamp(t *testing.T) {
	name := BuildOutputFileName("{operation}_{timestamp}.pdf", "SGR42")
	assert.Regexp(t, regexp.MustCompile(`^SGR42_\d{8}_\d{6}\.pdf$`), name)
}

func TestBuildOutputFileNameUUID(t *testing.T) {
	name := BuildOutputFileName("{uuid}.pdf", "OA1")
	id, err := uuid.Parse(strings.TrimSuffix(name, ".pdf"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	// Every expansion draws a fresh id.
	assert.NotEqual(t, name, BuildOutputFileName("{uuid}.pdf", "OA1"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "doc.pdf")

	require.NoError(t, WriteFileAtomic(path, []byte("contenido")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	// Overwrites are atomic too.
	require.NoError(t, WriteFileAtomic(path, []byte("nuevo")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nuevo", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.pdf", entries[0].Name())
}

func TestArchiveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.pdf")
	archive := filepath.Join(dir, "archive")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o644))

	first, err := ArchiveFile(src, archive)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archive, "doc.pdf"), first)

	// A name collision gets a numeric suffix instead of overwriting.
	require.NoError(t, os.WriteFile(src, []byte("v2"), 0o644))
	second, err := ArchiveFile(src, archive)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archive, "doc_1.pdf"), second)

	third, err := ArchiveFile(src, archive)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archive, "doc_2.pdf"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestArchiveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := ArchiveFile(filepath.Join(dir, "nope.pdf"), filepath.Join(dir, "archive"))
	assert.Error(t, err)
}
