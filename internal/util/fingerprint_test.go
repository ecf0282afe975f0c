package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Corr.txt")
	require.NoError(t, os.WriteFile(path, []byte("Fecha Hora Corriente\n"), 0644))

	first, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Len(t, first, 8)

	again, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte("Fecha Hora Corriente\n2024-03-01 09:00:00 1\n"), 0644))
	changed, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = CalculateFileFingerprint(empty)
	assert.NoError(t, err)

	_, err = CalculateFileFingerprint(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestCalculateFileFingerprintLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 10000)), 0644))
	fp, err := CalculateFileFingerprint(path)
	require.NoError(t, err)
	assert.Len(t, fp, 8)
}

func TestDatasetFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("one"), 0644))

	fp := DatasetFingerprint(a, b)
	parts := strings.Split(fp, "|")
	require.Len(t, parts, 2)
	assert.Equal(t, "-", parts[1])
	assert.Equal(t, fp, DatasetFingerprint(a, b))

	require.NoError(t, os.WriteFile(b, []byte("two"), 0644))
	assert.NotEqual(t, fp, DatasetFingerprint(a, b))
}

func TestGetFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.NotZero(t, info.Inode)
	assert.NotZero(t, info.ModTime)

	_, err = GetFileInfo(path + ".missing")
	assert.Error(t, err)
}
