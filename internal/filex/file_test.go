package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_RelativeResolvedAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	testChdir(t, tmp)

	got, err := EnsureDir("exports")
	require.NoError(t, err)

	want := filepath.Join(tmp, "exports")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	want := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, first)

	second, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	testChdir(t, tmp)

	require.NoError(t, os.WriteFile("exports", []byte("x"), 0o660))

	_, err := EnsureDir("exports")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWritePrivate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WritePrivate(dir, "doc.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "doc.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(b))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWritePrivate_Overwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := WritePrivate(dir, "doc.json", []byte("old"))
	require.NoError(t, err)
	path, err := WritePrivate(dir, "doc.json", []byte("new"))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(b))
}
