package toml

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type document struct {
	Name    string            `toml:"name"`
	Entries map[string]string `toml:"entries"`
}

func TestWriterCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "doc.toml")

	err := NewWriter().WriteTOML(path, document{Name: "warp", Entries: map[string]string{"a": "b"}})
	require.NoError(t, err)

	var got document
	require.NoError(t, NewReader().ReadTOML(path, &got))
	require.Equal(t, "warp", got.Name)
	require.Equal(t, map[string]string{"a": "b"}, got.Entries)
}

func TestWriterReplacesExistingFileWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"old\"\n"), 0644))

	require.NoError(t, NewWriter().WriteTOML(path, document{Name: "new"}))

	var got document
	require.NoError(t, NewReader().ReadTOML(path, &got))
	require.Equal(t, "new", got.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReaderReportsMissingFile(t *testing.T) {
	var got document
	err := NewReader().ReadTOML(filepath.Join(t.TempDir(), "missing.toml"), &got)
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReaderReportsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = = \n"), 0644))

	var got document
	err := NewReader().ReadTOML(path, &got)
	require.ErrorContains(t, err, "failed to unmarshal TOML")
}
