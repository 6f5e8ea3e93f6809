package scrubber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
}

func TestSelectFolder_CountsPDFsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.PDF")
	writeFile(t, dir, "c.Pdf")
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "archive.zip")

	sel, err := SelectFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, sel.Path)
	assert.Equal(t, 3, sel.PDFCount)
}

func TestSelectFolder_EmptyFolder(t *testing.T) {
	dir := t.TempDir()

	sel, err := SelectFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, sel.PDFCount)
}

func TestSelectFolder_UnreadableDirectory(t *testing.T) {
	sel, err := SelectFolder(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Nil(t, sel)
	assert.ErrorIs(t, err, ErrDirectoryUnreadable)
}

func TestListPDFs_OrderIsStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.pdf")
	writeFile(t, dir, "alpha.pdf")
	writeFile(t, dir, "mid.pdf")

	first, err := listPDFs(dir)
	require.NoError(t, err)
	second, err := listPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
