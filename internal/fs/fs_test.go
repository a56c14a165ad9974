package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.bin")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	assert.NotZero(t, f.Fd())
	assert.NoError(t, f.Sync())
	assert.NoError(t, f.Close())

	// Truncate grows with zeros
	assert.NoError(t, lfs.Truncate(fpath, 8))
	raw, err := os.ReadFile(fpath)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), raw)

	assert.NoError(t, lfs.Remove(fpath))
	_, err = os.Stat(fpath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_Rules(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})

	ffs.AddRule("_matrix_1", Fault{FailOnTruncate: true, FailOnRemove: true})
	ffs.AddRule("_matrix_2", Fault{FailOnOpen: true})
	ffs.AddRule("_matrix_3", Fault{FailOnSync: true, FailOnClose: true})

	p1 := filepath.Join(tmp, "g_matrix_1")
	f, err := ffs.OpenFile(p1, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.ErrorIs(t, ffs.Truncate(p1, 4), ErrInjected)
	assert.ErrorIs(t, ffs.Remove(p1), ErrInjected)

	_, err = ffs.OpenFile(filepath.Join(tmp, "g_matrix_2"), os.O_CREATE|os.O_RDWR, 0644)
	assert.ErrorIs(t, err, ErrInjected)

	f, err = ffs.OpenFile(filepath.Join(tmp, "g_matrix_3"), os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)
}

func TestFaultyFS_Delegation(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})

	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, ffs.MkdirAll(dir, 0755))

	fpath := filepath.Join(dir, "test.bin")
	f, err := ffs.OpenFile(fpath, os.O_CREATE, 0644)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.NoError(t, ffs.Truncate(fpath, 10))

	info, err := os.Stat(fpath)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size())

	assert.NoError(t, ffs.Remove(fpath))
	assert.Equal(t, []string{fpath}, ffs.Removed())

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
