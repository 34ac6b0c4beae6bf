//go:build linux
// +build linux

package fuse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bazil.org/fuse"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *PlanFS {
	t.Helper()

	r, entries, err := Pack([]Content{
		{Name: "job_001.txt", Data: []byte("|ww|  |\n")},
		{Name: "job_000.txt", Data: []byte("|rr|  |\n\n|xx|  | 1024 bytes\n")},
	})
	require.NoError(t, err)
	return NewPlanFS(r, entries)
}

func TestDirReadDirAll(t *testing.T) {
	pfs := newTestFS(t)

	root, err := pfs.Root()
	require.NoError(t, err)

	ents, err := root.(*Dir).ReadDirAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []fuse.Dirent{
		{Inode: 2, Name: "job_000.txt", Type: fuse.DT_File},
		{Inode: 3, Name: "job_001.txt", Type: fuse.DT_File},
	}, ents)
}

func TestDirLookup(t *testing.T) {
	pfs := newTestFS(t)
	d := &Dir{fs: pfs}

	_, err := d.Lookup(context.Background(), "missing.txt")
	require.ErrorIs(t, err, fuse.ENOENT)

	node, err := d.Lookup(context.Background(), "job_001.txt")
	require.NoError(t, err)

	var attr fuse.Attr
	require.NoError(t, node.Attr(context.Background(), &attr))
	require.Equal(t, uint64(8), attr.Size)
	require.Equal(t, os.FileMode(0444), attr.Mode)
}

func TestFileRead(t *testing.T) {
	pfs := newTestFS(t)
	d := &Dir{fs: pfs}

	node, err := d.Lookup(context.Background(), "job_001.txt")
	require.NoError(t, err)
	f := node.(File)

	read := func(offset int64, size int) string {
		var resp fuse.ReadResponse
		err := f.Read(context.Background(), &fuse.ReadRequest{Offset: offset, Size: size}, &resp)
		require.NoError(t, err)
		return string(resp.Data)
	}

	require.Equal(t, "|ww|  |\n", read(0, 4096))
	require.Equal(t, "ww", read(1, 2))
	require.Equal(t, "|\n", read(6, 100))
	require.Equal(t, "", read(8, 10))
}

func TestPrepareMountpoint(t *testing.T) {
	dir := t.TempDir()

	mp := filepath.Join(dir, "mnt")
	created, err := PrepareMountpoint(mp)
	require.NoError(t, err)
	require.True(t, created)

	created, err = PrepareMountpoint(mp)
	require.NoError(t, err)
	require.False(t, created)

	require.NoError(t, os.WriteFile(filepath.Join(mp, "f"), []byte("x"), 0644))
	_, err = PrepareMountpoint(mp)
	require.Error(t, err)

	_, err = PrepareMountpoint(filepath.Join(mp, "f"))
	require.Error(t, err)
}
