//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// PlanFS serves rendered plans as a flat read-only directory.
type PlanFS struct {
	r io.ReaderAt

	mtx     sync.RWMutex
	entries map[string]FileEntry

	mtime time.Time
}

func NewPlanFS(r io.ReaderAt, entries []FileEntry) *PlanFS {
	m := make(map[string]FileEntry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}

	return &PlanFS{
		r:       r,
		entries: m,
		mtime:   time.Now(),
	}
}

func (pfs *PlanFS) Root() (fs.Node, error) {
	return &Dir{
		fs: pfs,
	}, nil
}

// Dir implements both fs.Node and fs.HandleReadDirAller
type Dir struct {
	fs *PlanFS
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	a.Mtime = d.fs.mtime
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.fs.mtx.RLock()
	defer d.fs.mtx.RUnlock()

	if e, ok := d.fs.entries[name]; ok {
		return File{
			r:     io.NewSectionReader(d.fs.r, int64(e.Offset), int64(e.Size)),
			size:  e.Size,
			mtime: d.fs.mtime,
		}, nil
	}
	return nil, fuse.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mtx.RLock()
	defer d.fs.mtx.RUnlock()

	dirEntries := make([]fuse.Dirent, 0, len(d.fs.entries))
	for _, e := range d.fs.entries {
		dirEntries = append(dirEntries, fuse.Dirent{
			Name: e.Name,
			Type: fuse.DT_File,
		})
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name < dirEntries[j].Name
	})

	// Inode 1 is the root.
	for i := range dirEntries {
		dirEntries[i].Inode = uint64(i + 2)
	}
	return dirEntries, nil
}

// File implements both fs.Node and fs.HandleReader
type File struct {
	r     io.ReaderAt
	size  uint64
	mtime time.Time
}

func (f File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.size
	a.Mtime = f.mtime
	return nil
}

func (f File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := int(req.Size)
	offset := req.Offset

	if offset >= int64(f.size) {
		// Trying to read past EOF
		resp.Data = []byte{}
		return nil
	}

	// Clamp size if reading near EOF
	if offset+int64(size) > int64(f.size) {
		size = int(int64(f.size) - offset)
	}

	buf := make([]byte, size)

	n, err := f.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}

	resp.Data = buf[:n]
	return nil
}
