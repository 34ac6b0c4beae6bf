// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuse

import (
	"bytes"
	"fmt"
)

// FileEntry locates a file inside the backing reader of a mount.
type FileEntry struct {
	Name   string
	Offset uint64
	Size   uint64
}

// Content is a named file body to be packed.
type Content struct {
	Name string
	Data []byte
}

// Pack lays the files out back to back in a single buffer and returns a
// reader over it together with the entry of every file. Names must be unique.
func Pack(files []Content) (*bytes.Reader, []FileEntry, error) {
	var (
		buf     bytes.Buffer
		entries = make([]FileEntry, 0, len(files))
		seen    = make(map[string]struct{}, len(files))
	)

	for _, f := range files {
		if _, ok := seen[f.Name]; ok {
			return nil, nil, fmt.Errorf("duplicate file name %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		entries = append(entries, FileEntry{
			Name:   f.Name,
			Offset: uint64(buf.Len()),
			Size:   uint64(len(f.Data)),
		})
		buf.Write(f.Data)
	}
	return bytes.NewReader(buf.Bytes()), entries, nil
}
