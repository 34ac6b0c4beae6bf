package fuse

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	r, entries, err := Pack([]Content{
		{Name: "job_000.txt", Data: []byte("first")},
		{Name: "job_001.txt", Data: []byte("")},
		{Name: "job_002.txt", Data: []byte("third")},
	})
	require.NoError(t, err)

	require.Equal(t, []FileEntry{
		{Name: "job_000.txt", Offset: 0, Size: 5},
		{Name: "job_001.txt", Offset: 5, Size: 0},
		{Name: "job_002.txt", Offset: 5, Size: 5},
	}, entries)

	data, err := io.ReadAll(io.NewSectionReader(r, int64(entries[2].Offset), int64(entries[2].Size)))
	require.NoError(t, err)
	require.Equal(t, "third", string(data))
}

func TestPackDuplicateName(t *testing.T) {
	_, _, err := Pack([]Content{
		{Name: "a", Data: []byte("1")},
		{Name: "a", Data: []byte("2")},
	})
	require.Error(t, err)
}
