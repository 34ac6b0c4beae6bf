//go:build !linux
// +build !linux

package fuse

import (
	"errors"
	"io"

	"github.com/ostafen/raidplan/internal/logger"
)

var ErrUnsupported = errors.New("FUSE mount is only supported on Linux")

func Mount(mountpoint string, r io.ReaderAt, entries []FileEntry, log *logger.Logger) error {
	return ErrUnsupported
}
