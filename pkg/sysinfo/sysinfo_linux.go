//go:build linux
// +build linux

package sysinfo

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// Stat reads the distribution name from /etc/os-release and the kernel
// release from uname(2).
func Stat() (*SysInfo, error) {
	info := SysInfo{
		Name:    runtime.GOOS,
		Release: "unknown",
		Version: "unknown",
	}

	if f, err := os.Open("/etc/os-release"); err == nil {
		info.Release = releaseName(parseOSRelease(f))
		f.Close()
	}

	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return &info, err
	}
	info.Version = unix.ByteSliceToString(uts.Release[:])
	return &info, nil
}
