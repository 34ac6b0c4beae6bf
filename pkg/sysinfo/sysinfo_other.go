//go:build !linux
// +build !linux

package sysinfo

func Stat() (*SysInfo, error) {
	info := SysUnknown
	return &info, nil
}
