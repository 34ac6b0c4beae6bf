//go:build !linux
// +build !linux

package render

func IsTerminal(fd uintptr) bool {
	return false
}
