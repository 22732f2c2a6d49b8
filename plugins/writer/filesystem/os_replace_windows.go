//go:build windows

package filesystem

import (
	"syscall"
	"unsafe"
)

var procMoveFileExW = syscall.NewLazyDLL("kernel32.dll").NewProc("MoveFileExW")

// MOVEFILE_REPLACE_EXISTING | MOVEFILE_WRITE_THROUGH：写穿后无需再同步目录。
const moveFlags = 0x1 | 0x8

func replaceFile(tmpPath, dest string) error {
	from, err := syscall.UTF16PtrFromString(tmpPath)
	if err != nil {
		return replaceErr(dest, err)
	}
	to, err := syscall.UTF16PtrFromString(dest)
	if err != nil {
		return replaceErr(dest, err)
	}
	if r1, _, e1 := procMoveFileExW.Call(uintptr(unsafe.Pointer(from)), uintptr(unsafe.Pointer(to)), moveFlags); r1 == 0 {
		if errno, ok := e1.(syscall.Errno); ok && errno != 0 {
			return replaceErr(dest, errno)
		}
		return replaceErr(dest, syscall.EINVAL)
	}
	return nil
}
