//go:build !windows

package filesystem

import (
	"os"
	"path/filepath"
)

// replaceFile 以 rename 原子替换 dest，随后最佳努力 fsync 所在目录以持久化目录项。
// 目录 fsync 失败不影响结果：替换本身已完成。
func replaceFile(tmpPath, dest string) error {
	if err := os.Rename(tmpPath, dest); err != nil {
		return replaceErr(dest, err)
	}
	if d, err := os.Open(filepath.Dir(dest)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
