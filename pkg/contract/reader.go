package contract

import (
	"context"
	"io"
)

// Source: 已成功打开的输入源。
type Source struct {
	ID FileID
	io.ReadCloser
}

// Reader: 输入源抽象。
// 约束：
//  1. 一次性打开全部路径，返回成功打开的源（保持入参顺序）；
//  2. 打开失败的路径不中断其它路径，以 *OpenError 记录（多个失败经 multierr 聚合）；
//  3. 不读取内容，不在内部起并发；
//  4. 返回的 Source 由调用方负责关闭。
type Reader interface {
	Open(ctx context.Context, paths []string) ([]Source, error)
}
