package filesystem

import (
	"bufio"
	"context"
	"io"
	"os"

	"go.uber.org/multierr"

	"typefilter/pkg/contract"
)

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
}

// FileSystem 实现基于本地文件的 Reader。
// 符号链接按目标判定；目录作为输入一律拒绝；FIFO 等非常规文件照常打开。
type FileSystem struct {
	bufSize int
}

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	const defaultBuf = 64 * 1024
	b := defaultBuf
	if opts != nil && opts.BufSize > 0 {
		b = opts.BufSize
	}
	return &FileSystem{bufSize: b}
}

// Open 按入参顺序打开全部路径。
// 单个路径失败记为 *contract.OpenError，不影响其它路径；多个失败经 multierr 聚合。
// ctx 取消时关闭已打开的源并返回 ctx.Err()。
func (r *FileSystem) Open(ctx context.Context, paths []string) ([]contract.Source, error) {
	var (
		out  []contract.Source
		errs error
	)
	for _, p := range paths {
		select {
		case <-ctx.Done():
			for _, s := range out {
				_ = s.Close()
			}
			return nil, ctx.Err()
		default:
		}
		rc, err := r.openOne(p)
		if err != nil {
			errs = multierr.Append(errs, &contract.OpenError{Path: p, Err: err})
			continue
		}
		out = append(out, contract.Source{ID: contract.NormalizeFileID(p), ReadCloser: rc})
	}
	return out, errs
}

func (r *FileSystem) openOne(p string) (io.ReadCloser, error) {
	// Stat 跟随符号链接；失效链接在此返回 ErrNotExist
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, contract.ErrNotRegular
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	return newBufferedCloser(f, r.bufSize), nil
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
