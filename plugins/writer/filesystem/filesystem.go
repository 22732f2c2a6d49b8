package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"typefilter/pkg/contract"
)

// Options: 最小必要选项。
type Options struct {
	// OutputDir: 输出目录；为空时相对当前工作目录（绝对前缀保持绝对）。不存在时创建。
	OutputDir string `json:"output_dir"`
	// Append: 追加到已有文件末尾；文件不存在时创建。
	Append bool `json:"append,omitempty"`
	// Atomic: 覆盖写是否使用原子替换（同目录临时文件 + rename）。
	// 默认值：true。未提供该字段时采用原子写；显式 false 可关闭。Append 模式下不适用。
	Atomic *bool `json:"atomic,omitempty"`
	// PermFile/PermDir: 可选权限；为 0 表示使用实现/平台默认。
	PermFile os.FileMode `json:"perm_file,omitempty"`
	PermDir  os.FileMode `json:"perm_dir,omitempty"`
	// BufSize: 写缓冲区大小；<=0 使用实现默认。
	BufSize int `json:"buf_size,omitempty"`
}

// ErrAppendAtomic: 追加写无法原子替换，两者不能同时显式开启。
var ErrAppendAtomic = errors.New("writer/fs: append and atomic are mutually exclusive")

type FS struct {
	root    string
	append  bool
	atomic  bool
	permF   os.FileMode
	permD   os.FileMode
	bufSize int
}

// New 创建文件系统 Writer 实现；opts 为 nil 时全部取默认。
func New(opts *Options) (*FS, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Append && opts.Atomic != nil && *opts.Atomic {
		return nil, ErrAppendAtomic
	}
	bsz := opts.BufSize
	if bsz <= 0 {
		bsz = 64 * 1024
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	atomic := !opts.Append
	if opts.Atomic != nil {
		atomic = *opts.Atomic
	}
	return &FS{root: opts.OutputDir, append: opts.Append, atomic: atomic, permF: pf, permD: pd, bufSize: bsz}, nil
}

var (
	_ contract.Writer  = (*FS)(nil)
	_ contract.Locator = (*FS)(nil)
)

// Write 将 r 的全部字节写入到基于 id 映射的目标路径。
func (w *FS) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dest, err := w.mapPath(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), w.permD); err != nil {
		return err
	}

	switch {
	case w.append:
		return w.writeFlags(ctx, dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, r)
	case w.atomic:
		return w.writeAtomic(ctx, dest, r)
	default:
		return w.writeFlags(ctx, dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, r)
	}
}

// Locate 返回 id 映射后的路径；无法映射时原样返回 id。
func (w *FS) Locate(id contract.ArtifactID) string {
	dest, err := w.mapPath(id)
	if err != nil {
		return string(id)
	}
	return dest
}

// mapPath: <OutputDir>/<id>，Clean + Join。
// id 即「前缀 + 文件名」，前缀可以带目录部分；空名、以分隔符结尾或落到 "."/".." 的视为无效。
func (w *FS) mapPath(id contract.ArtifactID) (string, error) {
	name := string(id)
	if name == "" || strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator)) {
		return "", contract.ErrPathInvalid
	}
	rel := filepath.Clean(filepath.FromSlash(name))
	switch filepath.Base(rel) {
	case ".", "..", string(filepath.Separator):
		return "", contract.ErrPathInvalid
	}
	return filepath.Join(w.root, rel), nil
}

func (w *FS) writeFlags(ctx context.Context, dest string, flag int, r io.Reader) error {
	f, err := os.OpenFile(dest, flag, w.permF)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (w *FS) writeAtomic(ctx context.Context, dest string, r io.Reader) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	// 目标权限：尽量与期望一致
	_ = os.Chmod(tmpPath, w.permF)

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	bw := bufio.NewWriterSize(tmp, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := replaceFile(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// replaceErr 标注替换失败的目标；原始错误可经 errors.Is/As 取得。
func replaceErr(dest string, err error) error {
	return fmt.Errorf("writer/fs: replace %s: %w", dest, err)
}

// readerWithCtx: 在每次 Read 前检查 ctx 是否已取消。
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}
	return cr.r.Read(p)
}
