package filesystem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"typefilter/pkg/contract"
)

func closeAll(srcs []contract.Source) {
	for _, s := range srcs {
		s.Close()
	}
}

// TestOpenSingleFile 读取单文件
func TestOpenSingleFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.txt")
	os.WriteFile(fp, []byte("hello"), 0o644)
	r := New(nil)
	srcs, err := r.Open(context.Background(), []string{fp})
	if err != nil || len(srcs) != 1 {
		t.Fatalf("open: %v %d", err, len(srcs))
	}
	defer closeAll(srcs)
	if srcs[0].ID != contract.NormalizeFileID(fp) {
		t.Fatalf("file id mismatch %s", srcs[0].ID)
	}
	b, _ := io.ReadAll(srcs[0])
	if string(b) != "hello" {
		t.Fatalf("content %q", string(b))
	}
}

// TestOpenKeepsOrder 返回顺序与入参一致，失败路径被跳过
func TestOpenKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.txt", "missing.txt", "a.txt", "b.txt"} {
		p := filepath.Join(dir, name)
		if name != "missing.txt" {
			os.WriteFile(p, []byte(name), 0o644)
		}
		paths = append(paths, p)
	}
	srcs, err := New(nil).Open(context.Background(), paths)
	defer closeAll(srcs)
	var oe *contract.OpenError
	if !errors.As(err, &oe) || !oe.NotFound() || !strings.HasSuffix(oe.Path, "missing.txt") {
		t.Fatalf("expect not-found OpenError, got %v", err)
	}
	var got []string
	for _, s := range srcs {
		got = append(got, filepath.Base(string(s.ID)))
	}
	if strings.Join(got, ",") != "c.txt,a.txt,b.txt" {
		t.Fatalf("order %v", got)
	}
}

// TestOpenAggregatesErrors 多个失败逐一记录
func TestOpenAggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	srcs, err := New(nil).Open(context.Background(), []string{
		filepath.Join(dir, "x"), filepath.Join(dir, "y"), dir,
	})
	if len(srcs) != 0 {
		t.Fatalf("unexpected sources %d", len(srcs))
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expect 3 errors, got %v", errs)
	}
	if !errors.Is(errs[0], fs.ErrNotExist) || !errors.Is(errs[2], contract.ErrNotRegular) {
		t.Fatalf("unexpected causes %v", errs)
	}
}

// TestOpenDirectoryRejected 目录不是可读输入
func TestOpenDirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).Open(context.Background(), []string{dir})
	var oe *contract.OpenError
	if !errors.As(err, &oe) || !errors.Is(oe, contract.ErrNotRegular) || oe.NotFound() {
		t.Fatalf("expect ErrNotRegular, got %v", err)
	}
}

// TestOpenCtxCancel 上下文取消
func TestOpenCtxCancel(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.txt")
	os.WriteFile(fp, []byte("x"), 0o644)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srcs, err := New(nil).Open(ctx, []string{fp})
	if !errors.Is(err, context.Canceled) || srcs != nil {
		t.Fatalf("expect ctx cancel, got %v", err)
	}
}

// TestOpenEmpty 空入参既无源也无错误
func TestOpenEmpty(t *testing.T) {
	srcs, err := New(&Options{BufSize: 16}).Open(context.Background(), nil)
	if err != nil || len(srcs) != 0 {
		t.Fatalf("empty: %v %d", err, len(srcs))
	}
}

// TestNewBufferedCloserDefault bufSize<=0 时使用默认
func TestNewBufferedCloserDefault(t *testing.T) {
	r := io.NopCloser(strings.NewReader(""))
	bc := newBufferedCloser(r, 0)
	if bc.Reader == nil {
		t.Fatalf("nil reader")
	}
	bc.Close()
}
