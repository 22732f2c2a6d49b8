package merge

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"typefilter/pkg/contract"
	rfs "typefilter/plugins/reader/filesystem"
)

// memReader 以内存内容模拟输入源，并记录关闭情况。
type memReader struct {
	files  map[string]io.Reader
	closed map[contract.FileID]bool
}

func newMemReader(files map[string]string) *memReader {
	m := &memReader{files: map[string]io.Reader{}, closed: map[contract.FileID]bool{}}
	for k, v := range files {
		m.files[k] = strings.NewReader(v)
	}
	return m
}

type trackCloser struct {
	io.Reader
	onClose func()
}

func (t *trackCloser) Close() error { t.onClose(); return nil }

func (m *memReader) Open(_ context.Context, paths []string) ([]contract.Source, error) {
	var out []contract.Source
	var errs error
	for _, p := range paths {
		r, ok := m.files[p]
		if !ok {
			errs = multierr.Append(errs, &contract.OpenError{Path: p, Err: fs.ErrNotExist})
			continue
		}
		id := contract.FileID(p)
		m.closed[id] = false
		out = append(out, contract.Source{ID: id, ReadCloser: &trackCloser{Reader: r, onClose: func() { m.closed[id] = true }}})
	}
	return out, errs
}

func (m *memReader) allClosed(t *testing.T) {
	t.Helper()
	for id, c := range m.closed {
		assert.True(t, c, "source %s not closed", id)
	}
}

// errReader 先产出前缀再返回错误。
type errReader struct {
	prefix string
	err    error
	done   bool
}

func (e *errReader) Read(p []byte) (int, error) {
	if !e.done {
		e.done = true
		return copy(p, e.prefix), nil
	}
	return 0, e.err
}

func collect() (*[]error, func(error)) {
	var got []error
	return &got, func(err error) { got = append(got, err) }
}

func TestMergeRoundRobin(t *testing.T) {
	mr := newMemReader(map[string]string{"A": "1\n2\n", "B": "x\ny\nz\n"})
	m := &Merger{Reader: mr}
	lines, err := m.Merge(context.Background(), []string{"A", "B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "x", "2", "y", "z"}, lines)
	mr.allClosed(t)
}

func TestMergeSingleSourceIdentity(t *testing.T) {
	mr := newMemReader(map[string]string{"A": "a\n\nb\r\nc\rd"})
	lines, err := (&Merger{Reader: mr}).Merge(context.Background(), []string{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b", "c", "d"}, lines)
}

// 同一路径给出两次视为两个独立源。
func TestMergeDuplicatePath(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(fp, []byte("1\n2\n"), 0o644))
	lines, err := (&Merger{Reader: rfs.New(nil)}).Merge(context.Background(), []string{fp, fp}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1", "2", "2"}, lines)
}

func TestMergeMissingFiles(t *testing.T) {
	_, err := (&Merger{Reader: newMemReader(nil)}).Merge(context.Background(), nil, nil)
	assert.ErrorIs(t, err, contract.ErrMissingFiles)
}

func TestMergeSkipsUnreadable(t *testing.T) {
	mr := newMemReader(map[string]string{"B": "x\n"})
	got, report := collect()
	lines, err := (&Merger{Reader: mr}).Merge(context.Background(), []string{"A", "B"}, report)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, lines)
	require.Len(t, *got, 1)
	var oe *contract.OpenError
	require.ErrorAs(t, (*got)[0], &oe)
	assert.Equal(t, "A", oe.Path)
}

func TestMergeNoReadableSources(t *testing.T) {
	got, report := collect()
	_, err := (&Merger{Reader: newMemReader(nil)}).Merge(context.Background(), []string{"A", "B"}, report)
	assert.ErrorIs(t, err, contract.ErrNoReadableSources)
	assert.Len(t, *got, 2, "每个失败源都上报一次")
}

func TestMergeNoData(t *testing.T) {
	mr := newMemReader(map[string]string{"A": "", "B": ""})
	_, err := (&Merger{Reader: mr}).Merge(context.Background(), []string{"A", "B"}, nil)
	assert.ErrorIs(t, err, contract.ErrNoData)
	mr.allClosed(t)
}

// 读取中途失败：已读的行保留，该源退出轮转。
func TestMergeReadErrorDropsSource(t *testing.T) {
	boom := errors.New("disk gone")
	mr := newMemReader(map[string]string{"B": "x\ny\nz\n"})
	mr.files["A"] = &errReader{prefix: "1\n", err: boom}
	got, report := collect()
	lines, err := (&Merger{Reader: mr}).Merge(context.Background(), []string{"A", "B"}, report)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "x", "y", "z"}, lines)
	require.Len(t, *got, 1)
	var re *contract.ReadError
	require.ErrorAs(t, (*got)[0], &re)
	assert.Equal(t, contract.FileID("A"), re.ID)
	assert.ErrorIs(t, re, boom)
	mr.allClosed(t)
}

func TestMergeLineTooLong(t *testing.T) {
	mr := newMemReader(map[string]string{"A": strings.Repeat("a", 64) + "\n", "B": "ok\n"})
	got, report := collect()
	lines, err := (&Merger{Reader: mr, MaxLineSize: 16}).Merge(context.Background(), []string{"A", "B"}, report)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, lines)
	require.Len(t, *got, 1)
	assert.ErrorIs(t, (*got)[0], bufio.ErrTooLong)
}

func TestMergeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mr := newMemReader(map[string]string{"A": "1\n"})
	_, err := (&Merger{Reader: mr}).Merge(ctx, []string{"A"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	mr.allClosed(t)
}

func TestScanLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"LF", "a\nb\n", []string{"a", "b"}},
		{"无结尾换行", "a\nb", []string{"a", "b"}},
		{"CRLF", "a\r\nb\r\n", []string{"a", "b"}},
		{"单独CR", "a\rb\r", []string{"a", "b"}},
		{"空行", "\n\n", []string{"", ""}},
		{"CR后接空行", "a\r\n\r\n", []string{"a", ""}},
		{"CR CR", "a\r\rb", []string{"a", "", "b"}},
		{"空输入", "", nil},
		{"保留空白", " 1 \t\n", []string{" 1 \t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := bufio.NewScanner(strings.NewReader(tt.in))
			sc.Split(ScanLines)
			var got []string
			for sc.Scan() {
				got = append(got, sc.Text())
			}
			require.NoError(t, sc.Err())
			assert.Equal(t, tt.want, got)
		})
	}
}

// 跨缓冲边界的 \r\n 不应被拆成两行。
func TestScanLinesCRLFAcrossBuffer(t *testing.T) {
	r := io.MultiReader(strings.NewReader("ab\r"), strings.NewReader("\ncd"))
	sc := bufio.NewScanner(oneByteReader{r})
	sc.Split(ScanLines)
	var got []string
	for sc.Scan() {
		got = append(got, sc.Text())
	}
	assert.Equal(t, []string{"ab", "cd"}, got)
}

type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}
