// Package merge 打开全部输入源，并按轮转顺序交错读取各源的行。
//
// 第 k 轮依次取第 1、2、…个源的第 k 行；耗尽的源退出轮转；某一轮没有任何产出即结束。
// 所有已打开的源在任何返回路径上都会关闭。
package merge

import (
	"bufio"
	"context"
	"errors"

	"go.uber.org/multierr"

	"typefilter/pkg/contract"
)

// DefaultMaxLineSize 为单行最大字节数的默认值。
const DefaultMaxLineSize = 16 * 1024 * 1024

// Merger 组合 Reader 与行切分策略。
type Merger struct {
	Reader contract.Reader
	// MaxLineSize 为单行最大字节数；<=0 使用 DefaultMaxLineSize。超长行按读取错误处理。
	MaxLineSize int
}

type stream struct {
	id contract.FileID
	sc *bufio.Scanner
}

// Merge 返回交错后的行序列。
//
// 非致命问题（单个源打开失败、读取中途失败）逐条交给 report，report 可为 nil。
// 致命情况返回错误：
//   - 未给出路径：contract.ErrMissingFiles；
//   - 全部源都无法打开：contract.ErrNoReadableSources；
//   - 至少一个源打开但合计 0 行：contract.ErrNoData。
func (m *Merger) Merge(ctx context.Context, paths []string, report func(error)) ([]string, error) {
	if len(paths) == 0 {
		return nil, contract.ErrMissingFiles
	}
	if report == nil {
		report = func(error) {}
	}

	srcs, openErr := m.Reader.Open(ctx, paths)
	defer func() {
		for _, s := range srcs {
			if err := s.Close(); err != nil {
				report(&contract.ReadError{ID: s.ID, Err: err})
			}
		}
	}()
	if errors.Is(openErr, context.Canceled) || errors.Is(openErr, context.DeadlineExceeded) {
		return nil, openErr
	}
	for _, e := range multierr.Errors(openErr) {
		report(e)
	}
	if len(srcs) == 0 {
		return nil, contract.ErrNoReadableSources
	}

	maxLine := m.MaxLineSize
	if maxLine <= 0 {
		maxLine = DefaultMaxLineSize
	}
	active := make([]*stream, 0, len(srcs))
	for _, s := range srcs {
		sc := bufio.NewScanner(s)
		sc.Split(ScanLines)
		sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
		active = append(active, &stream{id: s.ID, sc: sc})
	}

	var lines []string
	for len(active) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := active[:0]
		for _, st := range active {
			if st.sc.Scan() {
				lines = append(lines, st.sc.Text())
				next = append(next, st)
				continue
			}
			if e := st.sc.Err(); e != nil {
				report(&contract.ReadError{ID: st.id, Err: e})
			}
		}
		active = next
	}

	if len(lines) == 0 {
		return nil, contract.ErrNoData
	}
	return lines, nil
}
