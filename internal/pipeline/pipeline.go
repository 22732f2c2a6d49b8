package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/multierr"

	"typefilter/internal/classify"
	"typefilter/internal/diag"
	"typefilter/internal/merge"
	"typefilter/internal/stats"
	"typefilter/pkg/contract"
)

// - 单协程同步：合并 → 分类 → 报告 → 控制台 → 写出，逐步完成，无内部并发。
// - 致命数据错误（无可读源/无数据）原样返回，此时不写任何输出。
// - 报告先于任何输出文件打印。
// - 单个输出写失败不影响其它输出；全部失败经 multierr 聚合返回。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader  contract.Reader
	Writer  contract.Writer
	Console contract.Console
}

// StatsMode 为统计报告级别。
type StatsMode int

const (
	StatsNone StatsMode = iota
	StatsShort
	StatsFull
)

// Settings 运行期配置（最小必要）。
type Settings struct {
	Inputs []string
	// Prefix 拼接在每个输出名之前（<prefix>integers.txt）。
	Prefix string
	Stats  StatsMode
	// Color 为 true 时报告包裹 ANSI 高亮。
	Color bool
	// MaxLineSize: 单行最大字节数；<=0 使用默认。
	MaxLineSize int
}

// Result 为一次运行的产物。
type Result struct {
	Buckets contract.Buckets
	Reports []stats.Report
	// WriteErr 聚合全部输出写失败（*contract.WriteError）；全部成功为 nil。
	WriteErr error
}

// ArtifactName 返回类别对应的输出名：<prefix>integers.txt / floats.txt / strings.txt。
func ArtifactName(prefix string, c classify.Category) contract.ArtifactID {
	return contract.ArtifactID(prefix + c.String() + "s.txt")
}

// Run 执行完整流水线。
// 返回的错误：致命数据错误与配置错误原样返回（Result 为 nil）；写出失败时 Result 非 nil 且 error 为 Result.WriteErr。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (*Result, error) {
	if err := sanity(comp); err != nil {
		return nil, err
	}

	mt := logger.Start("merge", "merge")
	m := &merge.Merger{Reader: comp.Reader, MaxLineSize: set.MaxLineSize}
	lines, err := m.Merge(ctx, set.Inputs, func(e error) {
		code := diag.Classify(e)
		comp.Console.PrintError(e)
		logger.Warn("reader", code, e.Error(), sourceOf(e))
		diag.IncError("reader", code)
	})
	if err != nil {
		code := diag.Classify(err)
		logger.Error("merge", code, err.Error(), mt.Since())
		diag.IncOp("merge", "error", "error")
		diag.IncError("merge", code)
		return nil, err
	}
	mt.Finish("merge", int64(len(lines)))
	diag.IncOp("merge", "finish", "success")

	ct := logger.Start("classify", "bucketize")
	buckets := Bucketize(lines)
	ct.Finish("bucketize", int64(buckets.Len()))
	diag.IncOp("classify", "finish", "success")
	diag.AddTokens(classify.Integer.String(), len(buckets.Integers))
	diag.AddTokens(classify.Float.String(), len(buckets.Floats))
	diag.AddTokens(classify.String.String(), len(buckets.Strings))

	reports := Reports(buckets, set.Stats)
	for _, r := range reports {
		comp.Console.Print(stats.Render(r, set.Color))
	}

	res := &Result{Buckets: buckets, Reports: reports}
	res.WriteErr = writeAll(ctx, comp, set.Prefix, buckets, logger)
	return res, res.WriteErr
}

// Bucketize 逐行分类，保持到达顺序。空行归入字符串桶。
func Bucketize(lines []string) contract.Buckets {
	var b contract.Buckets
	for _, line := range lines {
		if v, ok := classify.ParseInteger(line); ok {
			b.Integers = append(b.Integers, v)
			continue
		}
		if f, ok := classify.ParseFloat(line); ok {
			b.Floats = append(b.Floats, f)
			continue
		}
		b.Strings = append(b.Strings, line)
	}
	return b
}

// Reports 按 整数 → 浮点 → 字符串 的顺序生成报告；空桶跳过。
func Reports(b contract.Buckets, mode StatsMode) []stats.Report {
	var out []stats.Report
	add := func(r stats.Report) {
		if r != nil {
			out = append(out, r)
		}
	}
	switch mode {
	case StatsFull:
		add(stats.FullIntegers(b.Integers))
		add(stats.FullFloats(b.Floats))
		add(stats.FullStrings(b.Strings))
	case StatsShort:
		add(stats.Short(classify.Integer, len(b.Integers)))
		add(stats.Short(classify.Float, len(b.Floats)))
		add(stats.Short(classify.String, len(b.Strings)))
	}
	return out
}

// Render 把一个桶渲染为输出文本：每值一行，以 \n 结尾。空桶为空串。
func Render(b contract.Buckets, c classify.Category) string {
	var sb strings.Builder
	switch c {
	case classify.Integer:
		for _, v := range b.Integers {
			sb.WriteString(v.String())
			sb.WriteByte('\n')
		}
	case classify.Float:
		for _, v := range b.Floats {
			sb.WriteString(classify.FormatFloat(v))
			sb.WriteByte('\n')
		}
	default:
		for _, v := range b.Strings {
			sb.WriteString(v)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func bucketLen(b contract.Buckets, c classify.Category) int {
	switch c {
	case classify.Integer:
		return len(b.Integers)
	case classify.Float:
		return len(b.Floats)
	default:
		return len(b.Strings)
	}
}

// writeAll 写出全部非空桶；单个失败报告后继续。
func writeAll(ctx context.Context, comp Components, prefix string, b contract.Buckets, logger *diag.Logger) error {
	var errs error
	for _, c := range classify.Categories {
		n := bucketLen(b, c)
		if n == 0 {
			continue
		}
		id := ArtifactName(prefix, c)
		wt := logger.StartWith("writer", "write", string(id))
		if err := comp.Writer.Write(ctx, id, strings.NewReader(Render(b, c))); err != nil {
			we := &contract.WriteError{ID: id, Err: err}
			if loc, ok := comp.Writer.(contract.Locator); ok {
				we.Location = loc.Locate(id)
			}
			code := diag.Classify(err)
			comp.Console.PrintError(we)
			logger.ErrorWith("writer", code, err.Error(), wt.Since(), string(id))
			diag.IncOp("writer", "error", "error")
			diag.IncError("writer", code)
			errs = multierr.Append(errs, we)
			continue
		}
		wt.Finish("write", int64(n))
		diag.IncOp("writer", "finish", "success")
	}
	return errs
}

func sanity(c Components) error {
	if c.Reader == nil || c.Writer == nil || c.Console == nil {
		return errors.New("pipeline: missing components")
	}
	return nil
}

// sourceOf 提取非致命错误关联的输入源，用于日志 file_id。
func sourceOf(err error) string {
	var (
		oe *contract.OpenError
		re *contract.ReadError
	)
	switch {
	case errors.As(err, &oe):
		return oe.Path
	case errors.As(err, &re):
		return string(re.ID)
	}
	return ""
}
