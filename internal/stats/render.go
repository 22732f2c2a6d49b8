package stats

import (
	"strings"

	"github.com/fatih/color"
)

// Render 把报告排成多行文本：标题行、每个字段一行、末尾一个空行。
// colored 为 true 时整体包裹绿色加粗 ANSI 序列。nil 报告渲染为空串。
func Render(r Report, colored bool) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Title())
	b.WriteString(":\n")
	for _, f := range r.Fields() {
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if !colored {
		return b.String()
	}
	return highlight().Sprint(b.String())
}

// highlight 每次新建实例并显式开启颜色，不受全局 color.NoColor 影响；
// 是否着色由调用方决定。
func highlight() *color.Color {
	c := color.New(color.FgGreen, color.Bold)
	c.EnableColor()
	return c
}
