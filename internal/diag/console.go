package diag

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"typefilter/pkg/contract"
)

// Console: 面向用户的控制台输出（非日志）。
// 报告写 out；错误写 errw，格式 "Ошибка: <消息>"。并发安全。
type Console struct {
	out     io.Writer
	errw    io.Writer
	colored bool
	mu      sync.Mutex
}

var _ contract.Console = (*Console)(nil)

// NewConsole 构造控制台；mode 为 auto|always|never，auto 按 out 是否为终端判定。
func NewConsole(out, errw io.Writer, mode string) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &Console{out: out, errw: errw, colored: ColorEnabled(mode, out)}
}

// Colored 报告是否对报告着色。
func (c *Console) Colored() bool { return c != nil && c.colored }

func (c *Console) Print(s string) {
	if c == nil || s == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) PrintError(err error) {
	if c == nil || err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.errw, "Ошибка: "+UserMessage(err)+"\n")
}

// ColorEnabled 判定是否着色：
// always/never 直接生效；auto 要求 w 是终端、NO_COLOR 未设置且 TERM 不为 dumb。
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
