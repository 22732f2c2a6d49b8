package contract

import (
	"path"
	"strings"
)

// NormalizeFileID 规范化输入路径为跨平台稳定的 FileID。
// 反斜杠统一为正斜杠后 path.Clean；不做隐式绝对化。
func NormalizeFileID(p string) FileID {
	return FileID(path.Clean(strings.ReplaceAll(p, `\`, "/")))
}
