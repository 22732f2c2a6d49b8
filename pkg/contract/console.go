package contract

// Console: 面向用户的输出端。
// Print 写标准输出（统计报告）；PrintError 写标准错误，并负责把 error 转为用户可读文本。
type Console interface {
	Print(s string)
	PrintError(err error)
}
