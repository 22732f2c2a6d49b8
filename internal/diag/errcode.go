package diag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"typefilter/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码解耦。
type Code string

const (
	CodeUnknown   Code = "unknown"
	CodeConfig    Code = "config"
	CodeNoData    Code = "nodata"
	CodeInvariant Code = "invariant"
	CodeCancel    Code = "cancel"
	CodeIO        Code = "io"
)

// 进程退出码。
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 3
)

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	var ik *contract.IllegalKeyError
	if errors.As(err, &ik) ||
		errors.Is(err, contract.ErrMissingFiles) ||
		errors.Is(err, contract.ErrMissingValue) ||
		errors.Is(err, contract.ErrConfigInvalid) {
		return CodeConfig
	}
	if errors.Is(err, contract.ErrNoReadableSources) || errors.Is(err, contract.ErrNoData) {
		return CodeNoData
	}
	if errors.Is(err, contract.ErrPathInvalid) {
		return CodeInvariant
	}
	var (
		oe   *contract.OpenError
		re   *contract.ReadError
		we   *contract.WriteError
		perr *fs.PathError
	)
	if errors.As(err, &oe) || errors.As(err, &re) || errors.As(err, &we) || errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// ExitCode 将运行结果映射为进程退出码：配置错误为 3，其余失败为 1。
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case Classify(err) == CodeConfig:
		return ExitConfig
	default:
		return ExitFailure
	}
}

// UserMessage 生成控制台面向用户的错误文本（不含 "Ошибка: " 前缀）。
func UserMessage(err error) string {
	var (
		ik *contract.IllegalKeyError
		oe *contract.OpenError
		re *contract.ReadError
		we *contract.WriteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ik):
		return fmt.Sprintf("Введен незнакомый аргумент: %s.", ik.Key)
	case errors.Is(err, contract.ErrMissingFiles):
		return "Не введены названия файлов."
	case errors.Is(err, contract.ErrMissingValue):
		return "Введено недостаточное количество аргументов."
	case errors.Is(err, contract.ErrNoReadableSources):
		return "нет доступных файлов для чтения, дальнейшее выполнение невозможно."
	case errors.Is(err, contract.ErrNoData):
		return "доступные для чтения файлы пусты, дальнейшее выполнение невозможно."
	case errors.As(err, &oe):
		switch {
		case oe.NotFound():
			return fmt.Sprintf("файл %s не найден.", oe.Path)
		case errors.Is(oe.Err, contract.ErrNotRegular):
			return fmt.Sprintf("%s является каталогом, а не файлом.", oe.Path)
		default:
			return fmt.Sprintf("недостаточно прав для чтения файла %s.", oe.Path)
		}
	case errors.As(err, &re):
		return fmt.Sprintf("возникла ошибка чтения файла %s.", re.ID)
	case errors.As(err, &we):
		return fmt.Sprintf("Не удалось записать в %s.", we.Target())
	default:
		return err.Error()
	}
}
