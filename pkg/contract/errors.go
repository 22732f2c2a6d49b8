package contract

import (
	"errors"
	"fmt"
	"io/fs"
)

// 配置类错误：在任何文件 I/O 之前返回。
var (
	// ErrMissingFiles: 未给出任何输入文件。
	ErrMissingFiles = errors.New("missing input files")
	// ErrMissingValue: 需要取值的开关后没有参数。
	ErrMissingValue = errors.New("missing flag value")
	// ErrConfigInvalid: 配置值非法（配置文件/环境变量/开关取值）。
	ErrConfigInvalid = errors.New("config invalid")
)

// 致命数据错误：本次运行无法产生任何输出。
var (
	// ErrNoReadableSources: 所有输入源都无法打开。
	ErrNoReadableSources = errors.New("no readable sources")
	// ErrNoData: 可读的输入源合计 0 行。
	ErrNoData = errors.New("no data")
)

// ErrPathInvalid: 目标标识映射为无效路径（空名、"."、以分隔符结尾等）。
var ErrPathInvalid = errors.New("path invalid")

// IllegalKeyError: 未知开关。
type IllegalKeyError struct {
	Key string
}

func (e *IllegalKeyError) Error() string { return fmt.Sprintf("illegal key %q", e.Key) }

// OpenError: 单个输入源打开失败（不存在/无权限/不是常规文件）。
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// NotFound 报告失败原因是否为路径不存在。
func (e *OpenError) NotFound() bool { return errors.Is(e.Err, fs.ErrNotExist) }

// ErrNotRegular: 输入路径存在但不是常规文件（例如目录）。
var ErrNotRegular = errors.New("not a regular file")

// ReadError: 合并过程中读取某个源失败；该源此后不再参与轮转。
type ReadError struct {
	ID  FileID
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.ID, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError: 单个输出工件写出失败；不影响其它工件。
// Location 为介质上的实际位置（文件路径、对象键），未知时为空。
type WriteError struct {
	ID       ArtifactID
	Location string
	Err      error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Target(), e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Target 返回面向用户的目标描述：优先 Location，否则 ID。
func (e *WriteError) Target() string {
	if e.Location != "" {
		return e.Location
	}
	return string(e.ID)
}
