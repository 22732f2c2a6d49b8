package diag

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 为结构化日志器：zap JSON 单行事件，写入轮转文件。
// 事件字段：corr_id/comp/stage(start|finish|error)/code/dur_ms/count/file_id/kv。
// 所有方法对 nil 接收者安全。
type Logger struct {
	z    *zap.Logger
	sink *RotatingFile
}

// NewLogger 按级别初始化；dir 为空时返回 no-op 日志器，保持 stdout/stderr 干净。
// 日志写入 dir/typefilter-current.log，10MiB 轮转。
func NewLogger(corrID, level, dir string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		return &Logger{z: zap.NewNop()}, nil
	}
	sink := NewRotatingFile(dir, 10*1024*1024)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, lvl)
	l := NewLoggerWithCore(corrID, core)
	l.sink = sink
	return l, nil
}

// NewLoggerWithCore 使用给定 core 构造（测试注入 observer）。
func NewLoggerWithCore(corrID string, core zapcore.Core) *Logger {
	z := zap.New(core)
	if corrID != "" {
		z = z.With(zap.String("corr_id", corrID))
	}
	return &Logger{z: z}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

// parseLevel: 空串为 info；未知级别报错。
func parseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}

// Close 刷新并关闭日志文件。
func (l *Logger) Close() error {
	if l == nil || l.z == nil {
		return nil
	}
	_ = l.z.Sync()
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}

func (l *Logger) log(lv zapcore.Level, msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	if ce := l.z.Check(lv, msg); ce != nil {
		ce.Write(fields...)
	}
}

func kvField(kv map[string]string) zap.Field {
	if len(kv) == 0 {
		return zap.Skip()
	}
	return zap.Any("kv", kv)
}

func optString(key, v string) zap.Field {
	if v == "" {
		return zap.Skip()
	}
	return zap.String(key, v)
}

func durField(since *time.Time) zap.Field {
	if since == nil {
		return zap.Skip()
	}
	return zap.Int64("dur_ms", time.Since(*since).Milliseconds())
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string) *Timer {
	return l.StartWith(comp, msg, "")
}

// StartWith 记录带 file_id 的 start。
func (l *Logger) StartWith(comp, msg, fileID string) *Timer {
	l.log(zapcore.InfoLevel, msg, zap.String("comp", comp), zap.String("stage", "start"), optString("file_id", fileID))
	return &Timer{l: l, comp: comp, fileID: fileID, t0: time.Now()}
}

// Error 记录 error 事件。
func (l *Logger) Error(comp string, code Code, msg string, durSince *time.Time) {
	l.ErrorWithKV(comp, code, msg, durSince, "", nil)
}

// ErrorWith 支持 file_id。
func (l *Logger) ErrorWith(comp string, code Code, msg string, durSince *time.Time, fileID string) {
	l.ErrorWithKV(comp, code, msg, durSince, fileID, nil)
}

// ErrorWithKV 支持附带键值对。
func (l *Logger) ErrorWithKV(comp string, code Code, msg string, durSince *time.Time, fileID string, kv map[string]string) {
	l.log(zapcore.ErrorLevel, msg,
		zap.String("comp", comp), zap.String("stage", "error"), zap.String("code", string(code)),
		durField(durSince), optString("file_id", fileID), kvField(kv))
}

// Warn 记录不中断运行的问题（例如单个输入源不可读）。
func (l *Logger) Warn(comp string, code Code, msg, fileID string) {
	l.log(zapcore.WarnLevel, msg,
		zap.String("comp", comp), zap.String("stage", "error"), zap.String("code", string(code)),
		optString("file_id", fileID))
}

// DebugStart 输出调试级别的 start 类事件（仅在 level=debug 时生效）。
func (l *Logger) DebugStart(comp, msg, fileID string, kv map[string]string) {
	l.log(zapcore.DebugLevel, msg,
		zap.String("comp", comp), zap.String("stage", "start"), optString("file_id", fileID), kvField(kv))
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	fileID string
	t0     time.Time
}

// Since 返回起点，便于 Error 计算耗时。
func (t *Timer) Since() *time.Time {
	if t == nil {
		return nil
	}
	return &t.t0
}

// Finish 记录 finish；可选 count。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	dur := time.Since(t.t0)
	t.l.log(zapcore.InfoLevel, msg,
		zap.String("comp", t.comp), zap.String("stage", "finish"),
		zap.Int64("dur_ms", dur.Milliseconds()), zap.Int64("count", count), optString("file_id", t.fileID))
	ObserveDuration(t.comp, "finish", dur.Milliseconds())
}
