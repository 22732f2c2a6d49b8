package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"typefilter/pkg/contract"
	"typefilter/pkg/registry"
)

// EnvPrefix 为环境变量前缀：log.level → TYPEFILTER_LOG_LEVEL，minio.access-key → TYPEFILTER_MINIO_ACCESS_KEY。
const EnvPrefix = "TYPEFILTER"

// Defaults 返回带有安全默认值的 Config 雏形。
func Defaults() Config {
	return Config{
		Color: "auto",
		Sink:  "fs",
		Log:   Logging{Level: "info"},
		Minio: Minio{Region: "us-east-1"},
	}
}

// Load 按优先级合并：开关 > 环境变量 > 配置文件 > 默认值。
// fs 须已由 AddFlags 注册并完成解析；positional 为输入文件。
func Load(fs *pflag.FlagSet, positional []string) (Config, error) {
	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("%w: bind flags: %v", contract.ErrConfigInvalid, err)
	}
	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read config %s: %v", contract.ErrConfigInvalid, path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode: %v", contract.ErrConfigInvalid, err)
	}
	cfg.Inputs = cloneStrings(positional)
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Validate 对最小必要边界做静态校验（不触碰文件系统）。
func Validate(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return contract.ErrMissingFiles
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Color)) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%w: color %q (want auto|always|never)", contract.ErrConfigInvalid, cfg.Color)
	}
	if registry.Writer[effName(cfg.Sink, Defaults().Sink)] == nil {
		return fmt.Errorf("%w: sink %q not registered", contract.ErrConfigInvalid, cfg.Sink)
	}
	if cfg.MaxLineSize < 0 {
		return fmt.Errorf("%w: max-line-size must be >= 0", contract.ErrConfigInvalid)
	}
	if lv := strings.TrimSpace(cfg.Log.Level); lv != "" {
		if _, err := zapcore.ParseLevel(strings.ToLower(lv)); err != nil {
			return fmt.Errorf("%w: log.level %q", contract.ErrConfigInvalid, cfg.Log.Level)
		}
	}
	return nil
}

// FormatArgs 渲染 --show-args 的输出：收到的参数、开关、输出路径、前缀与文件。
func FormatArgs(received []string, cfg Config) string {
	var keys []string
	if cfg.Full {
		keys = append(keys, "-f")
	}
	if cfg.Short {
		keys = append(keys, "-s")
	}
	if cfg.Append {
		keys = append(keys, "-a")
	}
	var b strings.Builder
	line := func(label string, items []string) {
		b.WriteString(label)
		for _, s := range items {
			b.WriteString(s)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	line("Получено: ", received)
	line("Ключи: ", keys)
	b.WriteString("Путь к файлам: " + cfg.Output + "\n")
	b.WriteString("Префикс: " + cfg.Prefix + "\n")
	line("Файлы: ", cfg.Inputs)
	return b.String()
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func effName(got, def string) string {
	if strings.TrimSpace(got) == "" {
		return def
	}
	return strings.TrimSpace(got)
}
