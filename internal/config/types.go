package config

// Config: 运行期只读配置（一次解析，运行期不变）。
// 键名与命令行开关一致（kebab-case，嵌套用 "."）；同一键可来自开关、环境变量或配置文件。
type Config struct {
	// Inputs 为位置参数（输入文件），仅来自命令行。
	Inputs []string `mapstructure:"-" json:"inputs"`

	Prefix string `mapstructure:"prefix" json:"prefix"`
	Output string `mapstructure:"output" json:"output"`
	Full   bool   `mapstructure:"full" json:"full"`
	Short  bool   `mapstructure:"short" json:"short"`
	Append bool   `mapstructure:"append" json:"append"`

	// Color: auto|always|never。
	Color string `mapstructure:"color" json:"color"`
	// Sink: 输出介质，注册表中的 Writer 名（fs|minio）。
	Sink string `mapstructure:"sink" json:"sink"`
	// MaxLineSize: 单行最大字节数；0 使用默认。
	MaxLineSize int `mapstructure:"max-line-size" json:"max_line_size"`
	// MetricsFile: 非空时在运行结束后导出指标文本。
	MetricsFile string `mapstructure:"metrics-file" json:"metrics_file"`

	Log   Logging `mapstructure:"log" json:"log"`
	Minio Minio   `mapstructure:"minio" json:"minio"`

	// 以下仅影响 CLI 行为。
	ConfigFile string `mapstructure:"config" json:"config"`
	InitConfig string `mapstructure:"init-config" json:"init_config"`
	ShowArgs   bool   `mapstructure:"show-args" json:"show_args"`
}

// Logging: 级别与目录；目录为空时不落日志。
type Logging struct {
	Level string `mapstructure:"level" json:"level"`
	Dir   string `mapstructure:"dir" json:"dir"`
}

// Minio: sink=minio 时的对象存储参数。
type Minio struct {
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	Bucket    string `mapstructure:"bucket" json:"bucket"`
	Region    string `mapstructure:"region" json:"region"`
	AccessKey string `mapstructure:"access-key" json:"access_key"`
	SecretKey string `mapstructure:"secret-key" json:"secret_key"`
	KeyPrefix string `mapstructure:"key-prefix" json:"key_prefix"`
	UseSSL    bool   `mapstructure:"use-ssl" json:"use_ssl"`
}

// Redacted 返回去除密钥后的副本，用于日志。
func (c Config) Redacted() Config {
	out := c
	if out.Minio.SecretKey != "" {
		out.Minio.SecretKey = "***"
	}
	return out
}
