package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"typefilter/pkg/contract"
)

// AddFlags 在 fs 上注册全部开关；默认值即配置的最低优先级来源。
func AddFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.StringP("prefix", "p", d.Prefix, "prefix for every output file name")
	fs.StringP("output", "o", d.Output, "output directory (created if missing)")
	fs.BoolP("full", "f", d.Full, "print full statistics")
	fs.BoolP("short", "s", d.Short, "print short statistics")
	fs.BoolP("append", "a", d.Append, "append to existing output files")
	fs.String("color", d.Color, "colorize statistics: auto|always|never")
	fs.String("sink", d.Sink, "output sink: fs|minio")
	fs.Int("max-line-size", d.MaxLineSize, "maximum line length in bytes (0 = default)")
	fs.String("metrics-file", d.MetricsFile, "write prometheus metrics to this file after the run")
	fs.String("log.level", d.Log.Level, "log level: debug|info|warn|error")
	fs.String("log.dir", d.Log.Dir, "directory for rotated JSON logs (empty disables logging)")
	fs.String("minio.endpoint", d.Minio.Endpoint, "S3 endpoint host:port")
	fs.String("minio.bucket", d.Minio.Bucket, "S3 bucket")
	fs.String("minio.region", d.Minio.Region, "S3 region")
	fs.String("minio.access-key", d.Minio.AccessKey, "S3 access key")
	fs.String("minio.secret-key", d.Minio.SecretKey, "S3 secret key")
	fs.String("minio.key-prefix", d.Minio.KeyPrefix, "object key prefix")
	fs.Bool("minio.use-ssl", d.Minio.UseSSL, "use TLS for S3")
	fs.String("config", "", "config file (yaml|json|toml)")
	fs.String("init-config", "", "write default typefilter.yaml and .env into DIR and exit")
	// 裸 --init-config 等价于 --init-config=.
	fs.Lookup("init-config").NoOptDefVal = "."
	fs.Bool("show-args", false, "print parsed arguments before processing")
}

// CheckArgs 在交给 pflag 之前校验开关：
//   - 未知开关（含单独的 "-"）→ *contract.IllegalKeyError；
//   - 需要取值的开关后已无参数 → contract.ErrMissingValue。
//
// "--" 之后的参数一律视为文件名。
func CheckArgs(fs *pflag.FlagSet, args []string) error {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return nil
		case a == "-":
			return &contract.IllegalKeyError{Key: a}
		case strings.HasPrefix(a, "--"):
			name, _, hasValue := strings.Cut(a[2:], "=")
			f := fs.Lookup(name)
			if f == nil {
				return &contract.IllegalKeyError{Key: "--" + name}
			}
			if needsValue(f) && !hasValue {
				if i+1 >= len(args) {
					return contract.ErrMissingValue
				}
				i++
			}
		case strings.HasPrefix(a, "-"):
			skip, err := checkShorthands(fs, a[1:], i+1 < len(args))
			if err != nil {
				return err
			}
			if skip {
				i++
			}
		}
	}
	return nil
}

// checkShorthands 校验一组短开关（如 -fa、-pout_）。返回下一个参数是否被当作取值消费。
func checkShorthands(fs *pflag.FlagSet, group string, hasNext bool) (bool, error) {
	for j := 0; j < len(group); j++ {
		c := group[j : j+1]
		f := fs.ShorthandLookup(c)
		if f == nil {
			return false, &contract.IllegalKeyError{Key: "-" + c}
		}
		if !needsValue(f) {
			continue
		}
		if j+1 < len(group) {
			// 取值紧随其后（-pfoo 或 -p=foo）
			return false, nil
		}
		if !hasNext {
			return false, contract.ErrMissingValue
		}
		return true, nil
	}
	return false, nil
}

func needsValue(f *pflag.Flag) bool { return f.NoOptDefVal == "" }

// FlagError 将 pflag 解析期的其它错误（例如取值格式不对）归为配置错误。
func FlagError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", contract.ErrConfigInvalid, err)
}
