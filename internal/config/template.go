package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// 模板文件名。
const (
	TemplateConfigName = "typefilter.yaml"
	TemplateEnvName    = ".env"
)

// templateKeys 返回模板中全部键及其默认值（与 AddFlags 一致）。
func templateKeys() map[string]any {
	d := Defaults()
	return map[string]any{
		"prefix":           d.Prefix,
		"output":           d.Output,
		"full":             d.Full,
		"short":            d.Short,
		"append":           d.Append,
		"color":            d.Color,
		"sink":             d.Sink,
		"max-line-size":    d.MaxLineSize,
		"metrics-file":     d.MetricsFile,
		"log.level":        d.Log.Level,
		"log.dir":          d.Log.Dir,
		"minio.endpoint":   d.Minio.Endpoint,
		"minio.bucket":     d.Minio.Bucket,
		"minio.region":     d.Minio.Region,
		"minio.access-key": d.Minio.AccessKey,
		"minio.secret-key": d.Minio.SecretKey,
		"minio.key-prefix": d.Minio.KeyPrefix,
		"minio.use-ssl":    d.Minio.UseSSL,
	}
}

// WriteTemplates 在 dir 下写出默认 typefilter.yaml 与 .env 模板；已存在的文件不覆盖。
// 返回实际写出的文件路径。
func WriteTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string

	cfgPath := filepath.Join(dir, TemplateConfigName)
	if ok, err := absent(cfgPath); err != nil {
		return written, err
	} else if ok {
		v := newViper()
		for k, val := range templateKeys() {
			v.Set(k, val)
		}
		if err := v.SafeWriteConfigAs(cfgPath); err != nil {
			return written, err
		}
		written = append(written, cfgPath)
	}

	envPath := filepath.Join(dir, TemplateEnvName)
	if ok, err := absent(envPath); err != nil {
		return written, err
	} else if ok {
		if err := godotenv.Write(envTemplate(), envPath); err != nil {
			return written, err
		}
		written = append(written, envPath)
	}
	return written, nil
}

// envTemplate: 仅列出常需按环境区分的键（日志与对象存储凭据）。
func envTemplate() map[string]string {
	d := Defaults()
	return map[string]string{
		EnvPrefix + "_LOG_LEVEL":        d.Log.Level,
		EnvPrefix + "_LOG_DIR":          d.Log.Dir,
		EnvPrefix + "_SINK":             d.Sink,
		EnvPrefix + "_MINIO_ENDPOINT":   d.Minio.Endpoint,
		EnvPrefix + "_MINIO_BUCKET":     d.Minio.Bucket,
		EnvPrefix + "_MINIO_ACCESS_KEY": d.Minio.AccessKey,
		EnvPrefix + "_MINIO_SECRET_KEY": d.Minio.SecretKey,
		EnvPrefix + "_MINIO_USE_SSL":    strconv.FormatBool(d.Minio.UseSSL),
	}
}

func absent(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}
