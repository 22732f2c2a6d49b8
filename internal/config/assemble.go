package config

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"typefilter/internal/diag"
	"typefilter/internal/pipeline"
	"typefilter/pkg/contract"
	"typefilter/pkg/registry"
	rfs "typefilter/plugins/reader/filesystem"
	wfs "typefilter/plugins/writer/filesystem"
	wminio "typefilter/plugins/writer/minio"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Assemble 校验配置并构造 Components 与 Settings。
// 组件经注册表工厂构造：类型化 Options 先编码为 JSON，再由工厂严格解码。
func Assemble(cfg Config, stdout, stderr io.Writer) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	rraw, err := jsonAPI.Marshal(rfs.Options{})
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	r, err := registry.Reader["fs"](rraw)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: reader: %v", contract.ErrConfigInvalid, err)
	}

	sink := effName(cfg.Sink, Defaults().Sink)
	wraw, err := writerOptions(sink, cfg)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	w, err := registry.Writer[sink](wraw)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: writer %s: %v", contract.ErrConfigInvalid, sink, err)
	}

	con := diag.NewConsole(stdout, stderr, cfg.Color)
	comp := pipeline.Components{Reader: r, Writer: w, Console: con}

	set := pipeline.Settings{
		Inputs:      cloneStrings(cfg.Inputs),
		Prefix:      cfg.Prefix,
		Stats:       statsMode(cfg),
		Color:       con.Colored(),
		MaxLineSize: cfg.MaxLineSize,
	}
	return comp, set, nil
}

// statsMode: -f 优先于 -s。
func statsMode(cfg Config) pipeline.StatsMode {
	switch {
	case cfg.Full:
		return pipeline.StatsFull
	case cfg.Short:
		return pipeline.StatsShort
	default:
		return pipeline.StatsNone
	}
}

// writerOptions 为选定的 sink 生成原样 JSON Options。
// 对象存储没有目录：-o 作为键前缀的一部分。
func writerOptions(sink string, cfg Config) (json.RawMessage, error) {
	switch sink {
	case "minio":
		m := cfg.Minio
		kp := path.Join(m.KeyPrefix, filepathToSlash(cfg.Output))
		if kp == "." {
			kp = ""
		}
		return jsonAPI.Marshal(wminio.Options{
			Endpoint:  m.Endpoint,
			Bucket:    m.Bucket,
			Region:    m.Region,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			KeyPrefix: strings.Trim(kp, "/"),
			UseSSL:    m.UseSSL,
			Append:    cfg.Append,
		})
	default:
		return jsonAPI.Marshal(wfs.Options{OutputDir: cfg.Output, Append: cfg.Append})
	}
}

func filepathToSlash(p string) string { return strings.ReplaceAll(p, "\\", "/") }

// EffectiveJSON 返回去敏后的最终配置 JSON，用于 debug 日志。
func EffectiveJSON(cfg Config) string {
	b, err := jsonAPI.Marshal(cfg.Redacted())
	if err != nil {
		return ""
	}
	return string(b)
}
