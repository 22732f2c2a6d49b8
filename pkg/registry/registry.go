package registry

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"typefilter/pkg/contract"
	rfs "typefilter/plugins/reader/filesystem"
	wfs "typefilter/plugins/writer/filesystem"
	wminio "typefilter/plugins/writer/minio"
)

// strictAPI: 拒绝未知字段的解码配置，其余与标准库兼容。
var strictAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// strictUnmarshal: 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	return strictAPI.Unmarshal(raw, v)
}

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.Reader, error)

// NewWriter 工厂签名：接收原样 JSON Options。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 本地文件 Reader
	"fs": func(raw json.RawMessage) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件系统 Writer（覆盖写默认原子替换；可追加）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts)
	},
	// minio: S3 兼容对象存储 Writer
	"minio": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wminio.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wminio.New(&opts)
	},
}
