package registry

import (
	"encoding/json"
	"fmt"
	"testing"
)

// TestStrictUnmarshal 验证严格解码逻辑。
func TestStrictUnmarshal(t *testing.T) {
	type opt struct {
		A int `json:"a"`
	}
	var o opt
	if err := strictUnmarshal(nil, &o); err != nil || o.A != 0 {
		t.Fatalf("nil 输入失败: %v", err)
	}
	if err := strictUnmarshal(json.RawMessage(`{"a":1}`), &o); err != nil || o.A != 1 {
		t.Fatalf("合法 JSON 解析失败: %v", err)
	}
	if err := strictUnmarshal(json.RawMessage(`{"a":1,"b":2}`), &o); err == nil {
		t.Fatalf("未知字段应报错")
	}
	if err := strictUnmarshal(json.RawMessage(`{"a":"x"}`), &o); err == nil {
		t.Fatalf("类型不符应报错")
	}
}

// TestFactories 遍历注册表入口。
func TestFactories(t *testing.T) {
	t.Run("reader", func(t *testing.T) {
		if _, err := Reader["fs"](json.RawMessage(`{}`)); err != nil {
			t.Fatalf("reader: %v", err)
		}
		if _, err := Reader["fs"](json.RawMessage(`{"x":1}`)); err == nil {
			t.Fatalf("reader 未对未知字段报错")
		}
	})
	t.Run("writer-fs", func(t *testing.T) {
		tmp := t.TempDir()
		raw := json.RawMessage(fmt.Sprintf(`{"output_dir":%q,"append":true}`, tmp))
		if _, err := Writer["fs"](raw); err != nil {
			t.Fatalf("writer: %v", err)
		}
		bad := json.RawMessage(fmt.Sprintf(`{"output_dir":%q,"x":1}`, tmp))
		if _, err := Writer["fs"](bad); err == nil {
			t.Fatalf("writer 未对未知字段报错")
		}
		conflict := json.RawMessage(`{"append":true,"atomic":true}`)
		if _, err := Writer["fs"](conflict); err == nil {
			t.Fatalf("append+atomic 应报错")
		}
	})
	t.Run("writer-minio", func(t *testing.T) {
		raw := json.RawMessage(`{"endpoint":"localhost:9000","bucket":"out","access_key":"ak","secret_key":"sk"}`)
		if _, err := Writer["minio"](raw); err != nil {
			t.Fatalf("minio: %v", err)
		}
		if _, err := Writer["minio"](json.RawMessage(`{}`)); err == nil {
			t.Fatalf("minio 缺少 endpoint 应报错")
		}
	})
}
