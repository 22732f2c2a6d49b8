package contract

import (
	"context"
	"io"
)

// ArtifactID: 输出工件标识（<prefix><category>.txt），由 Writer 映射到具体介质。
type ArtifactID string

// Writer: 将一个分类的文本内容持久化到目标介质（文件系统/对象存储等）。
// 约束：
//  1. 覆盖写或追加写由实现的 Options 决定，调用方不感知；
//  2. 同一 ArtifactID 单写者；
//  3. 错误直接上抛（不做重试/回退）。
type Writer interface {
	Write(ctx context.Context, id ArtifactID, r io.Reader) error
}

// Locator: Writer 的可选能力，报告 ArtifactID 在介质上的实际位置，用于错误提示。
type Locator interface {
	Locate(id ArtifactID) string
}
