package contract

import "math/big"

// FileID: 输入源的逻辑标识（规范化路径，跨平台一致）。
type FileID string

// Buckets: 一次运行的三类分桶结果。
// 约束：
// - 每个输入行恰好落入一个桶；
// - 桶内顺序 = 合并流中的出现顺序；
// - 仅在分类完成后交给统计与 Writer，运行结束即丢弃。
type Buckets struct {
	Integers []*big.Int
	Floats   []float64
	Strings  []string
}

// Len 返回三个桶的元素总数。
func (b Buckets) Len() int { return len(b.Integers) + len(b.Floats) + len(b.Strings) }
