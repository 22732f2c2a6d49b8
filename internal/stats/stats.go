// Package stats 计算三类桶的完整/简要统计报告。
//
// 报告是只读的派生值：每次调用重新计算，从不持久化。空桶不产生报告（返回 nil）。
package stats

import (
	"math"
	"math/big"
	"strconv"
	"unicode/utf16"

	"typefilter/internal/classify"
)

// Field 为报告中的一行「标签: 值」。
type Field struct {
	Label string
	Value string
}

// Report 为一份统计报告；Render 负责排版。
type Report interface {
	Category() classify.Category
	Title() string
	Fields() []Field
}

const (
	labelCount    = "Количество чисел"
	labelMin      = "Минимальное число"
	labelMax      = "Максимальное число"
	labelSum      = "Сумма чисел"
	labelMean     = "Среднее арифметическое"
	labelStrCount = "Количество строк"
	labelShortest = "Длина самой короткой строки"
	labelLongest  = "Длина самой длинной строки"
)

func title(c classify.Category) string {
	switch c {
	case classify.Integer:
		return "Статистика по целым числам"
	case classify.Float:
		return "Статистика по вещественным числам"
	default:
		return "Статистика по строкам"
	}
}

func countLabel(c classify.Category) string {
	if c == classify.String {
		return labelStrCount
	}
	return labelCount
}

// IntegerStats 为整数桶的完整统计。
// Mean 为截断整除 Sum/Count 的结果再扩宽为 float64（保持原有行为，不是精确均值）。
type IntegerStats struct {
	Count int
	Min   *big.Int
	Max   *big.Int
	Sum   *big.Int
	Mean  float64
}

func (s *IntegerStats) Category() classify.Category { return classify.Integer }
func (s *IntegerStats) Title() string               { return title(classify.Integer) }
func (s *IntegerStats) Fields() []Field {
	return []Field{
		{labelCount, strconv.Itoa(s.Count)},
		{labelMin, s.Min.String()},
		{labelMax, s.Max.String()},
		{labelSum, s.Sum.String()},
		{labelMean, classify.FormatFloat(s.Mean)},
	}
}

// FullIntegers 计算整数桶的完整统计；空桶返回 nil。
func FullIntegers(xs []*big.Int) Report {
	if len(xs) == 0 {
		return nil
	}
	minV, maxV := xs[0], xs[0]
	sum := new(big.Int)
	for _, x := range xs {
		if x.Cmp(minV) < 0 {
			minV = x
		}
		if x.Cmp(maxV) > 0 {
			maxV = x
		}
		sum.Add(sum, x)
	}
	q := new(big.Int).Quo(sum, big.NewInt(int64(len(xs))))
	mean, _ := new(big.Float).SetInt(q).Float64()
	return &IntegerStats{
		Count: len(xs),
		Min:   new(big.Int).Set(minV),
		Max:   new(big.Int).Set(maxV),
		Sum:   sum,
		Mean:  mean,
	}
}

// FloatStats 为浮点桶的完整统计；任一 NaN 会传播到 Min/Max/Sum/Mean。
type FloatStats struct {
	Count int
	Min   float64
	Max   float64
	Sum   float64
	Mean  float64
}

func (s *FloatStats) Category() classify.Category { return classify.Float }
func (s *FloatStats) Title() string               { return title(classify.Float) }
func (s *FloatStats) Fields() []Field {
	return []Field{
		{labelCount, strconv.Itoa(s.Count)},
		{labelMin, classify.FormatFloat(s.Min)},
		{labelMax, classify.FormatFloat(s.Max)},
		{labelSum, classify.FormatFloat(s.Sum)},
		{labelMean, classify.FormatFloat(s.Mean)},
	}
}

// FullFloats 计算浮点桶的完整统计；空桶返回 nil。
func FullFloats(xs []float64) Report {
	if len(xs) == 0 {
		return nil
	}
	minV, maxV := xs[0], xs[0]
	for _, x := range xs[1:] {
		minV = math.Min(minV, x)
		maxV = math.Max(maxV, x)
	}
	sum := compensatedSum(xs)
	return &FloatStats{
		Count: len(xs),
		Min:   minV,
		Max:   maxV,
		Sum:   sum,
		Mean:  sum / float64(len(xs)),
	}
}

// compensatedSum 为带误差补偿的求和（Kahan）：0.1+0.2+0.3 得 0.6。
// 补偿项在溢出时会变为 NaN，此时返回朴素求和的无穷结果。
func compensatedSum(xs []float64) float64 {
	var sum, comp, simple float64
	for _, x := range xs {
		simple += x
		y := x - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	res := sum - comp
	if math.IsNaN(res) && math.IsInf(simple, 0) {
		return simple
	}
	return res
}

// StringStats 为字符串桶的完整统计；长度按 UTF-16 码元计。
type StringStats struct {
	Count  int
	MinLen int
	MaxLen int
}

func (s *StringStats) Category() classify.Category { return classify.String }
func (s *StringStats) Title() string               { return title(classify.String) }
func (s *StringStats) Fields() []Field {
	return []Field{
		{labelStrCount, strconv.Itoa(s.Count)},
		{labelShortest, strconv.Itoa(s.MinLen)},
		{labelLongest, strconv.Itoa(s.MaxLen)},
	}
}

// FullStrings 计算字符串桶的完整统计；空桶返回 nil。
func FullStrings(xs []string) Report {
	if len(xs) == 0 {
		return nil
	}
	st := &StringStats{Count: len(xs), MinLen: math.MaxInt}
	for _, x := range xs {
		n := utf16Len(x)
		st.MinLen = min(st.MinLen, n)
		st.MaxLen = max(st.MaxLen, n)
	}
	return st
}

// utf16Len 返回 s 的 UTF-16 码元数：基本平面外的字符计 2，非法字节计 1。
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ShortStats 为简要统计：只有数量。
type ShortStats struct {
	Cat   classify.Category
	Count int
}

func (s *ShortStats) Category() classify.Category { return s.Cat }
func (s *ShortStats) Title() string               { return title(s.Cat) }
func (s *ShortStats) Fields() []Field {
	return []Field{{countLabel(s.Cat), strconv.Itoa(s.Count)}}
}

// Short 构造简要统计；count 为 0 时返回 nil。
func Short(c classify.Category, count int) Report {
	if count <= 0 {
		return nil
	}
	return &ShortStats{Cat: c, Count: count}
}
