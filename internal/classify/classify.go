// Package classify 判定单行文本的类别（整数/浮点/字符串），并提供对应的数值解析与浮点渲染。
//
// 判定顺序固定、先命中者胜出：整数 → 浮点 → 字符串。
// 所有函数无状态、可并发调用。
package classify

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
)

// Category 为行的类别；每个 token 恰好属于一个类别。
type Category int

const (
	Integer Category = iota
	Float
	String
)

// Categories 为报告与输出使用的固定顺序。
var Categories = [...]Category{Integer, Float, String}

func (c Category) String() string {
	switch c {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "string"
	}
}

var (
	// 十进制整数：可选符号 + 至少一位数字。
	integerRe = regexp.MustCompile(`^[+-]?[0-9]+$`)
	// 十进制浮点：可选符号；NaN | Infinity | 数字[.数字] | .数字；可选指数。
	floatRe = regexp.MustCompile(`^[+-]?(?:NaN|Infinity|(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)$`)
)

// Classify 判定 token 的类别。不做任何 trim；空串为 String。
func Classify(token string) Category {
	if integerRe.MatchString(token) {
		return Integer
	}
	if _, ok := ParseFloat(token); ok {
		return Float
	}
	return String
}

// ParseInteger 按任意精度解析整数；非整数字面量返回 false。
func ParseInteger(token string) (*big.Int, bool) {
	if !integerRe.MatchString(token) {
		return nil, false
	}
	return new(big.Int).SetString(token, 10)
}

// ParseFloat 按双精度解析浮点字面量。
// 超出范围的量级按 IEEE 舍入饱和为 ±Inf 或 ±0，仍视为合法浮点。
func ParseFloat(token string) (float64, bool) {
	if !floatRe.MatchString(token) {
		return 0, false
	}
	body, neg := token, false
	switch token[0] {
	case '-':
		body, neg = token[1:], true
	case '+':
		body = token[1:]
	}
	// strconv 不接受带符号的 NaN
	if body == "NaN" {
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return 0, false
		}
	}
	if neg {
		f = -f
	}
	return f, true
}
