package classify

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat 渲染双精度值：
//   - 1e-3 <= |f| < 1e7 用定点，至少一位小数（10.0、2.5）；
//   - 其余用科学计数 d.dddE±n（1.0E10、1.5E-4）；
//   - NaN / Infinity / -Infinity / 0.0 / -0.0。
//
// 渲染结果总能被 ParseFloat 解析且不会被判定为整数。
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(n)
}
