package stats

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typefilter/internal/classify"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestFullIntegers(t *testing.T) {
	r := FullIntegers(ints(10, 20, 30))
	require.NotNil(t, r)
	st := r.(*IntegerStats)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, "10", st.Min.String())
	assert.Equal(t, "30", st.Max.String())
	assert.Equal(t, "60", st.Sum.String())
	assert.Equal(t, 20.0, st.Mean)
}

// 均值为截断整除：31/3 = 10。
func TestFullIntegersTruncatedMean(t *testing.T) {
	st := FullIntegers(ints(10, 10, 11)).(*IntegerStats)
	assert.Equal(t, "31", st.Sum.String())
	assert.Equal(t, 10.0, st.Mean)

	st = FullIntegers(ints(-7, 0)).(*IntegerStats)
	assert.Equal(t, -3.0, st.Mean, "向零截断")
}

func TestFullIntegersBig(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	st := FullIntegers([]*big.Int{huge, big.NewInt(-1)}).(*IntegerStats)
	assert.Equal(t, "123456789012345678901234567889", st.Sum.String())
	assert.Equal(t, "-1", st.Min.String())
	assert.Equal(t, huge.String(), st.Max.String())
	// 结果不应与入参共享底层存储
	st.Max.SetInt64(0)
	assert.Equal(t, "123456789012345678901234567890", huge.String())
}

func TestFullFloats(t *testing.T) {
	st := FullFloats([]float64{1.5, -2.5, 4}).(*FloatStats)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, -2.5, st.Min)
	assert.Equal(t, 4.0, st.Max)
	assert.Equal(t, 3.0, st.Sum)
	assert.Equal(t, 1.0, st.Mean)
}

// 误差补偿求和；均值为和除以个数
func TestFullFloatsCompensatedSum(t *testing.T) {
	st := FullFloats([]float64{0.1, 0.2, 0.3}).(*FloatStats)
	assert.Equal(t, 0.6, st.Sum)
	assert.Equal(t, 0.6/3, st.Mean)
	got := Render(st, false)
	assert.Contains(t, got, "Сумма чисел: 0.6\n")

	ten := make([]float64, 10)
	for i := range ten {
		ten[i] = 0.1
	}
	assert.Equal(t, 1.0, FullFloats(ten).(*FloatStats).Sum)
}

// 溢出时补偿项为 NaN，结果取无穷
func TestFullFloatsOverflow(t *testing.T) {
	st := FullFloats([]float64{1e308, 1e308}).(*FloatStats)
	assert.True(t, math.IsInf(st.Sum, 1))
	st = FullFloats([]float64{math.Inf(-1), 1}).(*FloatStats)
	assert.True(t, math.IsInf(st.Sum, -1))
}

func TestFullFloatsNaN(t *testing.T) {
	st := FullFloats([]float64{1, math.NaN(), 3}).(*FloatStats)
	assert.True(t, math.IsNaN(st.Min))
	assert.True(t, math.IsNaN(st.Max))
	assert.True(t, math.IsNaN(st.Sum))
	assert.True(t, math.IsNaN(st.Mean))
}

func TestFullStrings(t *testing.T) {
	st := FullStrings([]string{"", "abc", "привет"}).(*StringStats)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 0, st.MinLen)
	assert.Equal(t, 6, st.MaxLen, "按字符计数")
}

// 长度按 UTF-16 码元计：基本平面外字符计 2，非法字节计 1
func TestFullStringsUTF16Length(t *testing.T) {
	st := FullStrings([]string{"😀"}).(*StringStats)
	assert.Equal(t, 2, st.MinLen)
	assert.Equal(t, 2, st.MaxLen)

	st = FullStrings([]string{"a😀b", "\xff", "ab"}).(*StringStats)
	assert.Equal(t, 1, st.MinLen)
	assert.Equal(t, 4, st.MaxLen)
}

func TestEmptyBucketsHaveNoReport(t *testing.T) {
	assert.Nil(t, FullIntegers(nil))
	assert.Nil(t, FullFloats(nil))
	assert.Nil(t, FullStrings(nil))
	assert.Nil(t, Short(classify.String, 0))
	assert.Empty(t, Render(nil, true))
}

func TestRenderIntegers(t *testing.T) {
	got := Render(FullIntegers(ints(10, 20, 30)), false)
	want := "Статистика по целым числам:\n" +
		"Количество чисел: 3\n" +
		"Минимальное число: 10\n" +
		"Максимальное число: 30\n" +
		"Сумма чисел: 60\n" +
		"Среднее арифметическое: 20.0\n\n"
	assert.Equal(t, want, got)
}

func TestRenderFloats(t *testing.T) {
	got := Render(FullFloats([]float64{2.5, 1e10}), false)
	assert.Contains(t, got, "Статистика по вещественным числам:\n")
	assert.Contains(t, got, "Минимальное число: 2.5\n")
	assert.Contains(t, got, "Максимальное число: 1.0E10\n")
}

func TestRenderStrings(t *testing.T) {
	got := Render(FullStrings([]string{"a", "hello"}), false)
	want := "Статистика по строкам:\n" +
		"Количество строк: 2\n" +
		"Длина самой короткой строки: 1\n" +
		"Длина самой длинной строки: 5\n\n"
	assert.Equal(t, want, got)
}

func TestRenderShort(t *testing.T) {
	assert.Equal(t, "Статистика по вещественным числам:\nКоличество чисел: 4\n\n",
		Render(Short(classify.Float, 4), false))
	assert.Equal(t, "Статистика по строкам:\nКоличество строк: 1\n\n",
		Render(Short(classify.String, 1), false))
	assert.Equal(t, classify.Integer, Short(classify.Integer, 2).Category())
}

func TestRenderColored(t *testing.T) {
	plain := Render(Short(classify.Integer, 2), false)
	got := Render(Short(classify.Integer, 2), true)
	require.True(t, strings.HasPrefix(got, "\x1b[32;1m"), "got=%q", got)
	assert.Contains(t, got, plain)
	tail := got[strings.Index(got, plain)+len(plain):]
	assert.True(t, strings.HasPrefix(tail, "\x1b[0"), "reset=%q", tail)
}
