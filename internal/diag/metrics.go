package diag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 进程内指标，注册在私有 registry 上，运行结束后可导出为文本文件：
// - typefilter_op_total{comp,stage,result}
// - typefilter_error_total{comp,code}
// - typefilter_op_duration_ms{comp,stage}
// - typefilter_tokens_total{category}
var (
	registry = prometheus.NewRegistry()

	opTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "typefilter",
		Name:      "op_total",
		Help:      "Operations by component, stage and result.",
	}, []string{"comp", "stage", "result"})

	errorTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "typefilter",
		Name:      "error_total",
		Help:      "Errors by component and classification code.",
	}, []string{"comp", "code"})

	opDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "typefilter",
		Name:      "op_duration_ms",
		Help:      "Stage duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	}, []string{"comp", "stage"})

	tokensTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "typefilter",
		Name:      "tokens_total",
		Help:      "Classified lines by category.",
	}, []string{"category"})
)

// IncOp 累加操作计数（result=success|error）。
func IncOp(comp, stage, result string) {
	opTotal.WithLabelValues(comp, stage, result).Inc()
}

// IncError 按分类累加错误计数。
func IncError(comp string, code Code) {
	errorTotal.WithLabelValues(comp, string(code)).Inc()
}

// ObserveDuration 记录阶段耗时（毫秒）。
func ObserveDuration(comp, stage string, durMS int64) {
	opDuration.WithLabelValues(comp, stage).Observe(float64(durMS))
}

// AddTokens 按类别累加分类行数。
func AddTokens(category string, n int) {
	if n <= 0 {
		return
	}
	tokensTotal.WithLabelValues(category).Add(float64(n))
}

// WriteMetrics 以文本暴露格式写出全部指标（node-exporter textfile 采集器可读）。
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
