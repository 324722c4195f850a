// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型约定：
// - Counter（只增不减）：请求数、领用/更换操作数、补偿失败数
// - Gauge（瞬时值）：处理中请求数、熔断器状态
// - Histogram（分布）：请求耗时、Saga执行耗时
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只用有限取值的维度（method/path/status），避免高基数标签。
//
// 使用方式：
//  1. 启动时调用metrics.InitMetrics()
//  2. 通过gin路由暴露 GET /metrics（promhttp.Handler）
//  3. 业务代码直接操作导出的指标变量
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 库存与设备生命周期业务指标

	// IssuancesTotal 物资领用总数（Counter）
	IssuancesTotal prometheus.Counter

	// IssuanceReversalsTotal 领用冲销总数（Counter）
	IssuanceReversalsTotal prometheus.Counter

	// ReplacementsTotal 设备更换总数（Counter）
	ReplacementsTotal prometheus.Counter

	// ReplacementReturnsTotal 设备更换退回总数（Counter）
	ReplacementReturnsTotal prometheus.Counter

	// InsufficientStockTotal 因库存不足被拒绝的操作数（Counter）
	InsufficientStockTotal prometheus.Counter

	// CompensationFailuresTotal 补偿/幂等重试步骤失败总数（Counter）
	// 标签：operation（issue/reverse/replace/return）、step
	CompensationFailuresTotal *prometheus.CounterVec

	// HoldingWriteFailuresTotal 仓库暂存旁路写入失败总数（Counter）
	HoldingWriteFailuresTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// Saga指标

	// SagaExecutionsTotal Saga执行总数，标签：result（success/failure）
	SagaExecutionsTotal *prometheus.CounterVec

	// SagaExecutionDuration Saga执行耗时（秒）
	SagaExecutionDuration prometheus.Histogram
)

// InitMetrics 初始化并注册所有指标
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 业务指标
	IssuancesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_issuances_total",
			Help: "物资领用总数",
		},
	)

	IssuanceReversalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_issuance_reversals_total",
			Help: "领用冲销总数",
		},
	)

	ReplacementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "equipment_replacements_total",
			Help: "设备更换总数",
		},
	)

	ReplacementReturnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "equipment_replacement_returns_total",
			Help: "设备更换退回总数",
		},
	)

	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_insufficient_stock_total",
			Help: "因库存不足被拒绝的操作数",
		},
	)

	CompensationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compensation_failures_total",
			Help: "补偿或幂等重试步骤失败总数（需人工介入）",
		},
		[]string{"operation", "step"},
	)

	HoldingWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "warehouse_holding_write_failures_total",
			Help: "仓库暂存旁路写入失败总数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// Saga指标
	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"result"},
	)

	SagaExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "saga_execution_duration_seconds",
			Help:    "Saga执行耗时（秒）",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)
}

// =========================================
// 辅助函数（nil安全，便于未初始化时的单元测试）
// =========================================

// IncCounter 递增计数器
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增带标签的计数器
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// IncGauge 递增仪表
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减仪表
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGaugeVec 设置带标签的仪表值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录直方图观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的直方图观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
