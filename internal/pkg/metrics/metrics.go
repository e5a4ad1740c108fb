// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AllocationMetrics 记录分配请求的结果分布和耗时。
type AllocationMetrics struct {
	Allocations *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
}

// NewAllocationMetrics 注册并返回分配相关的指标。
// path 标签区分 transaction / procedure 两条执行路径，
// result 标签区分 ok / invalid_request / not_found / storage_failure。
func NewAllocationMetrics(service string) *AllocationMetrics {
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "depot",
		Subsystem: service,
		Name:      "allocations_total",
		Help:      "Total number of stock allocation attempts.",
	}, []string{"path", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "depot",
		Subsystem: service,
		Name:      "allocation_duration_ms",
		Help:      "Stock allocation latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"path"})

	prometheus.MustRegister(allocations, latency)
	return &AllocationMetrics{Allocations: allocations, LatencyMS: latency}
}

// Handler 暴露 /metrics 端点。
func Handler() http.Handler {
	return promhttp.Handler()
}
