// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやハンドラー層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordOrderPlaced()
	RecordFoodCreated()
	RecordAuthFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	ordersPlaced   prometheus.Counter
	foodsCreated   prometheus.Counter
	authFailures   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "savorspot_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "savorspot_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "savorspot_orders_placed_total",
			Help: "受け付けた注文の合計数",
		}),
		foodsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "savorspot_foods_created_total",
			Help: "登録されたフードの合計数",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "savorspot_auth_failures_total",
			Help: "トークン検証失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.ordersPlaced,
		c.foodsCreated,
		c.authFailures,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordOrderPlaced は注文の受付を記録する。
func (c *Collector) RecordOrderPlaced() {
	c.ordersPlaced.Inc()
}

// RecordFoodCreated はフードの登録を記録する。
func (c *Collector) RecordFoodCreated() {
	c.foodsCreated.Inc()
}

// RecordAuthFailure はトークン検証の失敗を記録する。
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
