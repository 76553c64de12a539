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
// エンティティストア、アップロード処理、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordStoreOperation(kind, op string, ok bool, duration time.Duration)
	RecordCachedEntities(kind string, count int)
	RecordUpload(result string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	storeOps       *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	cachedEntities *prometheus.GaugeVec
	uploads        *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentadmin_store_operations_total",
			Help: "エンティティストア操作の合計数（種別・操作・結果別）",
		}, []string{"kind", "op", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentadmin_store_operation_latency_seconds",
			Help:    "エンティティストア操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "op"}),
		cachedEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "contentadmin_cached_entities",
			Help: "キャッシュ中のエンティティ数",
		}, []string{"kind"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentadmin_uploads_total",
			Help: "画像アップロードの合計数（結果別）",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentadmin_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.storeOps,
		c.storeLatency,
		c.cachedEntities,
		c.uploads,
		c.httpStatus,
	)

	return c
}

// RecordStoreOperation はストア操作の結果とレイテンシを記録する。
func (c *Collector) RecordStoreOperation(kind, op string, ok bool, duration time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}
	c.storeOps.WithLabelValues(kind, op, result).Inc()
	c.storeLatency.WithLabelValues(kind, op).Observe(duration.Seconds())
}

// RecordCachedEntities はキャッシュ中のエンティティ数を記録する。
func (c *Collector) RecordCachedEntities(kind string, count int) {
	c.cachedEntities.WithLabelValues(kind).Set(float64(count))
}

// RecordUpload はアップロード結果を記録する。
// resultは "success" またはアップロード失敗理由。
func (c *Collector) RecordUpload(result string) {
	c.uploads.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。テストやCLIコマンドで使用する。
type Nop struct{}

func (Nop) RecordStoreOperation(string, string, bool, time.Duration) {}
func (Nop) RecordCachedEntities(string, int)                         {}
func (Nop) RecordUpload(string)                                      {}
func (Nop) RecordHTTPStatus(int)                                     {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
