package middleware

import "net/http"

// StatusRecorder はHTTPステータスコードを記録する。
// metrics.MetricsCollectorの部分集合として定義する。
type StatusRecorder interface {
	RecordHTTPStatus(code int)
}

// metricsPath はスクレイプ自身を計上しないために除外するパス。
const metricsPath = "/metrics"

// NewMetricsMiddleware はレスポンスのステータスコードを記録するミドルウェアを返す。
// /metricsへのリクエストは記録しない。
func NewMetricsMiddleware(recorder StatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}
			rec := wrapResponse(w)
			next.ServeHTTP(rec, r)
			recorder.RecordHTTPStatus(rec.status)
		})
	}
}
