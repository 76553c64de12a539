package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeadersConfig はセキュリティヘッダーの設定。
type SecurityHeadersConfig struct {
	// HSTS はStrict-Transport-Securityを付与するか。BASE_URLがhttpsの場合に有効にする。
	HSTS bool
}

// apiCSP はJSONとCSVだけを返すパスに付与するContent-Security-Policy。
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// NewSecurityHeadersMiddleware はセキュリティ関連のHTTPレスポンスヘッダーを付与するミドルウェアを返す。
// /api と /auth 配下のレスポンスは管理データを含むためキャッシュさせない。
// /media 配下の画像は公開サイトから参照されるため、別オリジンからの読み込みを許可する。
func NewSecurityHeadersMiddleware(config SecurityHeadersConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if config.HSTS {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			switch {
			case strings.HasPrefix(r.URL.Path, "/api/"), strings.HasPrefix(r.URL.Path, "/auth/"):
				h.Set("Cache-Control", "no-store")
				h.Set("Content-Security-Policy", apiCSP)
			case strings.HasPrefix(r.URL.Path, "/media/"):
				h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			}

			next.ServeHTTP(w, r)
		})
	}
}
