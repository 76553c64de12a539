package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		config    SecurityHeadersConfig
		path      string
		wantCache string
		wantCSP   string
		wantCORP  string
		wantHSTS  bool
	}{
		{name: "api", path: "/api/articles", wantCache: "no-store", wantCSP: apiCSP},
		{name: "auth", path: "/auth/me", wantCache: "no-store", wantCSP: apiCSP},
		{name: "media", path: "/media/carousels/a.png", wantCORP: "cross-origin"},
		{name: "health", path: "/health"},
		{name: "https", config: SecurityHeadersConfig{HSTS: true}, path: "/health", wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewSecurityHeadersMiddleware(tt.config)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			h := rec.Header()
			if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("X-Frame-Options") != "DENY" {
				t.Errorf("base headers missing: %v", h)
			}
			if got := h.Get("Cache-Control"); got != tt.wantCache {
				t.Errorf("Cache-Control = %q, want %q", got, tt.wantCache)
			}
			if got := h.Get("Content-Security-Policy"); got != tt.wantCSP {
				t.Errorf("Content-Security-Policy = %q, want %q", got, tt.wantCSP)
			}
			if got := h.Get("Cross-Origin-Resource-Policy"); got != tt.wantCORP {
				t.Errorf("Cross-Origin-Resource-Policy = %q, want %q", got, tt.wantCORP)
			}
			if got := h.Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}
