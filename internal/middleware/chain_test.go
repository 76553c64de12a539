package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// newAdminChain は管理APIと同じ順序でミドルウェアを組んだルーターを返す。
func newAdminChain(t *testing.T, logs *bytes.Buffer, rl *RateLimiter) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware())
	r.Use(NewLoggingMiddleware(newJSONLogger(logs)))
	r.Use(NewSecurityHeadersMiddleware(SecurityHeadersConfig{}))
	r.Use(NewCORSMiddleware(adminOrigin))

	r.Get("/auth/csrf-token", NewCSRFTokenHandler(CSRFConfig{}).ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Use(NewSessionMiddleware(sessionExpiringIn(time.Hour)))
		r.Use(rl.GeneralMiddleware())
		r.Use(NewCSRFMiddleware(CSRFConfig{}))
		r.Get("/banners", okHandler().ServeHTTP)
		r.Post("/banners", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("unexpected")
		})
	})
	return r
}

func TestAdminChain_ReadAndMutate(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()
	var logs bytes.Buffer
	router := newAdminChain(t, &logs, rl)

	req := httptest.NewRequest(http.MethodGet, "/api/banners", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	token := csrfCookie(rec)
	if token == nil {
		t.Fatal("first GET should issue a csrf cookie")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/banners", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session"})
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token.Value})
	req.Header.Set(csrfHeaderName, token.Value)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"admin":"admin@example.com"`)) {
		t.Errorf("request log should carry the admin: %s", logs.String())
	}
}

func TestAdminChain_NoSession_Returns401BeforeCSRF(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()
	router := newAdminChain(t, &bytes.Buffer{}, rl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/banners", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("security headers should wrap error responses")
	}
}

func TestAdminChain_PanicIsRecovered(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()
	router := newAdminChain(t, &bytes.Buffer{}, rl)

	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if body := decodeErrorBody(t, rec); body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
}
