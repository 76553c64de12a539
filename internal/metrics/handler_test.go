package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, reg *prometheus.Registry) (*http.Response, string) {
	t.Helper()
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestHandler_ExposesRecordedSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordStoreOperation("banners", "delete", true, 3*time.Millisecond)
	c.RecordStoreOperation("event_signups", "fetch", false, time.Second)
	c.RecordCachedEntities("articles", 12)
	c.RecordUpload("too_large")
	c.RecordHTTPStatus(http.StatusUnprocessableEntity)

	resp, body := scrape(t, reg)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text exposition format", ct)
	}

	for _, sample := range []string{
		`contentadmin_store_operations_total{kind="banners",op="delete",result="success"} 1`,
		`contentadmin_store_operations_total{kind="event_signups",op="fetch",result="failure"} 1`,
		`contentadmin_cached_entities{kind="articles"} 12`,
		`contentadmin_uploads_total{result="too_large"} 1`,
		`contentadmin_http_status_total{status_code="422"} 1`,
	} {
		if !strings.Contains(body, sample) {
			t.Errorf("missing sample %q in:\n%s", sample, body)
		}
	}
}

func TestHandler_EmptyRegistry(t *testing.T) {
	resp, body := scrape(t, prometheus.NewRegistry())

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if strings.Contains(body, "contentadmin_") {
		t.Errorf("unregistered collector should not appear:\n%s", body)
	}
}
