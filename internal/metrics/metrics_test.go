package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetric はレジストリから指定名・ラベルに一致するメトリクスを探す。
func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m
			}
		}
	}
	return nil
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordStoreOperation_CountsByResult は結果ラベルごとにカウントされることを検証する。
func TestRecordStoreOperation_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStoreOperation("articles", "fetch", true, 10*time.Millisecond)
	c.RecordStoreOperation("articles", "fetch", true, 20*time.Millisecond)
	c.RecordStoreOperation("articles", "fetch", false, 5*time.Millisecond)

	ok := findMetric(t, reg, "contentadmin_store_operations_total",
		map[string]string{"kind": "articles", "op": "fetch", "result": "success"})
	if ok == nil || ok.GetCounter().GetValue() != 2 {
		t.Errorf("success counter = %v, want 2", ok)
	}
	fail := findMetric(t, reg, "contentadmin_store_operations_total",
		map[string]string{"kind": "articles", "op": "fetch", "result": "failure"})
	if fail == nil || fail.GetCounter().GetValue() != 1 {
		t.Errorf("failure counter = %v, want 1", fail)
	}

	latency := findMetric(t, reg, "contentadmin_store_operation_latency_seconds",
		map[string]string{"kind": "articles", "op": "fetch"})
	if latency == nil || latency.GetHistogram().GetSampleCount() != 3 {
		t.Errorf("latency sample count = %v, want 3", latency)
	}
}

// TestRecordCachedEntities_SetsGauge はゲージが最新値で上書きされることを検証する。
func TestRecordCachedEntities_SetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCachedEntities("banners", 5)
	c.RecordCachedEntities("banners", 3)

	m := findMetric(t, reg, "contentadmin_cached_entities", map[string]string{"kind": "banners"})
	if m == nil || m.GetGauge().GetValue() != 3 {
		t.Errorf("gauge = %v, want 3", m)
	}
}

// TestRecordUpload_IncrementsCounterWithLabel はアップロード結果がラベル付きで記録されることを検証する。
func TestRecordUpload_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpload("success")
	c.RecordUpload("too_large")

	m := findMetric(t, reg, "contentadmin_uploads_total", map[string]string{"result": "too_large"})
	if m == nil || m.GetCounter().GetValue() != 1 {
		t.Errorf("too_large counter = %v, want 1", m)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はステータスコード別に記録されることを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(422)

	m := findMetric(t, reg, "contentadmin_http_status_total", map[string]string{"status_code": "200"})
	if m == nil || m.GetCounter().GetValue() != 2 {
		t.Errorf("200 counter = %v, want 2", m)
	}
}

// TestMultipleCollectors_IndependentRegistries は別レジストリのCollectorが干渉しないことを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	_ = NewCollector(reg2)

	c1.RecordUpload("success")

	if m := findMetric(t, reg2, "contentadmin_uploads_total", map[string]string{"result": "success"}); m != nil {
		t.Errorf("reg2 should not have upload samples, got %v", m)
	}
}
