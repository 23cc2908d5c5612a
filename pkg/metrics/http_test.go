package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest("GET", "/api/items", 200, 120*time.Millisecond)
	metrics.ObserveRequest("GET", "/api/items", 200, 80*time.Millisecond)
	metrics.ObserveRequest("POST", "/api/items", 409, 40*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch 200 counter: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests with status 200, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "409"); err != nil {
		t.Fatalf("fetch 409 counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 request with status 409, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "method", "GET"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestHTTPMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewHTTPMetrics(nil)
	metrics.ObserveRequest("GET", "/api/items", 200, time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
