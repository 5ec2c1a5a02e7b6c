package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSalesMetricsExportsOrdersAndMovements(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSalesMetrics(reg)

	m.ObserveOrder(120*time.Millisecond, 3, "")
	m.ObserveOrder(20*time.Millisecond, 0, "INSUFFICIENT_STOCK")
	m.ObserveMovement("out", 3)
	m.ObserveMovement("in", 10)
	m.ObserveMovement("in", 5)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	assertCounter(t, mfs, "stockpos_orders_created_total", "", "", 1)
	assertCounter(t, mfs, "stockpos_units_sold_total", "", "", 3)
	assertCounter(t, mfs, "stockpos_order_failures_total", "code", "INSUFFICIENT_STOCK", 1)
	assertCounter(t, mfs, "stockpos_stock_movements_total", "type", "in", 2)
	assertCounter(t, mfs, "stockpos_stock_units_total", "type", "in", 15)
	assertCounter(t, mfs, "stockpos_stock_units_total", "type", "out", 3)

	if got, err := fetchHistogramSum(mfs, "stockpos_order_duration_seconds", "outcome", "success"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestSalesMetricsNilSafe(t *testing.T) {
	var m *SalesMetrics
	m.ObserveOrder(time.Second, 1, "")
	m.ObserveMovement("in", 1)

	noop := NewSalesMetrics(nil)
	noop.ObserveOrder(time.Second, 1, "")
	noop.ObserveMovement("out", 1)
}

func assertCounter(t *testing.T, mfs []*dto.MetricFamily, name, label, value string, want float64) {
	t.Helper()
	got, err := fetchCounterValue(mfs, name, label, value)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	if got != want {
		t.Fatalf("expected %s=%f, got %f", name, want, got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
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
