package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics records order and stock movement activity.
type SalesMetrics struct {
	orderDuration  *prometheus.HistogramVec
	ordersCreated  prometheus.Counter
	orderFailures  *prometheus.CounterVec
	unitsSold      prometheus.Counter
	stockMovements *prometheus.CounterVec
	stockUnits     *prometheus.CounterVec
}

// NewSalesMetrics registers the sales metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	if reg == nil {
		return &SalesMetrics{}
	}
	orderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockpos_order_duration_seconds",
		Help:    "Duration of order transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockpos_orders_created_total",
		Help: "Orders committed.",
	})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpos_order_failures_total",
		Help: "Orders rolled back, by error code.",
	}, []string{"code"})
	unitsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockpos_units_sold_total",
		Help: "Units removed from stock by committed orders.",
	})
	stockMovements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpos_stock_movements_total",
		Help: "Stock history rows written, by movement type.",
	}, []string{"type"})
	stockUnits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpos_stock_units_total",
		Help: "Units moved, by movement type.",
	}, []string{"type"})
	reg.MustRegister(orderDuration, ordersCreated, orderFailures, unitsSold, stockMovements, stockUnits)
	return &SalesMetrics{
		orderDuration:  orderDuration,
		ordersCreated:  ordersCreated,
		orderFailures:  orderFailures,
		unitsSold:      unitsSold,
		stockMovements: stockMovements,
		stockUnits:     stockUnits,
	}
}

// ObserveOrder records the outcome of one order transaction.
func (m *SalesMetrics) ObserveOrder(duration time.Duration, units int, failureCode string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	if failureCode != "" {
		m.orderDuration.WithLabelValues("failure").Observe(duration.Seconds())
		m.orderFailures.WithLabelValues(normalizeLabel(failureCode)).Inc()
		return
	}
	m.orderDuration.WithLabelValues("success").Observe(duration.Seconds())
	m.ordersCreated.Inc()
	if units > 0 {
		m.unitsSold.Add(float64(units))
	}
}

// ObserveMovement records a committed stock history row.
func (m *SalesMetrics) ObserveMovement(movementType string, units int) {
	if m == nil || m.stockMovements == nil {
		return
	}
	label := normalizeLabel(movementType)
	m.stockMovements.WithLabelValues(label).Inc()
	if units > 0 {
		m.stockUnits.WithLabelValues(label).Add(float64(units))
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
