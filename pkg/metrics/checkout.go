package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics records checkout outcomes and order values.
type CheckoutMetrics struct {
	attempts   prometheus.Counter
	failures   *prometheus.CounterVec
	orderValue prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts, successful or not.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed checkouts by reason.",
	}, []string{"reason"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_value",
		Help:    "Total order value at checkout in currency units.",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	reg.MustRegister(attempts, failures, orderValue)
	return &CheckoutMetrics{
		attempts:   attempts,
		failures:   failures,
		orderValue: orderValue,
	}
}

// IncAttempt counts one checkout attempt.
func (c *CheckoutMetrics) IncAttempt() {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.Inc()
}

// IncFailure counts a failed checkout under the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	c.failures.WithLabelValues(reason).Inc()
}

// ObserveOrderValue records the frozen order total.
func (c *CheckoutMetrics) ObserveOrderValue(total decimal.Decimal) {
	if c == nil || c.orderValue == nil {
		return
	}
	value, _ := total.Float64()
	c.orderValue.Observe(value)
}
