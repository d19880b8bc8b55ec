package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdImpressions counts recorded ad views and clicks
	AdImpressions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_impressions_total",
			Help: "Number of recorded ad impressions",
		},
		[]string{"kind"}, // view or click
	)

	// AdPaymentVerifications counts verification outcomes by result
	AdPaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_payment_verifications_total",
			Help: "Number of ad payment verification calls by outcome",
		},
		[]string{"outcome"}, // success, pending, declined, amount_mismatch, error
	)

	// AdActivations counts ads that became visible, by tier
	AdActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_activations_total",
			Help: "Number of ads activated by tier level",
		},
		[]string{"level"},
	)
)

// RecordView records a single ad view impression
func RecordView() {
	AdImpressions.WithLabelValues("view").Inc()
}

// RecordClick records a single ad click impression
func RecordClick() {
	AdImpressions.WithLabelValues("click").Inc()
}

// RecordVerification records the outcome of a payment verification call
func RecordVerification(outcome string) {
	AdPaymentVerifications.WithLabelValues(outcome).Inc()
}
