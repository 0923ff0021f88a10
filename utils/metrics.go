package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters for the money-movement paths. Registered on the
// default registry and served on /metrics.
var (
	TopUpsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kerjapay",
		Name:      "topups_initiated_total",
		Help:      "Top-up payment requests created, by outcome of the gateway call.",
	}, []string{"outcome"})

	PayoutsRequested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kerjapay",
		Name:      "payouts_requested_total",
		Help:      "Payout requests submitted, by outcome of the gateway call.",
	}, []string{"outcome"})

	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kerjapay",
		Name:      "webhooks_received_total",
		Help:      "Inbound webhook callbacks, by verification result.",
	}, []string{"result"})

	WebhookEventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kerjapay",
		Name:      "webhook_events_handled_total",
		Help:      "Verified webhook events, by canonical event type.",
	}, []string{"event"})

	ScoreRecalculations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kerjapay",
		Name:      "reliability_recalculations_total",
		Help:      "Reliability score recalculations performed.",
	})
)
