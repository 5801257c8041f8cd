package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesDispatchedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messaging",
			Name:      "messages_dispatched_total",
			Help:      "Total per-recipient send attempts.",
		},
		[]string{"carrier", "outcome"}, // outcome: "sent", "failed_to_send"
	)

	carrierSendDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "messaging",
			Name:      "carrier_send_duration_seconds",
			Help:      "Duration of carrier transport calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"carrier"},
	)

	statusCallbacksCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messaging",
			Name:      "status_callbacks_total",
			Help:      "Delivery-status callbacks applied to the ledger.",
		},
		[]string{"result"}, // "applied", "unknown_sid", "error"
	)

	inboundRoutedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messaging",
			Name:      "inbound_messages_routed_total",
			Help:      "Inbound messages by reply-routing outcome.",
		},
		[]string{"outcome"}, // "forwarded", "no_history", "no_user", "no_email", "error"
	)
)
