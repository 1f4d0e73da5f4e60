package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "log_messages_dispatched_total",
		Help: "Messages handed to the router for fan-out.",
	})

	metricEmitErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "log_emit_errors_total",
		Help: "Per-destination emit failures caught at the dispatch boundary.",
	}, []string{"kind"})

	metricSelfDeactivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "log_destination_self_deactivations_total",
		Help: "Destinations dropped from the active set after an unrecoverable emit failure.",
	}, []string{"kind"})

	metricActiveDestinations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "log_active_destinations",
		Help: "Currently active destinations by kind.",
	}, []string{"kind"})
)
