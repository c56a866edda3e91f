// Package observability exposes prometheus instrumentation for ledger
// activity. The metrics sink implements events.Emitter so it can be chained
// alongside any other downstream consumer.
package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"lendledger/events"
)

type EventMetrics struct {
	operations *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *EventMetrics
)

// Events returns the lazily-initialised metrics registry tracking structured
// ledger events.
func Events() *EventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &EventMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lendledger",
				Subsystem: "events",
				Name:      "operations_total",
				Help:      "Count of ledger events segmented by event type and asset.",
			}, []string{"type", "asset"}),
		}
		prometheus.MustRegister(eventRegistry.operations)
	})
	return eventRegistry
}

// Emit implements events.Emitter by counting the event per type and asset.
func (m *EventMetrics) Emit(evt events.Event) {
	if m == nil || evt == nil {
		return
	}
	attrs := evt.Attributes()
	asset := attrs["asset"]
	if asset == "" {
		asset = attrs["borrowAsset"]
	}
	if asset == "" {
		asset = attrs["debtAsset"]
	}
	normalized := strings.TrimSpace(strings.ToUpper(asset))
	if normalized == "" {
		normalized = "UNKNOWN"
	}
	m.operations.WithLabelValues(evt.EventType(), normalized).Inc()
}
