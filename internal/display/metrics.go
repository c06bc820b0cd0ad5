// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package display

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus collectors for display decisions.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// NewMetrics returns the process-wide display metrics, registering them with
// the default registry on first use.
//
// Metrics:
//   - connext_display_decisions_total{kind,enabled}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			Decisions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "connext_display_decisions_total",
					Help: "Total number of script display decisions",
				},
				[]string{"kind", "enabled"},
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) observe(kind string, enabled bool) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(kind, strconv.FormatBool(enabled)).Inc()
}
