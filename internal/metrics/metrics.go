// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exposes Prometheus instrumentation for list update
// runs and log aggregation. A nil *Registry is valid everywhere and
// records nothing, so tests and one-shot CLI paths can skip it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the dnswatch collectors on a private Prometheus
// registry.
type Registry struct {
	reg *prometheus.Registry

	fetchAttempts prometheus.Counter
	fetchFailures prometheus.Counter

	updateRuns        prometheus.Counter
	categoriesUpdated prometheus.Gauge
	categoriesFailed  prometheus.Gauge
	lastUpdateTime    prometheus.Gauge

	queriesAggregated prometheus.Counter
	blockedRatio      prometheus.Gauge
}

// NewRegistry creates the registry and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnswatch_fetch_attempts_total",
			Help: "HTTP fetch attempts against list sources, including retries.",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnswatch_fetch_failures_total",
			Help: "Failed HTTP fetch attempts.",
		}),
		updateRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnswatch_update_runs_total",
			Help: "Category list update runs.",
		}),
		categoriesUpdated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dnswatch_update_categories_succeeded",
			Help: "Categories updated successfully in the last run.",
		}),
		categoriesFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dnswatch_update_categories_failed",
			Help: "Categories that failed in the last run.",
		}),
		lastUpdateTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dnswatch_last_update_timestamp_seconds",
			Help: "Unix time of the last update run.",
		}),
		queriesAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnswatch_queries_aggregated_total",
			Help: "Query records processed by aggregation.",
		}),
		blockedRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dnswatch_blocked_ratio",
			Help: "Blocked fraction of the last aggregated window (0-1).",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.fetchAttempts,
		r.fetchFailures,
		r.updateRuns,
		r.categoriesUpdated,
		r.categoriesFailed,
		r.lastUpdateTime,
		r.queriesAggregated,
		r.blockedRatio,
	)
	return r
}

// Handler returns the /metrics HTTP handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) IncFetchAttempt() {
	if r != nil {
		r.fetchAttempts.Inc()
	}
}

func (r *Registry) IncFetchFailure() {
	if r != nil {
		r.fetchFailures.Inc()
	}
}

// ObserveUpdateRun records the outcome of one update run.
func (r *Registry) ObserveUpdateRun(succeeded, failed int, when float64) {
	if r == nil {
		return
	}
	r.updateRuns.Inc()
	r.categoriesUpdated.Set(float64(succeeded))
	r.categoriesFailed.Set(float64(failed))
	r.lastUpdateTime.Set(when)
}

// ObserveAggregation records the volume and blocked share of one
// aggregation pass.
func (r *Registry) ObserveAggregation(total, blocked int) {
	if r == nil {
		return
	}
	r.queriesAggregated.Add(float64(total))
	if total > 0 {
		r.blockedRatio.Set(float64(blocked) / float64(total))
	} else {
		r.blockedRatio.Set(0)
	}
}
