// Package metrics counts pipeline events with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Recorder is an EventSink that keeps per-run counters on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	fixes    prometheus.Counter
	parses   prometheus.Counter
}

// New creates a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipkraft",
			Name:      "events_total",
			Help:      "Pipeline events by stage and kind.",
		}, []string{"stage", "kind"}),
		fixes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shipkraft",
			Name:      "fixes_applied_total",
			Help:      "Automatic fixes applied to in-memory sources.",
		}),
		parses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shipkraft",
			Name:      "parse_failures_total",
			Help:      "Manifests or sources that could not be parsed.",
		}),
	}
	r.registry.MustRegister(r.events, r.fixes, r.parses)
	return r
}

func (r *Recorder) Emit(e domain.Event) {
	r.events.WithLabelValues(e.Stage, e.Kind).Inc()
	switch e.Kind {
	case domain.EventFixApplied:
		r.fixes.Inc()
	case domain.EventParseFailed:
		r.parses.Inc()
	}
}

// Registry exposes the underlying registry, e.g. for a push gateway.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Count returns the number of events seen for stage and kind.
func (r *Recorder) Count(stage, kind string) float64 {
	m := &dto.Metric{}
	if err := r.events.WithLabelValues(stage, kind).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// WriteText writes every collected metric in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
