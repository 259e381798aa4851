package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admission outcomes used as the label on the request counter. The blocked
// outcomes split by cause; the run-level Result still collapses them into one
// blocked total.
const (
	OutcomeAccepted     = "accepted"
	OutcomeUnreachable  = "blocked_unreachable"
	OutcomeNoModulation = "blocked_no_modulation"
	OutcomeNoSpectrum   = "blocked_no_spectrum"
)

// SimCollector bundles Prometheus metrics for a simulation run and provides
// a ready-to-serve /metrics handler.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Requests           *prometheus.CounterVec
	ActiveAllocations  prometheus.Gauge
	SimStep            prometheus.Gauge
	AdmissionDurations prometheus.Histogram
}

// NewSimCollector registers simulation Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rsa_requests_total",
		Help: "Total number of processed bandwidth requests, labeled by admission outcome.",
	}, []string{"outcome"})
	requests, err := registerCounterVec(reg, requests, "rsa_requests_total")
	if err != nil {
		return nil, err
	}

	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rsa_active_allocations",
		Help: "Number of spectrum allocations currently held.",
	}), "rsa_active_allocations")
	if err != nil {
		return nil, err
	}

	step, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rsa_sim_step",
		Help: "Current simulation step index.",
	}), "rsa_sim_step")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rsa_admission_duration_seconds",
		Help:    "Per-request admission decision latency in seconds (route, modulation, first-fit, reserve).",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
	durations, err = registerHistogram(reg, durations, "rsa_admission_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:           gatherer,
		Requests:           requests,
		ActiveAllocations:  active,
		SimStep:            step,
		AdmissionDurations: durations,
	}, nil
}

// RecordAdmission counts one admission decision and its latency.
func (c *SimCollector) RecordAdmission(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Requests != nil {
		c.Requests.WithLabelValues(outcome).Inc()
	}
	if c.AdmissionDurations != nil {
		c.AdmissionDurations.Observe(elapsed.Seconds())
	}
}

// SetActiveAllocations updates the live allocation gauge.
func (c *SimCollector) SetActiveAllocations(n int) {
	if c == nil || c.ActiveAllocations == nil {
		return
	}
	c.ActiveAllocations.Set(float64(n))
}

// SetStep updates the current step gauge.
func (c *SimCollector) SetStep(t int) {
	if c == nil || c.SimStep == nil {
		return
	}
	c.SimStep.Set(float64(t))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
