package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/internal/observability"
	"github.com/lumenfoundry/eon-simulator/model"
	"github.com/lumenfoundry/eon-simulator/topology"
)

// Defaults for the run configuration.
const (
	DefaultIterations = 1000
	DefaultGamma      = 30.0
)

// Config describes one simulation run.
type Config struct {
	// Scenario is a free-form identifier carried into logs and traces.
	Scenario string
	// Iterations is the fixed number of time steps; DefaultIterations
	// when zero.
	Iterations int
	// Predictive switches routing to the penalty-weighted mode fed by
	// Predictor.
	Predictive bool
	// Gamma scales how strongly a predicted penalty discourages routing
	// through a node. Must be non-negative; DefaultGamma when zero.
	Gamma float64

	Logger logging.Logger
	// Predictor is required in predictive mode.
	Predictor Predictor
	// Collector, when set, receives admission metrics.
	Collector *observability.SimCollector
	// SnapshotSink, when set, receives every node feature snapshot taken
	// in predictive mode.
	SnapshotSink SnapshotSink
}

// Result is the aggregate outcome of one run.
type Result struct {
	Total    int
	Accepted int
	Blocked  int
	// BlockingRatio is Blocked/Total, 0 when Total is 0.
	BlockingRatio float64
	Elapsed       time.Duration
}

type activeAllocation struct {
	endTime int
	alloc   model.Allocation
	req     model.Request
}

// Simulator drives the time-stepped admission loop: expire due allocations,
// derive penalties in predictive mode, then route, select modulation,
// first-fit and reserve each arriving request. It exclusively owns its
// SpectrumManager; a Simulator must not be shared across concurrent runs.
type Simulator struct {
	cfg  Config
	log  logging.Logger
	topo *topology.Topology

	router   *Router
	spectrum *SpectrumManager
	analyzer *SpectrumAnalyzer
	history  *SnapshotHistory

	active        []activeAllocation
	stepListeners []func(step int)

	total    int
	accepted int
	blocked  int
}

// NewSimulator wires a simulator over the given topology.
func NewSimulator(topo *topology.Topology, cfg Config) (*Simulator, error) {
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Iterations < 0 {
		return nil, fmt.Errorf("simulator: iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Gamma == 0 {
		cfg.Gamma = DefaultGamma
	}
	if cfg.Gamma < 0 {
		return nil, fmt.Errorf("simulator: gamma must be non-negative, got %g", cfg.Gamma)
	}
	if cfg.Predictive && cfg.Predictor == nil {
		return nil, fmt.Errorf("simulator: predictive mode requires a predictor")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Noop()
	}

	spectrum := NewSpectrumManager(topo, cfg.Logger)
	return &Simulator{
		cfg:      cfg,
		log:      cfg.Logger,
		topo:     topo,
		router:   NewRouter(topo),
		spectrum: spectrum,
		analyzer: NewSpectrumAnalyzer(spectrum, topo, cfg.Logger),
		history:  NewSnapshotHistory(),
	}, nil
}

// RegisterStepListener adds a callback invoked at the end of every step.
func (s *Simulator) RegisterStepListener(fn func(step int)) {
	s.stepListeners = append(s.stepListeners, fn)
}

// ActiveAllocations returns the number of allocations currently held.
func (s *Simulator) ActiveAllocations() int { return len(s.active) }

// Run processes the traffic: one list of requests per step, for the
// configured number of iterations. Admission failures become blocked counts;
// only out-of-range node indices abort the run. Allocations still active at
// the final step are discarded with the run state.
func (s *Simulator) Run(ctx context.Context, traffic [][]model.Request) (Result, error) {
	if len(traffic) < s.cfg.Iterations {
		return Result{}, fmt.Errorf("simulator: traffic has %d steps, need %d", len(traffic), s.cfg.Iterations)
	}

	tracer := otel.Tracer("eon-simulator/core")
	ctx, span := tracer.Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.String("scenario", s.cfg.Scenario),
		attribute.Bool("predictive", s.cfg.Predictive),
		attribute.Int("iterations", s.cfg.Iterations),
	))
	defer span.End()

	start := time.Now()

	for t := 0; t < s.cfg.Iterations; t++ {
		s.expire(t)

		router := s.router
		if s.cfg.Predictive {
			router = s.router.WithPenalties(s.penalties(ctx, t), s.cfg.Gamma)
		}

		for _, req := range traffic[t] {
			s.total++
			if err := s.admit(ctx, t, router, req); err != nil {
				return Result{}, err
			}
		}

		s.cfg.Collector.SetStep(t)
		s.cfg.Collector.SetActiveAllocations(len(s.active))
		for _, fn := range s.stepListeners {
			fn(t)
		}

		if t%100 == 0 {
			s.log.Info(ctx, "step processed",
				logging.Int("step", t),
				logging.Int("total", s.total),
				logging.Int("accepted", s.accepted),
				logging.Int("blocked", s.blocked),
				logging.Int("active", len(s.active)))
		}
	}

	elapsed := time.Since(start)
	ratio := 0.0
	if s.total > 0 {
		ratio = float64(s.blocked) / float64(s.total)
	}

	span.SetAttributes(
		attribute.Int("requests.total", s.total),
		attribute.Int("requests.accepted", s.accepted),
		attribute.Int("requests.blocked", s.blocked),
	)
	s.log.Info(ctx, "simulation finished",
		logging.String("scenario", s.cfg.Scenario),
		logging.Int("total", s.total),
		logging.Int("accepted", s.accepted),
		logging.Int("blocked", s.blocked),
		logging.Float64("blocking_ratio", ratio))

	return Result{
		Total:         s.total,
		Accepted:      s.accepted,
		Blocked:       s.blocked,
		BlockingRatio: ratio,
		Elapsed:       elapsed,
	}, nil
}

// expire releases every allocation due at or before step t. Expiry runs
// strictly before that step's arrivals, so a request departing at exactly t
// frees capacity for one arriving at t. Scan once, keep the survivors.
func (s *Simulator) expire(t int) {
	retained := s.active[:0]
	for _, a := range s.active {
		if a.endTime <= t {
			s.spectrum.Release(a.alloc)
			continue
		}
		retained = append(retained, a)
	}
	s.active = retained
}

// penalties snapshots every node and derives its penalty score once per
// step. The scores are reused for all requests routed in the step; calling
// the predictor per edge relaxation would be ruinously slower. Nodes with
// fewer than a full snapshot history get penalty zero without consulting
// the predictor.
func (s *Simulator) penalties(ctx context.Context, t int) map[int]float64 {
	penalties := make(map[int]float64)
	for node := 0; node < s.topo.NumNodes(); node++ {
		snap := s.analyzer.NodeFeatureSnapshot(t, node)
		s.history.Push(node, snap)
		if s.cfg.SnapshotSink != nil {
			s.cfg.SnapshotSink.SaveSnapshot(node, snap)
		}

		window, ok := s.history.Window(node)
		if !ok {
			continue
		}
		p := s.cfg.Predictor.Predict(window)
		if p > 1.0 {
			s.log.Critical(ctx, "predicted penalty above 1.0",
				logging.Int("node", node), logging.Float64("penalty", p))
		}
		if p != 0 {
			penalties[node] = p
		}
	}
	return penalties
}

// admit runs the per-request pipeline. Expected admission failures turn into
// blocked counts and a nil error; only programmer errors (out-of-range node
// indices) propagate.
func (s *Simulator) admit(ctx context.Context, t int, router *Router, req model.Request) error {
	admStart := time.Now()

	nodePath, err := router.Route(req.Start, req.End)
	if errors.Is(err, ErrUnreachable) {
		s.block(observability.OutcomeUnreachable, admStart)
		return nil
	}
	if err != nil {
		return err
	}

	length, err := s.topo.PathLength(nodePath)
	if err != nil {
		return err
	}
	mod, nSlots, ok := ChooseModulation(length, req.SizeGbps)
	if !ok {
		s.block(observability.OutcomeNoModulation, admStart)
		return nil
	}

	startSlot, ok := s.spectrum.FindFirstFit(nodePath, nSlots)
	if !ok {
		s.block(observability.OutcomeNoSpectrum, admStart)
		return nil
	}

	alloc := s.spectrum.Reserve(nodePath, startSlot, nSlots)
	s.active = append(s.active, activeAllocation{
		endTime: t + req.Duration,
		alloc:   alloc,
		req:     req,
	})
	s.accepted++
	s.cfg.Collector.RecordAdmission(observability.OutcomeAccepted, time.Since(admStart))

	s.log.Debug(ctx, "request accepted",
		logging.Int64("allocation_id", alloc.ID),
		logging.String("modulation", mod.Name),
		logging.Int("n_slots", nSlots),
		logging.Int("start_slot", startSlot),
		logging.Int("path_km", length))
	return nil
}

func (s *Simulator) block(outcome string, admStart time.Time) {
	s.blocked++
	s.cfg.Collector.RecordAdmission(outcome, time.Since(admStart))
}
