package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadySpawned is returned when Populate is called a second time.
var ErrAlreadySpawned = errors.New("swarm already spawned")

// TickReport summarises one variable-rate tick.
type TickReport struct {
	Tick      uint64
	Aggregate Aggregate
	Events    int     // proximity events drained before aggregation
	Pruned    int     // neighbours dropped from proximity sets
	Avoiding  int     // agents whose avoidance term was active
	MaxTurned float64 // largest rotation applied to a single agent, degrees
}

// FixedReport summarises one fixed-rate pass.
type FixedReport struct {
	Tick     uint64
	Clamped  int // agents pulled back inside the simulation bounds
	Detected int // proximity events produced by the built-in detector
	Inserted int // events that added a new neighbour
}

// Swarm is the authoritative state: the agents, their controllers and the
// aggregate published once per tick. Tick and FixedTick are serialized.
type Swarm struct {
	cfg     *Config
	logger  *zap.Logger
	workers int
	rng     *rand.Rand

	mu          sync.Mutex
	agents      []*Agent
	controllers []*Controller
	results     []StepResult
	byID        map[AgentID]*Agent
	positions   positionIndex
	aggregator  Aggregator
	aggregate   Aggregate
	detector    *ProximityDetector
	spawned     bool
	ticks       uint64
	fixedTicks  uint64

	events  chan ProximityEvent
	dropped atomic.Uint64
}

// Option customises a Swarm at construction.
type Option func(*Swarm)

// WithLogger sets the structured logger, zap.NewNop by default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Swarm) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the source every agent's random stream is derived from.
func WithRand(rng *rand.Rand) Option {
	return func(s *Swarm) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithWorkers overrides the size of the steering worker pool.
func WithWorkers(n int) Option {
	return func(s *Swarm) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSwarm validates cfg and prepares an empty swarm. Call Populate before ticking.
func NewSwarm(cfg *Config, opts ...Option) (*Swarm, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Swarm{
		cfg:       cfg,
		logger:    zap.NewNop(),
		workers:   cfg.WorkerCount(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		byID:      make(map[AgentID]*Agent),
		positions: make(positionIndex),
		events:    make(chan ProximityEvent, eventQueueSize(cfg.SpawnCount)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.ProximityDetection {
		s.detector = NewProximityDetector(cfg.AvoidanceDistance)
	}
	return s, nil
}

// Populate spawns the population. A nil spawner uses a RandomSpawner.
func (s *Swarm) Populate(sp Spawner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spawned {
		return ErrAlreadySpawned
	}
	if sp == nil {
		sp = NewRandomSpawner(s.childRand())
	}
	agents := sp.Spawn(s.cfg.SpawnCount, s.cfg.SpawnBounds)
	byID := make(map[AgentID]*Agent, len(agents))
	for _, a := range agents {
		if a == nil {
			return errors.New("spawner returned a nil agent")
		}
		if _, dup := byID[a.ID]; dup {
			return fmt.Errorf("spawner returned duplicate agent id %q", a.ID)
		}
		if a.Pos.HasNaN() {
			return fmt.Errorf("spawner returned agent %q at invalid position %s", a.ID, a.Pos)
		}
		if a.proximity == nil {
			a.proximity = NewProximitySet()
		}
		byID[a.ID] = a
	}

	s.agents = agents
	s.byID = byID
	s.controllers = make([]*Controller, len(agents))
	for i, a := range agents {
		s.controllers[i] = NewController(a, s.cfg, s.childRand())
	}
	s.results = make([]StepResult, len(agents))
	s.aggregate = s.aggregator.Recompute(s.agents)
	s.spawned = true

	s.logger.Info("swarm spawned",
		zap.Int("agents", len(agents)),
		zap.Float64("spawnBounds", s.cfg.SpawnBounds),
		zap.Int("workers", s.workers),
		zap.Bool("proximityDetection", s.detector != nil))
	return nil
}

func (s *Swarm) childRand() *rand.Rand {
	return rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
}

// Tick advances every agent by dt: drain proximity events, publish the
// aggregate, then step all controllers on the worker pool.
// An empty swarm makes Tick a no-op.
// ctx is only checked before the tick starts; once started, the pass always
// completes so every agent sees the same tick.
func (s *Swarm) Tick(ctx context.Context, dt time.Duration) (TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return TickReport{Tick: s.ticks}, fmt.Errorf("tick %d not started: %w", s.ticks+1, err)
	}
	s.ticks++
	report := TickReport{Tick: s.ticks}
	report.Events = s.drainEvents()

	s.aggregate = s.aggregator.Recompute(s.agents)
	report.Aggregate = s.aggregate
	if s.aggregate.Empty() {
		return report, nil
	}
	s.positions.rebuild(s.agents)

	s.steer(dt.Seconds())

	for _, r := range s.results {
		report.Pruned += r.Pruned
		if r.Avoided != "" {
			report.Avoiding++
		}
		report.MaxTurned = max(report.MaxTurned, r.Turned)
	}
	s.logger.Debug("tick",
		zap.Uint64("tick", report.Tick),
		zap.Stringer("meanPosition", report.Aggregate.MeanPosition),
		zap.Int("events", report.Events),
		zap.Int("pruned", report.Pruned),
		zap.Int("avoiding", report.Avoiding),
		zap.Float64("maxTurned", report.MaxTurned))
	return report, nil
}

// steer runs every controller, splitting agents into one contiguous chunk per worker.
// The aggregate and position index are read-only here; each controller writes
// only its own agent and its own slot in s.results.
func (s *Swarm) steer(dt float64) {
	n := len(s.controllers)
	workers := min(s.workers, n)
	chunk := (n + workers - 1) / workers
	agg := s.aggregate

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				s.results[i] = s.controllers[i].Step(dt, agg, s.positions)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}

// FixedTick runs the fixed-rate pass: clamp positions into the simulation
// bounds, then let the built-in detector refresh proximity sets.
func (s *Swarm) FixedTick(dt time.Duration) FixedReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fixedTicks++
	report := FixedReport{Tick: s.fixedTicks}
	bound := s.cfg.SimulationBounds
	for _, a := range s.agents {
		clamped := a.Pos.ClampAxes(bound)
		if clamped != a.Pos {
			a.Pos = clamped
			report.Clamped++
		}
	}
	if s.detector != nil {
		events := s.detector.Detect(s.agents)
		report.Detected = len(events)
		for _, ev := range events {
			if s.insertProximity(ev) {
				report.Inserted++
			}
		}
	}
	if report.Clamped > 0 {
		s.logger.Debug("agents clamped to simulation bounds",
			zap.Uint64("fixedTick", report.Tick),
			zap.Duration("dt", dt),
			zap.Int("clamped", report.Clamped))
	}
	return report
}

// OnProximityEnter queues a proximity event without blocking.
// It reports false when the queue is full; overlap events re-fire, so a
// dropped event is recovered on a later pass.
func (s *Swarm) OnProximityEnter(agent, other AgentID) bool {
	select {
	case s.events <- ProximityEvent{Agent: agent, Other: other}:
		return true
	default:
		dropped := s.dropped.Add(1)
		s.logger.Warn("proximity event queue full, event dropped",
			zap.String("agent", string(agent)),
			zap.String("other", string(other)),
			zap.Uint64("droppedTotal", dropped))
		return false
	}
}

// Events exposes the inbound proximity channel for collision collaborators.
// Sends on it must not block the sender; prefer OnProximityEnter.
func (s *Swarm) Events() chan<- ProximityEvent {
	return s.events
}

// Dropped is the number of proximity events rejected because the queue was full.
func (s *Swarm) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Swarm) drainEvents() int {
	n := 0
	for {
		select {
		case ev := <-s.events:
			s.insertProximity(ev)
			n++
		default:
			return n
		}
	}
}

// insertProximity adds ev.Other to the proximity set of ev.Agent.
// Self-events and unknown handles are ignored.
func (s *Swarm) insertProximity(ev ProximityEvent) bool {
	if ev.Agent == ev.Other {
		return false
	}
	a, ok := s.byID[ev.Agent]
	if !ok {
		return false
	}
	if _, ok := s.byID[ev.Other]; !ok {
		return false
	}
	return a.proximity.Add(ev.Other)
}

// Aggregate returns the aggregate published by the last tick.
func (s *Swarm) Aggregate() Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregate
}

// Agent looks up an agent by handle. The pointer must not be written while the swarm ticks.
func (s *Swarm) Agent(id AgentID) (*Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}

// Agents returns the agents in spawn order. The slice is a copy.
func (s *Swarm) Agents() []*Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Agent(nil), s.agents...)
}

// Len is the number of spawned agents.
func (s *Swarm) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.agents)
}

// Config returns the configuration the swarm was built with. It must not be modified.
func (s *Swarm) Config() *Config {
	return s.cfg
}

// Snapshot copies the state of the swarm, agents sorted by name.
func (s *Swarm) Snapshot() *SwarmSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &SwarmSnapshot{
		Tick:      s.ticks,
		FixedTick: s.fixedTicks,
		Aggregate: s.aggregate,
		Agents:    make([]AgentState, 0, len(s.agents)),
	}
	for _, a := range s.agents {
		snap.Agents = append(snap.Agents, a.State())
	}
	sort.Slice(snap.Agents, func(i, j int) bool {
		return snap.Agents[i].Name < snap.Agents[j].Name
	})
	return snap
}

// positionIndex freezes agent positions at the start of a tick and answers
// the controllers' distance queries against that frozen view.
type positionIndex map[AgentID]geometry.Vector3D

func (p positionIndex) rebuild(agents []*Agent) {
	clear(p)
	for _, a := range agents {
		p[a.ID] = a.Pos
	}
}

func (p positionIndex) PositionOf(id AgentID) (geometry.Vector3D, bool) {
	pos, ok := p[id]
	return pos, ok
}
