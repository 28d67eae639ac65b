package simulation

import (
	"errors"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor hosts a Swarm inside the actor system. The host loop drives it
// with one tick message per frame; it runs the variable-rate tick, as many
// fixed passes as the frame time calls for, then pushes a snapshot to the UI.
type WorldActor struct {
	swarm   *Swarm
	spawner Spawner
	stepper *FixedStepper
	// Communication with UI
	snapshotCh chan<- *SwarmSnapshot

	// --- Benchmark Stats ---
	tickCount   int
	fixedCount  int
	eventCount  int
	lastLogTime time.Time
}

// NewWorldActor creates the world logic unit. snapshotCh may be nil for headless runs.
func NewWorldActor(swarm *Swarm, spawner Spawner, snapshotCh chan<- *SwarmSnapshot) *WorldActor {
	cfg := swarm.Config()
	return &WorldActor{
		swarm:       swarm,
		spawner:     spawner,
		stepper:     NewFixedStepper(cfg.FixedStep(), cfg.MaxFixedStepsPerFrame),
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

// PreStart spawns the population. The World is responsible for creating its inhabitants.
func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is spawning the swarm...")
	if err := w.swarm.Populate(w.spawner); err != nil && !errors.Is(err, ErrAlreadySpawned) {
		return err
	}
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started with %d agents", w.swarm.Len())

	// 1. The main simulation step, driven by the host loop
	case *durationpb.Duration:
		w.step(ctx, msg.AsDuration())

	// 2. Proximity events from a collision layer
	case *structpb.Struct:
		ev, ok := ParseProximityEnter(msg)
		if !ok {
			ctx.Unhandled()
			return
		}
		w.eventCount++
		w.swarm.OnProximityEnter(ev.Agent, ev.Other)

	// 3. Observers asking for the current state
	case *emptypb.Empty:
		ctx.Response(w.swarm.Snapshot().ToProto())

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) step(ctx *actor.ReceiveContext, dt time.Duration) {
	if dt < 0 {
		ctx.Logger().Warnf("ignoring tick with negative delta %s", dt)
		return
	}
	// 1. Telemetry
	w.logBenchmarks(ctx)

	// 2. Variable-rate pass
	if _, err := w.swarm.Tick(ctx.Context(), dt); err != nil {
		ctx.Logger().Error(err)
		return
	}
	w.tickCount++

	// 3. Fixed-rate passes owed for this frame
	for n := w.stepper.Advance(dt); n > 0; n-- {
		w.swarm.FixedTick(w.stepper.Step())
		w.fixedCount++
	}

	// 4. UI Update
	w.pushSnapshot()
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 RATE: %d ticks/sec, %d fixed/sec, %d events/sec | Agents: %d | Dropped events: %d | Fixed backlog: %s",
			w.tickCount, w.fixedCount, w.eventCount, w.swarm.Len(), w.swarm.Dropped(), w.stepper.Pending())
		w.tickCount = 0
		w.fixedCount = 0
		w.eventCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.swarm.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
