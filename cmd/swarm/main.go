// Command swarm runs the steering simulation headless and prints snapshots
// as JSON lines on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to a JSON config file (defaults are used when empty)")
		ticks      = flag.Int("ticks", 500, "number of frames to simulate")
		frame      = flag.Duration("frame", 16*time.Millisecond, "simulated duration of one frame")
		every      = flag.Int("every", 50, "print a snapshot every N frames, 0 prints only the last")
		seed       = flag.Uint64("seed", 0, "random seed, 0 picks one at random")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configFile, *ticks, *frame, *every, *seed, *verbose); err != nil {
		logger.Fatal("swarm run failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, logger *zap.Logger, configFile string, ticks int, frame time.Duration, every int, seed uint64, verbose bool) error {
	cfg := simulation.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configFile); err != nil {
			return err
		}
	}

	opts := []simulation.Option{simulation.WithLogger(logger)}
	if seed != 0 {
		opts = append(opts, simulation.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	swarm, err := simulation.NewSwarm(cfg, opts...)
	if err != nil {
		return err
	}

	var actorLogger golog.Logger = golog.DiscardLogger
	if verbose {
		actorLogger = golog.DefaultLogger
	}
	system, err := actor.NewActorSystem("SwarmWorld",
		actor.WithLogger(actorLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() { _ = system.Stop(context.Background()) }()

	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(swarm, nil, nil))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}
	logger.Info("simulation started",
		zap.Int("agents", cfg.SpawnCount),
		zap.Int("ticks", ticks),
		zap.Duration("frame", frame))

	for i := 1; i <= ticks; i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", zap.Int("tick", i))
			break
		}
		if err := actor.Tell(ctx, worldPID, simulation.NewTickMessage(frame)); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if every > 0 && i%every == 0 {
			if err := printSnapshot(ctx, logger, worldPID); err != nil {
				return err
			}
		}
	}
	if every == 0 || ticks%every != 0 {
		// still report the state reached after an interrupt
		return printSnapshot(context.WithoutCancel(ctx), logger, worldPID)
	}
	return nil
}

// printSnapshot asks the world for its state; the reply is queued behind every tick already sent.
func printSnapshot(ctx context.Context, logger *zap.Logger, pid *actor.PID) error {
	reply, err := actor.Ask(ctx, pid, simulation.NewSnapshotRequest(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("snapshot request failed: %w", err)
	}
	st, ok := reply.(*structpb.Struct)
	if !ok {
		return fmt.Errorf("unexpected snapshot reply %T", reply)
	}
	snap := simulation.SnapshotFromProto(st)
	logger.Info("snapshot",
		zap.Uint64("tick", snap.Tick),
		zap.Uint64("fixedTick", snap.FixedTick),
		zap.Int("agents", len(snap.Agents)),
		zap.Stringer("meanPosition", snap.Aggregate.MeanPosition))

	b, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
