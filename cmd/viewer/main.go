package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/viewer"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

func main() {
	configFile := flag.String("config", "", "path to a JSON config file (defaults are used when empty)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatal("failed to load config", zap.String("file", *configFile), zap.Error(err))
		}
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("SwarmWorld",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		logger.Fatal("failed to create actor system", zap.Error(err))
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatal("failed to start actor system", zap.Error(err))
	}
	defer func() { _ = system.Stop(ctx) }()

	swarm, err := simulation.NewSwarm(cfg, simulation.WithLogger(logger))
	if err != nil {
		logger.Fatal("invalid swarm", zap.Error(err))
	}
	game, err := viewer.NewGame(ctx, system, swarm, logger, screenWidth, screenHeight)
	if err != nil {
		logger.Fatal("failed to create viewer", zap.Error(err))
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Swarm Steering")
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("viewer stopped", zap.Error(err))
	}
}
