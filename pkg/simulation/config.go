package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/behavior"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
)

//go:embed config_schema.json
var configSchema []byte

const configSchemaURL = "https://github.com/lao-tseu-is-alive/go-swarm-steering/config_schema.json"

// ErrInvalidConfig wraps every constraint violation reported by Validate.
var ErrInvalidConfig = errors.New("invalid swarm config")

// Config is immutable for the lifetime of a Swarm.
type Config struct {
	// Steering law
	AvoidanceDistance float64 `json:"avoidanceDistance"` // distance agents try to keep from each other
	WeightFactor      float64 `json:"weightFactor"`      // reserved for severity scaling, unused by the law
	MinRecallDistance float64 `json:"minRecallDistance"` // recall weight is 0 below this distance from the mean
	MaxRecallDistance float64 `json:"maxRecallDistance"` // recall weight is 1 above this distance from the mean
	TargetSpeed       float64 `json:"targetSpeed"`       // units per second
	RotationSpeed     float64 `json:"rotationSpeed"`     // degrees per second
	RandomFactor      float64 `json:"randomFactor"`      // global multiplier of every random term

	// World
	SpawnBounds      float64 `json:"spawnBounds"`      // agents spawn in [-SpawnBounds, SpawnBounds]^3
	SimulationBounds float64 `json:"simulationBounds"` // soft clamp applied on the fixed pass

	// Host
	SpawnCount            int     `json:"spawnCount"`
	Workers               int     `json:"workers"`               // 0 means GOMAXPROCS
	FixedTimeStep         float64 `json:"fixedTimeStep"`         // seconds between fixed passes
	MaxFixedStepsPerFrame int     `json:"maxFixedStepsPerFrame"` // caps catch-up after a slow frame
	HomeRecall            bool    `json:"homeRecall"`            // recall toward the origin before the mean
	AvoidNearest          bool    `json:"avoidNearest"`          // avoid the nearest neighbour instead of the farthest
	ProximityDetection    bool    `json:"proximityDetection"`    // run the built-in grid detector on the fixed pass
}

func DefaultConfig() *Config {
	return &Config{
		AvoidanceDistance:     5,
		WeightFactor:          2,
		MinRecallDistance:     25,
		MaxRecallDistance:     50,
		TargetSpeed:           1,
		RotationSpeed:         15,
		RandomFactor:          0.05,
		SpawnBounds:           50,
		SimulationBounds:      100,
		SpawnCount:            50,
		Workers:               0,
		FixedTimeStep:         0.02,
		MaxFixedStepsPerFrame: 5,
		HomeRecall:            false,
		AvoidNearest:          false,
		ProximityDetection:    true,
	}
}

// Validate reports every violated constraint at once.
func (c *Config) Validate() error {
	var err error
	if c.AvoidanceDistance <= 0 {
		err = multierr.Append(err, fmt.Errorf("avoidanceDistance must be > 0, got %v", c.AvoidanceDistance))
	}
	if c.MinRecallDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("minRecallDistance must be >= 0, got %v", c.MinRecallDistance))
	}
	if c.MinRecallDistance > c.MaxRecallDistance {
		err = multierr.Append(err, fmt.Errorf("minRecallDistance (%v) must be <= maxRecallDistance (%v)",
			c.MinRecallDistance, c.MaxRecallDistance))
	}
	if c.TargetSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("targetSpeed must be >= 0, got %v", c.TargetSpeed))
	}
	if c.RotationSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("rotationSpeed must be >= 0, got %v", c.RotationSpeed))
	}
	if c.RandomFactor < 0 {
		err = multierr.Append(err, fmt.Errorf("randomFactor must be >= 0, got %v", c.RandomFactor))
	}
	if c.SpawnBounds < 0 {
		err = multierr.Append(err, fmt.Errorf("spawnBounds must be >= 0, got %v", c.SpawnBounds))
	}
	if c.SimulationBounds <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulationBounds must be > 0, got %v", c.SimulationBounds))
	}
	if c.SpawnCount < 0 {
		err = multierr.Append(err, fmt.Errorf("spawnCount must be >= 0, got %d", c.SpawnCount))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.FixedTimeStep <= 0 {
		err = multierr.Append(err, fmt.Errorf("fixedTimeStep must be > 0, got %v", c.FixedTimeStep))
	}
	if c.MaxFixedStepsPerFrame < 1 {
		err = multierr.Append(err, fmt.Errorf("maxFixedStepsPerFrame must be >= 1, got %d", c.MaxFixedStepsPerFrame))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Settings extracts the parameters of the steering law.
func (c *Config) Settings() behavior.Settings {
	return behavior.Settings{
		AvoidanceDistance: c.AvoidanceDistance,
		MinRecallDistance: c.MinRecallDistance,
		MaxRecallDistance: c.MaxRecallDistance,
		TargetSpeed:       c.TargetSpeed,
		RotationSpeed:     c.RotationSpeed,
		RandomFactor:      c.RandomFactor,
	}
}

// WorkerCount resolves Workers, 0 meaning one worker per CPU.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FixedStep is FixedTimeStep as a time.Duration.
func (c *Config) FixedStep() time.Duration {
	return time.Duration(math.Round(c.FixedTimeStep * float64(time.Second)))
}

// LoadConfig loads configuration from a JSON file, validates it against the
// embedded schema and overlays it on DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults so omitted keys keep their default value
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
