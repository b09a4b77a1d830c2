package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/raywheel/raywheel/internal/core/observability/log"
	"github.com/raywheel/raywheel/internal/core/observability/metrics"
	"github.com/raywheel/raywheel/internal/core/physics"
	"github.com/raywheel/raywheel/internal/core/sim"
	"github.com/raywheel/raywheel/internal/core/vehicle"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a vehicle tuning YAML file")
		duration   = flag.Duration("duration", 30*time.Second, "how long to run before exiting")
		stepRate   = flag.Float64("rate", 60, "physics steps per second")
		slopeDeg   = flag.Float64("slope", 0, "ground incline in degrees")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	if err := run(*configPath, *duration, *stepRate, *slopeDeg, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "simulator:", err)
		os.Exit(1)
	}
}

func run(configPath string, duration time.Duration, stepRate, slopeDeg float64, logLevel string) error {
	logger := log.New(parseLevel(logLevel))

	vehicleCfg := vehicle.DefaultConfig()
	if configPath != "" {
		loaded, err := vehicle.LoadConfig(configPath)
		if err != nil {
			return err
		}
		vehicleCfg = loaded
		logger.Info("tuning loaded", log.String("path", configPath))
	}

	ground := physics.HorizontalGround(0)
	if slopeDeg != 0 {
		ground = physics.InclinedGround(slopeDeg)
	}

	registry := metrics.NewRegistry()
	worldCfg := sim.DefaultConfig()
	worldCfg.StepRate = stepRate
	world, err := sim.NewWorld(worldCfg, physics.NewPlaneCaster(ground),
		sim.WithLogger(logger), sim.WithMetrics(registry))
	if err != nil {
		return err
	}

	// Full throttle for the first half of the run, then coast. On an incline
	// this exercises the hill hold once the vehicle slows back down.
	driver := sim.InputFunc(func(elapsed time.Duration) vehicle.Input {
		if elapsed < duration/2 {
			return vehicle.Input{Accelerate: 1}
		}
		return vehicle.Input{}
	})

	id, err := world.Spawn(sim.SpawnSpec{
		Vehicle:  vehicleCfg,
		Mass:     1000,
		Inertia:  1500,
		Position: mgl64.Vec3{0, 1, 0},
		Input:    driver,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, stopTimer := context.WithTimeout(ctx, duration)
	defer stopTimer()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return world.Run(ctx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if state, ok := world.Snapshot(id); ok {
					logger.Info("telemetry",
						log.Float64("speed", state.ForwardSpeed),
						log.Float64("pos_z", state.Position.Z()),
						log.Float64("slope_deg", state.SlopeAngle),
						log.Int("wheels_down", state.WheelsOnGround),
						log.Bool("hill_hold", state.HillHoldActive))
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Info("simulation finished", log.Uint64("steps", world.Steps()))
		for _, s := range registry.Export() {
			logger.Info("metric",
				log.String("name", s.Name),
				log.String("kind", s.Kind),
				log.Float64("value", s.Value))
		}
		return nil
	}
	return err
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
