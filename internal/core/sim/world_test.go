package sim

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/raywheel/raywheel/internal/core/observability/metrics"
	"github.com/raywheel/raywheel/internal/core/physics"
	"github.com/raywheel/raywheel/internal/core/vehicle"
)

func flatWorld(t *testing.T) *World {
	t.Helper()
	caster := physics.NewPlaneCaster(physics.HorizontalGround(0))
	w, err := NewWorld(DefaultConfig(), caster)
	require.NoError(t, err)
	return w
}

func spawnDefault(t *testing.T, w *World, input InputSource) uuid.UUID {
	t.Helper()
	id, err := w.Spawn(SpawnSpec{
		Vehicle:  vehicle.DefaultConfig(),
		Mass:     1000,
		Inertia:  1500,
		Position: mgl64.Vec3{0, 0.8, 0},
		Input:    input,
	})
	require.NoError(t, err)
	return id
}

func TestNewWorldValidation(t *testing.T) {
	t.Run("nil caster", func(t *testing.T) {
		_, err := NewWorld(DefaultConfig(), nil)
		require.Error(t, err)
	})

	t.Run("bad step rate", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StepRate = 0
		_, err := NewWorld(cfg, physics.NewPlaneCaster(physics.HorizontalGround(0)))
		require.Error(t, err)
	})
}

func TestSpawnRejectsInvalidSpec(t *testing.T) {
	w := flatWorld(t)

	t.Run("bad mass", func(t *testing.T) {
		_, err := w.Spawn(SpawnSpec{Vehicle: vehicle.DefaultConfig(), Mass: 0, Inertia: 1500})
		require.Error(t, err)
	})

	t.Run("bad vehicle config", func(t *testing.T) {
		cfg := vehicle.DefaultConfig()
		cfg.TrackWidth = 0
		_, err := w.Spawn(SpawnSpec{Vehicle: cfg, Mass: 1000, Inertia: 1500})
		require.Error(t, err)
	})

	require.Zero(t, w.VehicleCount())
}

func TestSpawnAndRemove(t *testing.T) {
	w := flatWorld(t)
	id := spawnDefault(t, w, nil)
	require.Equal(t, 1, w.VehicleCount())

	_, ok := w.Snapshot(id)
	require.True(t, ok)
	_, ok = w.Snapshot(uuid.New())
	require.False(t, ok)

	w.Remove(id)
	require.Zero(t, w.VehicleCount())
	w.Remove(id) // second removal is a no-op
}

func TestVehicleSettlesOnFlatGround(t *testing.T) {
	w := flatWorld(t)
	id := spawnDefault(t, w, nil)

	// Ten simulated seconds is plenty for the suspension to ring down.
	for i := 0; i < 600; i++ {
		w.Step()
	}

	state, ok := w.Snapshot(id)
	require.True(t, ok)
	require.Equal(t, 4, state.WheelsOnGround)
	require.False(t, state.OnSlope)
	require.False(t, state.HillHoldActive)
	require.InDelta(t, 0.0, state.Velocity.Y(), 0.3)

	// Rest height: hub sits wheel-radius plus compressed-length above the
	// ground, with compression balancing gravity across four springs.
	cfg := vehicle.DefaultConfig()
	compression := 1000 * DefaultConfig().Gravity / (4 * cfg.SpringStrength)
	restY := cfg.FrontWheelRadius + (cfg.SuspensionRestLength - compression) - cfg.WheelMountHeight
	require.InDelta(t, restY, state.Position.Y(), 0.1)
}

func TestThrottleAcceleratesForward(t *testing.T) {
	w := flatWorld(t)
	throttle := InputFunc(func(time.Duration) vehicle.Input {
		return vehicle.Input{Accelerate: 1}
	})
	id := spawnDefault(t, w, throttle)

	for i := 0; i < 120; i++ {
		w.Step()
	}

	state, ok := w.Snapshot(id)
	require.True(t, ok)
	require.Greater(t, state.ForwardSpeed, 1.0)
	require.Less(t, state.Position.Z(), 0.0)
}

func TestFreeFallWithoutGround(t *testing.T) {
	caster := physics.NewPlaneCaster(physics.HorizontalGround(-1000))
	w, err := NewWorld(DefaultConfig(), caster)
	require.NoError(t, err)
	id := spawnDefault(t, w, nil)

	for i := 0; i < 60; i++ {
		w.Step()
	}

	state, ok := w.Snapshot(id)
	require.True(t, ok)
	require.Zero(t, state.WheelsOnGround)
	// One second of gravity, semi-implicit Euler.
	require.InDelta(t, -DefaultConfig().Gravity, state.Velocity.Y(), 0.2)
	require.Less(t, state.Position.Y(), 0.8)
}

func TestHillHoldEngagesOnIncline(t *testing.T) {
	caster := physics.NewPlaneCaster(physics.InclinedGround(10))
	w, err := NewWorld(DefaultConfig(), caster)
	require.NoError(t, err)

	id, err := w.Spawn(SpawnSpec{
		Vehicle:  vehicle.DefaultConfig(),
		Mass:     1000,
		Inertia:  1500,
		Position: mgl64.Vec3{0, 0.9, 0},
	})
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		w.Step()
	}

	state, ok := w.Snapshot(id)
	require.True(t, ok)
	require.True(t, state.OnSlope)
	require.Greater(t, state.SlopeAngle, 5.0)
	require.True(t, state.HillHoldActive)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := flatWorld(t)
	spawnDefault(t, w, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Greater(t, w.Steps(), uint64(0))
}

func TestElapsedTracksSteps(t *testing.T) {
	registry := metrics.NewRegistry()
	caster := physics.NewPlaneCaster(physics.HorizontalGround(0))
	w, err := NewWorld(DefaultConfig(), caster, WithMetrics(registry))
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		w.Step()
	}
	require.InDelta(t, float64(time.Second), float64(w.Elapsed()), float64(10*time.Millisecond))
	require.Equal(t, uint64(60), w.Steps())
	require.Equal(t, uint64(60), registry.Counter("sim.steps").Value())
	require.Equal(t, uint64(60), registry.Timer("sim.step_duration").Count())
}
