package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/raywheel/raywheel/internal/core/observability/log"
	"github.com/raywheel/raywheel/internal/core/observability/metrics"
	"github.com/raywheel/raywheel/internal/core/physics"
	"github.com/raywheel/raywheel/internal/core/vehicle"
)

// InputSource produces the control state for one vehicle each step. Elapsed
// is simulation time, not wall time.
type InputSource interface {
	Sample(elapsed time.Duration) vehicle.Input
}

// InputFunc adapts a function to the InputSource interface.
type InputFunc func(elapsed time.Duration) vehicle.Input

func (f InputFunc) Sample(elapsed time.Duration) vehicle.Input { return f(elapsed) }

// Config tunes the world loop.
type Config struct {
	StepRate float64 `json:"step_rate" yaml:"step_rate"` // steps per second
	Gravity  float64 `json:"gravity" yaml:"gravity"`     // m/s^2, applied along -Y
}

func DefaultConfig() Config {
	return Config{
		StepRate: 60,
		Gravity:  9.81,
	}
}

func (c Config) Validate() error {
	if c.StepRate <= 0 {
		return fmt.Errorf("sim: step rate must be positive, got %v", c.StepRate)
	}
	if c.Gravity < 0 {
		return fmt.Errorf("sim: gravity must not be negative, got %v", c.Gravity)
	}
	return nil
}

type actor struct {
	body    *physics.DynamicBody
	vehicle *vehicle.Vehicle
	input   InputSource
}

// World advances a set of vehicles over a shared collision world at a fixed
// timestep. All methods are safe for concurrent use.
type World struct {
	mu      sync.RWMutex
	cfg     Config
	caster  physics.RayCaster
	log     log.Log
	actors  map[uuid.UUID]*actor
	elapsed time.Duration
	steps   uint64

	stepCounter  metrics.Counter
	stepTimer    metrics.Timer
	vehicleGauge metrics.Gauge
}

type Option func(*World)

func WithLogger(l log.Log) Option {
	return func(w *World) { w.log = l }
}

func WithMetrics(c metrics.Collector) Option {
	return func(w *World) {
		w.stepCounter = c.Counter("sim.steps")
		w.stepTimer = c.Timer("sim.step_duration")
		w.vehicleGauge = c.Gauge("sim.vehicles")
	}
}

func NewWorld(cfg Config, caster physics.RayCaster, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if caster == nil {
		return nil, errors.New("sim: ray caster is required")
	}
	w := &World{
		cfg:    cfg,
		caster: caster,
		log:    log.Nop(),
		actors: make(map[uuid.UUID]*actor),
	}
	WithMetrics(metrics.Nop{})(w)
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// SpawnSpec describes one vehicle to place into the world.
type SpawnSpec struct {
	Vehicle  vehicle.Config
	Mass     float64
	Inertia  float64
	Position mgl64.Vec3
	Input    InputSource
}

// Spawn creates a rigid body and vehicle controller from the spec and
// registers them under a fresh id.
func (w *World) Spawn(spec SpawnSpec) (uuid.UUID, error) {
	body, err := physics.NewDynamicBody(spec.Mass, spec.Inertia)
	if err != nil {
		return uuid.Nil, err
	}
	body.SetPosition(spec.Position)

	v, err := vehicle.New(spec.Vehicle, body, w.caster, vehicle.WithLogger(w.log))
	if err != nil {
		return uuid.Nil, err
	}

	input := spec.Input
	if input == nil {
		input = InputFunc(func(time.Duration) vehicle.Input { return vehicle.Input{} })
	}

	id := uuid.New()
	w.mu.Lock()
	w.actors[id] = &actor{body: body, vehicle: v, input: input}
	w.mu.Unlock()

	w.log.Info("vehicle spawned",
		log.String("id", id.String()),
		log.Float64("mass", spec.Mass))
	return id, nil
}

// Remove drops a vehicle from the world. Removing an unknown id is a no-op.
func (w *World) Remove(id uuid.UUID) {
	w.mu.Lock()
	delete(w.actors, id)
	w.mu.Unlock()
}

func (w *World) VehicleCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.actors)
}

func (w *World) StepDelta() float64 { return 1 / w.cfg.StepRate }

// Step advances every vehicle by one fixed timestep: gravity, controller
// forces, then integration.
func (w *World) Step() {
	delta := w.StepDelta()
	started := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.elapsed += time.Duration(delta * float64(time.Second))
	w.steps++

	for _, a := range w.actors {
		a.body.ApplyForce(mgl64.Vec3{0, -w.cfg.Gravity * a.body.Mass(), 0}, mgl64.Vec3{})
		a.vehicle.Step(delta, a.input.Sample(w.elapsed))
		a.body.Integrate(delta)
	}

	w.stepCounter.Inc()
	w.stepTimer.Observe(time.Since(started))
	w.vehicleGauge.Set(float64(len(w.actors)))
}

// Run steps the world on a wall-clock ticker until the context is canceled.
func (w *World) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / w.cfg.StepRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("world loop started",
		log.Float64("step_rate", w.cfg.StepRate),
		log.Int("vehicles", w.VehicleCount()))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("world loop stopped",
				log.Uint64("steps", w.Steps()))
			return ctx.Err()
		case <-ticker.C:
			w.Step()
		}
	}
}

func (w *World) Steps() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.steps
}

func (w *World) Elapsed() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.elapsed
}

// VehicleState is a telemetry snapshot of one vehicle.
type VehicleState struct {
	ID             uuid.UUID
	Position       mgl64.Vec3
	Velocity       mgl64.Vec3
	ForwardSpeed   float64
	SteeringAngle  float64
	SlopeAngle     float64
	OnSlope        bool
	HillHoldActive bool
	WheelsOnGround int
}

// Snapshot reports the current state of one vehicle.
func (w *World) Snapshot(id uuid.UUID) (VehicleState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.actors[id]
	if !ok {
		return VehicleState{}, false
	}
	return w.snapshotLocked(id, a), true
}

// Snapshots reports the state of every vehicle in the world.
func (w *World) Snapshots() []VehicleState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	states := make([]VehicleState, 0, len(w.actors))
	for id, a := range w.actors {
		states = append(states, w.snapshotLocked(id, a))
	}
	return states
}

func (w *World) snapshotLocked(id uuid.UUID, a *actor) VehicleState {
	contacts := 0
	for i := vehicle.WheelFrontLeft; i <= vehicle.WheelRearRight; i++ {
		if a.vehicle.WheelInContact(i) {
			contacts++
		}
	}
	return VehicleState{
		ID:             id,
		Position:       a.body.Position(),
		Velocity:       a.body.LinearVelocity(),
		ForwardSpeed:   a.vehicle.ForwardSpeed(),
		SteeringAngle:  a.vehicle.SteeringAngle(),
		SlopeAngle:     a.vehicle.GroundSlopeAngle(),
		OnSlope:        a.vehicle.OnSlope(),
		HillHoldActive: a.vehicle.HillHoldActive(),
		WheelsOnGround: contacts,
	}
}
