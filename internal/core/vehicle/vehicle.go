package vehicle

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/raywheel/raywheel/internal/core/observability/log"
	"github.com/raywheel/raywheel/internal/core/physics"
	"github.com/raywheel/raywheel/pkg/mathx"
)

// Input is the per-step control state, both axes in [-1, 1]. Positive
// Accelerate drives the vehicle forward.
type Input struct {
	Accelerate float64
	Steer      float64
}

// Vehicle aggregates four wheel probes over one external rigid body. It owns
// the wheels by value for its whole lifetime and expresses every result as
// force/torque requests on the body.
type Vehicle struct {
	cfg    Config
	body   physics.Body
	caster physics.RayCaster
	debug  DebugSink
	log    log.Log

	wheels [wheelCount]wheel

	steeringAngle  float64 // degrees, smoothed
	slopeAngle     float64 // degrees
	onSlope        bool
	slopeDir       mgl64.Vec3
	averageNormal  mgl64.Vec3
	hillHoldActive bool
}

type Option func(*Vehicle)

func WithDebugSink(sink DebugSink) Option {
	return func(v *Vehicle) { v.debug = sink }
}

func WithLogger(l log.Log) Option {
	return func(v *Vehicle) { v.log = l }
}

// New builds a vehicle over the given body and collision world. Invalid
// configuration is a construction-time failure, never a runtime one.
func New(cfg Config, body physics.Body, caster physics.RayCaster, opts ...Option) (*Vehicle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("vehicle: body is required")
	}
	if caster == nil {
		return nil, errors.New("vehicle: ray caster is required")
	}

	v := &Vehicle{
		cfg:           cfg,
		body:          body,
		caster:        caster,
		debug:         NopSink{},
		log:           log.Nop(),
		averageNormal: worldUp,
	}
	for _, opt := range opts {
		opt(v)
	}

	halfTrack := cfg.TrackWidth / 2
	anchors := [wheelCount]mgl64.Vec3{
		WheelFrontLeft:  {-halfTrack, cfg.WheelMountHeight, -cfg.FrontAxleDistance},
		WheelFrontRight: {halfTrack, cfg.WheelMountHeight, -cfg.FrontAxleDistance},
		WheelRearLeft:   {-halfTrack, cfg.WheelMountHeight, cfg.RearAxleDistance},
		WheelRearRight:  {halfTrack, cfg.WheelMountHeight, cfg.RearAxleDistance},
	}
	for i := range v.wheels {
		radius := cfg.RearWheelRadius
		if WheelIndex(i).front() {
			radius = cfg.FrontWheelRadius
		}
		v.wheels[i] = newWheel(anchors[i], radius,
			cfg.WheelSideFriction, cfg.WheelRollingFriction, cfg.SuspensionRestLength)
	}

	v.log.Info("vehicle configured",
		log.Float64("mass", body.Mass()),
		log.Float64("engine_power", cfg.EnginePower),
		log.Float64("spring_strength", cfg.SpringStrength))

	return v, nil
}

// Step runs one fixed physics step: steering, per-wheel forces, slope
// aggregation, hill hold, anti-roll. All force requests within a step are
// additive and independent.
func (v *Vehicle) Step(delta float64, in Input) {
	in.Accelerate = mathx.Clamp(in.Accelerate, -1, 1)
	in.Steer = mathx.Clamp(in.Steer, -1, 1)

	v.updateSteering(in.Steer)

	normalSum := mgl64.Vec3{}
	contacts := 0
	for i := range v.wheels {
		if n, ok := v.wheels[i].step(v.body, v.caster, &v.cfg, delta, in.Accelerate, v.debug); ok {
			normalSum = normalSum.Add(n)
			contacts++
		}
	}

	v.updateSlope(normalSum, contacts)
	v.updateHillHold(in.Accelerate)
	v.updateAntiRoll(delta)
}

func (v *Vehicle) updateSteering(steerInput float64) {
	target := mathx.Clamp(steerInput*v.cfg.MaxSteerAngle, -v.cfg.MaxSteerAngle, v.cfg.MaxSteerAngle)
	v.steeringAngle = mathx.Lerp(v.steeringAngle, target, steerSmoothing)
	v.wheels[WheelFrontLeft].setSteering(v.steeringAngle)
	v.wheels[WheelFrontRight].setSteering(v.steeringAngle)
}

func (v *Vehicle) updateSlope(normalSum mgl64.Vec3, contacts int) {
	if contacts == 0 || normalSum.Len() < 1e-9 {
		// Airborne: assume flat ground until a wheel touches down again.
		v.averageNormal = worldUp
		v.slopeAngle = 0
		v.onSlope = false
		v.slopeDir = mgl64.Vec3{}
		return
	}

	v.averageNormal = normalSum.Normalize()
	cos := mathx.Clamp(v.averageNormal.Dot(worldUp), -1, 1)
	v.slopeAngle = mgl64.RadToDeg(math.Acos(cos))
	v.onSlope = v.slopeAngle > v.cfg.HillHoldAngleThreshold

	horizontal := mgl64.Vec3{v.averageNormal.X(), 0, v.averageNormal.Z()}
	dir := worldUp.Cross(horizontal).Cross(v.averageNormal)
	if dir.Len() < 1e-9 {
		// Vertical normal, no downhill direction.
		v.slopeDir = mgl64.Vec3{}
		return
	}
	v.slopeDir = dir.Normalize()
}

// updateHillHold recomputes the hold gate from scratch each step and derives
// every wheel's friction target from it.
func (v *Vehicle) updateHillHold(accelInput float64) {
	speed := v.body.LinearVelocity().Len()
	active := v.onSlope &&
		speed < v.cfg.HillHoldSpeedThreshold &&
		mathx.Abs(accelInput) < accelIdleThreshold

	if active != v.hillHoldActive {
		v.log.Debug("hill hold switched",
			log.Bool("active", active),
			log.Float64("slope_deg", v.slopeAngle),
			log.Float64("speed", speed))
	}
	v.hillHoldActive = active

	if active && v.slopeDir.Len() > 0 {
		magnitude := v.cfg.HillHoldStrength * math.Sin(mgl64.DegToRad(v.slopeAngle)) * v.body.Mass()
		force := v.slopeDir.Mul(-magnitude)
		v.body.ApplyForce(force, mgl64.Vec3{})
		v.debug.DrawArrow(v.body.Position(), v.body.Position().Add(v.slopeDir.Mul(-1)))
	}

	for i := range v.wheels {
		v.wheels[i].updateFriction(active)
	}
}

func (v *Vehicle) updateAntiRoll(delta float64) {
	bodyUp := v.body.Orientation().Rotate(worldUp)
	alignment := mathx.Clamp(bodyUp.Dot(v.averageNormal), -1, 1)
	tilt := mgl64.RadToDeg(math.Acos(alignment))
	if tilt <= tiltDeadZoneDeg {
		return
	}

	axis := bodyUp.Cross(v.averageNormal)
	if axis.Len() < 1e-9 {
		// Parallel vectors, no correction axis.
		return
	}

	ratio := 1.0
	if v.cfg.MaxTiltAngle > 0 {
		ratio = tilt / v.cfg.MaxTiltAngle
	}
	strength := mathx.Clamp(v.cfg.StabilityStrength*ratio, 0, v.cfg.StabilityStrength)
	v.body.ApplyTorque(axis.Normalize().Mul(strength))

	// Direct velocity correction on top of the torque, same step.
	factor := mathx.Clamp(v.cfg.AngularDamping*delta, 0, 1)
	v.body.SetAngularVelocity(v.body.AngularVelocity().Mul(1 - factor))
}

// ForwardSpeed is the body's velocity projected on the vehicle forward axis.
func (v *Vehicle) ForwardSpeed() float64 {
	forward := v.body.Orientation().Rotate(mgl64.Vec3{0, 0, -1})
	return v.body.LinearVelocity().Dot(forward)
}

// TravelDirection reports +1 when moving forward, -1 in reverse. Used by
// wheel spin presentation.
func (v *Vehicle) TravelDirection() float64 {
	return mathx.Sign(v.ForwardSpeed())
}

func (v *Vehicle) SteeringAngle() float64 { return v.steeringAngle }

func (v *Vehicle) GroundSlopeAngle() float64 { return v.slopeAngle }

func (v *Vehicle) OnSlope() bool { return v.onSlope }

func (v *Vehicle) HillHoldActive() bool { return v.hillHoldActive }

// AverageGroundNormal is the normalized sum of contacting wheels' normals,
// world up while fully airborne.
func (v *Vehicle) AverageGroundNormal() mgl64.Vec3 { return v.averageNormal }

func (v *Vehicle) WheelInContact(i WheelIndex) bool { return v.wheels[i].contact }

func (v *Vehicle) WheelSuspensionLength(i WheelIndex) float64 { return v.wheels[i].suspensionLen }

// WheelVisualOffset is the smoothed vertical mesh target, presentation only.
func (v *Vehicle) WheelVisualOffset(i WheelIndex) float64 { return v.wheels[i].visualOffset }
