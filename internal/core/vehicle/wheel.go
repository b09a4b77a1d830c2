package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/raywheel/raywheel/internal/core/physics"
	"github.com/raywheel/raywheel/pkg/mathx"
)

// WheelIndex names the four wheels in their fixed order.
type WheelIndex int

const (
	WheelFrontLeft WheelIndex = iota
	WheelFrontRight
	WheelRearLeft
	WheelRearRight
	wheelCount
)

func (i WheelIndex) String() string {
	switch i {
	case WheelFrontLeft:
		return "front-left"
	case WheelFrontRight:
		return "front-right"
	case WheelRearLeft:
		return "rear-left"
	case WheelRearRight:
		return "rear-right"
	}
	return "unknown"
}

func (i WheelIndex) front() bool {
	return i == WheelFrontLeft || i == WheelFrontRight
}

// wheel is one virtual wheel: a downward ray probe plus its friction and
// suspension state. Wheels are owned by value inside the Vehicle; they hold
// no reference back to it.
type wheel struct {
	localOffset mgl64.Vec3
	radius      float64

	// Steering yaw, identity for rear wheels.
	steerRot mgl64.Quat

	defaultSideFriction    float64
	defaultRollingFriction float64
	sideFriction           float64
	rollingFriction        float64

	// Carried across steps for the damper velocity estimate.
	prevSuspensionLength float64

	// Smoothed vertical mesh offset, presentation only.
	visualOffset float64

	// Contact result, valid only within the step that produced it.
	contact         bool
	contactPoint    mgl64.Vec3
	contactNormal   mgl64.Vec3
	contactDistance float64
	suspensionLen   float64
}

func newWheel(offset mgl64.Vec3, radius, sideFriction, rollingFriction, restLength float64) wheel {
	return wheel{
		localOffset:            offset,
		radius:                 radius,
		steerRot:               mgl64.QuatIdent(),
		defaultSideFriction:    sideFriction,
		defaultRollingFriction: rollingFriction,
		sideFriction:           sideFriction,
		rollingFriction:        rollingFriction,
		prevSuspensionLength:   restLength,
		visualOffset:           -restLength,
		suspensionLen:          restLength,
	}
}

func (w *wheel) setSteering(angleDeg float64) {
	w.steerRot = mgl64.QuatRotate(mgl64.DegToRad(angleDeg), mgl64.Vec3{0, 1, 0})
}

// axes resolves the wheel's world-space attachment point and basis vectors.
func (w *wheel) axes(body physics.Body) (origin, up, forward, right mgl64.Vec3) {
	bodyRot := body.Orientation()
	basis := bodyRot.Mul(w.steerRot)
	origin = body.Position().Add(bodyRot.Rotate(w.localOffset))
	up = basis.Rotate(mgl64.Vec3{0, 1, 0})
	forward = basis.Rotate(mgl64.Vec3{0, 0, -1})
	right = basis.Rotate(mgl64.Vec3{1, 0, 0})
	return origin, up, forward, right
}

// step casts the ground probe and requests this wheel's forces on the body.
// It reports the contact normal for slope aggregation; airborne wheels
// contribute nothing.
func (w *wheel) step(body physics.Body, caster physics.RayCaster, cfg *Config, delta, accelInput float64, sink DebugSink) (mgl64.Vec3, bool) {
	origin, up, forward, right := w.axes(body)

	hit, ok := caster.CastRay(origin, up.Mul(-1), cfg.SuspensionRestLength+w.radius)
	if !ok {
		w.contact = false
		w.suspensionLen = cfg.SuspensionRestLength
		// Fully extended; the recurrence still runs exactly once per step.
		w.prevSuspensionLength = cfg.SuspensionRestLength
		w.visualOffset = mathx.Lerp(w.visualOffset, -cfg.SuspensionRestLength, visualSmoothing)
		return mgl64.Vec3{}, false
	}

	w.contact = true
	w.contactPoint = hit.Point
	w.contactNormal = hit.Normal
	w.contactDistance = hit.Distance

	wheelOrigin := hit.Point.Add(worldUp.Mul(w.radius))
	hubOffset := wheelOrigin.Sub(body.Position())
	contactOffset := hit.Point.Sub(body.Position())

	// Suspension: spring toward rest extension plus a damper on the
	// compression velocity estimated from the previous step.
	length := mathx.Clamp(hit.Distance-w.radius, 0, cfg.SuspensionRestLength)
	springForce := cfg.SpringStrength * (cfg.SuspensionRestLength - length)

	dampDelta := delta
	if dampDelta < minStepDelta {
		dampDelta = minStepDelta
	}
	suspensionVel := (w.prevSuspensionLength - length) / dampDelta
	damperForce := cfg.SpringDamper * suspensionVel
	w.prevSuspensionLength = length
	w.suspensionLen = length

	suspension := up.Mul(springForce + damperForce)
	body.ApplyForce(suspension, hubOffset)

	// Drive along the probe's forward axis.
	if accelInput != 0 {
		body.ApplyForce(forward.Mul(accelInput*cfg.EnginePower), hubOffset)
	}

	// Velocity-canceling friction: proportional to the point velocity
	// projected on each axis, not bounded by normal force.
	pointVel := body.VelocityAtPoint(wheelOrigin)
	sideVel := pointVel.Dot(right)
	body.ApplyForce(right.Mul(-sideVel*w.sideFriction), contactOffset)
	rollVel := pointVel.Dot(forward)
	body.ApplyForce(forward.Mul(-rollVel*w.rollingFriction), contactOffset)

	w.visualOffset = mathx.Lerp(w.visualOffset, -length, visualSmoothing)

	sink.DrawSphere(hit.Point, 0.05)
	sink.DrawLine(origin, hit.Point)
	sink.DrawArrow(wheelOrigin, wheelOrigin.Add(suspension.Mul(1.0/cfg.SpringStrength)))

	return hit.Normal, true
}

// updateFriction moves both coefficients one smoothing step toward either
// the shared high-friction hold target or the wheel's own defaults. They are
// never written directly, so mode changes ramp over a number of steps.
func (w *wheel) updateFriction(highFriction bool) {
	sideTarget := w.defaultSideFriction
	rollingTarget := w.defaultRollingFriction
	if highFriction {
		sideTarget = wheelHighFriction
		rollingTarget = wheelHighFriction
	}
	w.sideFriction = mathx.Lerp(w.sideFriction, sideTarget, frictionSmoothing)
	w.rollingFriction = mathx.Lerp(w.rollingFriction, rollingTarget, frictionSmoothing)
}
