package vehicle

import "github.com/go-gl/mathgl/mgl64"

// Smoothing factors are applied per step, not per second, so they are tuned
// against the fixed physics rate.
const (
	steerSmoothing    = 0.3
	frictionSmoothing = 0.1
	visualSmoothing   = 0.6

	// Friction target while hill hold is engaged, shared by both the side
	// and rolling coefficients of every wheel.
	wheelHighFriction = 600.0

	// Anti-roll ignores tilt below this to avoid jitter around upright.
	tiltDeadZoneDeg = 5.0

	// Throttle magnitudes below this count as idle for the hill-hold gate.
	accelIdleThreshold = 0.1

	// Lower bound on the damper's velocity-estimate divisor.
	minStepDelta = 1e-6
)

var worldUp = mgl64.Vec3{0, 1, 0}
