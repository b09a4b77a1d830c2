package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var _ Body = (*DynamicBody)(nil)

// DynamicBody is a minimal single-body implementation of the Body port:
// semi-implicit Euler, scalar moment of inertia, no contact response. It
// exists so the simulation harness and tests have something real to step;
// it is not a general solver.
type DynamicBody struct {
	mass    float64
	inertia float64

	position    mgl64.Vec3
	orientation mgl64.Quat
	linearVel   mgl64.Vec3
	angularVel  mgl64.Vec3

	forceAccum  mgl64.Vec3
	torqueAccum mgl64.Vec3
}

func NewDynamicBody(mass, inertia float64) (*DynamicBody, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("physics: body mass must be positive, got %v", mass)
	}
	if inertia <= 0 {
		return nil, fmt.Errorf("physics: body inertia must be positive, got %v", inertia)
	}
	return &DynamicBody{
		mass:        mass,
		inertia:     inertia,
		orientation: mgl64.QuatIdent(),
	}, nil
}

func (b *DynamicBody) Mass() float64               { return b.mass }
func (b *DynamicBody) Position() mgl64.Vec3        { return b.position }
func (b *DynamicBody) Orientation() mgl64.Quat     { return b.orientation }
func (b *DynamicBody) LinearVelocity() mgl64.Vec3  { return b.linearVel }
func (b *DynamicBody) AngularVelocity() mgl64.Vec3 { return b.angularVel }

func (b *DynamicBody) SetPosition(p mgl64.Vec3) { b.position = p }

func (b *DynamicBody) SetOrientation(q mgl64.Quat) { b.orientation = q.Normalize() }

func (b *DynamicBody) SetLinearVelocity(v mgl64.Vec3) { b.linearVel = v }

func (b *DynamicBody) SetAngularVelocity(w mgl64.Vec3) { b.angularVel = w }

func (b *DynamicBody) VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(b.position)
	return b.linearVel.Add(b.angularVel.Cross(r))
}

// ApplyForce accumulates a force acting at the given offset from the center
// of mass. An off-center force also contributes torque.
func (b *DynamicBody) ApplyForce(force, offset mgl64.Vec3) {
	b.forceAccum = b.forceAccum.Add(force)
	b.torqueAccum = b.torqueAccum.Add(offset.Cross(force))
}

func (b *DynamicBody) ApplyTorque(torque mgl64.Vec3) {
	b.torqueAccum = b.torqueAccum.Add(torque)
}

// Integrate advances the body by dt using the accumulated forces, then
// clears the accumulators. Velocity updates before position (semi-implicit).
func (b *DynamicBody) Integrate(dt float64) {
	if dt <= 0 {
		b.clearAccumulators()
		return
	}

	accel := b.forceAccum.Mul(1.0 / b.mass)
	b.linearVel = b.linearVel.Add(accel.Mul(dt))
	b.position = b.position.Add(b.linearVel.Mul(dt))

	angAccel := b.torqueAccum.Mul(1.0 / b.inertia)
	b.angularVel = b.angularVel.Add(angAccel.Mul(dt))

	if spin := b.angularVel.Len(); spin > 0 {
		axis := b.angularVel.Mul(1.0 / spin)
		rot := mgl64.QuatRotate(spin*dt, axis)
		b.orientation = rot.Mul(b.orientation).Normalize()
	}

	b.clearAccumulators()
}

func (b *DynamicBody) clearAccumulators() {
	b.forceAccum = mgl64.Vec3{}
	b.torqueAccum = mgl64.Vec3{}
}
