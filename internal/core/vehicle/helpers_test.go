package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/raywheel/raywheel/internal/core/physics"
)

// recordingBody implements physics.Body, capturing every force and torque
// request instead of integrating them.
type appliedForce struct {
	force  mgl64.Vec3
	offset mgl64.Vec3
}

type recordingBody struct {
	mass   float64
	pos    mgl64.Vec3
	orient mgl64.Quat
	vel    mgl64.Vec3
	angVel mgl64.Vec3

	forces  []appliedForce
	torques []mgl64.Vec3
}

func newRecordingBody(mass float64) *recordingBody {
	return &recordingBody{
		mass:   mass,
		pos:    mgl64.Vec3{0, 1, 0},
		orient: mgl64.QuatIdent(),
	}
}

func (b *recordingBody) Mass() float64               { return b.mass }
func (b *recordingBody) Position() mgl64.Vec3        { return b.pos }
func (b *recordingBody) Orientation() mgl64.Quat     { return b.orient }
func (b *recordingBody) LinearVelocity() mgl64.Vec3  { return b.vel }
func (b *recordingBody) AngularVelocity() mgl64.Vec3 { return b.angVel }

func (b *recordingBody) SetAngularVelocity(w mgl64.Vec3) { b.angVel = w }

func (b *recordingBody) VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3 {
	return b.vel.Add(b.angVel.Cross(point.Sub(b.pos)))
}

func (b *recordingBody) ApplyForce(force, offset mgl64.Vec3) {
	b.forces = append(b.forces, appliedForce{force: force, offset: offset})
}

func (b *recordingBody) ApplyTorque(torque mgl64.Vec3) {
	b.torques = append(b.torques, torque)
}

func (b *recordingBody) reset() {
	b.forces = nil
	b.torques = nil
}

func (b *recordingBody) netForce() mgl64.Vec3 {
	sum := mgl64.Vec3{}
	for _, f := range b.forces {
		sum = sum.Add(f.force)
	}
	return sum
}

// comForces returns the forces applied at the center of mass (zero offset),
// which in practice is only the hill-hold force.
func (b *recordingBody) comForces() []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, f := range b.forces {
		if f.offset.Len() < 1e-12 {
			out = append(out, f.force)
		}
	}
	return out
}

// scriptedCaster always reports the same hit regardless of ray geometry.
// ignoreMax lets tests feed raw distances past the probe's reach.
type scriptedCaster struct {
	hit       bool
	distance  float64
	normal    mgl64.Vec3
	ignoreMax bool
}

func (c scriptedCaster) CastRay(origin, direction mgl64.Vec3, maxDistance float64) (physics.RayHit, bool) {
	if !c.hit {
		return physics.RayHit{}, false
	}
	if !c.ignoreMax && c.distance > maxDistance {
		return physics.RayHit{}, false
	}
	return physics.RayHit{
		Point:    origin.Add(direction.Mul(c.distance)),
		Normal:   c.normal,
		Distance: c.distance,
	}, true
}

func flatContact(distance float64) scriptedCaster {
	return scriptedCaster{hit: true, distance: distance, normal: mgl64.Vec3{0, 1, 0}}
}

func slopeContact(distance, angleDeg float64) scriptedCaster {
	rot := mgl64.QuatRotate(mgl64.DegToRad(angleDeg), mgl64.Vec3{1, 0, 0})
	return scriptedCaster{hit: true, distance: distance, normal: rot.Rotate(mgl64.Vec3{0, 1, 0})}
}

func testConfig() Config {
	return DefaultConfig()
}

const testDelta = 1.0 / 60.0

func worldForward() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, -1}
}
