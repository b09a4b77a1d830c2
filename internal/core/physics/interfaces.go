package physics

import "github.com/go-gl/mathgl/mgl64"

// Ports the vehicle controller needs from a host physics engine. The
// controller never integrates motion itself; everything it produces flows
// through ApplyForce and ApplyTorque on a single rigid body.

// Body is a rigid body owned by an external dynamics engine. Position is the
// world-space center of mass; force offsets are expressed relative to it.
type Body interface {
	Mass() float64
	Position() mgl64.Vec3
	Orientation() mgl64.Quat

	LinearVelocity() mgl64.Vec3
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)

	// VelocityAtPoint reports the instantaneous linear velocity of a world
	// point rigidly attached to the body, accounting for angular velocity.
	VelocityAtPoint(point mgl64.Vec3) mgl64.Vec3

	ApplyForce(force, offset mgl64.Vec3)
	ApplyTorque(torque mgl64.Vec3)
}

// RayHit is the result of a ray query against the collision world. It is
// only valid within the step that produced it.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RayCaster is the collision query service. Direction must be a unit vector.
type RayCaster interface {
	CastRay(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool)
}
