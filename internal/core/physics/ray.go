package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var _ RayCaster = (*PlaneCaster)(nil)

// Plane is an infinite plane described by a point on it and its unit normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// HorizontalGround returns a flat plane at the given height facing up.
func HorizontalGround(height float64) Plane {
	return Plane{
		Point:  mgl64.Vec3{0, height, 0},
		Normal: mgl64.Vec3{0, 1, 0},
	}
}

// InclinedGround returns a plane through the origin tilted by angleDeg
// around the X axis, so the downhill direction lies along +Z.
func InclinedGround(angleDeg float64) Plane {
	rot := mgl64.QuatRotate(mgl64.DegToRad(angleDeg), mgl64.Vec3{1, 0, 0})
	return Plane{
		Point:  mgl64.Vec3{},
		Normal: rot.Rotate(mgl64.Vec3{0, 1, 0}),
	}
}

// PlaneCaster answers ray queries against a set of infinite planes,
// reporting the closest front-face intersection. It stands in for a real
// collision world in the harness and the demo.
type PlaneCaster struct {
	planes []Plane
}

func NewPlaneCaster(planes ...Plane) *PlaneCaster {
	copied := make([]Plane, len(planes))
	copy(copied, planes)
	return &PlaneCaster{planes: copied}
}

func (c *PlaneCaster) CastRay(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	best := RayHit{Distance: math.Inf(1)}
	found := false

	for _, p := range c.planes {
		denom := direction.Dot(p.Normal)
		if denom >= -1e-12 {
			// Ray parallel to the plane or approaching from behind.
			continue
		}
		t := p.Point.Sub(origin).Dot(p.Normal) / denom
		if t < 0 || t > maxDistance {
			continue
		}
		if t < best.Distance {
			best = RayHit{
				Point:    origin.Add(direction.Mul(t)),
				Normal:   p.Normal,
				Distance: t,
			}
			found = true
		}
	}

	return best, found
}
