package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestNewDynamicBodyValidation(t *testing.T) {
	_, err := NewDynamicBody(0, 1)
	require.Error(t, err)
	_, err = NewDynamicBody(10, -1)
	require.Error(t, err)
	b, err := NewDynamicBody(10, 2)
	require.NoError(t, err)
	require.Equal(t, 10.0, b.Mass())
}

func TestVelocityAtPoint(t *testing.T) {
	b, err := NewDynamicBody(1, 1)
	require.NoError(t, err)

	t.Run("pure translation", func(t *testing.T) {
		b.SetLinearVelocity(mgl64.Vec3{3, 0, 0})
		b.SetAngularVelocity(mgl64.Vec3{})
		v := b.VelocityAtPoint(mgl64.Vec3{0, 1, 0})
		require.InDelta(t, 3.0, v.X(), 1e-12)
		require.InDelta(t, 0.0, v.Y(), 1e-12)
		require.InDelta(t, 0.0, v.Z(), 1e-12)
	})

	t.Run("rotation adds tangential component", func(t *testing.T) {
		b.SetLinearVelocity(mgl64.Vec3{})
		b.SetAngularVelocity(mgl64.Vec3{0, 1, 0}) // 1 rad/s yaw
		// Point one meter ahead (-Z): tangential velocity is w x r = (-1, 0, 0).
		v := b.VelocityAtPoint(mgl64.Vec3{0, 0, -1})
		require.InDelta(t, -1.0, v.X(), 1e-12)
		require.InDelta(t, 0.0, v.Y(), 1e-12)
		require.InDelta(t, 0.0, v.Z(), 1e-12)
	})
}

func TestIntegrateLinear(t *testing.T) {
	b, err := NewDynamicBody(2, 1)
	require.NoError(t, err)

	b.ApplyForce(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{})
	b.Integrate(0.5)

	// a = F/m = 2, v = a*dt = 1, x = v*dt = 0.5 (semi-implicit).
	require.InDelta(t, 1.0, b.LinearVelocity().X(), 1e-12)
	require.InDelta(t, 0.5, b.Position().X(), 1e-12)

	// Accumulators were cleared: a further step coasts.
	b.Integrate(0.5)
	require.InDelta(t, 1.0, b.LinearVelocity().X(), 1e-12)
	require.InDelta(t, 1.0, b.Position().X(), 1e-12)
}

func TestOffCenterForceInducesTorque(t *testing.T) {
	b, err := NewDynamicBody(1, 2)
	require.NoError(t, err)

	// Upward force applied one meter to the right of the COM spins around +Z.
	b.ApplyForce(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
	b.Integrate(1.0)

	// torque = r x F = (1,0,0) x (0,1,0) = (0,0,1); w = t/I*dt = 0.5
	require.InDelta(t, 0.5, b.AngularVelocity().Z(), 1e-12)
}

func TestIntegrateZeroDeltaDropsAccumulators(t *testing.T) {
	b, err := NewDynamicBody(1, 1)
	require.NoError(t, err)
	b.ApplyForce(mgl64.Vec3{100, 0, 0}, mgl64.Vec3{})
	b.Integrate(0)
	require.InDelta(t, 0.0, b.LinearVelocity().X(), 1e-12)
	b.Integrate(1)
	require.InDelta(t, 0.0, b.LinearVelocity().X(), 1e-12)
}
