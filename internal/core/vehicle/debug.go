package vehicle

import "github.com/go-gl/mathgl/mgl64"

// DebugSink receives draw requests emitted during force computation. No
// controller decision depends on it; the default sink discards everything.
type DebugSink interface {
	DrawArrow(from, to mgl64.Vec3)
	DrawSphere(center mgl64.Vec3, radius float64)
	DrawLine(from, to mgl64.Vec3)
}

var _ DebugSink = NopSink{}

// NopSink is the default DebugSink.
type NopSink struct{}

func (NopSink) DrawArrow(_, _ mgl64.Vec3)          {}
func (NopSink) DrawSphere(_ mgl64.Vec3, _ float64) {}
func (NopSink) DrawLine(_, _ mgl64.Vec3)           {}
