package mathx

// Scalar helpers shared by the physics and vehicle packages.

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Lerp linearly interpolates from a to b by factor t.
func Lerp[T ~float32 | ~float64](a, b, t T) T {
	return a + (b-a)*t
}

// Clamp limits v to the [lo, hi] range.
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns +1 for non-negative values and -1 otherwise.
func Sign[T Number](v T) T {
	if v < 0 {
		return -1
	}
	return 1
}

// Abs returns the absolute value of v.
func Abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
