package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// BlendEpsilon is the smallest keyframe interval treated as non-degenerate.
const BlendEpsilon = 1e-6

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the slice backing array.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// ComposeTRS builds a column-major local transform as translation * rotation * scale.
// Translation is applied outermost and scale innermost, matching the bind pose convention.
//
// Parameters:
//   - t: the translation
//   - r: the rotation quaternion (expected to be unit length)
//   - s: the per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	m := r.Mat4()

	// Scale the rotation columns in place instead of multiplying by Scale3D.
	for c := 0; c < 3; c++ {
		m[c*4+0] *= s[c]
		m[c*4+1] *= s[c]
		m[c*4+2] *= s[c]
	}
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// DecomposeTRS splits a column-major affine matrix into translation, rotation and scale.
// This is an approximation that assumes no shear. Degenerate axes report a scale of 0
// and are treated as unit length when extracting the rotation.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: the translation
//   - mgl32.Quat: the normalized rotation
//   - mgl32.Vec3: the scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := mgl32.Vec3{m[12], m[13], m[14]}
	s := mgl32.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}

	rot := mgl32.Ident4()
	for c := 0; c < 3; c++ {
		div := s[c]
		if div < 0.0001 {
			div = 1
		}
		rot[c*4+0] = m[c*4+0] / div
		rot[c*4+1] = m[c*4+1] / div
		rot[c*4+2] = m[c*4+2] / div
	}

	return t, mgl32.Mat4ToQuat(rot).Normalize(), s
}

// LerpVec3 linearly interpolates between two vectors componentwise.
//
// Parameters:
//   - a: the value at f = 0
//   - b: the value at f = 1
//   - f: the blend factor
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * f, exactly a or b at the ends
func LerpVec3(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	return mgl32.Vec3{
		a[0] + (b[0]-a[0])*f,
		a[1] + (b[1]-a[1])*f,
		a[2] + (b[2]-a[2])*f,
	}
}

// SlerpQuat spherically interpolates between two unit quaternions along the shortest arc
// and renormalizes the result to counter floating point drift.
//
// Parameters:
//   - a: the rotation at f = 0
//   - b: the rotation at f = 1
//   - f: the blend factor in [0, 1]
//
// Returns:
//   - mgl32.Quat: the normalized interpolated rotation
func SlerpQuat(a, b mgl32.Quat, f float32) mgl32.Quat {
	if f <= 0 {
		return a.Normalize()
	}
	if f >= 1 {
		return b.Normalize()
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, f).Normalize()
}

// BlendFactor computes where t lies between two keyframe times, clamped to [0, 1].
// Zero-length, inverted or non-finite intervals yield 0.
//
// Parameters:
//   - t: the query time
//   - t0: the time of the earlier keyframe
//   - t1: the time of the later keyframe
//
// Returns:
//   - float32: the blend factor
func BlendFactor(t, t0, t1 float32) float32 {
	delta := t1 - t0
	if !(delta > BlendEpsilon) || !IsFinite(delta) {
		return 0
	}
	f := (t - t0) / delta
	if !IsFinite(f) {
		return 0
	}
	return mgl32.Clamp(f, 0, 1)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// WrapTime wraps t into [0, duration) using a floored modulo. Playback time is tracked
// in float64 so that long sessions do not accumulate drift at the loop point.
// A non-positive or non-finite duration yields 0.
//
// Parameters:
//   - t: the time to wrap
//   - duration: the loop length
//
// Returns:
//   - float64: the wrapped time
func WrapTime(t, duration float64) float64 {
	if !(duration > 0) || math.IsInf(duration, 0) || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	w := math.Mod(t, duration)
	if w < 0 {
		w += duration
	}
	if w >= duration {
		w = 0
	}
	return w
}
