package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyframeTrack holds the sampled translation, rotation and scale of a single bone.
// Within each sequence times are strictly increasing. A sequence with one key is constant
// and an empty sequence yields the identity value for its channel.
type KeyframeTrack struct {
	Positions []VectorKeyframe
	Rotations []QuaternionKeyframe
	Scales    []VectorKeyframe
}

// Sample evaluates every channel of the track at time t (in ticks).
// Times before the first key or after the last key clamp to the end values.
//
// Parameters:
//   - t: the sample time in ticks
//
// Returns:
//   - mgl32.Vec3: the interpolated translation
//   - mgl32.Quat: the interpolated, unit-length rotation
//   - mgl32.Vec3: the interpolated scale
func (k *KeyframeTrack) Sample(t float32) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	pos := sampleVector(k.Positions, t, mgl32.Vec3{})
	rot := sampleQuat(k.Rotations, t)
	scale := sampleVector(k.Scales, t, mgl32.Vec3{1, 1, 1})
	return pos, rot, scale
}

// LocalTransform samples the track at t and composes the result as T * R * S.
//
// Parameters:
//   - t: the sample time in ticks
//
// Returns:
//   - mgl32.Mat4: the bone's local transform relative to its parent
func (k *KeyframeTrack) LocalTransform(t float32) mgl32.Mat4 {
	return common.ComposeTRS(k.Sample(t))
}

// EndTime returns the latest key time across all channels, or 0 for an empty track.
func (k *KeyframeTrack) EndTime() float32 {
	var end float32
	if n := len(k.Positions); n > 0 && k.Positions[n-1].Time > end {
		end = k.Positions[n-1].Time
	}
	if n := len(k.Rotations); n > 0 && k.Rotations[n-1].Time > end {
		end = k.Rotations[n-1].Time
	}
	if n := len(k.Scales); n > 0 && k.Scales[n-1].Time > end {
		end = k.Scales[n-1].Time
	}
	return end
}

// Empty reports whether the track has no keys at all.
func (k *KeyframeTrack) Empty() bool {
	return len(k.Positions) == 0 && len(k.Rotations) == 0 && len(k.Scales) == 0
}

// sampleVector interpolates a vector channel. The segment k satisfies
// keys[k].Time <= t < keys[k+1].Time, clamped to the first and last pairs.
func sampleVector(keys []VectorKeyframe, t float32, fallback mgl32.Vec3) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return fallback
	case 1:
		return keys[0].Value
	}

	k := 0
	for k < len(keys)-2 && t >= keys[k+1].Time {
		k++
	}
	f := common.BlendFactor(t, keys[k].Time, keys[k+1].Time)
	return common.LerpVec3(keys[k].Value, keys[k+1].Value, f)
}

func sampleQuat(keys []QuaternionKeyframe, t float32) mgl32.Quat {
	switch len(keys) {
	case 0:
		return mgl32.QuatIdent()
	case 1:
		return keys[0].Value.Normalize()
	}

	k := 0
	for k < len(keys)-2 && t >= keys[k+1].Time {
		k++
	}
	f := common.BlendFactor(t, keys[k].Time, keys[k+1].Time)
	return common.SlerpQuat(keys[k].Value, keys[k+1].Value, f)
}
