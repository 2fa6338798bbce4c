package model

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// DefaultTicksPerSecond is the playback rate assumed for clips that do not declare one.
const DefaultTicksPerSecond = 25

// AnimationClip represents a single animation (walk, run, attack, etc.).
// Bones without a track hold their bind pose while the clip plays.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in ticks.
	Duration float32

	// TicksPerSecond is the playback rate of the animation.
	TicksPerSecond float32

	// Tracks maps bone names to their keyframes.
	Tracks map[string]*KeyframeTrack
}

// NewAnimationClip builds a playable clip from imported keyframes.
//
// Keys of every channel are sorted by time. Keys sharing a timestamp collapse to the last one
// given and keys with a non-finite time are dropped. Rotation keys are normalized. The duration
// is derived from the latest key when the clip declares none and widened when the declared value
// ends before the last key. A missing rate uses defaultTPS, or DefaultTicksPerSecond when that is
// not positive either.
//
// Parameters:
//   - in: the imported clip
//   - defaultTPS: the ticks per second for clips that do not declare a rate
//
// Returns:
//   - *AnimationClip: the built clip
func NewAnimationClip(in ImportedClip, defaultTPS float32) *AnimationClip {
	clip := &AnimationClip{
		Name:           in.Name,
		TicksPerSecond: in.TicksPerSecond,
		Tracks:         make(map[string]*KeyframeTrack, len(in.Channels)),
	}
	if !(clip.TicksPerSecond > 0) || !common.IsFinite(clip.TicksPerSecond) {
		clip.TicksPerSecond = defaultTPS
		if !(clip.TicksPerSecond > 0) {
			clip.TicksPerSecond = DefaultTicksPerSecond
		}
	}

	var end float32
	for bone, ch := range in.Channels {
		if ch == nil {
			continue
		}
		track := &KeyframeTrack{
			Positions: cleanVectorKeys(ch.PositionKeys),
			Rotations: cleanQuatKeys(ch.RotationKeys),
			Scales:    cleanVectorKeys(ch.ScaleKeys),
		}
		if track.Empty() {
			continue
		}
		clip.Tracks[bone] = track
		if e := track.EndTime(); e > end {
			end = e
		}
	}

	clip.Duration = in.Duration
	if !common.IsFinite(clip.Duration) || clip.Duration < end {
		clip.Duration = end
	}
	return clip
}

// NewEmptyClip creates a clip with no tracks, which poses every bone at its bind pose.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - *AnimationClip: the empty clip
func NewEmptyClip(name string) *AnimationClip {
	return &AnimationClip{
		Name:           name,
		TicksPerSecond: DefaultTicksPerSecond,
		Tracks:         map[string]*KeyframeTrack{},
	}
}

// Track returns the keyframes of a bone, or nil when the clip does not animate it.
func (c *AnimationClip) Track(bone string) *KeyframeTrack {
	if c == nil {
		return nil
	}
	return c.Tracks[bone]
}

// DurationSeconds returns the clip length in seconds.
func (c *AnimationClip) DurationSeconds() float32 {
	if c.TicksPerSecond <= 0 {
		return 0
	}
	return c.Duration / c.TicksPerSecond
}

func cleanVectorKeys(keys []VectorKeyframe) []VectorKeyframe {
	out := make([]VectorKeyframe, 0, len(keys))
	for _, k := range keys {
		if common.IsFinite(k.Time) {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Time == out[i].Time {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	if n == 0 {
		return nil
	}
	return out[:n]
}

func cleanQuatKeys(keys []QuaternionKeyframe) []QuaternionKeyframe {
	out := make([]QuaternionKeyframe, 0, len(keys))
	for _, k := range keys {
		if common.IsFinite(k.Time) {
			out = append(out, QuaternionKeyframe{Time: k.Time, Value: k.Value.Normalize()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Time == out[i].Time {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	if n == 0 {
		return nil
	}
	return out[:n]
}
