package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewAnimationClipCleansKeys(t *testing.T) {
	in := ImportedClip{
		Name: "walk",
		Channels: map[string]*ImportedChannel{
			"hip": {
				PositionKeys: []VectorKeyframe{
					{Time: 2, Value: mgl32.Vec3{2, 0, 0}},
					{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
					{Time: 2, Value: mgl32.Vec3{3, 0, 0}},
					{Time: float32(math.NaN()), Value: mgl32.Vec3{9, 9, 9}},
				},
				RotationKeys: []QuaternionKeyframe{
					{Time: 1, Value: mgl32.Quat{W: 2}},
				},
			},
			"empty": {},
		},
	}

	clip := NewAnimationClip(in, 30)
	if clip.TicksPerSecond != 30 {
		t.Errorf("TicksPerSecond = %v; expected 30", clip.TicksPerSecond)
	}
	if clip.Duration != 2 {
		t.Errorf("Duration = %v; expected 2", clip.Duration)
	}
	if clip.Track("empty") != nil {
		t.Errorf("empty channel produced a track")
	}

	hip := clip.Track("hip")
	if hip == nil {
		t.Fatalf("missing hip track")
	}
	if len(hip.Positions) != 2 {
		t.Fatalf("positions = %v; expected 2 keys", hip.Positions)
	}
	if hip.Positions[0].Time != 0 || hip.Positions[1].Value != (mgl32.Vec3{3, 0, 0}) {
		t.Errorf("positions = %v; expected sorted with the last duplicate kept", hip.Positions)
	}
	if hip.Rotations[0].Value != mgl32.QuatIdent() {
		t.Errorf("rotation = %v; expected normalized identity", hip.Rotations[0].Value)
	}
}

func TestNewAnimationClipDuration(t *testing.T) {
	ch := map[string]*ImportedChannel{
		"a": {PositionKeys: []VectorKeyframe{{Time: 0}, {Time: 10}}},
	}

	tests := []struct {
		name     string
		declared float32
		want     float32
	}{
		{"derived", 0, 10},
		{"widened", 4, 10},
		{"kept", 24, 24},
		{"negative", -3, 10},
	}
	for _, tt := range tests {
		clip := NewAnimationClip(ImportedClip{Duration: tt.declared, Channels: ch}, 0)
		if clip.Duration != tt.want {
			t.Errorf("%s: Duration = %v; expected %v", tt.name, clip.Duration, tt.want)
		}
		if clip.TicksPerSecond != DefaultTicksPerSecond {
			t.Errorf("%s: TicksPerSecond = %v; expected %v", tt.name, clip.TicksPerSecond, DefaultTicksPerSecond)
		}
	}
}

func TestEmptyClip(t *testing.T) {
	clip := NewEmptyClip("bind_pose")
	if clip.Duration != 0 || len(clip.Tracks) != 0 {
		t.Errorf("empty clip has data: %+v", clip)
	}
	if clip.DurationSeconds() != 0 {
		t.Errorf("DurationSeconds = %v; expected 0", clip.DurationSeconds())
	}
}
