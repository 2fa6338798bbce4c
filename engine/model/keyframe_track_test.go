package model

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSampleEmptyTrackIsIdentity(t *testing.T) {
	var track KeyframeTrack
	pos, rot, scale := track.Sample(3)
	if pos != (mgl32.Vec3{}) || rot != mgl32.QuatIdent() || scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Sample = %v %v %v; expected identity", pos, rot, scale)
	}
	if track.LocalTransform(3) != mgl32.Ident4() {
		t.Errorf("LocalTransform of empty track is not identity")
	}
}

func TestSampleSingleKeyIsConstant(t *testing.T) {
	track := KeyframeTrack{
		Positions: []VectorKeyframe{{Time: 5, Value: mgl32.Vec3{1, 2, 3}}},
		Rotations: []QuaternionKeyframe{{Time: 5, Value: mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})}},
		Scales:    []VectorKeyframe{{Time: 5, Value: mgl32.Vec3{2, 2, 2}}},
	}

	first := track.LocalTransform(0)
	for _, at := range []float32{-10, 0, 5, 7.5, 1000} {
		if got := track.LocalTransform(at); !got.ApproxEqualThreshold(first, 1e-6) {
			t.Errorf("t=%v: %v; expected %v", at, got, first)
		}
	}
}

func TestSampleBoundaryExactness(t *testing.T) {
	keys := []VectorKeyframe{
		{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		{Time: 1, Value: mgl32.Vec3{1, 0, 0}},
		{Time: 3, Value: mgl32.Vec3{1, 4, 0}},
		{Time: 4, Value: mgl32.Vec3{-2, 0, 9}},
	}
	rots := []QuaternionKeyframe{
		{Time: 0, Value: mgl32.QuatIdent()},
		{Time: 2, Value: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})},
		{Time: 4, Value: mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0})},
	}
	track := KeyframeTrack{Positions: keys, Scales: keys, Rotations: rots}

	for _, k := range keys {
		pos, _, scale := track.Sample(k.Time)
		if pos != k.Value || scale != k.Value {
			t.Errorf("t=%v: position %v scale %v; expected %v", k.Time, pos, scale, k.Value)
		}
	}
	for _, k := range rots {
		_, rot, _ := track.Sample(k.Time)
		if !rot.ApproxEqualThreshold(k.Value, 1e-6) {
			t.Errorf("t=%v: rotation %v; expected %v", k.Time, rot, k.Value)
		}
	}
}

func TestSampleInterpolatesAndClamps(t *testing.T) {
	track := KeyframeTrack{
		Positions: []VectorKeyframe{
			{Time: 1, Value: mgl32.Vec3{0, 0, 0}},
			{Time: 3, Value: mgl32.Vec3{4, 0, 0}},
		},
	}

	tests := []struct {
		at   float32
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{0, 0, 0}},
		{1.5, mgl32.Vec3{1, 0, 0}},
		{2, mgl32.Vec3{2, 0, 0}},
		{3, mgl32.Vec3{4, 0, 0}},
		{9, mgl32.Vec3{4, 0, 0}},
	}
	for _, tt := range tests {
		pos, _, _ := track.Sample(tt.at)
		if !pos.ApproxEqualThreshold(tt.want, 1e-6) {
			t.Errorf("t=%v: %v; expected %v", tt.at, pos, tt.want)
		}
	}
}

func TestSampleDegenerateInterval(t *testing.T) {
	track := KeyframeTrack{
		Positions: []VectorKeyframe{
			{Time: 2, Value: mgl32.Vec3{1, 1, 1}},
			{Time: 2, Value: mgl32.Vec3{5, 5, 5}},
		},
	}
	pos, _, _ := track.Sample(2)
	if pos != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("degenerate interval sampled %v; expected the first key", pos)
	}
}

func TestSampleRotationIsUnitLength(t *testing.T) {
	axis := mgl32.Vec3{1, 1, 0}.Normalize()
	track := KeyframeTrack{
		Rotations: []QuaternionKeyframe{
			{Time: 0, Value: mgl32.QuatIdent()},
			{Time: 1, Value: mgl32.QuatRotate(mgl32.DegToRad(120), axis)},
			{Time: 2, Value: mgl32.QuatRotate(mgl32.DegToRad(-170), mgl32.Vec3{0, 0, 1})},
			{Time: 3, Value: mgl32.QuatRotate(mgl32.DegToRad(10), mgl32.Vec3{0, 1, 0}).Scale(-1)},
		},
	}

	for i := 0; i <= 300; i++ {
		at := float32(i) / 100
		_, rot, _ := track.Sample(at)
		if !mgl32.FloatEqualThreshold(rot.Len(), 1, 1e-5) {
			t.Fatalf("t=%v: |q| = %v\n%s", at, rot.Len(), spew.Sdump(rot))
		}
	}
}
