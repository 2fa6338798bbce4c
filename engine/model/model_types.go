package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Keyframe Types ---

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float32

	// Value is the rotation at this keyframe.
	Value mgl32.Quat
}

// --- Import Types ---

// ImportedNode is one node of a bone hierarchy as produced by an importer.
// Importers (glTF or any other format) hand the core a tree of these plus a map of
// bone offset matrices keyed by node name.
type ImportedNode struct {
	// Name is the node identifier. Weighted bones are matched to offsets by this name.
	Name string

	// LocalTransform is the bind-pose transform relative to the parent node.
	LocalTransform mgl32.Mat4

	// Children are the nodes parented to this one.
	Children []*ImportedNode
}

// ImportedChannel holds the raw keyframes targeting a single bone.
// Keys may arrive unsorted and with duplicate timestamps; NewAnimationClip cleans them up.
type ImportedChannel struct {
	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// ImportedClip is a single animation as produced by an importer.
type ImportedClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the clip length in ticks. Zero means derive it from the keyframes.
	Duration float32

	// TicksPerSecond is the playback rate. Zero means use the configured default.
	TicksPerSecond float32

	// Channels maps bone names to their keyframes.
	Channels map[string]*ImportedChannel
}

// ImportedModel represents a skinned model loaded from an external format.
// This is the universal format that importers produce before the core builds
// its skeleton and clips from it.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Root is the top of the bone hierarchy (nil for static models).
	Root *ImportedNode

	// Offsets are the bind-pose offset matrices of every weighted bone, keyed by bone name.
	Offsets map[string]mgl32.Mat4

	// Clips are all animation clips bundled with the model.
	Clips []ImportedClip
}
