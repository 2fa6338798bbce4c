package model

import "github.com/pkg/errors"

var (
	// ErrCapacityExceeded is returned when a skeleton would hold more distinct bones than its table allows.
	ErrCapacityExceeded = errors.New("bone capacity exceeded")

	// ErrMissingAnimationData reports that an imported asset carries no animation clips.
	// The importer still produces an empty clip so that playback falls back to the bind pose.
	ErrMissingAnimationData = errors.New("missing animation data")

	// ErrBoneIndexOutOfRange is returned when a bone index does not address an entry of the offset table.
	ErrBoneIndexOutOfRange = errors.New("bone index out of range")

	// ErrNilHierarchy is returned when a skeleton is built without a root node.
	ErrNilHierarchy = errors.New("nil bone hierarchy")
)
