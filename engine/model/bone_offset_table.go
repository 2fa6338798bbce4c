package model

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DefaultMaxBones is the bone capacity used when none is configured.
// It matches the size of the skinning array the vertex shader declares.
const DefaultMaxBones = 100

// BoneOffsetTable assigns each weighted bone a dense, stable index and stores its
// bind-pose offset matrix (mesh space to bone space).
//
// The table is filled once at import time and is read-only afterwards, so it can be
// shared between any number of animators without locking.
type BoneOffsetTable struct {
	maxBones int
	index    map[string]int32
	names    []string
	offsets  []mgl32.Mat4
}

// NewBoneOffsetTable creates an empty table that accepts up to maxBones distinct names.
// A non-positive maxBones falls back to DefaultMaxBones.
//
// Parameters:
//   - maxBones: the maximum number of distinct bones
//
// Returns:
//   - *BoneOffsetTable: the empty table
func NewBoneOffsetTable(maxBones int) *BoneOffsetTable {
	if maxBones <= 0 {
		maxBones = DefaultMaxBones
	}
	return &BoneOffsetTable{
		maxBones: maxBones,
		index:    make(map[string]int32),
	}
}

// Insert returns the index of name, allocating the next dense index if the name is new.
// New entries start with an identity offset. Inserting a known name never fails and
// never changes the table. When the table is full the table is left untouched and
// ErrCapacityExceeded is returned.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - int32: the bone index, or -1 on failure
//   - error: ErrCapacityExceeded if a new name does not fit
func (t *BoneOffsetTable) Insert(name string) (int32, error) {
	if idx, ok := t.index[name]; ok {
		return idx, nil
	}
	if len(t.names) >= t.maxBones {
		return -1, errors.Wrapf(ErrCapacityExceeded, "bone %q: table holds %d of %d bones", name, len(t.names), t.maxBones)
	}

	idx := int32(len(t.names))
	t.index[name] = idx
	t.names = append(t.names, name)
	t.offsets = append(t.offsets, mgl32.Ident4())
	return idx, nil
}

// Find looks up the index of a bone. A missing name is not an error.
//
// Parameters:
//   - name: the bone name
//
// Returns:
//   - int32: the bone index, or -1 when absent
//   - bool: true if the name is in the table
func (t *BoneOffsetTable) Find(name string) (int32, bool) {
	idx, ok := t.index[name]
	if !ok {
		return -1, false
	}
	return idx, true
}

// Offset returns the offset matrix of the bone at index, or identity when the index is out of range.
func (t *BoneOffsetTable) Offset(index int32) mgl32.Mat4 {
	if index < 0 || int(index) >= len(t.offsets) {
		return mgl32.Ident4()
	}
	return t.offsets[index]
}

// SetOffset stores the offset matrix of the bone at index. Only importers call this.
//
// Parameters:
//   - index: the bone index returned by Insert
//   - m: the bind-pose offset matrix
//
// Returns:
//   - error: ErrBoneIndexOutOfRange if index does not address an entry
func (t *BoneOffsetTable) SetOffset(index int32, m mgl32.Mat4) error {
	if index < 0 || int(index) >= len(t.offsets) {
		return errors.Wrapf(ErrBoneIndexOutOfRange, "index %d of %d", index, len(t.offsets))
	}
	t.offsets[index] = m
	return nil
}

// Len returns the number of bones in the table.
func (t *BoneOffsetTable) Len() int {
	return len(t.names)
}

// MaxBones returns the capacity of the table.
func (t *BoneOffsetTable) MaxBones() int {
	return t.maxBones
}

// Names returns the bone names in index order.
func (t *BoneOffsetTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
