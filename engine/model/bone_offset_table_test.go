package model

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func TestInsertIsIdempotent(t *testing.T) {
	table := NewBoneOffsetTable(4)

	first, err := table.Insert("hip")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := table.Insert("spine"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	again, err := table.Insert("hip")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if first != 0 || again != first {
		t.Errorf("hip indices %d, %d; expected 0, 0", first, again)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d; expected 2", table.Len())
	}
}

func TestInsertCapacityExceeded(t *testing.T) {
	table := NewBoneOffsetTable(3)
	for i := 0; i < 3; i++ {
		if _, err := table.Insert(fmt.Sprintf("bone_%d", i)); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	before := table.Names()

	idx, err := table.Insert("one_too_many")
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if idx != -1 {
		t.Errorf("index on failure = %d; expected -1", idx)
	}
	if table.Len() != 3 {
		t.Errorf("Len after failure = %d; expected 3", table.Len())
	}
	if _, ok := table.Find("one_too_many"); ok {
		t.Errorf("rejected bone is findable")
	}
	after := table.Names()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("name %d changed from %q to %q", i, before[i], after[i])
		}
	}

	// Known names still resolve on a full table.
	if idx, err := table.Insert("bone_1"); err != nil || idx != 1 {
		t.Errorf("Insert(bone_1) on full table = %d, %v; expected 1, nil", idx, err)
	}
}

func TestDefaultCapacity(t *testing.T) {
	table := NewBoneOffsetTable(0)
	if table.MaxBones() != DefaultMaxBones {
		t.Fatalf("MaxBones = %d; expected %d", table.MaxBones(), DefaultMaxBones)
	}
	for i := 0; i < DefaultMaxBones; i++ {
		if _, err := table.Insert(fmt.Sprintf("b%d", i)); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if _, err := table.Insert("b100"); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("101st bone: expected ErrCapacityExceeded, got %v", err)
	}
}

func TestFindAndOffsets(t *testing.T) {
	table := NewBoneOffsetTable(DefaultMaxBones)
	idx, _ := table.Insert("arm")

	if _, ok := table.Find("leg"); ok {
		t.Errorf("Find(leg) reported a missing bone")
	}
	if got := table.Offset(idx); got != mgl32.Ident4() {
		t.Errorf("new offset = %v; expected identity", got)
	}

	off := mgl32.Translate3D(0, -1, 0)
	if err := table.SetOffset(idx, off); err != nil {
		t.Fatalf("SetOffset: %v", err)
	}
	if got := table.Offset(idx); got != off {
		t.Errorf("Offset = %v; expected %v", got, off)
	}
	if err := table.SetOffset(5, off); !errors.Is(err, ErrBoneIndexOutOfRange) {
		t.Errorf("SetOffset(5): expected ErrBoneIndexOutOfRange, got %v", err)
	}
	if got := table.Offset(-1); got != mgl32.Ident4() {
		t.Errorf("Offset(-1) = %v; expected identity", got)
	}
}
