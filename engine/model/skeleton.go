package model

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// NoBone marks a hierarchy node that carries no skinning weight.
const NoBone int32 = -1

// BoneNode is one node of a skeleton hierarchy. Nodes own their children and hold no
// parent pointer; the hierarchy is only ever walked from the root down.
type BoneNode struct {
	// Name is the node identifier, matched against animation tracks.
	Name string

	// LocalTransform is the bind-pose transform relative to the parent node.
	LocalTransform mgl32.Mat4

	// BoneIndex is the node's index in the offset table, or NoBone for structural nodes.
	BoneIndex int32

	// Children are the nodes parented to this one.
	Children []*BoneNode

	order int
}

// IsBone reports whether the node writes an entry of the skinning array.
func (n *BoneNode) IsBone() bool {
	return n.BoneIndex != NoBone
}

// Order returns the node's position in a pre-order walk of its skeleton.
func (n *BoneNode) Order() int {
	return n.order
}

// Skeleton is an immutable bone hierarchy together with the offset table of its weighted bones.
// A Skeleton is shared read-only by every animator playing on it.
type Skeleton struct {
	root      *BoneNode
	offsets   *BoneOffsetTable
	nodes     map[string]*BoneNode
	nodeCount int
}

// NewSkeleton builds a Skeleton from an imported hierarchy and the offsets of its weighted bones.
//
// Weighted bones receive their indices in depth-first pre-order of the hierarchy, so the same
// input always yields the same layout. Offset names that no hierarchy node carries are appended
// afterwards in name order; they keep a slot in the skinning array but are never posed.
// An all-zero local transform on an imported node is read as identity.
//
// Parameters:
//   - root: the top of the imported hierarchy
//   - offsets: bind-pose offset matrices keyed by bone name
//   - maxBones: the capacity of the offset table (non-positive uses DefaultMaxBones)
//
// Returns:
//   - *Skeleton: the built skeleton
//   - error: ErrCapacityExceeded if there are more distinct weighted bones than maxBones
func NewSkeleton(root *ImportedNode, offsets map[string]mgl32.Mat4, maxBones int) (*Skeleton, error) {
	if root == nil {
		return nil, ErrNilHierarchy
	}

	s := &Skeleton{
		offsets: NewBoneOffsetTable(maxBones),
		nodes:   make(map[string]*BoneNode),
	}

	var err error
	s.root, err = s.buildNode(root, offsets)
	if err != nil {
		return nil, err
	}

	orphans := make([]string, 0)
	for name := range offsets {
		if _, ok := s.offsets.Find(name); !ok {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		idx, err := s.offsets.Insert(name)
		if err != nil {
			return nil, err
		}
		if err := s.offsets.SetOffset(idx, offsets[name]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Skeleton) buildNode(in *ImportedNode, offsets map[string]mgl32.Mat4) (*BoneNode, error) {
	local := in.LocalTransform
	if local == (mgl32.Mat4{}) {
		local = mgl32.Ident4()
	}

	node := &BoneNode{
		Name:           in.Name,
		LocalTransform: local,
		BoneIndex:      NoBone,
		order:          s.nodeCount,
	}
	s.nodeCount++
	if _, dup := s.nodes[in.Name]; !dup {
		s.nodes[in.Name] = node
	}

	if offset, weighted := offsets[in.Name]; weighted {
		idx, err := s.offsets.Insert(in.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "build skeleton at node %q", in.Name)
		}
		if err := s.offsets.SetOffset(idx, offset); err != nil {
			return nil, err
		}
		node.BoneIndex = idx
	}

	if len(in.Children) > 0 {
		node.Children = make([]*BoneNode, 0, len(in.Children))
	}
	for _, child := range in.Children {
		if child == nil {
			continue
		}
		c, err := s.buildNode(child, offsets)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, c)
	}
	return node, nil
}

// Root returns the top of the hierarchy.
func (s *Skeleton) Root() *BoneNode {
	return s.root
}

// Offsets returns the offset table of the weighted bones.
func (s *Skeleton) Offsets() *BoneOffsetTable {
	return s.offsets
}

// BoneCount returns the number of weighted bones, which is the length of the skinning array.
func (s *Skeleton) BoneCount() int {
	return s.offsets.Len()
}

// NodeCount returns the number of hierarchy nodes, weighted or not.
func (s *Skeleton) NodeCount() int {
	return s.nodeCount
}

// Node looks up a hierarchy node by name. With duplicate names the first node in pre-order wins.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - *BoneNode: the node, or nil
//   - bool: true if the node exists
func (s *Skeleton) Node(name string) (*BoneNode, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Walk visits every node in depth-first pre-order, passing the node and its depth.
// Returning false from fn skips the node's children.
//
// Parameters:
//   - fn: the visitor
func (s *Skeleton) Walk(fn func(node *BoneNode, depth int) bool) {
	var visit func(n *BoneNode, depth int)
	visit = func(n *BoneNode, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(s.root, 0)
}
