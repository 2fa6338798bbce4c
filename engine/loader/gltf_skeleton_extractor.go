package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// skeletonRootName names the synthesized root used when a skin's joints live under several top-level nodes.
const skeletonRootName = "skeleton_root"

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor defines the interface for extracting bone hierarchies from a parsed glTF document.
// It converts a glTF skin into an ImportedNode tree plus a map of inverse bind matrices keyed by joint name.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts the hierarchy and offsets of a skin by index.
	// The hierarchy is rooted at the topmost ancestor of the skin's joints, so structural
	// parents that are not joints still contribute their transforms.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - *model.ImportedNode: the hierarchy root
	//   - map[string]mgl32.Mat4: inverse bind matrices keyed by joint name
	//   - error: error if the skin is missing or malformed
	ExtractSkeleton(skinIndex int) (*model.ImportedNode, map[string]mgl32.Mat4, error)

	// FindSkinForMesh finds which skin is bound to a node that instances the mesh.
	// Returns -1 if no skin is found.
	//
	// Parameters:
	//   - meshIndex: the mesh index to find a skin for
	//
	// Returns:
	//   - int: the skin index, or -1 if none
	FindSkinForMesh(meshIndex int) int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*model.ImportedNode, map[string]mgl32.Mat4, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, errors.New("no gltf document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) || doc.Skins[skinIndex] == nil {
		return nil, nil, errors.Errorf("skin index %d out of range (%d skins)", skinIndex, len(doc.Skins))
	}

	skin := doc.Skins[skinIndex]
	if len(skin.Joints) == 0 {
		return nil, nil, errors.Errorf("skin %d has no joints", skinIndex)
	}
	for _, j := range skin.Joints {
		if int(j) >= len(doc.Nodes) {
			return nil, nil, errors.Errorf("skin %d: joint node %d out of range", skinIndex, j)
		}
	}

	offsets, err := e.readOffsets(skin)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "skin %d", skinIndex)
	}

	roots := gltfJointRoots(doc, skin.Joints)
	visited := make(map[uint32]bool, len(doc.Nodes))

	if len(roots) == 1 {
		root, err := e.buildNode(doc, roots[0], visited)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "skin %d", skinIndex)
		}
		return root, offsets, nil
	}

	root := &model.ImportedNode{
		Name:           skeletonRootName,
		LocalTransform: mgl32.Ident4(),
	}
	for _, r := range roots {
		child, err := e.buildNode(doc, r, visited)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "skin %d", skinIndex)
		}
		root.Children = append(root.Children, child)
	}
	return root, offsets, nil
}

func (e *gltfSkeletonExtractorImpl) FindSkinForMesh(meshIndex int) int {
	doc := e.parser.Document()
	if doc == nil {
		return -1
	}
	for _, n := range doc.Nodes {
		if n == nil || n.Mesh == nil || n.Skin == nil {
			continue
		}
		if int(*n.Mesh) == meshIndex && int(*n.Skin) < len(doc.Skins) {
			return int(*n.Skin)
		}
	}
	return -1
}

// readOffsets maps each joint name to its inverse bind matrix.
// Skins without inverse bind matrices use identity offsets.
func (e *gltfSkeletonExtractorImpl) readOffsets(skin *gltf.Skin) (map[string]mgl32.Mat4, error) {
	offsets := make(map[string]mgl32.Mat4, len(skin.Joints))

	var ibms []mgl32.Mat4
	if skin.InverseBindMatrices != nil {
		var err error
		ibms, err = e.parser.ReadMat4Accessor(*skin.InverseBindMatrices)
		if err != nil {
			return nil, errors.Wrap(err, "inverse bind matrices")
		}
		if len(ibms) < len(skin.Joints) {
			return nil, errors.Errorf("inverse bind matrices: %d matrices for %d joints", len(ibms), len(skin.Joints))
		}
	}

	for i, j := range skin.Joints {
		m := mgl32.Ident4()
		if ibms != nil {
			m = ibms[i]
		}
		offsets[e.parser.NodeName(j)] = m
	}
	return offsets, nil
}

// buildNode converts a glTF node and its descendants into an ImportedNode tree.
func (e *gltfSkeletonExtractorImpl) buildNode(doc *gltf.Document, index uint32, visited map[uint32]bool) (*model.ImportedNode, error) {
	if int(index) >= len(doc.Nodes) || doc.Nodes[index] == nil {
		return nil, errors.Errorf("node %d out of range", index)
	}
	if visited[index] {
		return nil, errors.Errorf("node %d reached twice; node graph is not a tree", index)
	}
	visited[index] = true

	n := doc.Nodes[index]
	out := &model.ImportedNode{
		Name:           e.parser.NodeName(index),
		LocalTransform: gltfNodeTransform(n),
	}
	for _, c := range n.Children {
		child, err := e.buildNode(doc, c, visited)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

// gltfJointRoots returns the distinct topmost ancestors of the joints, in joint order.
func gltfJointRoots(doc *gltf.Document, joints []uint32) []uint32 {
	parents := make(map[uint32]uint32, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			parents[c] = uint32(i)
		}
	}

	var roots []uint32
	seen := make(map[uint32]bool)
	for _, j := range joints {
		r := j
		// Bounded by the node count so a malformed parent cycle cannot spin forever.
		for steps := 0; steps < len(doc.Nodes); steps++ {
			p, ok := parents[r]
			if !ok {
				break
			}
			r = p
		}
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	return roots
}

// gltfNodeTransform returns a node's local transform from its matrix or its TRS properties.
// Zero-valued rotation and scale are read as their glTF defaults.
func gltfNodeTransform(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t := mgl32.Vec3(n.Translation)

	r := mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}
	if r.Len() == 0 {
		r = mgl32.QuatIdent()
	}

	s := mgl32.Vec3(n.Scale)
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}

	return common.ComposeTRS(t, r.Normalize(), s)
}
