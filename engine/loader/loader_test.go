package loader

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// mat4Columns converts an mgl32 matrix to the column arrays modeler writes for MAT4 accessors.
func mat4Columns(m mgl32.Mat4) [4][4]float32 {
	var out [4][4]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}

// riggedDocument builds a two-joint rig: root at the origin and spine one unit above it,
// with a one second clip moving spine from y=1 to y=2 and turning it 90° about Z.
func riggedDocument(t *testing.T, withAnimation bool) *gltf.Document {
	t.Helper()

	doc := &gltf.Document{
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Name: "rig", Nodes: []uint32{0}}},
		Nodes: []*gltf.Node{
			{Name: "root", Children: []uint32{1}},
			{Name: "spine", Translation: [3]float32{0, 1, 0}},
		},
	}

	ibm := modeler.WriteAccessor(doc, gltf.TargetNone, [][4][4]float32{
		mat4Columns(mgl32.Ident4()),
		mat4Columns(mgl32.Translate3D(0, -1, 0)),
	})
	doc.Skins = []*gltf.Skin{{
		Name:                "armature",
		Joints:              []uint32{0, 1},
		InverseBindMatrices: gltf.Index(ibm),
	}}

	if withAnimation {
		half := float32(0.70710677)
		times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
		translations := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 1, 0}, {0, 2, 0}})
		rotations := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {0, 0, half, half}})

		doc.Animations = []*gltf.Animation{{
			Name: "walk",
			Samplers: []*gltf.AnimationSampler{
				{Input: gltf.Index(times), Output: gltf.Index(translations)},
				{Input: gltf.Index(times), Output: gltf.Index(rotations)},
			},
			Channels: []*gltf.Channel{
				{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation}},
				{Sampler: gltf.Index(1), Target: gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSRotation}},
			},
		}}
	}
	return doc
}

func TestLoadDocument_SkeletonAndClip(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	m, err := l.LoadDocument("rig", riggedDocument(t, true))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if m.Name() != "rig" {
		t.Errorf("model name = %q; expected %q", m.Name(), "rig")
	}
	if !m.Skinned() {
		t.Fatalf("model is not skinned")
	}

	sk := m.Skeleton()
	if sk.BoneCount() != 2 {
		t.Fatalf("BoneCount = %d; expected 2", sk.BoneCount())
	}
	for want, name := range []string{"root", "spine"} {
		idx, ok := sk.Offsets().Find(name)
		if !ok || idx != int32(want) {
			t.Errorf("Find(%q) = %d, %v; expected %d, true", name, idx, ok, want)
		}
	}

	spine, ok := sk.Node("spine")
	if !ok {
		t.Fatalf("spine node missing")
	}
	if !spine.LocalTransform.ApproxEqualThreshold(mgl32.Translate3D(0, 1, 0), 1e-6) {
		t.Errorf("spine local = %v; expected translate(0,1,0)", spine.LocalTransform)
	}
	if off := sk.Offsets().Offset(1); !off.ApproxEqualThreshold(mgl32.Translate3D(0, -1, 0), 1e-6) {
		t.Errorf("spine offset = %v; expected translate(0,-1,0)", off)
	}

	clip, ok := m.Animation("walk")
	if !ok {
		t.Fatalf("walk clip missing; have %v", m.AnimationNames())
	}
	if clip.TicksPerSecond != 1 || clip.Duration != 1 {
		t.Errorf("clip tps/duration = %v/%v; expected 1/1", clip.TicksPerSecond, clip.Duration)
	}

	track := clip.Track("spine")
	if track == nil {
		t.Fatalf("spine track missing:\n%s", spew.Sdump(clip.Tracks))
	}
	if len(track.Positions) != 2 || len(track.Rotations) != 2 || len(track.Scales) != 0 {
		t.Errorf("spine track key counts = %d/%d/%d; expected 2/2/0",
			len(track.Positions), len(track.Rotations), len(track.Scales))
	}
	if clip.Track("root") != nil {
		t.Errorf("root should not be animated")
	}

	pos, rot, _ := track.Sample(1)
	if !pos.ApproxEqualThreshold(mgl32.Vec3{0, 2, 0}, 1e-6) {
		t.Errorf("position at end = %v; expected (0,2,0)", pos)
	}
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	if !rot.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("rotation at end = %v; expected %v", rot, want)
	}
}

func TestLoadDocument_NoAnimations(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	m, err := l.LoadDocument("static", riggedDocument(t, false))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if m.AnimationCount() != 1 {
		t.Fatalf("AnimationCount = %d; expected 1", m.AnimationCount())
	}
	clip, ok := m.Animation(BindPoseClipName)
	if !ok {
		t.Fatalf("bind pose clip missing; have %v", m.AnimationNames())
	}
	if len(clip.Tracks) != 0 || clip.Duration != 0 {
		t.Errorf("bind pose clip should be empty:\n%s", spew.Sdump(clip))
	}
}

func TestLoadDocument_CapacityExceeded(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithMaxBones(1))

	_, err := l.LoadDocument("rig", riggedDocument(t, true))
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("err = %v; expected ErrCapacityExceeded", err)
	}
	if l.Get("rig") != nil {
		t.Errorf("failed load should not be cached")
	}
}

func TestLoadDocument_Cache(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	first, err := l.LoadDocument("rig", riggedDocument(t, true))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	second, err := l.LoadDocument("rig", riggedDocument(t, false))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if first != second {
		t.Errorf("second load should return the cached model")
	}
	if l.Get("rig") != first {
		t.Errorf("Get should return the cached model")
	}
	if n := len(l.Models()); n != 1 {
		t.Errorf("Models() len = %d; expected 1", n)
	}
}

func TestLoadReader_GLB(t *testing.T) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(riggedDocument(t, true)); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("stream", &buf)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	if m.Skeleton().BoneCount() != 2 {
		t.Errorf("BoneCount = %d; expected 2", m.Skeleton().BoneCount())
	}
	if _, ok := m.Animation("walk"); !ok {
		t.Errorf("walk clip missing; have %v", m.AnimationNames())
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	if _, err := l.Load("model.fbx"); err == nil {
		t.Errorf("expected an error for an unsupported extension")
	}
}

func TestLoadDocument_CachedModelOption(t *testing.T) {
	pre := model.NewModel(model.WithName("prebuilt"))
	l := NewLoader(BackendTypeGLTF, WithModel("prebuilt", pre))

	m, err := l.LoadDocument("prebuilt", riggedDocument(t, true))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if m != pre {
		t.Errorf("expected the pre-populated model")
	}
}

func TestSkeletonExtractor_MultipleRoots(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "left"},
			{Translation: [3]float32{2, 0, 0}},
		},
	}
	doc.Skins = []*gltf.Skin{{Joints: []uint32{0, 1}}}

	parser := newGLTFParser()
	parser.SetDocument(doc)

	root, offsets, err := newGLTFSkeletonExtractor(parser).ExtractSkeleton(0)
	if err != nil {
		t.Fatalf("ExtractSkeleton: %v", err)
	}

	if root.Name != skeletonRootName || len(root.Children) != 2 {
		t.Fatalf("expected a synthesized root with 2 children:\n%s", spew.Sdump(root))
	}
	if root.Children[1].Name != "node_1" {
		t.Errorf("unnamed node = %q; expected node_1", root.Children[1].Name)
	}
	if !root.Children[1].LocalTransform.ApproxEqualThreshold(mgl32.Translate3D(2, 0, 0), 1e-6) {
		t.Errorf("node_1 local = %v; expected translate(2,0,0)", root.Children[1].LocalTransform)
	}
	for _, name := range []string{"left", "node_1"} {
		if m, ok := offsets[name]; !ok || m != mgl32.Ident4() {
			t.Errorf("offset %q = %v, %v; expected identity", name, m, ok)
		}
	}
}

func TestSkeletonExtractor_StructuralParent(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "armature", Children: []uint32{1}, Scale: [3]float32{2, 2, 2}},
			{Name: "hip"},
		},
	}
	doc.Skins = []*gltf.Skin{{Joints: []uint32{1}}}

	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadDocument("armature", doc)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	sk := m.Skeleton()
	if sk.Root().Name != "armature" || sk.Root().IsBone() {
		t.Errorf("root = %q (bone %v); expected unweighted armature", sk.Root().Name, sk.Root().IsBone())
	}
	if sk.BoneCount() != 1 {
		t.Errorf("BoneCount = %d; expected 1", sk.BoneCount())
	}
	if !sk.Root().LocalTransform.ApproxEqualThreshold(mgl32.Scale3D(2, 2, 2), 1e-6) {
		t.Errorf("armature local = %v; expected scale(2)", sk.Root().LocalTransform)
	}
}

func TestParser_DuplicateNames(t *testing.T) {
	parser := newGLTFParser()
	parser.SetDocument(&gltf.Document{
		Nodes: []*gltf.Node{{Name: "bone"}, {Name: "bone"}, {}},
	})

	tests := []struct {
		index uint32
		want  string
	}{
		{0, "bone"},
		{1, "bone_1"},
		{2, "node_2"},
		{9, "node_9"},
	}
	for _, tt := range tests {
		if got := parser.NodeName(tt.index); got != tt.want {
			t.Errorf("NodeName(%d) = %q; expected %q", tt.index, got, tt.want)
		}
	}
}

func TestParser_GeneratedNamesStayUnique(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		want  []string
	}{
		{"suffix already taken", []string{"x", "x_2", "x"}, []string{"x", "x_2", "x_3"}},
		{"unnamed collides with explicit", []string{"node_1", ""}, []string{"node_1", "node_1_1"}},
		{"later explicit collides with generated", []string{"arm", "arm", "arm_1"}, []string{"arm", "arm_1", "arm_1_2"}},
	}
	for _, tt := range tests {
		doc := &gltf.Document{}
		for _, n := range tt.nodes {
			doc.Nodes = append(doc.Nodes, &gltf.Node{Name: n})
		}
		parser := newGLTFParser()
		parser.SetDocument(doc)

		seen := make(map[string]bool)
		for i, want := range tt.want {
			got := parser.NodeName(uint32(i))
			if got != want {
				t.Errorf("%s: NodeName(%d) = %q; expected %q", tt.name, i, got, want)
			}
			if seen[got] {
				t.Errorf("%s: name %q assigned twice", tt.name, got)
			}
			seen[got] = true
		}
	}
}

func TestAnimationExtractor_CubicSplineAndWeights(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{{Name: "bone"}},
	}
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	// in-tangent, value, out-tangent per key
	values := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{
		{9, 9, 9}, {1, 0, 0}, {9, 9, 9},
		{9, 9, 9}, {3, 0, 0}, {9, 9, 9},
	})
	weights := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	doc.Animations = []*gltf.Animation{{
		Samplers: []*gltf.AnimationSampler{
			{Input: gltf.Index(times), Output: gltf.Index(values), Interpolation: gltf.InterpolationCubicSpline},
			{Input: gltf.Index(times), Output: gltf.Index(weights)},
		},
		Channels: []*gltf.Channel{
			{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSScale}},
			{Sampler: gltf.Index(1), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSWeights}},
		},
	}}

	parser := newGLTFParser()
	parser.SetDocument(doc)

	clip, err := newGLTFAnimationExtractor(parser).ExtractAnimation(0)
	if err != nil {
		t.Fatalf("ExtractAnimation: %v", err)
	}

	if clip.Name != "animation_0" {
		t.Errorf("clip name = %q; expected animation_0", clip.Name)
	}
	if clip.Duration != 2 {
		t.Errorf("duration = %v; expected 2", clip.Duration)
	}
	ch := clip.Channels["bone"]
	if ch == nil || len(ch.ScaleKeys) != 2 {
		t.Fatalf("expected 2 scale keys:\n%s", spew.Sdump(clip))
	}
	if ch.ScaleKeys[0].Value != (mgl32.Vec3{1, 0, 0}) || ch.ScaleKeys[1].Value != (mgl32.Vec3{3, 0, 0}) {
		t.Errorf("cubic spline values = %v, %v; expected the middle element of each triple",
			ch.ScaleKeys[0].Value, ch.ScaleKeys[1].Value)
	}
}

func TestAnimationExtractor_BadSampler(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{{Name: "bone"}},
		Animations: []*gltf.Animation{{
			Name: "broken",
			Channels: []*gltf.Channel{
				{Sampler: gltf.Index(3), Target: gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSTranslation}},
			},
		}},
	}

	parser := newGLTFParser()
	parser.SetDocument(doc)

	if _, err := newGLTFAnimationExtractor(parser).ExtractAnimation(0); err == nil {
		t.Errorf("expected an error for an out of range sampler")
	}
}
