package loader

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	doc *gltf.Document

	// names caches the unique node names derived from the document.
	names []string
}

// gltfParser defines the interface for decoding glTF/GLB documents and reading typed accessor data.
// Accessor reads go through the modeler package so that binary buffers, sparse accessors and
// normalized integer components are handled uniformly.
type gltfParser interface {
	// Parse opens and decodes a glTF or GLB file from disk.
	// External buffers are resolved relative to the file.
	//
	// Parameters:
	//   - path: the file path to the glTF/GLB file
	//
	// Returns:
	//   - error: error if the file cannot be opened or decoded
	Parse(path string) error

	// ParseReader decodes a self-contained glTF or GLB document from a stream.
	// The decoder detects the binary container from the magic header.
	//
	// Parameters:
	//   - r: the reader providing document data
	//
	// Returns:
	//   - error: error if decoding fails
	ParseReader(r io.Reader) error

	// SetDocument installs an already decoded document.
	//
	// Parameters:
	//   - doc: the document to use
	SetDocument(doc *gltf.Document)

	// Document returns the decoded document, or nil before parsing.
	//
	// Returns:
	//   - *gltf.Document: the current document
	Document() *gltf.Document

	// NodeName returns a unique, non-empty name for a node index.
	// Unnamed nodes are called node_<index>; repeated names get the node index appended.
	//
	// Parameters:
	//   - index: the node index
	//
	// Returns:
	//   - string: the node name
	NodeName(index uint32) string

	// ReadScalarAccessor reads a SCALAR float accessor.
	//
	// Parameters:
	//   - index: the accessor index
	//
	// Returns:
	//   - []float32: the accessor values
	//   - error: error if the accessor is missing or has the wrong layout
	ReadScalarAccessor(index uint32) ([]float32, error)

	// ReadVec3Accessor reads a VEC3 float accessor.
	//
	// Parameters:
	//   - index: the accessor index
	//
	// Returns:
	//   - []mgl32.Vec3: the accessor values
	//   - error: error if the accessor is missing or has the wrong layout
	ReadVec3Accessor(index uint32) ([]mgl32.Vec3, error)

	// ReadQuatAccessor reads a VEC4 accessor as (x, y, z, w) quaternions.
	// Normalized integer components are converted to floats.
	//
	// Parameters:
	//   - index: the accessor index
	//
	// Returns:
	//   - []mgl32.Quat: the accessor values
	//   - error: error if the accessor is missing or has the wrong layout
	ReadQuatAccessor(index uint32) ([]mgl32.Quat, error)

	// ReadMat4Accessor reads a MAT4 float accessor.
	//
	// Parameters:
	//   - index: the accessor index
	//
	// Returns:
	//   - []mgl32.Mat4: the accessor values in column-major order
	//   - error: error if the accessor is missing or has the wrong layout
	ReadMat4Accessor(index uint32) ([]mgl32.Mat4, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser with no document loaded.
//
// Returns:
//   - gltfParser: the parser
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Parse(path string) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open gltf %q", path)
	}
	p.SetDocument(doc)
	return nil
}

func (p *gltfParserImpl) ParseReader(r io.Reader) error {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return errors.Wrap(err, "decode gltf")
	}
	p.SetDocument(doc)
	return nil
}

func (p *gltfParserImpl) SetDocument(doc *gltf.Document) {
	p.doc = doc
	p.names = nil
	if doc == nil {
		return
	}

	p.names = make([]string, len(doc.Nodes))
	seen := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		name := ""
		if n != nil {
			name = n.Name
		}
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		if seen[name] {
			base := name
			for k := i; seen[name]; k++ {
				name = fmt.Sprintf("%s_%d", base, k)
			}
		}
		seen[name] = true
		p.names[i] = name
	}
}

func (p *gltfParserImpl) Document() *gltf.Document {
	return p.doc
}

func (p *gltfParserImpl) NodeName(index uint32) string {
	if int(index) < len(p.names) {
		return p.names[index]
	}
	return fmt.Sprintf("node_%d", index)
}

func (p *gltfParserImpl) ReadScalarAccessor(index uint32) ([]float32, error) {
	data, err := p.readAccessor(index, gltf.AccessorScalar)
	if err != nil {
		return nil, err
	}
	values, ok := data.([]float32)
	if !ok {
		return nil, errors.Errorf("accessor %d: expected float scalars, got %T", index, data)
	}
	return values, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(index uint32) ([]mgl32.Vec3, error) {
	data, err := p.readAccessor(index, gltf.AccessorVec3)
	if err != nil {
		return nil, err
	}
	values, ok := data.([][3]float32)
	if !ok {
		return nil, errors.Errorf("accessor %d: expected float vec3, got %T", index, data)
	}

	result := make([]mgl32.Vec3, len(values))
	for i, v := range values {
		result[i] = mgl32.Vec3(v)
	}
	return result, nil
}

func (p *gltfParserImpl) ReadQuatAccessor(index uint32) ([]mgl32.Quat, error) {
	data, err := p.readAccessor(index, gltf.AccessorVec4)
	if err != nil {
		return nil, err
	}

	var raw [][4]float32
	switch v := data.(type) {
	case [][4]float32:
		raw = v
	case [][4]int8:
		raw = normalizeVec4(v, func(c int8) float32 { return max(float32(c)/127, -1) })
	case [][4]uint8:
		raw = normalizeVec4(v, func(c uint8) float32 { return float32(c) / 255 })
	case [][4]int16:
		raw = normalizeVec4(v, func(c int16) float32 { return max(float32(c)/32767, -1) })
	case [][4]uint16:
		raw = normalizeVec4(v, func(c uint16) float32 { return float32(c) / 65535 })
	default:
		return nil, errors.Errorf("accessor %d: unsupported vec4 layout %T", index, data)
	}

	result := make([]mgl32.Quat, len(raw))
	for i, q := range raw {
		result[i] = mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
	}
	return result, nil
}

func (p *gltfParserImpl) ReadMat4Accessor(index uint32) ([]mgl32.Mat4, error) {
	data, err := p.readAccessor(index, gltf.AccessorMat4)
	if err != nil {
		return nil, err
	}
	values, ok := data.([][4][4]float32)
	if !ok {
		return nil, errors.Errorf("accessor %d: expected float mat4, got %T", index, data)
	}

	result := make([]mgl32.Mat4, len(values))
	for i, m := range values {
		// Each inner array is one column.
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				result[i][c*4+r] = m[c][r]
			}
		}
	}
	return result, nil
}

// readAccessor validates the accessor index and type before decoding it through modeler.
func (p *gltfParserImpl) readAccessor(index uint32, want gltf.AccessorType) (any, error) {
	if p.doc == nil {
		return nil, errors.New("no gltf document loaded")
	}
	if int(index) >= len(p.doc.Accessors) || p.doc.Accessors[index] == nil {
		return nil, errors.Errorf("accessor %d out of range (%d accessors)", index, len(p.doc.Accessors))
	}

	acr := p.doc.Accessors[index]
	if acr.Type != want {
		return nil, errors.Errorf("accessor %d: expected type %v, got %v", index, want, acr.Type)
	}

	data, err := modeler.ReadAccessor(p.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "read accessor %d", index)
	}
	return data, nil
}

// normalizeVec4 converts normalized integer vec4 components to floats.
func normalizeVec4[T int8 | uint8 | int16 | uint16](in [][4]T, conv func(T) float32) [][4]float32 {
	out := make([][4]float32, len(in))
	for i, v := range in {
		out[i] = [4]float32{conv(v[0]), conv(v[1]), conv(v[2]), conv(v[3])}
	}
	return out
}
