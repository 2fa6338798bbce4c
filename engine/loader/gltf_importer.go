package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	// skinIndex selects the skin to import; negative picks the skin of the first mesh, else skin 0.
	skinIndex int
}

// gltfImporter defines the interface for importing glTF/GLB documents into ImportedModels.
// It orchestrates the parser and the skeleton and animation extractors.
type gltfImporter interface {
	// Import reads a glTF or GLB file and extracts its skeleton and animations.
	//
	// Parameters:
	//   - path: the file path to import
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if parsing or extraction fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader reads a self-contained glTF or GLB document from a stream.
	//
	// Parameters:
	//   - name: the fallback model name
	//   - r: the reader providing document data
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if parsing or extraction fails
	ImportReader(name string, r io.Reader) (*model.ImportedModel, error)

	// ImportDocument extracts a model from an already decoded document.
	//
	// Parameters:
	//   - name: the fallback model name
	//   - doc: the decoded document
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if extraction fails
	ImportDocument(name string, doc *gltf.Document) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - skinIndex: the skin to import, or a negative value to pick one automatically
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(skinIndex int) gltfImporter {
	return &gltfImporterImpl{skinIndex: skinIndex}
}

func (i *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return i.extract(parser, name)
}

func (i *gltfImporterImpl) ImportReader(name string, r io.Reader) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r); err != nil {
		return nil, err
	}
	return i.extract(parser, name)
}

func (i *gltfImporterImpl) ImportDocument(name string, doc *gltf.Document) (*model.ImportedModel, error) {
	if doc == nil {
		return nil, errors.New("nil gltf document")
	}
	parser := newGLTFParser()
	parser.SetDocument(doc)
	return i.extract(parser, name)
}

// extract runs the skeleton and animation extractors over a parsed document.
func (i *gltfImporterImpl) extract(parser gltfParser, fallbackName string) (*model.ImportedModel, error) {
	doc := parser.Document()
	imported := &model.ImportedModel{
		Name: gltfModelName(doc, fallbackName),
	}

	if len(doc.Skins) > 0 {
		skeletonExtractor := newGLTFSkeletonExtractor(parser)

		skinIndex := i.skinIndex
		if skinIndex < 0 {
			skinIndex = max(skeletonExtractor.FindSkinForMesh(0), 0)
		}

		root, offsets, err := skeletonExtractor.ExtractSkeleton(skinIndex)
		if err != nil {
			return nil, errors.Wrap(err, "skeleton extraction failed")
		}
		imported.Root = root
		imported.Offsets = offsets
	}

	clips, err := newGLTFAnimationExtractor(parser).ExtractAllAnimations()
	if err != nil {
		return nil, errors.Wrap(err, "animation extraction failed")
	}
	imported.Clips = clips

	return imported, nil
}

// gltfModelName derives a model name from the default scene or falls back to the given name.
func gltfModelName(doc *gltf.Document, fallback string) string {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) && doc.Scenes[*doc.Scene] != nil {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}
