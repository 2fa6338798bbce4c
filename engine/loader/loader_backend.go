package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"

	"github.com/qmuntal/gltf"
)

// loaderBackend defines the generic interface for importing models from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the skeleton and animations of the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - name: the fallback model name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*model.ImportedModel, error)

	// LoadDocument imports a model from an in-memory glTF document.
	//
	// Parameters:
	//   - name: the fallback model name
	//   - doc: the decoded document
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadDocument(name string, doc *gltf.Document) (*model.ImportedModel, error)
}
