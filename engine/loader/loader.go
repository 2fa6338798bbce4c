package loader

import (
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/internal/log"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// BindPoseClipName names the empty clip given to models that ship without animations.
const BindPoseClipName = "bind_pose"

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backendType LoaderBackendType
	backend     loaderBackend

	maxBones   int
	defaultTPS float32
	skinIndex  int

	modelCache map[string]model.Model
}

// Loader defines the public-facing interface for loading and caching skinned models.
// It abstracts the file format behind a backend, builds skeletons and clips from the
// imported data and caches the resulting models by path or name.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails or the skeleton exceeds the bone limit
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// LoadDocument builds a model from an in-memory glTF document and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - doc: the decoded document
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if extraction fails
	LoadDocument(name string, doc *gltf.Document) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		backendType: backendType,
		maxBones:    model.DefaultMaxBones,
		defaultTPS:  model.DefaultTicksPerSecond,
		skinIndex:   -1,
		modelCache:  make(map[string]model.Model),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.skinIndex)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	return l.store(path, imported)
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, errors.Errorf("no loader backend for type %d", l.backendType)
	}

	imported, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load from reader %q", name)
	}

	return l.store(name, imported)
}

func (l *loader) LoadDocument(name string, doc *gltf.Document) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, errors.Errorf("no loader backend for type %d", l.backendType)
	}

	imported, err := l.backend.LoadDocument(name, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load document %q", name)
	}

	return l.store(name, imported)
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, errors.Errorf("no loader backend for type %d", l.backendType)
		}
		return l.backend, nil
	default:
		return nil, errors.Errorf("unsupported model format: %s", ext)
	}
}

// store converts an imported model and caches it under key.
// A concurrent load of the same key keeps whichever model was cached first.
func (l *loader) store(key string, imported *model.ImportedModel) (model.Model, error) {
	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, errors.Wrapf(err, "model %q", key)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		return cached, nil
	}
	l.modelCache[key] = m
	return m, nil
}

// importedToModel converts an ImportedModel into an engine-ready Model.
// The skeleton is built under the configured bone limit and every clip is cleaned and
// timed with the configured default tick rate. Models without animations get a single
// empty bind pose clip.
//
// Parameters:
//   - imported: the importer output
//
// Returns:
//   - model.Model: the engine-ready Model
//   - error: error if the skeleton cannot be built
func (l *loader) importedToModel(imported *model.ImportedModel) (model.Model, error) {
	var skeleton *model.Skeleton
	if imported.Root != nil {
		var err error
		skeleton, err = model.NewSkeleton(imported.Root, imported.Offsets, l.maxBones)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("model has no skin", "model", imported.Name)
	}

	clips := make([]*model.AnimationClip, 0, max(len(imported.Clips), 1))
	for _, c := range imported.Clips {
		clips = append(clips, model.NewAnimationClip(c, l.defaultTPS))
	}
	if len(clips) == 0 {
		log.Warn("using empty bind pose clip", "model", imported.Name, "error", model.ErrMissingAnimationData)
		clips = append(clips, model.NewEmptyClip(BindPoseClipName))
	}

	m := model.NewModel(
		model.WithName(imported.Name),
		model.WithSkeleton(skeleton),
		model.WithAnimations(clips...),
	)

	bones := 0
	if skeleton != nil {
		bones = skeleton.BoneCount()
	}
	log.Info("model imported",
		"model", m.Name(),
		"bones", bones,
		"clips", m.AnimationCount(),
	)
	log.Dump("model animations", m.AnimationNames())

	return m, nil
}
