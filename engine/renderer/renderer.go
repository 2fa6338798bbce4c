package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-anim/internal/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// matrixSize is the byte size of one column-major 4x4 float32 matrix.
const matrixSize = uint64(16 * 4)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool

	writesApplied, writesSkipped uint64
}

// Renderer defines the interface for the GPU side of the skinning pipeline.
//
// The Renderer owns the GPU device. It creates the storage buffers that receive skinning matrices
// and applies the BufferWrites animators stage each frame. Drawing skinned meshes is left to the
// caller's render passes, which bind the buffers created here.
type Renderer interface {
	// InitSkinningBuffer creates a storage buffer large enough for boneCount matrices and assigns
	// it to the provider at the given binding. An existing buffer at that binding is kept.
	//
	// Parameters:
	//   - provider: the provider that will hold the buffer
	//   - binding: the binding index on the provider
	//   - boneCount: the number of skinning matrices the buffer must hold
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitSkinningBuffer(provider bind_group_provider.BindGroupProvider, binding int, boneCount int) error

	// WriteBuffers applies staged buffer writes. Writes whose provider has no buffer at the
	// target binding are skipped.
	//
	// Parameters:
	//   - writes: the staged writes, usually drained from animators via StagedWriteData
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// Stats returns how many writes were applied and skipped since creation.
	//
	// Returns:
	//   - applied: the number of writes submitted to the queue
	//   - skipped: the number of writes dropped for lack of a buffer
	Stats() (applied, skipped uint64)

	// Release frees the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type.
//
// Parameters:
//   - backendType: the type of GPU backend to use (e.g., WGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if no GPU device could be acquired
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		var err error
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend, err = newWGPURendererBackend(r.forceFallbackAdapter)
		}
		if err != nil {
			return nil, errors.Wrap(err, "create renderer backend")
		}
	}

	return r, nil
}

func (r *renderer) InitSkinningBuffer(provider bind_group_provider.BindGroupProvider, binding int, boneCount int) error {
	if provider == nil {
		return errors.New("init skinning buffer: nil provider")
	}
	if provider.Buffer(binding) != nil {
		return nil
	}

	// Storage bindings may not be empty, so a skeleton without bones still gets one slot.
	size := uint64(max(boneCount, 1)) * matrixSize
	buf, err := r.backend.CreateStorageBuffer(fmt.Sprintf("%s Skinning Buffer", provider.Label()), size)
	if err != nil {
		return errors.Wrapf(err, "create skinning buffer for %q", provider.Label())
	}
	provider.SetBuffer(binding, buf, size)

	// Start from the identity pose so an unposed skeleton renders in bind pose.
	ident := make([]mgl32.Mat4, max(boneCount, 1))
	for i := range ident {
		ident[i] = mgl32.Ident4()
	}
	if err := r.backend.WriteBuffer(buf, 0, common.SliceToBytes(ident)); err != nil {
		return errors.Wrapf(err, "upload identity pose for %q", provider.Label())
	}

	log.Debug("skinning buffer created", "provider", provider.Label(), "binding", binding, "bones", boneCount, "bytes", size)
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range writes {
		if !w.Valid() {
			r.writesSkipped++
			continue
		}
		if err := r.backend.WriteBuffer(w.Provider.Buffer(w.Binding), w.Offset, w.Data); err != nil {
			log.Warn("skinning write failed", "provider", w.Provider.Label(), "binding", w.Binding, "error", err)
			r.writesSkipped++
			continue
		}
		r.writesApplied++
	}
}

func (r *renderer) Stats() (uint64, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writesApplied, r.writesSkipped
}

func (r *renderer) Release() {
	if r.backend != nil {
		r.backend.Release()
	}
}
