package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// sizes holds the byte size of each buffer, keyed by binding index.
	sizes map[int]uint64

	onRelease func(label string)
}

// BindGroupProvider defines the interface for components that require GPU buffer resources.
// An animator holds a BindGroupProvider describing where its skinning matrices live on the GPU.
// The Renderer uses this provider to create the buffers and to apply staged writes.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a debug label
//  2. Renderer.InitSkinningBuffer(provider, binding, boneCount) creates the storage buffer
//  3. Component stages BufferWrites targeting the provider and binding
//  4. Renderer.WriteBuffers applies the staged writes once per frame
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	// It will clean up all buffers and the bind group, and remove them from the provider.
	// The release callback, if any, runs afterwards.
	Release()

	// Label returns the debug label for this provider.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Size returns the byte size of the buffer at a binding index, or 0 when there is none.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	Size(binding int) uint64

	// Buffer returns the GPU buffer for a specific binding index.
	// Returns nil if no buffer exists for the binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Bindings returns the binding indices that currently hold a buffer.
	//
	// Returns:
	//   - []int: the binding indices, in no particular order
	Bindings() []int

	// SetBindGroup assigns the GPU bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer assigns a GPU buffer of the given byte size to a binding index, replacing any
	// previous buffer. The replaced buffer is not released.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	//   - size: the buffer size in bytes
	SetBuffer(binding int, buf *wgpu.Buffer, size uint64)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label of the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
		sizes:   make(map[int]uint64),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Size(binding int) uint64 {
	if p.buffers[binding] == nil {
		return 0
	}
	return p.sizes[binding]
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Bindings() []int {
	out := make([]int, 0, len(p.buffers))
	for b, buf := range p.buffers {
		if buf != nil {
			out = append(out, b)
		}
	}
	return out
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer, size uint64) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
		p.sizes = make(map[int]uint64)
	}
	p.buffers[binding] = buf
	p.sizes[binding] = size
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
		delete(p.sizes, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}

	if p.onRelease != nil {
		p.onRelease(p.label)
	}
}
