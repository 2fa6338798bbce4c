package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based backend.
	BackendTypeWGPU RendererBackendType = iota
)

// RendererBackend is the GPU API surface the Renderer drives. The skinning pipeline only needs
// storage buffers and queue writes, so that is all a backend provides.
type RendererBackend interface {
	// CreateStorageBuffer allocates a storage buffer that can be written from the CPU.
	//
	// Parameters:
	//   - label: the debug label of the buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if the device could not allocate the buffer
	CreateStorageBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// WriteBuffer enqueues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset into buf
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the queue rejected the write
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error

	// Release frees the device and every object the backend created it from.
	Release()
}
