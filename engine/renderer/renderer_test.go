package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

type recordedWrite struct {
	buf    *wgpu.Buffer
	offset uint64
	size   int
}

// fakeBackend records buffer traffic without touching a GPU.
type fakeBackend struct {
	created    []uint64
	writes     []recordedWrite
	failWrites bool
}

func (f *fakeBackend) CreateStorageBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	f.created = append(f.created, size)
	return &wgpu.Buffer{}, nil
}

func (f *fakeBackend) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error {
	if f.failWrites {
		return errors.New("device lost")
	}
	f.writes = append(f.writes, recordedWrite{buf: buf, offset: offset, size: len(data)})
	return nil
}

func (f *fakeBackend) Release() {}

func newTestRenderer(t *testing.T) (Renderer, *fakeBackend) {
	t.Helper()
	fake := &fakeBackend{}
	r, err := NewRenderer(BackendTypeWGPU, WithBackend(fake))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, fake
}

func TestInitSkinningBuffer(t *testing.T) {
	r, fake := newTestRenderer(t)
	p := bind_group_provider.NewBindGroupProvider("fox")

	if err := r.InitSkinningBuffer(p, 2, 24); err != nil {
		t.Fatalf("InitSkinningBuffer: %v", err)
	}
	if len(fake.created) != 1 || fake.created[0] != 24*64 {
		t.Fatalf("created buffers %v; expected one of %d bytes", fake.created, 24*64)
	}
	if p.Buffer(2) == nil || p.Size(2) != 24*64 {
		t.Fatalf("provider binding 2 = %v (%d bytes); expected a %d byte buffer", p.Buffer(2), p.Size(2), 24*64)
	}
	if len(fake.writes) != 1 || fake.writes[0].size != 24*64 {
		t.Errorf("identity upload %v; expected one write of %d bytes", fake.writes, 24*64)
	}

	// A second call keeps the existing buffer.
	if err := r.InitSkinningBuffer(p, 2, 24); err != nil {
		t.Fatalf("InitSkinningBuffer: %v", err)
	}
	if len(fake.created) != 1 {
		t.Errorf("existing buffer was replaced")
	}

	if err := r.InitSkinningBuffer(nil, 0, 1); err == nil {
		t.Errorf("nil provider accepted")
	}
}

func TestWriteBuffersSkipsMissingBuffers(t *testing.T) {
	r, fake := newTestRenderer(t)
	ready := bind_group_provider.NewBindGroupProvider("ready")
	if err := r.InitSkinningBuffer(ready, 0, 2); err != nil {
		t.Fatalf("InitSkinningBuffer: %v", err)
	}
	pending := bind_group_provider.NewBindGroupProvider("pending")
	fake.writes = nil

	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: ready, Binding: 0, Offset: 64, Data: make([]byte, 64)},
		{Provider: pending, Binding: 0, Data: make([]byte, 64)},
		{Provider: ready, Binding: 1, Data: make([]byte, 64)},
		{Provider: nil, Binding: 0, Data: make([]byte, 64)},
		{Provider: ready, Binding: 0, Offset: 64, Data: make([]byte, 128)},
	})

	if len(fake.writes) != 1 {
		t.Fatalf("applied %d writes; expected 1", len(fake.writes))
	}
	if w := fake.writes[0]; w.buf != ready.Buffer(0) || w.offset != 64 || w.size != 64 {
		t.Errorf("unexpected write %+v", w)
	}
	applied, skipped := r.Stats()
	if applied != 1 || skipped != 4 {
		t.Errorf("Stats = %d applied, %d skipped; expected 1, 4", applied, skipped)
	}
}

func TestWriteBuffersCountsFailedWrites(t *testing.T) {
	r, fake := newTestRenderer(t)
	p := bind_group_provider.NewBindGroupProvider("fox")
	if err := r.InitSkinningBuffer(p, 0, 2); err != nil {
		t.Fatalf("InitSkinningBuffer: %v", err)
	}

	fake.failWrites = true
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p, Binding: 0, Data: make([]byte, 128)},
	})
	applied, skipped := r.Stats()
	if applied != 0 || skipped != 1 {
		t.Errorf("Stats = %d applied, %d skipped; expected 0, 1", applied, skipped)
	}

	if err := r.InitSkinningBuffer(bind_group_provider.NewBindGroupProvider("wolf"), 0, 2); err == nil {
		t.Errorf("InitSkinningBuffer should report a failed identity upload")
	}
}
