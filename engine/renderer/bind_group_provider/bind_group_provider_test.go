package bind_group_provider

import "testing"

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("skinning")
	if p.Label() != "skinning" {
		t.Errorf("Label = %q; expected skinning", p.Label())
	}
	if p.Buffer(0) != nil || len(p.Bindings()) != 0 || p.Size(0) != 0 {
		t.Errorf("new provider already holds buffers")
	}
}

func TestBufferWriteValid(t *testing.T) {
	p := NewBindGroupProvider("skinning")
	tests := []struct {
		name  string
		write BufferWrite
	}{
		{"nil provider", BufferWrite{Data: []byte{1}}},
		{"no buffer", BufferWrite{Provider: p, Binding: 3, Data: []byte{1}}},
		{"no data", BufferWrite{Provider: p, Binding: 3}},
	}
	for _, tt := range tests {
		if tt.write.Valid() {
			t.Errorf("%s: write reported valid", tt.name)
		}
	}
}

func TestReleaseCallback(t *testing.T) {
	var released []string
	p := NewBindGroupProvider("fox/skinning/1", WithReleaseCallback(func(label string) {
		released = append(released, label)
	}))

	p.Release()
	if len(released) != 1 || released[0] != "fox/skinning/1" {
		t.Errorf("released = %v; expected [fox/skinning/1]", released)
	}
	if p.BindGroup() != nil {
		t.Errorf("bind group survived Release")
	}
}
