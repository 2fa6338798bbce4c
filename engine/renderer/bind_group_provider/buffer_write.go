package bind_group_provider

// BufferWrite is one staged upload into the buffer at Binding on Provider, starting Offset bytes in.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Valid reports whether the target buffer exists and the payload is non-empty and fits inside it.
func (w BufferWrite) Valid() bool {
	if w.Provider == nil || len(w.Data) == 0 || w.Provider.Buffer(w.Binding) == nil {
		return false
	}
	return w.Offset+uint64(len(w.Data)) <= w.Provider.Size(w.Binding)
}
