package renderer

// RendererBuilderOption is a functional option for configuring a Renderer during construction.
type RendererBuilderOption func(*renderer)

// WithForceSoftwareRenderer is an option builder that forces the Renderer to use a software (fallback) adapter.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithBackend is an option builder that supplies an already-created backend instead of requesting a device.
//
// Parameters:
//   - backend: the backend to drive
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}
