package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup attaches a bind group created by a render pass that reads the skinning buffers.
// The provider takes ownership and releases it in Release.
//
// Parameters:
//   - bg: the bind group
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithReleaseCallback registers a function run at the end of Release with the provider label.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithReleaseCallback(fn func(label string)) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.onRelease = fn
	}
}
