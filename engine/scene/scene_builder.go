package scene

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active. Scenes start active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithRenderer attaches the Renderer that receives skinning buffers and uploads.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.r = r
	}
}

// WithObjects adds initial objects to the scene once every other option is applied.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.pending = append(s.pending, objects...)
	}
}

// WithComputeWorkers sets the number of worker goroutines that pose objects during Tick.
// One (the default) poses sequentially on the calling goroutine.
// Higher values help scenes with many skinned objects; lower values reduce scheduling
// overhead for small scenes.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithSkinningBinding sets the binding index of the skinning storage buffer on each object's provider.
//
// Parameters:
//   - binding: the binding index
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkinningBinding(binding int) SceneBuilderOption {
	return func(s *scene) {
		s.skinningBinding = binding
	}
}

// WithConfig applies the compute worker count and skinning binding of a loaded config.
//
// Parameters:
//   - cfg: the engine configuration
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithConfig(cfg *config.Config) SceneBuilderOption {
	return func(s *scene) {
		if cfg == nil {
			return
		}
		WithComputeWorkers(cfg.ComputeWorkers)(s)
		WithSkinningBinding(cfg.SkinningBinding)(s)
	}
}
