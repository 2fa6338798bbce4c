package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxBones is an option builder that sets the bone limit applied to every imported skeleton.
// Non-positive values keep the default.
//
// Parameters:
//   - maxBones: the maximum number of weighted bones per skeleton
//
// Returns:
//   - LoaderBuilderOption: a function that applies the bone limit to a loader
func WithMaxBones(maxBones int) LoaderBuilderOption {
	return func(l *loader) {
		if maxBones > 0 {
			l.maxBones = maxBones
		}
	}
}

// WithDefaultTicksPerSecond is an option builder that sets the tick rate used by clips that declare none.
//
// Parameters:
//   - tps: the fallback ticks per second
//
// Returns:
//   - LoaderBuilderOption: a function that applies the tick rate to a loader
func WithDefaultTicksPerSecond(tps float32) LoaderBuilderOption {
	return func(l *loader) {
		if tps > 0 {
			l.defaultTPS = tps
		}
	}
}

// WithSkinIndex is an option builder that selects which glTF skin becomes the model skeleton.
// By default the skin of the first mesh is used, falling back to skin 0.
//
// Parameters:
//   - index: the skin index
//
// Returns:
//   - LoaderBuilderOption: a function that applies the skin selection to a loader
func WithSkinIndex(index int) LoaderBuilderOption {
	return func(l *loader) {
		l.skinIndex = index
	}
}

// WithModel is an option builder that pre-populates the loader cache with a model.
//
// Parameters:
//   - name: the cache key
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that caches the model on a loader
func WithModel(name string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[name] = m
	}
}
