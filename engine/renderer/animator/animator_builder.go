package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/bind_group_provider"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithSkeleton is an option builder that sets the skeleton the Animator poses.
// The skinning array is sized from it when construction finishes.
//
// Parameters:
//   - s: the shared skeleton
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the skeleton option to an animator
func WithSkeleton(s *model.Skeleton) AnimatorBuilderOption {
	return func(a *animator) {
		a.skeleton = s
	}
}

// WithModel is an option builder that takes the skeleton of a Model and binds its first clip.
// The animator still starts in StateStopped.
//
// Parameters:
//   - m: the Model to animate
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		if m == nil {
			return
		}
		a.skeleton = m.Skeleton()
		if clips := m.Animations(); len(clips) > 0 {
			a.clip = clips[0]
		}
	}
}

// WithClip is an option builder that binds a clip at construction.
//
// Parameters:
//   - clip: the clip to bind
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the clip option to an animator
func WithClip(clip *model.AnimationClip) AnimatorBuilderOption {
	return func(a *animator) {
		a.clip = clip
	}
}

// WithSpeed is an option builder that sets the playback rate multiplier.
//
// Parameters:
//   - speed: the rate multiplier
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}

// WithSkinningTarget is an option builder that sets where the skinning array is staged for upload.
//
// Parameters:
//   - provider: the provider holding the skinning storage buffer
//   - binding: the binding index of the buffer on the provider
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the skinning target option to an animator
func WithSkinningTarget(provider bind_group_provider.BindGroupProvider, binding int) AnimatorBuilderOption {
	return func(a *animator) {
		a.skinningProvider = provider
		a.skinningBinding = binding
	}
}

// WithPlaying is an option builder that starts the Animator in StatePlaying.
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the playing option to an animator
func WithPlaying() AnimatorBuilderOption {
	return func(a *animator) {
		a.state = StatePlaying
	}
}
