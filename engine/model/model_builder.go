package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that registers animation clips on the Model.
// Clips are appended to any library set before this option.
//
// Parameters:
//   - animations: the animation clips to add
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations ...*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		if m.clips == nil {
			m.clips = NewClipLibrary()
		}
		for _, a := range animations {
			m.clips.Add(a)
		}
	}
}

// WithClipLibrary is an option builder that shares an existing clip library with the Model.
//
// Parameters:
//   - lib: the clip library to use
//
// Returns:
//   - ModelBuilderOption: a function that applies the clip library option to a model
func WithClipLibrary(lib *ClipLibrary) ModelBuilderOption {
	return func(m *model) {
		m.clips = lib
	}
}
