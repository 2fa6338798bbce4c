package model

// model is the implementation of the Model interface.
type model struct {
	name     string
	skeleton *Skeleton
	clips    *ClipLibrary
}

// Model defines the interface for a loaded skinned model.
// A Model bundles the shared, read-only skeleton of an asset with its animation clips.
// It is produced by the Loader after importing a model file, and every animator that
// plays the asset references the same Model.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model has a skeleton to animate.
	//
	// Returns:
	//   - bool: true if the model has bone data
	Skinned() bool

	// Skeleton retrieves the bone hierarchy for this model.
	// Returns nil for static (non-skinned) models.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Clips retrieves the clip catalog of this model.
	//
	// Returns:
	//   - *ClipLibrary: the clip library
	Clips() *ClipLibrary

	// Animations retrieves all animation clips bundled with this model, in import order.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// Animation looks up a clip by name.
	//
	// Parameters:
	//   - name: the animation clip name
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil
	//   - bool: true if the clip exists
	Animation(name string) (*AnimationClip, bool)

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.clips == nil {
		m.clips = NewClipLibrary()
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Clips() *ClipLibrary {
	return m.clips
}

func (m *model) Animations() []*AnimationClip {
	return m.clips.Clips()
}

func (m *model) Animation(name string) (*AnimationClip, bool) {
	c, _, ok := m.clips.ByName(name)
	return c, ok
}

func (m *model) AnimationCount() int {
	return m.clips.Len()
}

func (m *model) AnimationNames() []string {
	return m.clips.Names()
}

func (m *model) GetAnimationIndex(name string) int {
	for i, n := range m.clips.Names() {
		if n == name {
			return i
		}
	}
	return -1
}
