package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/internal/log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	// ErrNoModel is returned when an animation is requested on an object without a model.
	ErrNoModel = errors.New("game object has no model")

	// ErrAnimationNotFound is returned when a model has no clip with the requested name.
	ErrAnimationNotFound = errors.New("animation not found")
)

type gameObject struct {
	id       uint64
	name     string
	enabled  atomic.Bool
	mdl      model.Model
	animator animator.Animator

	// autoplay is the clip started by NewGameObject, if any.
	autoplay string

	mu       sync.RWMutex
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

// GameObject defines the interface for a scene entity that owns one Animator.
// The Animator is created from the object's Model when none is supplied, so every
// instance of a model poses independently while sharing the model's skeleton and clips.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's display name.
	//
	// Returns:
	//   - string: the name, empty if unset
	Name() string

	// Enabled returns whether this object is ticked by its scene.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is ticked by its scene.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel assigns a Model and replaces the Animator with a fresh one bound to the model's
	// skeleton and first clip.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Animator returns the Animator owned by this object.
	//
	// Returns:
	//   - animator.Animator: the animator, or nil when no model is set
	Animator() animator.Animator

	// SetAnimator replaces the object's Animator.
	//
	// Parameters:
	//   - anim: the Animator to use
	SetAnimator(anim animator.Animator)

	// PlayAnimation binds the named clip of the object's model and starts it from time zero.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - error: ErrNoModel or ErrAnimationNotFound
	PlayAnimation(name string) error

	// Position returns the object's world position.
	Position() mgl32.Vec3

	// SetPosition sets the object's world position.
	SetPosition(p mgl32.Vec3)

	// Rotation returns the object's world rotation.
	Rotation() mgl32.Quat

	// SetRotation sets the object's world rotation. The quaternion is normalized.
	SetRotation(q mgl32.Quat)

	// Scale returns the object's world scale.
	Scale() mgl32.Vec3

	// SetScale sets the object's world scale.
	SetScale(s mgl32.Vec3)

	// WorldMatrix composes the object's transform as translation * rotation * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// BoneWorldTransform returns the world-space transform of a named skeleton node from the
	// last computed pose, for attaching props to bones.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - mgl32.Mat4: the world transform, or the object's world matrix when not found
	//   - bool: true if the node was posed
	BoneWorldTransform(name string) (mgl32.Mat4, bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled. When a model is set and no animator is supplied, one is created
// from the model.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)

	for _, option := range options {
		option(obj)
	}

	if obj.animator == nil && obj.mdl != nil {
		obj.animator = animator.NewAnimator(animator.WithModel(obj.mdl))
	}
	if obj.autoplay != "" {
		// Unknown clip names leave the default clip bound and stopped.
		if err := obj.PlayAnimation(obj.autoplay); err != nil {
			log.Warn("game object: autoplay failed", "name", obj.name, "clip", obj.autoplay, "error", err)
		}
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	if m == nil {
		g.animator = nil
		return
	}
	g.animator = animator.NewAnimator(animator.WithModel(m))
}

func (g *gameObject) Animator() animator.Animator {
	return g.animator
}

func (g *gameObject) SetAnimator(anim animator.Animator) {
	g.animator = anim
}

func (g *gameObject) PlayAnimation(name string) error {
	if g.mdl == nil {
		return ErrNoModel
	}
	clip, ok := g.mdl.Animation(name)
	if !ok {
		return errors.Wrapf(ErrAnimationNotFound, "model %q clip %q", g.mdl.Name(), name)
	}
	if g.animator == nil {
		g.animator = animator.NewAnimator(animator.WithSkeleton(g.mdl.Skeleton()))
	}
	g.animator.SetClip(clip)
	g.animator.Play()
	return nil
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Rotation() mgl32.Quat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = q.Normalize()
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.ComposeTRS(g.position, g.rotation, g.scale)
}

func (g *gameObject) BoneWorldTransform(name string) (mgl32.Mat4, bool) {
	world := g.WorldMatrix()
	if g.animator == nil {
		return world, false
	}
	bone, ok := g.animator.BoneTransform(name)
	if !ok {
		return world, false
	}
	return world.Mul4(bone), true
}
