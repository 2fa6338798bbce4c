package animator

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	skeleton *model.Skeleton
	clip     *model.AnimationClip

	state PlaybackState
	time  float64
	speed float32

	// final is the skinning array, one matrix per bone index, allocated once.
	final []mgl32.Mat4
	// globals holds the model-space transform of every hierarchy node, indexed by node order.
	globals []mgl32.Mat4
	posed   bool

	skinningProvider bind_group_provider.BindGroupProvider
	skinningBinding  int
	stagingSkinning  []byte
	stagedWriteData  []bind_group_provider.BufferWrite
}

// Animator defines the public interface for skeletal animation playback.
//
// An Animator plays one AnimationClip at a time on a shared, read-only Skeleton. Each frame the
// owner calls Update with the elapsed seconds, then ComputeFinalPose, which walks the bone hierarchy
// and writes one skinning matrix per bone into an array that is allocated once and reused.
//
// Playback always loops. Binding a new clip resets the animator to StateStopped at time zero.
// With no clip bound every skinning matrix is identity.
//
// All methods are safe to call from multiple goroutines; control calls (Play, Pause, SetClip)
// typically come from game logic while Update and ComputeFinalPose run on the tick.
type Animator interface {
	// Play starts or resumes playback. No-op when already playing.
	Play()

	// Pause holds playback at the current time. No-op unless playing.
	Pause()

	// Restart rewinds to time zero and starts playing.
	Restart()

	// Stop halts playback and rewinds to time zero.
	Stop()

	// State returns the current playback state.
	//
	// Returns:
	//   - PlaybackState: the playback state
	State() PlaybackState

	// SetClip binds a clip, or unbinds the current one when clip is nil.
	// The animator moves to StateStopped at time zero regardless of its previous state.
	//
	// Parameters:
	//   - clip: the clip to play, or nil
	SetClip(clip *model.AnimationClip)

	// Clip returns the bound clip, or nil.
	//
	// Returns:
	//   - *model.AnimationClip: the bound clip
	Clip() *model.AnimationClip

	// Skeleton returns the skeleton this animator poses.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton, or nil
	Skeleton() *model.Skeleton

	// Update advances playback by deltaTime seconds when playing. Time moves by
	// deltaTime * ticksPerSecond * speed and wraps modulo the clip duration.
	// A clip with no duration keeps time at zero. Non-finite deltas are ignored.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// SetTime jumps to t ticks, wrapped into the clip duration.
	//
	// Parameters:
	//   - t: the playback time in ticks
	SetTime(t float32)

	// Time returns the current playback time in ticks.
	//
	// Returns:
	//   - float32: the playback time
	Time() float32

	// SetSpeed sets the playback rate multiplier. The default is 1; negative values play backwards.
	//
	// Parameters:
	//   - speed: the rate multiplier
	SetSpeed(speed float32)

	// Speed returns the playback rate multiplier.
	//
	// Returns:
	//   - float32: the rate multiplier
	Speed() float32

	// ComputeFinalPose walks the skeleton from the root and rewrites the skinning array for the
	// current time. The returned slice is owned by the animator and overwritten by the next call.
	// When a skinning provider is configured, a write of the array is staged for the renderer.
	//
	// Returns:
	//   - []mgl32.Mat4: one skinning matrix per bone index
	ComputeFinalPose() []mgl32.Mat4

	// FinalMatrices returns the skinning array from the last ComputeFinalPose without recomputing it.
	//
	// Returns:
	//   - []mgl32.Mat4: the skinning array
	FinalMatrices() []mgl32.Mat4

	// BoneTransform returns the model-space transform a hierarchy node had in the last posed frame,
	// typically used to attach props to a bone.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - mgl32.Mat4: the node's model-space transform
	//   - bool: false if the node is unknown or no clip has been posed yet
	BoneTransform(name string) (mgl32.Mat4, bool)

	// BoneCount returns the length of the skinning array.
	//
	// Returns:
	//   - int: the number of bones
	BoneCount() int

	// SetSkinningTarget sets where ComputeFinalPose stages its skinning upload.
	//
	// Parameters:
	//   - provider: the provider holding the skinning storage buffer
	//   - binding: the binding index of the buffer on the provider
	SetSkinningTarget(provider bind_group_provider.BindGroupProvider, binding int)

	// StagedWriteData returns and clears the pending GPU buffer writes.
	// The Renderer should call this to drain staged writes and submit them via WriteBuffers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []bind_group_provider.BufferWrite
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator configured with the provided options.
// The skinning array is sized to the skeleton's bone count once all options are applied
// and starts out as identity.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new instance of Animator in StateStopped
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:    &sync.Mutex{},
		state: StateStopped,
		speed: 1,
	}
	for _, opt := range options {
		opt(a)
	}

	if a.skeleton != nil {
		a.final = make([]mgl32.Mat4, a.skeleton.BoneCount())
		a.globals = make([]mgl32.Mat4, a.skeleton.NodeCount())
	}
	for i := range a.final {
		a.final[i] = mgl32.Ident4()
	}
	return a
}

func (a *animator) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StatePlaying
}

func (a *animator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StatePlaying {
		a.state = StatePaused
	}
}

func (a *animator) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.time = 0
	a.state = StatePlaying
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.time = 0
	a.state = StateStopped
}

func (a *animator) State() PlaybackState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *animator) SetClip(clip *model.AnimationClip) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clip = clip
	a.time = 0
	a.state = StateStopped
	a.posed = false
}

func (a *animator) Clip() *model.AnimationClip {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clip
}

func (a *animator) Skeleton() *model.Skeleton {
	return a.skeleton
}

func (a *animator) Update(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StatePlaying || a.clip == nil || !common.IsFinite(deltaTime) {
		return
	}

	rate := float64(a.clip.TicksPerSecond) * float64(a.speed)
	a.time = common.WrapTime(a.time+float64(deltaTime)*rate, float64(a.clip.Duration))
}

func (a *animator) SetTime(t float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clip == nil {
		a.time = 0
		return
	}
	a.time = common.WrapTime(float64(t), float64(a.clip.Duration))
}

func (a *animator) Time() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float32(a.time)
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !common.IsFinite(speed) {
		return
	}
	a.speed = speed
}

func (a *animator) Speed() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speed
}

func (a *animator) ComputeFinalPose() []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.final {
		a.final[i] = mgl32.Ident4()
	}
	if a.clip != nil && a.skeleton != nil {
		a.pose(a.skeleton.Root(), mgl32.Ident4(), float32(a.time))
		a.posed = true
	}

	a.stageSkinning()
	return a.final
}

// pose computes the model-space transform of n and its subtree in pre-order and writes the
// skinning matrix of every weighted node it reaches.
func (a *animator) pose(n *model.BoneNode, parent mgl32.Mat4, t float32) {
	local := n.LocalTransform
	if track := a.clip.Track(n.Name); track != nil {
		local = track.LocalTransform(t)
	}

	global := parent.Mul4(local)
	a.globals[n.Order()] = global
	if n.IsBone() {
		a.final[n.BoneIndex] = global.Mul4(a.skeleton.Offsets().Offset(n.BoneIndex))
	}

	for _, c := range n.Children {
		a.pose(c, global, t)
	}
}

// stageSkinning replaces any undrained skinning write with the current array.
// wgpu copies buffer data internally, so reusing the same staging buffer every frame is safe.
func (a *animator) stageSkinning() {
	if a.skinningProvider == nil || len(a.final) == 0 {
		return
	}

	raw := common.SliceToBytes(a.final)
	if cap(a.stagingSkinning) < len(raw) {
		a.stagingSkinning = make([]byte, len(raw))
	}
	buf := a.stagingSkinning[:len(raw)]
	copy(buf, raw)

	write := bind_group_provider.BufferWrite{
		Provider: a.skinningProvider,
		Binding:  a.skinningBinding,
		Offset:   0,
		Data:     buf,
	}
	for i := range a.stagedWriteData {
		if a.stagedWriteData[i].Provider == write.Provider && a.stagedWriteData[i].Binding == write.Binding {
			a.stagedWriteData[i] = write
			return
		}
	}
	a.stagedWriteData = append(a.stagedWriteData, write)
}

func (a *animator) FinalMatrices() []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.final
}

func (a *animator) BoneTransform(name string) (mgl32.Mat4, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.skeleton == nil || !a.posed {
		return mgl32.Ident4(), false
	}
	n, ok := a.skeleton.Node(name)
	if !ok {
		return mgl32.Ident4(), false
	}
	return a.globals[n.Order()], true
}

func (a *animator) BoneCount() int {
	return len(a.final)
}

func (a *animator) SetSkinningTarget(provider bind_group_provider.BindGroupProvider, binding int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skinningProvider = provider
	a.skinningBinding = binding
}

func (a *animator) StagedWriteData() []bind_group_provider.BufferWrite {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.stagedWriteData
	a.stagedWriteData = nil
	return out
}
