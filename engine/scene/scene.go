package scene

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-anim/internal/log"

	"github.com/pkg/errors"
)

// Scene defines the public interface for a collection of animated GameObjects.
//
// A Scene owns a registry of objects, each with its own Animator, and advances them once per
// Tick. Pose computation for independent objects is fanned out over a worker pool, after which
// the staged skinning writes of every animator are collected and handed to the Renderer in a
// single WriteBuffers call.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Active returns whether the scene is ticked by the engine.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the scene is ticked by the engine.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Renderer returns the Renderer receiving skinning uploads, or nil.
	//
	// Returns:
	//   - renderer.Renderer: the renderer or nil
	Renderer() renderer.Renderer

	// Add registers a GameObject and returns its ID. Objects without an ID are assigned one.
	// When a Renderer is attached and the object has a skinned animator, a skinning storage
	// buffer is created for it and the animator is pointed at it.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	//   - error: error if the skinning buffer cannot be created
	Add(obj game_object.GameObject) (uint64, error)

	// Get returns a registered object by ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove unregisters an object and releases its skinning buffer.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Objects returns the registered objects ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// Tick advances every enabled object's animator by deltaTime seconds and computes its pose,
	// then submits the collected skinning writes to the Renderer.
	//
	// Parameters:
	//   - deltaTime: elapsed seconds since the last tick
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the writes collected this tick, valid until the next Tick
	Tick(deltaTime float32) []bind_group_provider.BufferWrite

	// Close stops the worker pool and releases every skinning buffer.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	r      renderer.Renderer

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// skinning holds the storage buffer provider created for each object ID.
	skinning        map[uint64]*skinningTarget
	skinningBinding int

	computeWorkers int
	computePool    worker.DynamicWorkerPool
	closed         bool

	// pending holds objects supplied by WithObjects until the scene is fully configured.
	pending []game_object.GameObject

	tickPool  []game_object.GameObject
	writePool []bind_group_provider.BufferWrite
}

var _ Scene = &scene{}

// matrixBytes is the size of one skinning matrix in a storage buffer.
const matrixBytes = 64

// skinningTarget is an object's storage buffer and the animator currently writing to it.
type skinningTarget struct {
	provider bind_group_provider.BindGroupProvider
	anim     animator.Animator
}

// NewScene creates a new Scene with the given name and options.
// A worker pool is started only when more than one compute worker is configured.
//
// Parameters:
//   - name: the scene name
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         true,
		registry:       make(map[uint64]game_object.GameObject),
		skinning:       make(map[uint64]*skinningTarget),
		nextID:         1,
		computeWorkers: 1,
	}

	for _, option := range options {
		option(s)
	}
	pending := s.pending
	s.pending = nil

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	// Queue size of 256 accommodates typical object counts with headroom.
	if s.computeWorkers > 1 {
		s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	}

	for _, obj := range pending {
		if _, err := s.Add(obj); err != nil {
			log.Warn("scene: initial object not added", "scene", name, "error", err)
		}
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Add(obj game_object.GameObject) (uint64, error) {
	if obj == nil {
		return 0, errors.New("scene: nil game object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	id := obj.ID()

	if err := s.bindSkinning(id, obj.Animator()); err != nil {
		return 0, err
	}

	s.registry[id] = obj
	log.Debug("scene: object added", "scene", s.name, "id", id, "name", obj.Name())
	return id, nil
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registry[id]; !exists {
		return
	}
	delete(s.registry, id)
	s.unbindSkinning(id)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedObjects(make([]game_object.GameObject, 0, len(s.registry)))
}

// bindSkinning points anim at the object's skinning buffer, creating the buffer on first use.
// The buffer is kept when a replacement animator still fits in it and recreated otherwise.
// Must be called with s.mu held.
func (s *scene) bindSkinning(id uint64, anim animator.Animator) error {
	target, ok := s.skinning[id]
	if ok && target.anim == anim {
		return nil
	}
	if s.r == nil || anim == nil || anim.BoneCount() == 0 {
		s.unbindSkinning(id)
		return nil
	}

	if ok {
		detach(target.anim)
		need := uint64(anim.BoneCount()) * matrixBytes
		if need <= target.provider.Size(s.skinningBinding) {
			target.anim = anim
			anim.SetSkinningTarget(target.provider, s.skinningBinding)
			return nil
		}
		target.provider.Release()
		delete(s.skinning, id)
	}

	provider := bind_group_provider.NewBindGroupProvider(
		fmt.Sprintf("%s/skinning/%d", s.name, id),
		bind_group_provider.WithReleaseCallback(func(label string) {
			log.Debug("scene: skinning buffer released", "provider", label)
		}),
	)
	if err := s.r.InitSkinningBuffer(provider, s.skinningBinding, anim.BoneCount()); err != nil {
		provider.Release()
		return errors.Wrapf(err, "scene %q: skinning buffer for object %d", s.name, id)
	}
	s.skinning[id] = &skinningTarget{provider: provider, anim: anim}
	anim.SetSkinningTarget(provider, s.skinningBinding)
	return nil
}

// unbindSkinning detaches and releases the skinning buffer of an object, if it has one.
// Must be called with s.mu held.
func (s *scene) unbindSkinning(id uint64) {
	target, ok := s.skinning[id]
	if !ok {
		return
	}
	detach(target.anim)
	target.provider.Release()
	delete(s.skinning, id)
}

// detach clears the skinning target of anim and drops any write staged against it.
func detach(anim animator.Animator) {
	if anim == nil {
		return
	}
	anim.SetSkinningTarget(nil, 0)
	anim.StagedWriteData()
}

// sortedObjects appends the registered objects to dst in ID order.
func (s *scene) sortedObjects(dst []game_object.GameObject) []game_object.GameObject {
	for _, obj := range s.registry {
		dst = append(dst, obj)
	}
	slices.SortFunc(dst, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return dst
}

func (s *scene) Tick(deltaTime float32) []bind_group_provider.BufferWrite {
	// The write lock guards the reused tick and write pools; animators carry their own locks.
	s.mu.Lock()
	defer s.mu.Unlock()

	objects := slices.DeleteFunc(s.sortedObjects(s.tickPool[:0]), func(obj game_object.GameObject) bool {
		return !obj.Enabled() || obj.Animator() == nil
	})
	s.tickPool = objects

	// Objects may have swapped animators since the last tick; move their skinning buffers over.
	for _, obj := range objects {
		if err := s.bindSkinning(obj.ID(), obj.Animator()); err != nil {
			log.Warn("scene: skinning rebind failed", "scene", s.name, "id", obj.ID(), "error", err)
		}
	}

	// Phase 1: advance and pose. Independent animators run in parallel when a pool is available.
	// A WaitGroup provides the per-tick barrier since pool.Wait() is meant for draining, not frames.
	if s.computePool != nil && !s.closed && len(objects) > 1 {
		var wg sync.WaitGroup
		for i, obj := range objects {
			anim := obj.Animator()
			wg.Add(1)
			s.computePool.SubmitTask(worker.Task{
				ID:      i,
				Payload: obj.ID(),
				Do: func() (any, error) {
					defer wg.Done()
					anim.Update(deltaTime)
					anim.ComputeFinalPose()
					return nil, nil
				},
			})
		}
		wg.Wait()
	} else {
		for _, obj := range objects {
			anim := obj.Animator()
			anim.Update(deltaTime)
			anim.ComputeFinalPose()
		}
	}

	// Phase 2: coalesce staged writes into one renderer submission.
	writes := s.writePool[:0]
	for _, obj := range objects {
		writes = append(writes, obj.Animator().StagedWriteData()...)
	}
	s.writePool = writes

	if s.r != nil && len(writes) > 0 {
		s.r.WriteBuffers(writes)
	}
	return writes
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.computePool != nil {
		s.computePool.Stop()
	}
	for id := range s.skinning {
		s.unbindSkinning(id)
	}
}
