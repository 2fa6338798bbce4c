package model

import "sync"

// ClipID identifies a clip within a ClipLibrary. IDs start at 1; the zero value names no clip.
type ClipID uint32

// ClipLibrary is a catalog of animation clips. Each library owns its own ID counter,
// so IDs are only meaningful within the library that issued them.
type ClipLibrary struct {
	mu     sync.RWMutex
	nextID ClipID
	clips  map[ClipID]*AnimationClip
	byName map[string]ClipID
	order  []ClipID
}

// NewClipLibrary creates an empty ClipLibrary.
//
// Parameters:
//   - clips: optional clips to add in order
//
// Returns:
//   - *ClipLibrary: the library
func NewClipLibrary(clips ...*AnimationClip) *ClipLibrary {
	l := &ClipLibrary{
		clips:  make(map[ClipID]*AnimationClip),
		byName: make(map[string]ClipID),
	}
	for _, c := range clips {
		l.Add(c)
	}
	return l
}

// Add registers a clip and returns its new ID. Adding a nil clip returns 0.
// When two clips share a name, ByName resolves to the first one added.
//
// Parameters:
//   - clip: the clip to register
//
// Returns:
//   - ClipID: the assigned ID
func (l *ClipLibrary) Add(clip *AnimationClip) ClipID {
	if clip == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.clips[id] = clip
	l.order = append(l.order, id)
	if _, ok := l.byName[clip.Name]; !ok {
		l.byName[clip.Name] = id
	}
	return id
}

// Get returns the clip registered under id.
func (l *ClipLibrary) Get(id ClipID) (*AnimationClip, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.clips[id]
	return c, ok
}

// ByName returns the first clip registered under name together with its ID.
func (l *ClipLibrary) ByName(name string) (*AnimationClip, ClipID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.byName[name]
	if !ok {
		return nil, 0, false
	}
	return l.clips[id], id, true
}

// Names returns the clip names in insertion order.
func (l *ClipLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, len(l.order))
	for i, id := range l.order {
		names[i] = l.clips[id].Name
	}
	return names
}

// Clips returns the clips in insertion order.
func (l *ClipLibrary) Clips() []*AnimationClip {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*AnimationClip, len(l.order))
	for i, id := range l.order {
		out[i] = l.clips[id]
	}
	return out
}

// Len returns the number of clips in the library.
func (l *ClipLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
