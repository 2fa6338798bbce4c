package animator

// PlaybackState identifies where an Animator is in its playback lifecycle.
type PlaybackState int

const (
	// StateStopped is the initial state and the state after a clip is bound.
	// Time is held at zero and Update does nothing.
	StateStopped PlaybackState = iota

	// StatePlaying advances time on every Update, looping at the end of the clip.
	StatePlaying

	// StatePaused holds the current time until playback resumes.
	StatePaused
)

// String returns the lowercase name of the state.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
