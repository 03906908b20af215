package placement

// State is the session lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateEnding   State = "ending"
	StateEnded    State = "ended"
	StateFailed   State = "failed"
)

// canStart reports whether a new session may be requested from s.
func (s State) canStart() bool {
	switch s {
	case StateIdle, StateEnded, StateFailed:
		return true
	default:
		return false
	}
}

// Frame outcome labels, used for metrics and logs.
const (
	FramePending   = "pending"
	FrameUntracked = "untracked"
	FrameMiss      = "miss"
	FrameHit       = "hit"
)
