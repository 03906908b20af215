package placement

import "github.com/danmuck/arplace/internal/spatial"

// Reticle is the per-frame surface indicator. It is a pure function of the
// latest poll: no history, no smoothing.
type Reticle struct {
	Visible bool         `json:"visible"`
	Pose    spatial.Pose `json:"pose"`
}

// Update shows the reticle at hit when ok; otherwise it hides it and leaves
// the stale pose in place.
func (r *Reticle) Update(hit spatial.HitResult, ok bool) {
	if !ok {
		r.Visible = false
		return
	}
	r.Visible = true
	r.Pose = hit.Pose
}

func (r *Reticle) Hide() {
	r.Visible = false
}
