package sim

import (
	"time"

	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
)

// Frame is one scripted tick. A nil Viewer means tracking is lost.
//
// Hits are column-major hit transforms, the form a device reports them in.
// They are decomposed into poses when results are read.
type Frame struct {
	T      time.Duration
	Viewer *spatial.Pose
	Hits   []spatial.Matrix4
}

var _ xr.Frame = Frame{}

func (f Frame) Time() time.Duration { return f.T }

func (f Frame) ViewerPose(xr.ReferenceSpace) (spatial.Pose, bool) {
	if f.Viewer == nil {
		return spatial.Pose{}, false
	}
	return *f.Viewer, true
}

// HitTestResults yields nothing for a missing or cancelled source.
func (f Frame) HitTestResults(source xr.HitTestSource, _ xr.ReferenceSpace) []spatial.HitResult {
	src, ok := source.(*Source)
	if !ok || src == nil || src.Cancelled() || len(f.Hits) == 0 {
		return nil
	}
	results := make([]spatial.HitResult, 0, len(f.Hits))
	for _, m := range f.Hits {
		results = append(results, spatial.HitResult{Pose: m.Pose()})
	}
	return results
}

// Step pairs a frame with an optional tap delivered after it.
type Step struct {
	Frame Frame
	Tap   bool
}

// Tracked builds a frame with an identity viewer pose and an optional hit.
func Tracked(t time.Duration, hit *spatial.Pose) Frame {
	if hit == nil {
		return TrackedMatrix(t, nil)
	}
	m := spatial.PoseMatrix(*hit)
	return TrackedMatrix(t, &m)
}

// TrackedMatrix is Tracked for a hit already in matrix form.
func TrackedMatrix(t time.Duration, hit *spatial.Matrix4) Frame {
	viewer := spatial.IdentityPose()
	f := Frame{T: t, Viewer: &viewer}
	if hit != nil {
		f.Hits = []spatial.Matrix4{*hit}
	}
	return f
}
