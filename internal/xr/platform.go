package xr

import (
	"context"
	"time"

	"github.com/danmuck/arplace/internal/spatial"
)

// Platform is the device-side tracking runtime.
type Platform interface {
	// IsTrackingSupported reports whether world tracking sessions can be
	// requested at all.
	IsTrackingSupported(ctx context.Context) bool
	RequestSession(ctx context.Context, required, optional spatial.CapabilitySet) (Session, error)
}

// Session is one granted tracking session.
type Session interface {
	// EnabledCapabilities is the subset of requested features the platform
	// actually granted.
	EnabledCapabilities() spatial.CapabilitySet
	RequestReferenceSpace(ctx context.Context, kind spatial.ReferenceSpaceKind) (ReferenceSpace, error)
	RequestHitTestSource(ctx context.Context, origin ReferenceSpace) (HitTestSource, error)
	// OnEnd registers fn to run once when the platform ends the session.
	OnEnd(fn func())
	End() error
}

// ReferenceSpace is a coordinate frame handle.
type ReferenceSpace interface {
	Kind() spatial.ReferenceSpaceKind
}

// HitTestSource is a live hit-test subscription.
type HitTestSource interface {
	Cancel()
}

// Frame is the per-tick view of the platform.
type Frame interface {
	Time() time.Duration
	// ViewerPose returns false when the device pose is not tracked.
	ViewerPose(space ReferenceSpace) (spatial.Pose, bool)
	// HitTestResults returns ranked results expressed in space.
	HitTestResults(source HitTestSource, space ReferenceSpace) []spatial.HitResult
}
