package placement

import (
	"context"
	"fmt"
	"sync"

	"github.com/danmuck/arplace/internal/observability"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

const hitTestSetupKey = "hit-test-setup"

type trackerPhase int

const (
	trackerIdle trackerPhase = iota
	trackerPending
	trackerReady
	trackerFailed
	trackerReleased
)

// HitTestTracker owns the session's hit-test subscription.
//
// Setup is one-shot: concurrent callers share a single in-flight request
// and later callers get the stored outcome. Poll is safe before setup has
// finished and simply reports no hit.
type HitTestTracker struct {
	group singleflight.Group

	mu     sync.Mutex
	phase  trackerPhase
	viewer xr.ReferenceSpace
	source xr.HitTestSource
	err    error
}

func NewHitTestTracker() *HitTestTracker {
	return &HitTestTracker{}
}

// Setup requests a viewer space and a hit-test subscription anchored
// to it.
func (t *HitTestTracker) Setup(ctx context.Context, session xr.Session) (xr.HitTestSource, error) {
	v, err, _ := t.group.Do(hitTestSetupKey, func() (any, error) {
		source, err := t.setupOnce(ctx, session)
		if err != nil {
			return nil, err
		}
		return source, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(xr.HitTestSource), nil
}

func (t *HitTestTracker) setupOnce(ctx context.Context, session xr.Session) (xr.HitTestSource, error) {
	t.mu.Lock()
	switch t.phase {
	case trackerReady:
		source := t.source
		t.mu.Unlock()
		return source, nil
	case trackerFailed:
		err := t.err
		t.mu.Unlock()
		return nil, err
	case trackerReleased:
		t.mu.Unlock()
		return nil, ErrTrackerReleased
	}
	t.phase = trackerPending
	t.mu.Unlock()

	ctx, span := observability.Tracer().Start(ctx, "placement.HitTestTracker.Setup")
	defer span.End()

	viewer, err := session.RequestReferenceSpace(ctx, spatial.SpaceViewer)
	var source xr.HitTestSource
	if err == nil {
		source, err = session.RequestHitTestSource(ctx, viewer)
	}
	if err == nil && source == nil {
		err = fmt.Errorf("platform returned no hit-test source")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase == trackerReleased {
		if source != nil {
			source.Cancel()
		}
		return nil, ErrTrackerReleased
	}
	if err != nil {
		t.phase = trackerFailed
		t.err = fmt.Errorf("%w: %w", ErrHitTestSetupFailed, err)
		span.RecordError(t.err)
		span.SetStatus(codes.Error, "hit-test setup failed")
		return nil, t.err
	}
	t.phase = trackerReady
	t.viewer = viewer
	t.source = source
	return source, nil
}

// Poll returns the first-ranked hit expressed in space, or false when
// nothing is detected or the subscription is not ready.
func (t *HitTestTracker) Poll(frame xr.Frame, space xr.ReferenceSpace) (spatial.HitResult, bool) {
	t.mu.Lock()
	ready := t.phase == trackerReady
	source := t.source
	t.mu.Unlock()
	if !ready || frame == nil {
		return spatial.HitResult{}, false
	}

	results := frame.HitTestResults(source, space)
	if len(results) == 0 {
		return spatial.HitResult{}, false
	}
	return results[0], true
}

func (t *HitTestTracker) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase == trackerReady
}

// Err returns the sticky setup failure, if any.
func (t *HitTestTracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Release cancels the subscription. A setup that resolves afterwards is
// cancelled and discarded.
func (t *HitTestTracker) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase == trackerReleased {
		return
	}
	if t.source != nil {
		t.source.Cancel()
		t.source = nil
	}
	t.viewer = nil
	t.phase = trackerReleased
}
