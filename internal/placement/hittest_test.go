package placement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/testutil/testlog"
)

func TestHitTestSetupConcurrentCallsShareOneRequest(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceViewer)
	session.hitGate = make(chan struct{})
	tracker := NewHitTestTracker()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	call := func() {
		defer wg.Done()
		_, err := tracker.Setup(context.Background(), session)
		errs <- err
	}

	wg.Add(1)
	go call()
	<-session.hitStarted

	wg.Add(1)
	go call()
	time.Sleep(10 * time.Millisecond)
	close(session.hitGate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if got := session.hitRequests.Load(); got != 1 {
		t.Fatalf("expected one subscription request, got %d", got)
	}
	if _, err := tracker.Setup(context.Background(), session); err != nil {
		t.Fatalf("late setup: %v", err)
	}
	if got := session.hitRequests.Load(); got != 1 {
		t.Fatalf("late setup re-requested: %d", got)
	}
	if !tracker.Ready() {
		t.Fatalf("tracker should be ready")
	}
}

func TestHitTestPollBeforeSetupReportsNothing(t *testing.T) {
	testlog.Start(t)
	tracker := NewHitTestTracker()
	frame := hitFrame(0, poseAt(0, 0, -1, 0))

	if _, ok := tracker.Poll(frame, stubSpace{kind: spatial.SpaceLocal}); ok {
		t.Fatalf("poll before setup must report no hit")
	}
}

func TestHitTestPollReturnsFirstResult(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceViewer)
	tracker := NewHitTestTracker()
	if _, err := tracker.Setup(context.Background(), session); err != nil {
		t.Fatalf("setup: %v", err)
	}

	best := poseAt(0, 0, -1, 0)
	frame := stubFrame{hits: []spatial.HitResult{{Pose: best}, {Pose: poseAt(9, 9, 9, 0)}}}
	hit, ok := tracker.Poll(frame, stubSpace{kind: spatial.SpaceLocal})
	if !ok || hit.Pose != best {
		t.Fatalf("expected first result, got %+v ok=%v", hit, ok)
	}
	if _, ok := tracker.Poll(stubFrame{}, stubSpace{kind: spatial.SpaceLocal}); ok {
		t.Fatalf("empty results must report no hit")
	}
}

func TestHitTestSetupFailureIsSticky(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceViewer)
	session.hitErr = errors.New("subscription refused")
	tracker := NewHitTestTracker()

	if _, err := tracker.Setup(context.Background(), session); !errors.Is(err, ErrHitTestSetupFailed) {
		t.Fatalf("expected ErrHitTestSetupFailed, got %v", err)
	}
	if _, err := tracker.Setup(context.Background(), session); !errors.Is(err, ErrHitTestSetupFailed) {
		t.Fatalf("expected sticky failure, got %v", err)
	}
	if session.hitRequests.Load() != 1 {
		t.Fatalf("failure must not be retried, requests=%d", session.hitRequests.Load())
	}
	if !errors.Is(tracker.Err(), ErrHitTestSetupFailed) {
		t.Fatalf("unexpected stored error: %v", tracker.Err())
	}
}

func TestHitTestSetupMissingViewerSpaceFails(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceLocal)
	tracker := NewHitTestTracker()

	if _, err := tracker.Setup(context.Background(), session); !errors.Is(err, ErrHitTestSetupFailed) {
		t.Fatalf("expected ErrHitTestSetupFailed, got %v", err)
	}
	if session.hitRequests.Load() != 0 {
		t.Fatalf("subscription should not be requested without a viewer space")
	}
}

func TestHitTestReleaseDiscardsLateResult(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceViewer)
	session.hitGate = make(chan struct{})
	tracker := NewHitTestTracker()

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Setup(context.Background(), session)
		done <- err
	}()
	<-session.hitStarted
	tracker.Release()
	close(session.hitGate)

	if err := <-done; !errors.Is(err, ErrTrackerReleased) {
		t.Fatalf("expected ErrTrackerReleased, got %v", err)
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if len(session.sources) != 1 || !session.sources[0].cancelled.Load() {
		t.Fatalf("late source should be cancelled")
	}
	if tracker.Ready() {
		t.Fatalf("released tracker must not become ready")
	}
}

func TestHitTestReleaseCancelsSource(t *testing.T) {
	testlog.Start(t)
	session := newStubSession(spatial.SpaceViewer)
	tracker := NewHitTestTracker()
	if _, err := tracker.Setup(context.Background(), session); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tracker.Release()
	tracker.Release()

	session.mu.Lock()
	cancelled := session.sources[0].cancelled.Load()
	session.mu.Unlock()
	if !cancelled {
		t.Fatalf("source should be cancelled on release")
	}
	if _, ok := tracker.Poll(hitFrame(0, poseAt(0, 0, 0, 0)), stubSpace{kind: spatial.SpaceLocal}); ok {
		t.Fatalf("released tracker must not report hits")
	}
	if _, err := tracker.Setup(context.Background(), session); !errors.Is(err, ErrTrackerReleased) {
		t.Fatalf("expected ErrTrackerReleased, got %v", err)
	}
}
