package placement

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/arplace/internal/asset"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type stubPlatform struct {
	supported  bool
	sessionErr error
	session    *stubSession
	requests   atomic.Int32
}

func (p *stubPlatform) IsTrackingSupported(context.Context) bool { return p.supported }

func (p *stubPlatform) RequestSession(_ context.Context, required, optional spatial.CapabilitySet) (xr.Session, error) {
	p.requests.Add(1)
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	if p.session.enabled == nil {
		p.session.enabled = append(spatial.CapabilitySet{}, required...)
	}
	return p.session, nil
}

type stubSession struct {
	enabled spatial.CapabilitySet
	spaces  map[spatial.ReferenceSpaceKind]bool

	// spaceGate, when set, holds world space requests until closed.
	spaceGate chan struct{}
	// hitGate, when set, holds hit-test subscription requests until closed.
	hitGate    chan struct{}
	hitErr     error
	hitStarted chan struct{}
	// endOnRegister ends the session as soon as an end callback is added.
	endOnRegister bool

	mu          sync.Mutex
	attempts    []spatial.ReferenceSpaceKind
	onEnd       []func()
	ended       int
	hitRequests atomic.Int32
	sources     []*stubSource
}

func newStubSession(spaces ...spatial.ReferenceSpaceKind) *stubSession {
	s := &stubSession{
		spaces:     make(map[spatial.ReferenceSpaceKind]bool),
		hitStarted: make(chan struct{}, 16),
	}
	for _, kind := range spaces {
		s.spaces[kind] = true
	}
	return s
}

func (s *stubSession) EnabledCapabilities() spatial.CapabilitySet { return s.enabled }

func (s *stubSession) RequestReferenceSpace(ctx context.Context, kind spatial.ReferenceSpaceKind) (xr.ReferenceSpace, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, kind)
	s.mu.Unlock()

	if kind != spatial.SpaceViewer && s.spaceGate != nil {
		select {
		case <-s.spaceGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !s.spaces[kind] {
		return nil, xr.ErrNotSupported
	}
	return stubSpace{kind: kind}, nil
}

func (s *stubSession) RequestHitTestSource(ctx context.Context, _ xr.ReferenceSpace) (xr.HitTestSource, error) {
	s.hitRequests.Add(1)
	s.hitStarted <- struct{}{}
	if s.hitGate != nil {
		select {
		case <-s.hitGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.hitErr != nil {
		return nil, s.hitErr
	}
	src := &stubSource{}
	s.mu.Lock()
	s.sources = append(s.sources, src)
	s.mu.Unlock()
	return src, nil
}

func (s *stubSession) OnEnd(fn func()) {
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
	if s.endOnRegister {
		_ = s.End()
	}
}

func (s *stubSession) End() error {
	s.mu.Lock()
	s.ended++
	callbacks := append([]func(){}, s.onEnd...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

func (s *stubSession) endCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *stubSession) spaceAttempts() []spatial.ReferenceSpaceKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spatial.ReferenceSpaceKind{}, s.attempts...)
}

type stubSpace struct {
	kind spatial.ReferenceSpaceKind
}

func (s stubSpace) Kind() spatial.ReferenceSpaceKind { return s.kind }

type stubSource struct {
	cancelled atomic.Bool
}

func (s *stubSource) Cancel() { s.cancelled.Store(true) }

type stubFrame struct {
	t         time.Duration
	untracked bool
	hits      []spatial.HitResult
}

func (f stubFrame) Time() time.Duration { return f.t }

func (f stubFrame) ViewerPose(xr.ReferenceSpace) (spatial.Pose, bool) {
	return spatial.IdentityPose(), !f.untracked
}

func (f stubFrame) HitTestResults(source xr.HitTestSource, _ xr.ReferenceSpace) []spatial.HitResult {
	if source == nil {
		return nil
	}
	return f.hits
}

func hitFrame(t time.Duration, pose spatial.Pose) stubFrame {
	return stubFrame{t: t, hits: []spatial.HitResult{{Pose: pose}}}
}

type recordingRenderer struct {
	mu      sync.Mutex
	views   []FrameView
	added   []PlacedInstance
	removed []PlacedInstance
	scene   []string
}

func (r *recordingRenderer) FrameReady(view FrameView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
}

func (r *recordingRenderer) AddToScene(inst PlacedInstance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, inst)
	r.scene = append(r.scene, "add "+inst.Name)
}

func (r *recordingRenderer) RemoveFromScene(inst PlacedInstance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, inst)
	r.scene = append(r.scene, "remove "+inst.Name)
}

func (r *recordingRenderer) lastView(t *testing.T) FrameView {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		t.Fatalf("renderer received no frames")
	}
	return r.views[len(r.views)-1]
}

type recordingUI struct {
	mu       sync.Mutex
	started  []string
	ended    []string
	failures []error
	events   []string
}

func (u *recordingUI) SessionStarted(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.started = append(u.started, id)
	u.events = append(u.events, "started")
}

func (u *recordingUI) SessionEnded(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ended = append(u.ended, id)
	u.events = append(u.events, "ended")
}

func (u *recordingUI) SessionFailed(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failures = append(u.failures, err)
	u.events = append(u.events, "failed")
}

func loadedAssets(scale spatial.Vector3) *asset.Slot {
	slot := &asset.Slot{}
	slot.Set(asset.NewPlaceable("template", asset.ObjectMeta{Name: "chair", InitialScale: scale}))
	return slot
}

func poseAt(x, y, z, yaw float64) spatial.Pose {
	return spatial.Pose{
		Position:    spatial.V3(x, y, z),
		Orientation: spatial.AxisAngle(spatial.V3(0, 1, 0), yaw),
	}
}

// onLog runs fn the first time the global logger writes msg. fn runs on
// the goroutine that logged.
func onLog(t *testing.T, msg string, fn func()) {
	t.Helper()
	prev := log.Logger
	var once sync.Once
	log.Logger = log.Logger.Hook(zerolog.HookFunc(func(_ *zerolog.Event, _ zerolog.Level, m string) {
		if m == msg {
			once.Do(fn)
		}
	}))
	t.Cleanup(func() { log.Logger = prev })
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
