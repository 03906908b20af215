package placement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/arplace/internal/observability"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config configures session requests and placement behavior.
type Config struct {
	Required      spatial.CapabilitySet
	Optional      spatial.CapabilitySet
	SpaceOrder    []spatial.ReferenceSpaceKind
	PlacementLift float64
}

// DefaultConfig requires hit-testing and asks for floor-anchored spaces
// when the device has them.
func DefaultConfig() Config {
	return Config{
		Required:   spatial.NewCapabilitySet(spatial.CapabilityHitTest),
		Optional:   spatial.NewCapabilitySet(spatial.CapabilityLocalFloor, spatial.CapabilityBoundedFloor),
		SpaceOrder: spatial.DefaultSpaceOrder(),
	}
}

// WithDefaults fills empty fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if len(c.Required) == 0 {
		c.Required = def.Required
	}
	if c.Optional == nil {
		c.Optional = def.Optional
	}
	if len(c.SpaceOrder) == 0 {
		c.SpaceOrder = def.SpaceOrder
	}
	return c
}

// Status is a point-in-time snapshot of the lifecycle.
type Status struct {
	State           State                      `json:"state"`
	SessionID       string                     `json:"session_id,omitempty"`
	ReferenceSpace  spatial.ReferenceSpaceKind `json:"reference_space,omitempty"`
	HitTestReady    bool                       `json:"hit_test_ready"`
	Reticle         Reticle                    `json:"reticle"`
	Placed          bool                       `json:"placed"`
	PlacedTransform spatial.Transform          `json:"placed_transform"`
	Frames          uint64                     `json:"frames"`
	LastError       string                     `json:"last_error,omitempty"`
}

// sessionContext bundles everything scoped to one granted session.
type sessionContext struct {
	id      string
	ctx     context.Context
	cancel  context.CancelFunc
	session xr.Session

	space        xr.ReferenceSpace
	setupStarted bool
	ended        bool
	tracker      *HitTestTracker
	reticle      Reticle
	placement    *Controller
}

// teardown releases session resources and returns the instance that was
// placed, if any.
func (sc *sessionContext) teardown() (PlacedInstance, bool) {
	sc.tracker.Release()
	sc.cancel()
	sc.reticle.Hide()
	return sc.placement.Reset()
}

func (sc *sessionContext) view(t time.Duration) FrameView {
	view := FrameView{
		Time:           t,
		ReticleVisible: sc.reticle.Visible,
		ReticlePose:    sc.reticle.Pose,
	}
	if inst, ok := sc.placement.Instance(); ok {
		view.Placed = true
		view.PlacedTransform = inst.Transform
	}
	return view
}

// Lifecycle sequences session start, space negotiation, hit-test setup,
// per-frame updates and session end.
//
// Frame ticks and placement inputs are serialized by mu. Negotiation and
// hit-test setup run on their own goroutines and re-check that their
// session is still current before applying anything. Renderer and UI
// callbacks are queued under mu and delivered outside it, in queue order.
type Lifecycle struct {
	platform   xr.Platform
	assets     AssetSource
	renderer   Renderer
	ui         UI
	negotiator *Negotiator
	cfg        Config

	mu      sync.Mutex
	state   State
	sctx    *sessionContext
	frames  uint64
	lastErr error
	wg      sync.WaitGroup
	out     outbox
}

// NewLifecycle wires a lifecycle. Nil renderer or ui fall back to no-ops.
func NewLifecycle(platform xr.Platform, assets AssetSource, renderer Renderer, ui UI, cfg Config) (*Lifecycle, error) {
	if platform == nil {
		return nil, errors.New("placement: platform required")
	}
	cfg = cfg.WithDefaults()
	negotiator, err := NewNegotiator(cfg.SpaceOrder...)
	if err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if ui == nil {
		ui = nopUI{}
	}
	return &Lifecycle{
		platform:   platform,
		assets:     assets,
		renderer:   renderer,
		ui:         ui,
		negotiator: negotiator,
		cfg:        cfg,
		state:      StateIdle,
	}, nil
}

// Start requests a session with the configured capability sets.
func (l *Lifecycle) Start(ctx context.Context) error {
	return l.RequestStart(ctx, l.cfg.Required, l.cfg.Optional)
}

// RequestStart asks the platform for a session. On success the lifecycle is
// Active and reference space negotiation is running; on failure it is
// Failed and no session is held.
func (l *Lifecycle) RequestStart(ctx context.Context, required, optional spatial.CapabilitySet) error {
	if !required.Has(spatial.CapabilityHitTest) {
		return fmt.Errorf("%w: required set %q lacks %q", ErrInvalidCapabilities, required, spatial.CapabilityHitTest)
	}

	l.mu.Lock()
	if !l.state.canStart() {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("%w: start requested while %s", ErrInvalidTransition, state)
	}
	l.lastErr = nil
	l.transitionLocked(StateStarting)
	l.mu.Unlock()

	if !l.platform.IsTrackingSupported(ctx) {
		return l.failStart(fmt.Errorf("%w: world tracking not available", ErrCapabilityUnsupported))
	}

	session, err := l.platform.RequestSession(ctx, required, optional)
	if err != nil {
		if errors.Is(err, xr.ErrNotSupported) {
			return l.failStart(fmt.Errorf("%w: %w", ErrCapabilityUnsupported, err))
		}
		return l.failStart(fmt.Errorf("%w: %w", ErrSessionRequestFailed, err))
	}
	if enabled := session.EnabledCapabilities(); !enabled.Has(spatial.CapabilityHitTest) {
		_ = session.End()
		return l.failStart(fmt.Errorf("%w: session granted %q without %q", ErrCapabilityUnsupported, enabled, spatial.CapabilityHitTest))
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sc := &sessionContext{
		id:        uuid.NewString(),
		ctx:       sessionCtx,
		cancel:    cancel,
		session:   session,
		tracker:   NewHitTestTracker(),
		placement: NewController(l.assets, l.cfg.PlacementLift),
	}

	session.OnEnd(func() { l.endSession(sc, "platform") })

	l.mu.Lock()
	if sc.ended {
		l.mu.Unlock()
		sc.cancel()
		return l.failStart(fmt.Errorf("%w: %w before activation", ErrSessionRequestFailed, xr.ErrSessionEnded))
	}
	l.sctx = sc
	l.transitionLocked(StateActive)
	l.wg.Add(1)
	l.out.push(func() { l.ui.SessionStarted(sc.id) })
	l.mu.Unlock()

	go l.negotiate(sc)

	log.Info().
		Str("session", sc.id).
		Str("required", required.String()).
		Str("optional", optional.String()).
		Str("enabled", session.EnabledCapabilities().String()).
		Msg("placement.Lifecycle.RequestStart active")
	l.out.flush()
	return nil
}

func (l *Lifecycle) failStart(err error) error {
	l.mu.Lock()
	l.lastErr = err
	l.transitionLocked(StateFailed)
	l.out.push(func() { l.ui.SessionFailed(err) })
	l.mu.Unlock()

	log.Warn().Err(err).Msg("placement.Lifecycle.RequestStart failed")
	l.out.flush()
	return err
}

func (l *Lifecycle) negotiate(sc *sessionContext) {
	defer l.wg.Done()

	start := time.Now()
	space, err := l.negotiator.Negotiate(sc.ctx, sc.session)
	observability.RecordSetup("negotiation", time.Since(start), err == nil)

	l.mu.Lock()
	if !l.currentLocked(sc) {
		l.mu.Unlock()
		log.Debug().Str("session", sc.id).Msg("placement.Lifecycle.negotiate result discarded")
		return
	}
	if err != nil {
		_, _ = sc.teardown()
		l.sctx = nil
		l.lastErr = err
		l.transitionLocked(StateFailed)
		l.out.push(func() { l.ui.SessionFailed(err) })
		l.mu.Unlock()

		log.Error().Str("session", sc.id).Err(err).Msg("placement.Lifecycle.negotiate failed")
		_ = sc.session.End()
		l.out.flush()
		return
	}
	sc.space = space
	l.mu.Unlock()

	log.Info().
		Str("session", sc.id).
		Str("reference_space", string(space.Kind())).
		Msg("placement.Lifecycle.negotiate complete")
}

func (l *Lifecycle) setupHitTest(sc *sessionContext) {
	defer l.wg.Done()

	start := time.Now()
	_, err := sc.tracker.Setup(sc.ctx, sc.session)
	observability.RecordSetup("hit_test", time.Since(start), err == nil)

	l.mu.Lock()
	current := l.currentLocked(sc)
	if current && err != nil {
		l.lastErr = err
	}
	l.mu.Unlock()

	switch {
	case !current:
		return
	case err != nil:
		log.Warn().Str("session", sc.id).Err(err).Msg("placement.Lifecycle.setupHitTest failed; reticle stays hidden")
	default:
		log.Info().Str("session", sc.id).Msg("placement.Lifecycle.setupHitTest ready")
	}
}

// FrameTick advances one platform frame. It is a no-op unless Active.
// Before negotiation completes the frame is still rendered but hit-test
// processing is skipped.
func (l *Lifecycle) FrameTick(frame xr.Frame) {
	l.mu.Lock()
	sc := l.sctx
	if l.state != StateActive || sc == nil || frame == nil {
		l.mu.Unlock()
		return
	}
	l.frames++
	outcome := l.trackLocked(sc, frame)
	view := sc.view(frame.Time())
	l.out.push(func() { l.renderer.FrameReady(view) })
	l.mu.Unlock()

	observability.RecordFrame(outcome)
	l.out.flush()
}

func (l *Lifecycle) trackLocked(sc *sessionContext, frame xr.Frame) string {
	if sc.space == nil {
		return FramePending
	}
	if !sc.setupStarted {
		sc.setupStarted = true
		l.wg.Add(1)
		go l.setupHitTest(sc)
	}
	if _, ok := frame.ViewerPose(sc.space); !ok {
		sc.reticle.Hide()
		return FrameUntracked
	}

	hit, ok := sc.tracker.Poll(frame, sc.space)
	sc.reticle.Update(hit, ok)
	switch {
	case ok:
		return FrameHit
	case sc.tracker.Ready():
		return FrameMiss
	default:
		return FramePending
	}
}

// PlacementInput applies one user placement request against the current
// reticle.
func (l *Lifecycle) PlacementInput() PlacementOutcome {
	l.mu.Lock()
	sc := l.sctx
	if l.state != StateActive || sc == nil {
		l.mu.Unlock()
		observability.RecordPlacement(PlacementIgnoredInactive.String())
		return PlacementIgnoredInactive
	}
	outcome, inst := sc.placement.OnPlacementInput(sc.reticle)
	var placed PlacedInstance
	if inst != nil {
		placed = *inst
	}
	if outcome == PlacementCreated {
		l.out.push(func() { l.renderer.AddToScene(placed) })
	}
	l.mu.Unlock()

	observability.RecordPlacement(outcome.String())
	event := log.Debug()
	if outcome.Applied() {
		event = log.Info()
	}
	event.
		Str("session", sc.id).
		Str("outcome", outcome.String()).
		Stringer("pose", placed.Transform.Pose()).
		Msg("placement.Lifecycle.PlacementInput")
	l.out.flush()
	return outcome
}

// Stop ends the session on request: Active -> Ending -> Ended.
func (l *Lifecycle) Stop() error {
	l.mu.Lock()
	sc := l.sctx
	if l.state != StateActive || sc == nil {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("%w: stop requested while %s", ErrInvalidTransition, state)
	}
	l.transitionLocked(StateEnding)
	l.mu.Unlock()

	err := sc.session.End()
	l.endSession(sc, "stop")
	if err != nil {
		return fmt.Errorf("placement: end session: %w", err)
	}
	return nil
}

// OnPlatformEnd handles the platform's end signal for the current session.
// Only the first signal has any effect.
func (l *Lifecycle) OnPlatformEnd() {
	l.mu.Lock()
	sc := l.sctx
	l.mu.Unlock()
	l.endSession(sc, "platform")
}

// endSession marks sc ended and, if it is the live session, tears it down.
// An end that lands before activation is picked up by RequestStart.
func (l *Lifecycle) endSession(sc *sessionContext, reason string) {
	if sc == nil {
		return
	}
	l.mu.Lock()
	sc.ended = true
	if l.sctx != sc || (l.state != StateActive && l.state != StateEnding) {
		l.mu.Unlock()
		return
	}
	removed, hadInstance := sc.teardown()
	l.sctx = nil
	l.transitionLocked(StateEnded)
	if hadInstance {
		l.out.push(func() { l.renderer.RemoveFromScene(removed) })
	}
	l.out.push(func() { l.ui.SessionEnded(sc.id) })
	l.mu.Unlock()

	log.Info().
		Str("session", sc.id).
		Str("reason", reason).
		Bool("had_instance", hadInstance).
		Msg("placement.Lifecycle.endSession ended")
	l.out.flush()
}

// Wait blocks until in-flight negotiation and setup goroutines return.
func (l *Lifecycle) Wait() {
	l.wg.Wait()
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := Status{State: l.state, Frames: l.frames}
	if l.lastErr != nil {
		st.LastError = l.lastErr.Error()
	}
	sc := l.sctx
	if sc == nil {
		return st
	}
	st.SessionID = sc.id
	if sc.space != nil {
		st.ReferenceSpace = sc.space.Kind()
	}
	st.HitTestReady = sc.tracker.Ready()
	st.Reticle = sc.reticle
	if inst, ok := sc.placement.Instance(); ok {
		st.Placed = true
		st.PlacedTransform = inst.Transform
	}
	return st
}

func (l *Lifecycle) currentLocked(sc *sessionContext) bool {
	return l.sctx == sc && l.state == StateActive
}

func (l *Lifecycle) transitionLocked(next State) {
	if l.state == next {
		return
	}
	log.Debug().
		Str("from", string(l.state)).
		Str("to", string(next)).
		Msg("placement.Lifecycle transition")
	l.state = next
	observability.RecordSessionTransition(string(next))
}
