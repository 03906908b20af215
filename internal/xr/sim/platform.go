// Package sim is a scripted in-process tracking platform.
//
// It backs the arplacectl simulate command and the placement tests that
// need a whole platform rather than a single stub.
package sim

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/xr"
)

// Config describes what the simulated device can do.
type Config struct {
	Supported   bool
	DenySession bool
	Features    spatial.CapabilitySet
	Spaces      []spatial.ReferenceSpaceKind
	HitTest     bool
	Latency     time.Duration
}

// DefaultConfig is a fully capable handheld.
func DefaultConfig() Config {
	return Config{
		Supported: true,
		Features: spatial.NewCapabilitySet(
			spatial.CapabilityHitTest,
			spatial.CapabilityLocalFloor,
			spatial.CapabilityBoundedFloor,
		),
		Spaces:  []spatial.ReferenceSpaceKind{spatial.SpaceLocalFloor, spatial.SpaceLocal, spatial.SpaceViewer},
		HitTest: true,
	}
}

// Platform implements xr.Platform.
type Platform struct {
	cfg      Config
	mu       sync.Mutex
	sessions []*Session
}

var _ xr.Platform = (*Platform)(nil)

func NewPlatform(cfg Config) *Platform {
	return &Platform{cfg: cfg}
}

func (p *Platform) IsTrackingSupported(context.Context) bool {
	return p.cfg.Supported
}

func (p *Platform) RequestSession(ctx context.Context, required, optional spatial.CapabilitySet) (xr.Session, error) {
	if err := wait(ctx, p.cfg.Latency); err != nil {
		return nil, err
	}
	if !p.cfg.Supported {
		return nil, xr.ErrNotSupported
	}
	if p.cfg.DenySession {
		return nil, xr.ErrSessionDenied
	}
	for _, c := range required {
		if !p.cfg.Features.Has(c) {
			return nil, fmt.Errorf("%w: required feature %q", xr.ErrNotSupported, c)
		}
	}
	enabled := slices.Clone(required)
	for _, c := range optional {
		if p.cfg.Features.Has(c) {
			enabled = append(enabled, c)
		}
	}

	s := &Session{cfg: p.cfg, enabled: spatial.NewCapabilitySet(enabled...)}
	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()
	return s, nil
}

// Sessions returns every session granted so far.
func (p *Platform) Sessions() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.sessions)
}

// Session implements xr.Session.
type Session struct {
	cfg     Config
	enabled spatial.CapabilitySet

	mu         sync.Mutex
	ended      bool
	onEnd      []func()
	attempts   []spatial.ReferenceSpaceKind
	hitSources atomic.Int64
}

var _ xr.Session = (*Session)(nil)

func (s *Session) EnabledCapabilities() spatial.CapabilitySet {
	return slices.Clone(s.enabled)
}

func (s *Session) RequestReferenceSpace(ctx context.Context, kind spatial.ReferenceSpaceKind) (xr.ReferenceSpace, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, kind)
	s.mu.Unlock()

	if err := wait(ctx, s.cfg.Latency); err != nil {
		return nil, err
	}
	if s.Ended() {
		return nil, xr.ErrSessionEnded
	}
	if !kind.Known() {
		return nil, fmt.Errorf("%w: %q", xr.ErrUnknownSpace, kind)
	}
	if !slices.Contains(s.cfg.Spaces, kind) {
		return nil, fmt.Errorf("%w: reference space %q", xr.ErrNotSupported, kind)
	}
	return &Space{kind: kind, owner: s}, nil
}

func (s *Session) RequestHitTestSource(ctx context.Context, origin xr.ReferenceSpace) (xr.HitTestSource, error) {
	s.hitSources.Add(1)
	if err := wait(ctx, s.cfg.Latency); err != nil {
		return nil, err
	}
	if s.Ended() {
		return nil, xr.ErrSessionEnded
	}
	space, ok := origin.(*Space)
	if !ok || space.owner != s {
		return nil, xr.ErrForeignHandle
	}
	if !s.cfg.HitTest || !s.enabled.Has(spatial.CapabilityHitTest) {
		return nil, fmt.Errorf("%w: hit-test", xr.ErrNotSupported)
	}
	return &Source{owner: s}, nil
}

func (s *Session) OnEnd(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, fn)
}

// End fires the end callbacks once; later calls are no-ops.
func (s *Session) End() error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil
	}
	s.ended = true
	callbacks := slices.Clone(s.onEnd)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return nil
}

func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// SpaceAttempts lists reference space requests in call order.
func (s *Session) SpaceAttempts() []spatial.ReferenceSpaceKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.attempts)
}

// HitTestRequests counts hit-test subscription requests.
func (s *Session) HitTestRequests() int {
	return int(s.hitSources.Load())
}

// Space implements xr.ReferenceSpace.
type Space struct {
	kind  spatial.ReferenceSpaceKind
	owner *Session
}

func (s *Space) Kind() spatial.ReferenceSpaceKind { return s.kind }

// Source implements xr.HitTestSource.
type Source struct {
	owner     *Session
	cancelled atomic.Bool
}

func (s *Source) Cancel()         { s.cancelled.Store(true) }
func (s *Source) Cancelled() bool { return s.cancelled.Load() }

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
