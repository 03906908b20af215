package placement

import (
	"time"

	"github.com/danmuck/arplace/internal/asset"
	"github.com/danmuck/arplace/internal/spatial"
)

// FrameView is what the renderer receives every active tick.
type FrameView struct {
	Time            time.Duration
	ReticleVisible  bool
	ReticlePose     spatial.Pose
	Placed          bool
	PlacedTransform spatial.Transform
}

// Renderer draws frames and owns the drawable scene.
type Renderer interface {
	FrameReady(view FrameView)
	AddToScene(instance PlacedInstance)
	RemoveFromScene(instance PlacedInstance)
}

// UI receives session-level notifications.
type UI interface {
	SessionStarted(sessionID string)
	SessionEnded(sessionID string)
	SessionFailed(err error)
}

// AssetSource exposes the placeable template once it has loaded.
type AssetSource interface {
	Asset() (asset.Placeable, bool)
}

var _ AssetSource = (*asset.Slot)(nil)

type nopRenderer struct{}

func (nopRenderer) FrameReady(FrameView)           {}
func (nopRenderer) AddToScene(PlacedInstance)      {}
func (nopRenderer) RemoveFromScene(PlacedInstance) {}

type nopUI struct{}

func (nopUI) SessionStarted(string) {}
func (nopUI) SessionEnded(string)   {}
func (nopUI) SessionFailed(error)   {}
