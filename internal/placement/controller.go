package placement

import (
	"github.com/danmuck/arplace/internal/spatial"
)

// PlacementOutcome reports what a placement input did.
type PlacementOutcome int

const (
	PlacementIgnoredInactive PlacementOutcome = iota
	PlacementIgnoredNoSurface
	PlacementIgnoredNoAsset
	PlacementCreated
	PlacementMoved
)

func (o PlacementOutcome) String() string {
	switch o {
	case PlacementIgnoredInactive:
		return "ignored_inactive"
	case PlacementIgnoredNoSurface:
		return "ignored_no_surface"
	case PlacementIgnoredNoAsset:
		return "ignored_no_asset"
	case PlacementCreated:
		return "created"
	case PlacementMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Applied reports whether the input changed the placed instance.
func (o PlacementOutcome) Applied() bool {
	return o == PlacementCreated || o == PlacementMoved
}

// Cloner is implemented by templates that need a deep copy per instance.
type Cloner interface {
	Clone() any
}

// PlacedInstance is the single user-placed object of a session.
type PlacedInstance struct {
	Name         string
	Template     any
	Transform    spatial.Transform
	InitialScale spatial.Vector3
}

// Controller applies create-or-move placement against the reticle.
type Controller struct {
	assets   AssetSource
	lift     float64
	instance *PlacedInstance
}

// NewController builds a controller. lift raises placed objects along +Y
// of the reference space; zero places them exactly on the reticle.
func NewController(assets AssetSource, lift float64) *Controller {
	return &Controller{assets: assets, lift: lift}
}

// OnPlacementInput creates the instance on the first valid input and moves
// it on every later one. Scale is only written at creation.
func (c *Controller) OnPlacementInput(reticle Reticle) (PlacementOutcome, *PlacedInstance) {
	if !reticle.Visible {
		return PlacementIgnoredNoSurface, nil
	}
	if c.assets == nil {
		return PlacementIgnoredNoAsset, nil
	}
	tpl, ok := c.assets.Asset()
	if !ok {
		return PlacementIgnoredNoAsset, nil
	}

	pose := reticle.Pose
	pose.Position = pose.Position.Add(spatial.V3(0, c.lift, 0))

	if c.instance == nil {
		template := tpl.Template
		if cl, ok := template.(Cloner); ok {
			template = cl.Clone()
		}
		c.instance = &PlacedInstance{
			Name:         tpl.Name,
			Template:     template,
			InitialScale: tpl.InitialScale,
			Transform:    spatial.Transform{Scale: tpl.InitialScale}.WithPose(pose),
		}
		return PlacementCreated, c.instance
	}

	c.instance.Transform = c.instance.Transform.WithPose(pose)
	return PlacementMoved, c.instance
}

// Instance returns a copy of the placed instance, if any.
func (c *Controller) Instance() (PlacedInstance, bool) {
	if c.instance == nil {
		return PlacedInstance{}, false
	}
	return *c.instance, true
}

// Reset drops the placed instance and returns what was removed.
func (c *Controller) Reset() (PlacedInstance, bool) {
	inst, ok := c.Instance()
	c.instance = nil
	return inst, ok
}
