package spatial

// ReferenceSpaceKind names a platform coordinate frame.
type ReferenceSpaceKind string

const (
	SpaceBoundedFloor ReferenceSpaceKind = "bounded-floor"
	SpaceLocalFloor   ReferenceSpaceKind = "local-floor"
	SpaceLocal        ReferenceSpaceKind = "local"
	SpaceViewer       ReferenceSpaceKind = "viewer"
)

// StabilityTier orders reference spaces by positional stability.
type StabilityTier int

const (
	TierUnknown StabilityTier = iota - 1
	TierViewer
	TierDevice
	TierFloor
)

func (t StabilityTier) String() string {
	switch t {
	case TierViewer:
		return "viewer"
	case TierDevice:
		return "device"
	case TierFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// Tier reports the stability tier of a known kind.
func (k ReferenceSpaceKind) Tier() StabilityTier {
	switch k {
	case SpaceBoundedFloor, SpaceLocalFloor:
		return TierFloor
	case SpaceLocal:
		return TierDevice
	case SpaceViewer:
		return TierViewer
	default:
		return TierUnknown
	}
}

func (k ReferenceSpaceKind) Known() bool { return k.Tier() != TierUnknown }

// DefaultSpaceOrder is the negotiation order: floor, device-local, viewer.
func DefaultSpaceOrder() []ReferenceSpaceKind {
	return []ReferenceSpaceKind{SpaceLocalFloor, SpaceLocal, SpaceViewer}
}
