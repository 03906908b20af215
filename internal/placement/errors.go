package placement

import "errors"

var (
	ErrCapabilityUnsupported           = errors.New("placement: capability unsupported")
	ErrSessionRequestFailed            = errors.New("placement: session request failed")
	ErrReferenceSpaceNegotiationFailed = errors.New("placement: reference space negotiation failed")
	ErrHitTestSetupFailed              = errors.New("placement: hit-test setup failed")
	ErrInvalidTransition               = errors.New("placement: invalid lifecycle transition")
	ErrInvalidCapabilities             = errors.New("placement: invalid capability set")
	ErrInvalidSpaceOrder               = errors.New("placement: invalid reference space order")
	ErrTrackerReleased                 = errors.New("placement: hit-test tracker released")
)
