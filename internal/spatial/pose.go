package spatial

import "fmt"

// Pose is a rigid placement: position plus orientation.
type Pose struct {
	Position    Vector3
	Orientation Quaternion
}

// IdentityPose sits at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: IdentityQuaternion()}
}

func (p Pose) ApproxEqual(o Pose) bool {
	return p.Position.ApproxEqual(o.Position) && p.Orientation.ApproxEqual(o.Orientation)
}

func (p Pose) String() string {
	return fmt.Sprintf(
		"pos=(%.3f,%.3f,%.3f) rot=(%.3f,%.3f,%.3f,%.3f)",
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W,
	)
}

// Transform is a pose with scale, as carried by drawable objects.
type Transform struct {
	Position    Vector3
	Orientation Quaternion
	Scale       Vector3
}

// Pose drops the scale component.
func (t Transform) Pose() Pose {
	return Pose{Position: t.Position, Orientation: t.Orientation}
}

// WithPose replaces position and orientation; scale is kept.
func (t Transform) WithPose(p Pose) Transform {
	t.Position = p.Position
	t.Orientation = p.Orientation
	return t
}

// HitResult is one surface intersection, expressed in the session's
// reference space.
type HitResult struct {
	Pose Pose
}
