package spatial

import (
	"math"
	"testing"
)

func TestComposeDecomposeRoundTrip(t *testing.T) {
	pos := V3(0.25, -1.5, 3)
	rot := AxisAngle(V3(0, 1, 0), math.Pi/3)
	scale := V3(2, 0.5, 1.25)

	gotPos, gotRot, gotScale := Compose(pos, rot, scale).Decompose()
	if !gotPos.ApproxEqual(pos) {
		t.Fatalf("position mismatch: got %+v want %+v", gotPos, pos)
	}
	if !gotRot.ApproxEqual(rot) {
		t.Fatalf("rotation mismatch: got %+v want %+v", gotRot, rot)
	}
	if !gotScale.ApproxEqual(scale) {
		t.Fatalf("scale mismatch: got %+v want %+v", gotScale, scale)
	}
}

func TestMatrixIsColumnMajor(t *testing.T) {
	m := PoseMatrix(Pose{Position: V3(1, 2, 3), Orientation: IdentityQuaternion()})
	if m[12] != 1 || m[13] != 2 || m[14] != 3 {
		t.Fatalf("translation not in last column: %v", m)
	}
	if m.Pose().Position != V3(1, 2, 3) {
		t.Fatalf("unexpected pose position: %+v", m.Pose().Position)
	}
}

func TestDecomposeLargeRotations(t *testing.T) {
	for _, axis := range []Vector3{V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1), V3(1, 1, 0)} {
		rot := AxisAngle(axis, math.Pi*0.95)
		got := PoseMatrix(Pose{Orientation: rot}).Pose().Orientation
		if !got.ApproxEqual(rot) {
			t.Fatalf("axis=%+v: got %+v want %+v", axis, got, rot)
		}
	}
}

func TestDecomposeZeroScaleKeepsIdentityRotation(t *testing.T) {
	m := Compose(V3(1, 1, 1), AxisAngle(V3(0, 1, 0), 1), V3(0, 1, 1))
	_, rot, scale := m.Decompose()
	if rot != IdentityQuaternion() {
		t.Fatalf("expected identity rotation, got %+v", rot)
	}
	if scale.X != 0 {
		t.Fatalf("unexpected scale: %+v", scale)
	}
}

func TestTransformWithPoseKeepsScale(t *testing.T) {
	tr := Transform{Orientation: IdentityQuaternion(), Scale: V3(3, 3, 3)}
	p := Pose{Position: V3(1, 0, -1), Orientation: AxisAngle(V3(0, 1, 0), 0.5)}

	got := tr.WithPose(p)
	if got.Scale != V3(3, 3, 3) {
		t.Fatalf("scale changed: %+v", got.Scale)
	}
	if !got.Pose().ApproxEqual(p) {
		t.Fatalf("pose not applied: %+v", got.Pose())
	}
}
