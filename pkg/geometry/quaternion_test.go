package geometry

import (
	"math"
	"testing"
)

const angleTolerance = 1e-6

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := WrapDegrees(tt.in); !floatEquals(got, tt.want) {
			t.Errorf("WrapDegrees(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestQuaternion_EulerRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		euler Vector3D
	}{
		{"identity", Vector3D{}},
		{"yaw", Vector3D{Y: 90}},
		{"pitch", Vector3D{X: 30}},
		{"roll", Vector3D{Z: 45}},
		{"mixed", Vector3D{X: 20, Y: 130, Z: 300}},
		{"negative pitch wraps", Vector3D{X: 340, Y: 10, Z: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FromEuler(tt.euler)
			got := q.Euler()
			if !got.EqWithin(tt.euler, 1e-6) {
				t.Errorf("FromEuler(%v).Euler() = %v", tt.euler, got)
			}
			// the rotation itself must survive even if angles are re-expressed
			if !SameRotation(FromEuler(got), q, angleTolerance) {
				t.Errorf("round trip changed the rotation: %v vs %v", FromEuler(got), q)
			}
		})
	}
}

func TestQuaternion_Forward(t *testing.T) {
	tests := []struct {
		name  string
		euler Vector3D
		want  Vector3D
	}{
		{"identity faces +Z", Vector3D{}, Forward},
		{"yaw 90 faces +X", Vector3D{Y: 90}, Right},
		{"yaw 180 faces -Z", Vector3D{Y: 180}, Vector3D{Z: -1}},
		{"pitch -90 faces +Y", Vector3D{X: -90}, Up},
		{"roll keeps forward", Vector3D{Z: 73}, Forward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromEuler(tt.euler).Forward(); !got.EqWithin(tt.want, 1e-9) {
				t.Errorf("Forward of %v = %v; want %v", tt.euler, got, tt.want)
			}
		})
	}
}

func TestLookRotation(t *testing.T) {
	dirs := []Vector3D{
		Forward,
		Right,
		{X: -3, Y: 1, Z: 2},
		{Z: -5},
		Up,
		{Y: -2},
	}
	for _, d := range dirs {
		q, ok := LookRotation(d)
		if !ok {
			t.Fatalf("LookRotation(%v) reported a degenerate direction", d)
		}
		if got := q.Forward(); !got.EqWithin(d.Normalize(), 1e-9) {
			t.Errorf("LookRotation(%v).Forward() = %v", d, got)
		}
	}

	if _, ok := LookRotation(Zero); ok {
		t.Error("LookRotation(0) should not be ok")
	}
}

func TestAngle(t *testing.T) {
	a := Identity
	b := FromEuler(Vector3D{Y: 90})
	if got := Angle(a, b); math.Abs(got-90) > angleTolerance {
		t.Errorf("Angle = %v; want 90", got)
	}
	if got := Angle(b, b); got != 0 {
		t.Errorf("Angle(self) = %v; want 0", got)
	}
	neg := Quaternion{W: -b.W, X: -b.X, Y: -b.Y, Z: -b.Z}
	if got := Angle(b, neg); got != 0 {
		t.Errorf("Angle(q, -q) = %v; want 0", got)
	}
}

func TestSlerp(t *testing.T) {
	a := Identity
	b := FromEuler(Vector3D{Y: 90})

	t.Run("endpoints", func(t *testing.T) {
		if !SameRotation(Slerp(a, b, 0), a, angleTolerance) {
			t.Error("Slerp(t=0) should be a")
		}
		if !SameRotation(Slerp(a, b, 1), b, angleTolerance) {
			t.Error("Slerp(t=1) should be b")
		}
	})

	t.Run("midpoint", func(t *testing.T) {
		mid := Slerp(a, b, 0.5)
		if got := Angle(a, mid); math.Abs(got-45) > angleTolerance {
			t.Errorf("Angle to midpoint = %v; want 45", got)
		}
	})

	t.Run("fraction moves proportionally", func(t *testing.T) {
		c := FromEuler(Vector3D{X: 40, Y: 170, Z: 10})
		total := Angle(a, c)
		got := Angle(a, Slerp(a, c, 0.25))
		if math.Abs(got-total*0.25) > 1e-6 {
			t.Errorf("moved %v; want %v", got, total*0.25)
		}
	})

	t.Run("shortest path", func(t *testing.T) {
		from := FromEuler(Vector3D{Y: 350})
		to := FromEuler(Vector3D{Y: 10})
		mid := Slerp(from, to, 0.5)
		if got := Angle(mid, Identity); got > angleTolerance {
			t.Errorf("Slerp(350, 10) midpoint is %v degrees away from yaw 0", got)
		}
	})

	t.Run("t is clamped", func(t *testing.T) {
		if !SameRotation(Slerp(a, b, 3), b, angleTolerance) {
			t.Error("Slerp(t>1) should clamp to b")
		}
		if !SameRotation(Slerp(a, b, -1), a, angleTolerance) {
			t.Error("Slerp(t<0) should clamp to a")
		}
	})
}

func TestQuaternion_Inverse(t *testing.T) {
	q := FromEuler(Vector3D{X: 15, Y: 60, Z: 5})
	if !SameRotation(q.Mul(q.Inverse()), Identity, angleTolerance) {
		t.Errorf("q * q^-1 = %v; want identity", q.Mul(q.Inverse()))
	}
	v := Vector3D{1, 2, 3}
	if got := q.Inverse().Rotate(q.Rotate(v)); !got.EqWithin(v, 1e-9) {
		t.Errorf("inverse did not undo rotation: %v", got)
	}
}

func TestQuaternion_NormalizeDegenerate(t *testing.T) {
	if got := (Quaternion{}).Normalize(); got != Identity {
		t.Errorf("Normalize(0) = %v; want identity", got)
	}
}
