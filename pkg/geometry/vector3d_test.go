package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("NewVector(1, 2, 3) = %v; want (1, 2, 3)", v)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector3D{1.234, 5.678, -9.1}
	want := "(1.23, 5.68, -9.10)"
	if got := v.String(); got != want {
		t.Errorf("Vector3D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector3D{1, 2, 3}
	v2 := Vector3D{3, 4, 5}

	t.Run("Add", func(t *testing.T) {
		want := Vector3D{4, 6, 8}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector3D{-2, -2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector3D{2, 4, 6}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})
}

func TestVector_Products(t *testing.T) {
	t.Run("Dot", func(t *testing.T) {
		if got := Right.Dot(Up); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := (Vector3D{1, 2, 3}).Dot(Vector3D{4, 5, 6}); got != 32 {
			t.Errorf("Dot = %v; want 32", got)
		}
	})

	t.Run("Cross", func(t *testing.T) {
		if got := Right.Cross(Up); !got.Eq(Forward) {
			t.Errorf("Right x Up = %v; want %v", got, Forward)
		}
		if got := Up.Cross(Forward); !got.Eq(Right) {
			t.Errorf("Up x Forward = %v; want %v", got, Right)
		}
		v := Vector3D{1, 1, 1}
		if got := v.Cross(v); !got.Eq(Zero) {
			t.Errorf("Cross self = %v; want 0", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector3D{2, 3, 6} // 2-3-6-7

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); !floatEquals(got, 7) {
			t.Errorf("Len = %v; want 7", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); !floatEquals(got, 49) {
			t.Errorf("LenSqr = %v; want 49", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector3D{2.0 / 7, 3.0 / 7, 6.0 / 7}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Zero.Normalize()
		if !got.Eq(Zero) || got.HasNaN() {
			t.Errorf("Normalize(0,0,0) = %v; want (0,0,0)", got)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector3D{1, 1, 1}
	v2 := Vector3D{3, 4, 7} // d = (2, 3, 6) -> 7

	if got := v1.DistanceTo(v2); !floatEquals(got, 7) {
		t.Errorf("DistanceTo = %v; want 7", got)
	}
	if got := v1.DistanceSquaredTo(v2); !floatEquals(got, 49) {
		t.Errorf("DistanceSquaredTo = %v; want 49", got)
	}
}

func TestVector_ClampAxes(t *testing.T) {
	tests := []struct {
		name  string
		in    Vector3D
		bound float64
		want  Vector3D
	}{
		{"inside untouched", Vector3D{1, -2, 3}, 10, Vector3D{1, -2, 3}},
		{"on the boundary", Vector3D{10, -10, 0}, 10, Vector3D{10, -10, 0}},
		{"every axis out", Vector3D{15, -20, 100}, 10, Vector3D{10, -10, 10}},
		{"single axis out", Vector3D{0, 0, -11}, 10, Vector3D{0, 0, -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := tt.in.ClampAxes(tt.bound)
			if !once.Eq(tt.want) {
				t.Errorf("ClampAxes(%v, %v) = %v; want %v", tt.in, tt.bound, once, tt.want)
			}
			if twice := once.ClampAxes(tt.bound); twice != once {
				t.Errorf("ClampAxes is not idempotent: %v then %v", once, twice)
			}
		})
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector3D{1, 2, 3}
	if !v.Eq(Vector3D{1, 2, 3}) {
		t.Error("Eq exact match failed")
	}
	if !v.Eq(Vector3D{1 + Epsilon/2, 2 - Epsilon/2, 3}) {
		t.Error("Eq epsilon match failed")
	}
	if v.Eq(Vector3D{1.1, 2, 3}) {
		t.Error("Eq mismatch failed")
	}
}
