package geom

import (
	"math"
	"testing"
)

func TestPrincipalAxisLineAlongX(t *testing.T) {
	pts := []Vec3{
		{0, 0, 0}, {1, 0.1, 0}, {2, -0.1, 0}, {3, 0.05, 0}, {4, 0, 0},
	}

	axis, err := PrincipalAxis(pts)
	if err != nil {
		t.Fatalf("PrincipalAxis failed: %v", err)
	}

	if math.Abs(axis.Norm()-1) > 1e-9 {
		t.Errorf("axis norm = %v, want 1", axis.Norm())
	}
	// Sign is unspecified: check alignment via |x| component.
	if math.Abs(axis.X) < 0.99 {
		t.Errorf("axis = %+v, want dominant X component", axis)
	}
}

func TestPrincipalAxisDiagonalLine(t *testing.T) {
	var pts []Vec3
	for i := 0; i < 10; i++ {
		f := float64(i)
		pts = append(pts, Vec3{f, f, f})
	}

	axis, err := PrincipalAxis(pts)
	if err != nil {
		t.Fatalf("PrincipalAxis failed: %v", err)
	}

	want := 1 / math.Sqrt(3)
	if math.Abs(math.Abs(axis.X)-want) > 1e-9 ||
		math.Abs(math.Abs(axis.Y)-want) > 1e-9 ||
		math.Abs(math.Abs(axis.Z)-want) > 1e-9 {
		t.Errorf("axis = %+v, want ±(1,1,1)/√3", axis)
	}
}

func TestPrincipalAxisSinglePoint(t *testing.T) {
	axis, err := PrincipalAxis([]Vec3{{5, 5, 5}})
	if err != nil {
		t.Fatalf("PrincipalAxis failed: %v", err)
	}
	if math.Abs(axis.Norm()-1) > 1e-9 {
		t.Errorf("axis norm = %v, want unit vector even for degenerate input", axis.Norm())
	}
}

func TestPrincipalAxisEmpty(t *testing.T) {
	if _, err := PrincipalAxis(nil); err == nil {
		t.Error("expected error for empty point set")
	}
}
