package shower

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// voxelBlob generates n voxels on a jittered lattice around a center, all
// with the given energy. Offsets stay well inside the default DBSCAN eps so
// the blob clusters as a single fragment.
func voxelBlob(cx, cy, cz, energy float64, n int) []Voxel {
	voxels := make([]Voxel, 0, n)
	for i := 0; i < n; i++ {
		voxels = append(voxels, Voxel{
			X:      cx + 0.3*float64(i%4),
			Y:      cy + 0.3*float64((i/4)%4),
			Z:      cz + 0.3*float64(i/16),
			Energy: energy,
		})
	}
	return voxels
}

// voxelChain generates a line of voxels along X at integer spacing.
func voxelChain(x0 float64, n int, energy float64) []Voxel {
	voxels := make([]Voxel, 0, n)
	for i := 0; i < n; i++ {
		voxels = append(voxels, Voxel{X: x0 + float64(i), Energy: energy})
	}
	return voxels
}

func TestAssignTwoBlobsTwoPrimaries(t *testing.T) {
	voxels := append(voxelBlob(0, 0, 0, 1.0, 40), voxelBlob(10, 0, 0, 1.0, 40)...)
	primaries := []Primary{{X: 0}, {X: 10}}

	e := NewDefaultFragmentEstimator()
	result, err := e.AssignFragsToPrimary(voxels, primaries, math.Inf(1))
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}

	if len(result.Assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(result.Assignments))
	}
	a0, a1 := result.Assignments[0], result.Assignments[1]
	if a0.Fragment == a1.Fragment {
		t.Errorf("primaries assigned the same fragment %d, want distinct", a0.Fragment)
	}

	// Each primary's fragment centroid should be near that primary's blob.
	if math.Abs(a0.Centroid.X) > 2 {
		t.Errorf("primary 0 centroid = %+v, want near x=0", a0.Centroid)
	}
	if math.Abs(a1.Centroid.X-10) > 2 {
		t.Errorf("primary 1 centroid = %+v, want near x=10", a1.Centroid)
	}

	// Member indices must refer into the restricted arrays and carry the
	// assignment's own label.
	for _, a := range result.Assignments {
		if len(a.Members) == 0 {
			t.Fatalf("assignment for primary %d has no members", a.Primary)
		}
		for _, idx := range a.Members {
			if idx < 0 || idx >= len(result.Coords) {
				t.Fatalf("member index %d out of range [0, %d)", idx, len(result.Coords))
			}
			if result.Labels[idx] != a.Fragment {
				t.Errorf("member %d has label %d, want %d", idx, result.Labels[idx], a.Fragment)
			}
		}
	}
}

func TestAssignSharedFragmentDuplicated(t *testing.T) {
	voxels := voxelBlob(0, 0, 0, 1.0, 40)
	primaries := []Primary{{X: 0}, {X: 1}}

	e := NewDefaultFragmentEstimator()
	result, err := e.AssignFragsToPrimary(voxels, primaries, math.Inf(1))
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}

	if len(result.Assignments) != 2 {
		t.Fatalf("got %d assignments, want 2 (one per primary, duplicates kept)", len(result.Assignments))
	}
	a0, a1 := result.Assignments[0], result.Assignments[1]
	if a0.Fragment != a1.Fragment {
		t.Fatalf("fragments differ: %d vs %d", a0.Fragment, a1.Fragment)
	}
	if diff := cmp.Diff(a0.Members, a1.Members); diff != "" {
		t.Errorf("duplicate assignments have different members (-a0 +a1):\n%s", diff)
	}
}

func TestAssignDistanceMaskUsesNearestPrimary(t *testing.T) {
	// Fragment A: chain x=0..8. Fragment B: pair at x=12,13. With eps=1.5
	// the chain stays connected and the two fragments stay separate.
	voxels := append(voxelChain(0, 9, 1.0), voxelChain(12, 2, 1.0)...)
	primaries := []Primary{{X: 0}, {X: 12}}

	e := NewFragmentEstimator(1.5, 2, 0.05)
	result, err := e.AssignFragsToPrimary(voxels, primaries, 5.0)
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}

	// The chain point at x=8 is 8 from primary 0 but only 4 from primary
	// 1, so the per-point distance mask keeps it even though its fragment
	// was claimed by primary 0. Points at x=5..7 are at least 5 from both
	// primaries and are cut.
	var kept []float64
	for _, c := range result.Coords {
		kept = append(kept, c.X)
	}
	want := map[float64]bool{0: true, 1: true, 2: true, 3: true, 4: true, 8: true, 12: true, 13: true}
	if len(kept) != len(want) {
		t.Fatalf("kept x-coords %v, want %v", kept, want)
	}
	for _, x := range kept {
		if !want[x] {
			t.Errorf("unexpected point at x=%v retained", x)
		}
	}
}

func TestAssignIdempotent(t *testing.T) {
	voxels := append(voxelBlob(0, 0, 0, 1.0, 40), voxelBlob(10, 0, 0, 1.0, 40)...)
	primaries := []Primary{{X: 0}, {X: 10}}

	e := NewDefaultFragmentEstimator()
	first, err := e.AssignFragsToPrimary(voxels, primaries, math.Inf(1))
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	second, err := e.AssignFragsToPrimary(voxels, primaries, math.Inf(1))
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated assignment differs (-first +second):\n%s", diff)
	}
	if e.LastResult() != second {
		t.Error("LastResult should hold the most recent result")
	}
}

func TestAssignEmptyPrimaries(t *testing.T) {
	voxels := voxelBlob(0, 0, 0, 1.0, 40)

	e := NewDefaultFragmentEstimator()
	result, err := e.AssignFragsToPrimary(voxels, nil, math.Inf(1))
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}
	if len(result.Assignments) != 0 || len(result.Coords) != 0 {
		t.Errorf("expected empty result for zero primaries, got %d assignments, %d coords",
			len(result.Assignments), len(result.Coords))
	}
}

func TestAssignNoQualifyingPoints(t *testing.T) {
	voxels := voxelBlob(0, 0, 0, 0.1, 40) // all below threshold

	e := NewFragmentEstimator(2.0, 5, 0.5)
	result, err := e.AssignFragsToPrimary(voxels, []Primary{{X: 0}}, math.Inf(1))
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}
	if len(result.Assignments) != 0 || len(result.Coords) != 0 {
		t.Errorf("expected empty result, got %d assignments, %d coords",
			len(result.Assignments), len(result.Coords))
	}
}

func TestAssignPrimaryNearestToNoise(t *testing.T) {
	// A proper blob plus one isolated voxel; the primary sits on the
	// isolated voxel, whose label is noise.
	voxels := append(voxelBlob(0, 0, 0, 1.0, 40), Voxel{X: 50, Energy: 1.0})
	primaries := []Primary{{X: 50}}

	e := NewDefaultFragmentEstimator()
	result, err := e.AssignFragsToPrimary(voxels, primaries, math.Inf(1))
	if err != nil {
		t.Fatalf("AssignFragsToPrimary failed: %v", err)
	}

	// Noise fragments produce no assignment; the count mismatch is for
	// the direction estimator to reject.
	if len(result.Assignments) != 0 {
		t.Errorf("got %d assignments, want 0 for a noise-matched primary", len(result.Assignments))
	}
}
