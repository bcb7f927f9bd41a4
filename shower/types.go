package shower

import "github.com/drinkingkazu/pi0-reco/geom"

// Voxel is a single energy deposition: a 3-D position plus a non-negative
// energy value.
type Voxel struct {
	X, Y, Z float64
	Energy  float64
}

// Pos returns the spatial position of the voxel.
func (v Voxel) Pos() geom.Vec3 {
	return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Primary is an externally supplied seed point. Directions are estimated
// from each primary's position toward its assigned fragment.
type Primary struct {
	X, Y, Z float64
}

// Pos returns the spatial position of the primary.
func (p Primary) Pos() geom.Vec3 {
	return geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Assignment records the fragment matched to one primary: the fragment
// label of the point nearest to the primary, the fragment's centroid, and
// the indices of the fragment's member points. Member indices refer into
// the restricted arrays of the AssignmentResult that holds this record.
//
// Two primaries whose nearest points share a label produce two assignments
// with the same fragment and identical member lists; duplicates are not
// collapsed.
type Assignment struct {
	Primary  int // index into the primaries slice
	Fragment int // fragment label
	Centroid geom.Vec3
	Members  []int
}

// AssignmentResult is the immutable outcome of one fragment assignment
// pass: the point cloud restricted to assigned, in-range fragments, with
// one Assignment per primary whose nearest point belongs to a non-noise
// fragment.
type AssignmentResult struct {
	Coords      []geom.Vec3  // restricted spatial coordinates
	Labels      []int        // fragment label per restricted point
	Weights     []float64    // energy deposition per restricted point
	Primaries   []Primary    // the primaries passed to the assignment call
	Assignments []Assignment // per-primary fragment records, in primary order
}

// Clusters returns the per-primary member index lists as a positional
// slice, one entry per assignment. This is a convenience view over the
// explicit Assignment records.
func (r *AssignmentResult) Clusters() [][]int {
	clusters := make([][]int, len(r.Assignments))
	for i, a := range r.Assignments {
		clusters[i] = a.Members
	}
	return clusters
}

// DirectionResult pairs an assignment pass with the direction estimated
// for each primary, in primary input order.
type DirectionResult struct {
	Assignment *AssignmentResult
	Directions []geom.Vec3
}

// Mode selects the direction estimation algorithm.
type Mode string

const (
	// ModePrincipalAxis estimates the direction as the fragment's
	// principal axis, sign-corrected to point away from the primary's
	// origin side.
	ModePrincipalAxis Mode = "principal_axis"
	// ModeCentroid estimates the direction as the (optionally weighted)
	// fragment centroid minus the primary position.
	ModeCentroid Mode = "centroid"
)
