package shower

import (
	"github.com/drinkingkazu/pi0-reco/dbscan"
	"github.com/drinkingkazu/pi0-reco/geom"
)

// AssignFragsToPrimary clusters the voxels into fragments, matches each
// primary to the fragment of its nearest point, and restricts the cloud to
// the union of matched fragments within maxDistance of any primary.
//
// maxDistance bounds the distance from a point to its nearest primary; the
// bound is strict, and the nearest primary need not be the one that claimed
// the point's fragment. Pass math.Inf(1) for an unbounded assignment.
//
// The result is persisted on the estimator (replacing any previous result)
// and also returned. A degenerate input — no primaries, or no voxels above
// the energy threshold — yields an empty result, not an error; consistency
// between assignments and primaries is enforced downstream by the direction
// estimator.
func (e *FragmentEstimator) AssignFragsToPrimary(voxels []Voxel, primaries []Primary, maxDistance float64) (*AssignmentResult, error) {
	result, err := e.assign(voxels, primaries, maxDistance)
	if err != nil {
		return nil, err
	}
	e.last = result
	return result, nil
}

// assign performs the full assignment pass without touching persisted
// state, so callers can compose further computation and persist only when
// everything has succeeded.
func (e *FragmentEstimator) assign(voxels []Voxel, primaries []Primary, maxDistance float64) (*AssignmentResult, error) {
	labels, mask := e.MakeShowerFrags(voxels)

	coords := make([]geom.Vec3, 0, len(labels))
	energies := make([]float64, 0, len(labels))
	for i, v := range voxels {
		if mask[i] {
			coords = append(coords, v.Pos())
			energies = append(energies, v.Energy)
		}
	}

	if len(coords) == 0 || len(primaries) == 0 {
		return &AssignmentResult{
			Coords:      []geom.Vec3{},
			Labels:      []int{},
			Weights:     []float64{},
			Primaries:   primaries,
			Assignments: []Assignment{},
		}, nil
	}

	seeds := make([]geom.Vec3, len(primaries))
	for j, p := range primaries {
		seeds[j] = p.Pos()
	}
	dist := geom.PairwiseDistances(coords, seeds)

	// Fragment per primary: the label of the nearest point overall.
	frags := make([]int, len(primaries))
	assigned := make(map[int]bool, len(primaries))
	for j := range primaries {
		_, nearest := geom.ColMin(dist, j)
		frags[j] = labels[nearest]
		assigned[labels[nearest]] = true
	}

	// Retain whole fragments that were matched to at least one primary,
	// then cut points farther than maxDistance from every primary.
	keep := make([]bool, len(coords))
	for i, l := range labels {
		keep[i] = assigned[l] && geom.RowMin(dist, i) < maxDistance
	}

	restricted := &AssignmentResult{Primaries: primaries}
	restrictedLabels := make([]int, 0, len(labels))
	for i := range coords {
		if keep[i] {
			restricted.Coords = append(restricted.Coords, coords[i])
			restrictedLabels = append(restrictedLabels, labels[i])
			restricted.Weights = append(restricted.Weights, energies[i])
		}
	}
	restricted.Labels = restrictedLabels

	// Rebuild the fragment index on the restricted data. Noise fragments
	// are skipped, so a primary whose nearest point was noise contributes
	// no assignment; the direction estimator treats the resulting count
	// mismatch as a consistency failure.
	index := BuildFragmentIndex(restricted.Coords, restrictedLabels, frags)
	restricted.Assignments = make([]Assignment, 0, len(index))
	k := 0
	for j, frag := range frags {
		if frag == dbscan.Noise {
			continue
		}
		entry := index[k]
		k++
		restricted.Assignments = append(restricted.Assignments, Assignment{
			Primary:  j,
			Fragment: frag,
			Centroid: entry.Centroid,
			Members:  entry.Members,
		})
	}

	return restricted, nil
}
