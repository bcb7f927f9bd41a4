package shower

import (
	"github.com/drinkingkazu/pi0-reco/config"
	"github.com/drinkingkazu/pi0-reco/dbscan"
)

// FragmentEstimator clusters shower energy depositions into fragments and
// assigns one fragment to each primary seed point. It wraps the DBSCAN
// clustering primitive behind an energy threshold and keeps the result of
// the most recent assignment pass for inspection.
//
// A FragmentEstimator is not safe for concurrent use; callers needing
// parallelism should use one instance per goroutine.
type FragmentEstimator struct {
	eps        float64
	minSamples int
	minEnergy  float64

	last *AssignmentResult
}

// NewFragmentEstimator creates an estimator with explicit clustering
// parameters: the DBSCAN neighborhood radius, minimum neighbor count, and
// the energy threshold below which voxels are ignored.
func NewFragmentEstimator(eps float64, minSamples int, minEnergy float64) *FragmentEstimator {
	return &FragmentEstimator{
		eps:        eps,
		minSamples: minSamples,
		minEnergy:  minEnergy,
	}
}

// NewDefaultFragmentEstimator creates an estimator with the default tuning
// parameters.
func NewDefaultFragmentEstimator() *FragmentEstimator {
	return NewFragmentEstimator(config.DefaultDBSCANEps, config.DefaultDBSCANMinSamples, config.DefaultMinEnergy)
}

// NewFragmentEstimatorFromConfig creates an estimator from a loaded tuning
// configuration.
func NewFragmentEstimatorFromConfig(cfg *config.TuningConfig) *FragmentEstimator {
	return NewFragmentEstimator(cfg.GetDBSCANEps(), cfg.GetDBSCANMinSamples(), cfg.GetMinEnergy())
}

// MakeShowerFrags applies the energy threshold and clusters the surviving
// voxels into fragments.
//
// The returned label slice is aligned to the masked subset: labels[k] is
// the fragment label of the k-th voxel whose energy strictly exceeds the
// threshold. mask is the full-length energy mask over the input. An input
// with no qualifying voxels yields an empty label slice, not an error.
func (e *FragmentEstimator) MakeShowerFrags(voxels []Voxel) (labels []int, mask []bool) {
	mask = make([]bool, len(voxels))
	var pts []dbscan.Point
	for i, v := range voxels {
		if v.Energy > e.minEnergy {
			mask[i] = true
			pts = append(pts, dbscan.Point{X: v.X, Y: v.Y, Z: v.Z})
		}
	}
	labels = dbscan.Cluster(pts, dbscan.Params{Eps: e.eps, MinPts: e.minSamples})
	return labels, mask
}

// LastResult returns the result persisted by the most recent successful
// assignment pass, or nil if none has run. The returned value must be
// treated as read-only; each successful pass replaces it wholesale.
func (e *FragmentEstimator) LastResult() *AssignmentResult {
	return e.last
}
