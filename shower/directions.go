package shower

import (
	"fmt"

	"github.com/drinkingkazu/pi0-reco/config"
	"github.com/drinkingkazu/pi0-reco/geom"
)

// DirectionEstimator estimates a direction vector per primary from the
// geometry of the primary's assigned fragment. It composes a
// FragmentEstimator for the clustering and assignment pass and adds the
// two estimation modes on top.
//
// Like FragmentEstimator, an instance is not safe for concurrent use.
type DirectionEstimator struct {
	frags *FragmentEstimator
	last  *DirectionResult
}

// NewDirectionEstimator creates a direction estimator with explicit
// clustering parameters.
func NewDirectionEstimator(eps float64, minSamples int, minEnergy float64) *DirectionEstimator {
	return &DirectionEstimator{frags: NewFragmentEstimator(eps, minSamples, minEnergy)}
}

// NewDefaultDirectionEstimator creates a direction estimator with the
// default tuning parameters.
func NewDefaultDirectionEstimator() *DirectionEstimator {
	return &DirectionEstimator{frags: NewDefaultFragmentEstimator()}
}

// NewDirectionEstimatorFromConfig creates a direction estimator from a
// loaded tuning configuration.
func NewDirectionEstimatorFromConfig(cfg *config.TuningConfig) *DirectionEstimator {
	return &DirectionEstimator{frags: NewFragmentEstimatorFromConfig(cfg)}
}

// Fragments exposes the underlying fragment estimator, including its
// persisted last assignment result.
func (d *DirectionEstimator) Fragments() *FragmentEstimator {
	return d.frags
}

// LastResult returns the result persisted by the most recent successful
// GetDirections call, or nil if none has run.
func (d *DirectionEstimator) LastResult() *DirectionResult {
	return d.last
}

// GetDirections runs the assignment pass and estimates one direction per
// primary, in primary input order.
//
// mode selects the algorithm: ModePrincipalAxis computes the fragment's
// principal axis sign-corrected toward the fragment's bulk as seen from the
// primary; ModeCentroid computes the (optionally weighted) fragment
// centroid minus the primary position. weights applies to centroid mode
// only and pairs positionally with each fragment's member list, so it must
// have the fragment's length; pass nil for an unweighted mean.
//
// When normalize is true, each direction is scaled to unit length; a
// direction of exactly zero length is reported as ErrZeroNormDirection
// rather than propagating NaN.
//
// On any failure the previously persisted results of both estimators are
// left untouched.
func (d *DirectionEstimator) GetDirections(voxels []Voxel, primaries []Primary, maxDistance float64, mode Mode, normalize bool, weights []float64) (*DirectionResult, error) {
	// Validate before any clustering work so a failed call has no side
	// effects on persisted state.
	switch mode {
	case ModePrincipalAxis, ModeCentroid:
	default:
		return nil, fmt.Errorf("mode %q: %w", mode, ErrInvalidMode)
	}

	assignment, err := d.frags.assign(voxels, primaries, maxDistance)
	if err != nil {
		return nil, err
	}
	if len(assignment.Assignments) != len(primaries) {
		return nil, fmt.Errorf("%d fragments for %d primaries: %w",
			len(assignment.Assignments), len(primaries), ErrFragmentMismatch)
	}

	directions := make([]geom.Vec3, 0, len(primaries))
	for _, a := range assignment.Assignments {
		if len(a.Members) == 0 {
			return nil, fmt.Errorf("fragment %d assigned to primary %d has no points within range: %w",
				a.Fragment, a.Primary, ErrFragmentMismatch)
		}

		origin := primaries[a.Primary].Pos()
		members := make([]geom.Vec3, len(a.Members))
		for k, idx := range a.Members {
			members[k] = assignment.Coords[idx]
		}

		var dir geom.Vec3
		switch mode {
		case ModePrincipalAxis:
			dir, err = principalAxisEstimate(members, origin)
			if err != nil {
				return nil, fmt.Errorf("primary %d: %w", a.Primary, err)
			}
		case ModeCentroid:
			dir, err = centroidEstimate(members, origin, weights)
			if err != nil {
				return nil, fmt.Errorf("primary %d: %w", a.Primary, err)
			}
		}

		if normalize {
			norm := dir.Norm()
			if norm == 0 {
				return nil, fmt.Errorf("primary %d: %w", a.Primary, ErrZeroNormDirection)
			}
			dir = dir.Scale(1 / norm)
		}
		directions = append(directions, dir)
	}

	result := &DirectionResult{Assignment: assignment, Directions: directions}
	d.frags.last = assignment
	d.last = result
	return result, nil
}

// principalAxisEstimate returns the fragment's principal axis oriented away
// from the primary: the axis is flipped when its dot product with the
// origin-relative fragment centroid is strictly negative. A dot product of
// exactly zero leaves the axis unchanged, so the result stays unit length.
func principalAxisEstimate(members []geom.Vec3, origin geom.Vec3) (geom.Vec3, error) {
	axis, err := geom.PrincipalAxis(members)
	if err != nil {
		return geom.Vec3{}, err
	}
	if geom.Centroid(members).Sub(origin).Dot(axis) < 0 {
		axis = axis.Scale(-1)
	}
	return axis, nil
}

// centroidEstimate returns the fragment centroid minus the primary
// position. weights, when non-nil, pairs positionally with members.
func centroidEstimate(members []geom.Vec3, origin geom.Vec3, weights []float64) (geom.Vec3, error) {
	if weights == nil {
		return geom.Centroid(members).Sub(origin), nil
	}
	if len(weights) != len(members) {
		return geom.Vec3{}, fmt.Errorf("weights length %d does not match fragment size %d", len(weights), len(members))
	}
	return geom.WeightedCentroid(members, weights).Sub(origin), nil
}
