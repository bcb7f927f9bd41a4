package geom

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PrincipalAxis returns the unit direction of maximal variance of points,
// computed from the eigendecomposition of the 3x3 covariance matrix. The
// sign of the returned axis is unspecified: callers that need a consistent
// orientation must disambiguate it themselves.
//
// At least one point is required. Degenerate inputs (a single point, or all
// points coincident) have a zero covariance matrix; the decomposition then
// yields an arbitrary basis vector, which is still unit length.
func PrincipalAxis(points []Vec3) (Vec3, error) {
	if len(points) == 0 {
		return Vec3{}, fmt.Errorf("principal axis requires at least one point")
	}

	mean := Centroid(points)
	n := float64(len(points))

	// Covariance entries c[i][j] = E[(p_i - mean_i)(p_j - mean_j)].
	var c [3][3]float64
	for _, p := range points {
		d := p.Sub(mean)
		v := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				c[i][j] += v[i] * v[j]
			}
		}
	}
	cov := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			cov.SetSym(i, j, c[i][j]/n)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return Vec3{}, fmt.Errorf("eigendecomposition of covariance matrix failed")
	}

	// EigenSym orders eigenvalues ascending; the principal axis is the
	// eigenvector paired with the largest eigenvalue.
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	return Vec3{vecs.At(0, 2), vecs.At(1, 2), vecs.At(2, 2)}, nil
}
