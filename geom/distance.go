package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PairwiseDistances computes the full Euclidean distance matrix between two
// point sets: element (i, j) is the distance from a[i] to b[j]. Either set
// may be empty, producing a matrix with a zero dimension (represented as nil
// since gonum rejects zero-sized matrices).
func PairwiseDistances(a, b []Vec3) *mat.Dense {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	d := mat.NewDense(len(a), len(b), nil)
	for i, p := range a {
		for j, q := range b {
			dx := p.X - q.X
			dy := p.Y - q.Y
			dz := p.Z - q.Z
			d.Set(i, j, math.Sqrt(dx*dx+dy*dy+dz*dz))
		}
	}
	return d
}

// ColMin returns the minimum value in column j of d and the row index where
// it occurs. The matrix must have at least one row.
func ColMin(d *mat.Dense, j int) (float64, int) {
	rows, _ := d.Dims()
	best := d.At(0, j)
	bestRow := 0
	for i := 1; i < rows; i++ {
		if v := d.At(i, j); v < best {
			best = v
			bestRow = i
		}
	}
	return best, bestRow
}

// RowMin returns the minimum value in row i of d.
func RowMin(d *mat.Dense, i int) float64 {
	_, cols := d.Dims()
	best := d.At(i, 0)
	for j := 1; j < cols; j++ {
		if v := d.At(i, j); v < best {
			best = v
		}
	}
	return best
}
