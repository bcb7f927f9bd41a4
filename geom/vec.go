package geom

import "math"

// Vec3 is a point or direction in 3-D detector coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Centroid returns the arithmetic mean of points.
// Returns the zero vector for an empty slice.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

// WeightedCentroid returns the weighted mean of points. The k-th weight
// pairs with the k-th point; len(weights) must equal len(points).
// Returns the zero vector when the total weight is zero.
func WeightedCentroid(points []Vec3, weights []float64) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	var total float64
	for i, p := range points {
		sum = sum.Add(p.Scale(weights[i]))
		total += weights[i]
	}
	if total == 0 {
		return Vec3{}
	}
	return sum.Scale(1 / total)
}
