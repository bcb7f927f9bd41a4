// Package geom provides the 3-D vector and matrix primitives shared by the
// shower reconstruction pipeline: basic vector arithmetic, pairwise
// Euclidean distance matrices, and principal-axis extraction via
// eigendecomposition of the point covariance.
package geom
