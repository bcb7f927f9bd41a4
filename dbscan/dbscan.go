// Package dbscan implements density-based spatial clustering (DBSCAN) over
// 3-D points. It is the clustering primitive consumed by the shower
// fragment pipeline: the output is a label per input point, with -1 marking
// noise points that belong to no dense region.
package dbscan

import "math"

// Noise is the label assigned to points not reachable from any dense
// neighborhood.
const Noise = -1

// Default clustering parameters, tuned for voxelized energy depositions.
const (
	// DefaultEps is the default neighborhood radius in voxel units.
	DefaultEps = 2.0
	// DefaultMinPts is the default minimum neighbor count (the point
	// itself included) for a point to be a core point.
	DefaultMinPts = 5
)

// Point is a 3-D coordinate to be clustered.
type Point struct {
	X, Y, Z float64
}

// Params contains the DBSCAN configuration.
type Params struct {
	Eps    float64 // Neighborhood radius
	MinPts int     // Minimum points to form a dense region
}

// DefaultParams returns the default clustering parameters.
func DefaultParams() Params {
	return Params{Eps: DefaultEps, MinPts: DefaultMinPts}
}

// Cluster runs DBSCAN over points and returns one label per input point.
// Labels are dense non-negative integers assigned in order of cluster
// discovery (the scan proceeds in input order, so the labeling is
// deterministic for a fixed input ordering); noise points receive -1.
//
// An empty input yields an empty label slice.
func Cluster(points []Point, params Params) []int {
	n := len(points)
	if n == 0 {
		return []int{}
	}

	// 0 = unvisited, -1 = noise, >0 = cluster ID. Remapped to 0-based
	// labels on return.
	labels := make([]int, n)
	clusterID := 0

	index := newSpatialIndex(params.Eps)
	index.build(points)

	for i := 0; i < n; i++ {
		if labels[i] != 0 {
			continue
		}

		neighbors := index.regionQuery(points, i, params.Eps)
		if len(neighbors) < params.MinPts {
			labels[i] = Noise
			continue
		}

		clusterID++
		expandCluster(points, index, labels, i, neighbors, clusterID, params)
	}

	for i, l := range labels {
		if l > 0 {
			labels[i] = l - 1
		}
	}
	return labels
}

// expandCluster grows a cluster outward from a core point, absorbing
// density-reachable neighbors.
func expandCluster(points []Point, index *spatialIndex, labels []int,
	seed int, neighbors []int, clusterID int, params Params) {

	labels[seed] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == Noise {
			labels[idx] = clusterID // Noise becomes a border point
		}
		if labels[idx] != 0 {
			continue
		}

		labels[idx] = clusterID
		more := index.regionQuery(points, idx, params.Eps)
		if len(more) >= params.MinPts {
			neighbors = append(neighbors, more...)
		}
	}
}

// spatialIndex accelerates neighborhood queries with a regular 3-D grid.
// Cell size should approximately match the eps parameter so a region query
// only needs to visit the 3x3x3 block of cells around a point.
type spatialIndex struct {
	cellSize float64
	grid     map[cell][]int
}

type cell struct {
	x, y, z int64
}

func newSpatialIndex(cellSize float64) *spatialIndex {
	return &spatialIndex{
		cellSize: cellSize,
		grid:     make(map[cell][]int),
	}
}

func (si *spatialIndex) cellOf(p Point) cell {
	return cell{
		x: int64(math.Floor(p.X / si.cellSize)),
		y: int64(math.Floor(p.Y / si.cellSize)),
		z: int64(math.Floor(p.Z / si.cellSize)),
	}
}

func (si *spatialIndex) build(points []Point) {
	si.grid = make(map[cell][]int, len(points)/4+1)
	for i, p := range points {
		c := si.cellOf(p)
		si.grid[c] = append(si.grid[c], i)
	}
}

// regionQuery returns the indices of all points within eps of points[idx],
// including idx itself. Results are in a deterministic order: cells are
// visited in a fixed sequence and points within a cell in insertion order.
func (si *spatialIndex) regionQuery(points []Point, idx int, eps float64) []int {
	p := points[idx]
	base := si.cellOf(p)
	eps2 := eps * eps

	var neighbors []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				c := cell{base.x + dx, base.y + dy, base.z + dz}
				for _, candidate := range si.grid[c] {
					q := points[candidate]
					ddx := q.X - p.X
					ddy := q.Y - p.Y
					ddz := q.Z - p.Z
					if ddx*ddx+ddy*ddy+ddz*ddz <= eps2 {
						neighbors = append(neighbors, candidate)
					}
				}
			}
		}
	}
	return neighbors
}
