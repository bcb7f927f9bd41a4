package shower

import (
	"github.com/drinkingkazu/pi0-reco/dbscan"
	"github.com/drinkingkazu/pi0-reco/geom"
)

// FragmentIndex holds the derived attributes of one fragment: its centroid
// and the indices of its member points, relative to the coordinate slice
// the index was built from.
type FragmentIndex struct {
	Fragment int
	Centroid geom.Vec3
	Members  []int
}

// BuildFragmentIndex computes a FragmentIndex for each requested fragment
// label, in the order the labels are supplied. Noise labels are skipped
// entirely, so the output may be shorter than the input label list.
// Duplicate labels produce duplicate (identical) entries.
//
// coords and labels must have equal length; member indices refer into
// coords as passed here, not into any earlier unfiltered array.
func BuildFragmentIndex(coords []geom.Vec3, labels []int, fragments []int) []FragmentIndex {
	index := make([]FragmentIndex, 0, len(fragments))
	for _, frag := range fragments {
		if frag == dbscan.Noise {
			continue
		}
		var members []int
		var sum geom.Vec3
		for i, l := range labels {
			if l == frag {
				members = append(members, i)
				sum = sum.Add(coords[i])
			}
		}
		centroid := geom.Vec3{}
		if len(members) > 0 {
			centroid = sum.Scale(1 / float64(len(members)))
		}
		index = append(index, FragmentIndex{
			Fragment: frag,
			Centroid: centroid,
			Members:  members,
		})
	}
	return index
}
