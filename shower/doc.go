// Package shower implements the fragment clustering-and-assignment
// pipeline for electromagnetic shower reconstruction. Energy depositions
// (voxels) are clustered into fragments by density, each externally
// supplied primary seed is matched to the fragment of its nearest point,
// and a direction vector is estimated per primary from its fragment's
// geometry, either as a sign-corrected principal axis or as a centroid
// offset.
package shower
