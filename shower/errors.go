package shower

import "errors"

var (
	// ErrInvalidMode is returned when an unrecognized estimation mode is
	// requested. The check runs before any clustering work, so a failed
	// call has no side effects.
	ErrInvalidMode = errors.New("invalid direction estimation mode")

	// ErrFragmentMismatch is returned when the assignment pass could not
	// produce one usable fragment per primary, typically because a
	// primary's nearest point was noise or no points survived the energy
	// threshold.
	ErrFragmentMismatch = errors.New("fragment count does not match primary count")

	// ErrZeroNormDirection is returned when normalization is requested
	// and an estimated direction has exactly zero length. Surfacing the
	// condition keeps NaN out of the output.
	ErrZeroNormDirection = errors.New("direction vector has zero norm")
)
