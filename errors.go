package nurbs

import (
	"errors"

	"github.com/alexozer/nurbs/internal"
)

var (
	// ErrUnset is returned when an operation needs knots, control points or
	// stored parameters that were never supplied.
	ErrUnset = errors.New("nurbs: required data not set")

	// ErrInvalidDirection is returned for surface directions other than 1 and 2.
	ErrInvalidDirection = errors.New("nurbs: direction must be 1 or 2")

	// ErrDimensionMismatch is returned when weights, control points,
	// continuity values and knots disagree in size.
	ErrDimensionMismatch = internal.ErrDimensionMismatch

	// ErrDomain is returned for parameters outside the knot domain and for
	// negative or otherwise unusable counts.
	ErrDomain = internal.ErrDomain

	// ErrKnotVector is returned for knot vectors that are decreasing, not
	// clamped, or of a degree below one.
	ErrKnotVector = internal.ErrKnotVector
)
