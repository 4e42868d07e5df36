package internal

import "fmt"

// Split cuts a curve at the interior parameter u. The knot u is first
// raised to multiplicity degree, which makes the curve pass through a
// control point at u, and the knot vector and control points are then
// divided around that point. Both halves are clamped at u.
func Split(degree int, knots KnotVec, controlPoints []HomoPoint, u float64) (left KnotVec, leftPts []HomoPoint, right KnotVec, rightPts []HomoPoint, err error) {
	min, max := knots.Domain(degree)
	if !(u > min+Epsilon && u < max-Epsilon) {
		return nil, nil, nil, nil, fmt.Errorf("%w: split at %g not inside (%g, %g)", ErrDomain, u, min, max)
	}

	if s := knots.Multiplicity(u); s < degree {
		knots, controlPoints, err = InsertKnot(degree, knots, controlPoints, u, degree-s)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	s := knots.Multiplicity(u)

	// first index of the run of u
	a := 0
	for knots[a] < u-Epsilon {
		a++
	}
	knot := knots[a]

	left = append(knots[:a+s].Clone(), repeat(knot, degree+1-s)...)
	right = append(repeat(knot, degree+1-s), knots[a:]...)

	leftPts = append([]HomoPoint(nil), controlPoints[:a]...)
	rightPts = append([]HomoPoint(nil), controlPoints[a+s-degree-1:]...)
	return left, leftPts, right, rightPts, nil
}

// Reverse returns the knots and control points of the same curve traversed
// in the opposite direction.
func Reverse[T any](knots KnotVec, controlPoints []T) (KnotVec, []T) {
	pts := make([]T, len(controlPoints))
	for i, pt := range controlPoints {
		pts[len(pts)-1-i] = pt
	}
	return knots.Reversed(), pts
}

func repeat(v float64, n int) KnotVec {
	out := make(KnotVec, n)
	for i := range out {
		out[i] = v
	}
	return out
}
