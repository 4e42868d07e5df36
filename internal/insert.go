package internal

import "fmt"

// Insert a knot along a rational curve. The final multiplicity s + r may reach
// degree + 1, where s is the initial multiplicity of the knot.
//
// Corresponds to algorithm A5.1 (Piegl & Tiller)
//
// **params**
// + integer degree
// + array of nondecreasing knot values
// + array of homogeneous control points
// + parameter at which to insert the knot
// + number of times to insert the knot
//
// **returns**
// + the new knots and control points; the inputs are left untouched
//
func InsertKnot(degree int, knots KnotVec, controlPoints []HomoPoint, u float64, r int) (KnotVec, []HomoPoint, error) {
	if r < 0 {
		return nil, nil, fmt.Errorf("%w: negative insertion count %d", ErrDomain, r)
	}
	if err := knots.CheckDomain(degree, u); err != nil {
		return nil, nil, err
	}

	// s is the initial multiplicity of the knot
	s := knots.Multiplicity(u)
	if s+r > degree+1 {
		return nil, nil, fmt.Errorf("%w: inserting %g %d times on top of multiplicity %d exceeds degree+1 = %d",
			ErrDomain, u, r, s, degree+1)
	}

	if r == 0 {
		return knots.Clone(), append([]HomoPoint(nil), controlPoints...), nil
	}

	numPts := len(controlPoints)
	k := knots.Span(degree, u) // the span in which the knot will be inserted
	controlPointsTemp := make([]HomoPoint, degree-s+1)
	knotsPost := make(KnotVec, len(knots)+r)
	controlPointsPost := make([]HomoPoint, numPts+r) // a new control pt for every new knot

	// new knot vector
	copy(knotsPost, knots[:k+1])
	for i := 1; i <= r; i++ {
		knotsPost[k+i] = u
	}
	copy(knotsPost[k+1+r:], knots[k+1:])

	// the control points outside the affected window are unchanged
	copy(controlPointsPost, controlPoints[:k-degree+1])
	copy(controlPointsPost[k-s+r:], controlPoints[k-s:])

	// collect the affected control points in this temporary array
	copy(controlPointsTemp, controlPoints[k-degree:k-s+1])

	var L int

	// insert knot r times
	for j := 1; j <= r; j++ {
		L = k - degree + j
		if j > degree-s {
			// reaching multiplicity degree+1 only duplicates the point already
			// stored at L-1 and L
			break
		}

		for i := 0; i <= degree-j-s; i++ {
			alpha := (u - knots[L+i]) / (knots[i+k+1] - knots[L+i])

			controlPointsTemp[i] = HomoInterpolated(
				&controlPointsTemp[i],
				&controlPointsTemp[i+1],
				alpha,
			)
		}

		controlPointsPost[L] = controlPointsTemp[0]
		controlPointsPost[k+r-j-s] = controlPointsTemp[degree-j-s]
	}

	// load the remaining control points
	for i := L + 1; i < k-s; i++ {
		controlPointsPost[i] = controlPointsTemp[i-L]
	}

	return knotsPost, controlPointsPost, nil
}
