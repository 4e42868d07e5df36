package internal

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing knot values.
const Epsilon = 1e-10

// Errors shared with the nurbs package, which re-exports them.
var (
	ErrKnotVector        = errors.New("nurbs: malformed knot vector")
	ErrDomain            = errors.New("nurbs: outside domain")
	ErrDimensionMismatch = errors.New("nurbs: dimension mismatch")
)

type KnotVec []float64

type KnotMultiplicity struct {
	Knot float64
	Mult int
}

func (this KnotVec) Clone() KnotVec {
	return append(KnotVec(nil), this...)
}

// Reversed mirrors the knot spacing while keeping the same domain.
func (this KnotVec) Reversed() KnotVec {
	l := make(KnotVec, len(this))
	length := len(this)
	for i := range l {
		l[i] = this[0] + (this[length-1] - this[length-i-1])
	}
	return l
}

// Degree derives the degree from the multiplicity of the first knot.
func (this KnotVec) Degree() int {
	if len(this) == 0 {
		return -1
	}
	return this.Multiplicities()[0].Mult - 1
}

// RequiredControlPoints is the number of control points the knot vector
// supports at its own degree: sum of multiplicities - degree - 1.
func (this KnotVec) RequiredControlPoints() int {
	return len(this) - this.Degree() - 1
}

// Domain returns knot[p] and knot[nc], the valid parameter range.
func (this KnotVec) Domain(degree int) (min, max float64) {
	return this[degree], this[len(this)-degree-1]
}

func (this KnotVec) CheckDomain(degree int, u float64) error {
	min, max := this.Domain(degree)
	if u < min || u > max || math.IsNaN(u) {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrDomain, u, min, max)
	}
	return nil
}

// Find the span on the knot vector without supplying n
//
// **params**
// + integer degree of function
// + float parameter
//
// **returns**
// + the index of the knot span
//
func (this KnotVec) Span(degree int, u float64) int {
	n := len(this) - degree - 2
	return this.SpanGivenN(n, degree, u)
}

// Find the span on the knot vector of the given parameter
// (corresponds to algorithm 2.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + integer number of basis functions - 1 = knots.length - degree - 2
// + integer degree of function
// + parameter
//
// **returns**
// + the index k with knot[k] <= u < knot[k+1]; the upper domain end maps
// to the last non-empty span
//
func (this KnotVec) SpanGivenN(n int, degree int, u float64) int {
	if u >= this[n+1] {
		// skip trailing zero-length spans so the last span is non-empty
		k := n
		for k > degree && this[k] >= this[n+1] {
			k--
		}
		return k
	}

	if u <= this[degree] {
		k := degree
		for k < n && this[k+1] <= u {
			k++
		}
		return k
	}

	low, high := degree, n+1
	mid := (low + high) / 2

	for u < this[mid] || u >= this[mid+1] {
		if u < this[mid] {
			high = mid
		} else {
			low = mid
		}

		mid = (low + high) / 2
	}

	return mid
}

//
// Determine the multiplicities of the values in a knot vector
//
// **returns**
// + run lengths over the distinct knot values, in order
//
func (this KnotVec) Multiplicities() []KnotMultiplicity {
	if len(this) == 0 {
		return nil
	}

	mults := []KnotMultiplicity{{this[0], 0}}

	var currI int
	for _, knot := range this {
		if math.Abs(knot-mults[currI].Knot) > Epsilon {
			mults = append(mults, KnotMultiplicity{knot, 0})
			currI++
		}

		mults[currI].Mult++
	}

	return mults
}

// Multiplicity returns how many times u occurs in the knot vector.
func (this KnotVec) Multiplicity(u float64) int {
	var s int
	for _, knot := range this {
		if math.Abs(knot-u) <= Epsilon {
			s++
		}
	}
	return s
}

// Continuity returns degree - multiplicity for every distinct knot. The
// clamped ends report -1, as does any interior discontinuous join.
func (this KnotVec) Continuity(degree int) []int {
	mults := this.Multiplicities()
	cont := make([]int, len(mults))
	for i, m := range mults {
		cont[i] = degree - m.Mult
	}
	return cont
}

// Validate checks that the vector is non-decreasing, clamped at both ends
// with degree+1 repeats, has no run longer than degree+1 and supports
// numPts control points.
func (this KnotVec) Validate(degree, numPts int) error {
	if degree < 0 || len(this) < (degree+1)*2 {
		return fmt.Errorf("%w: %d knots cannot carry degree %d", ErrKnotVector, len(this), degree)
	}
	if !this.IsValid(degree) {
		return fmt.Errorf("%w: must be non-decreasing and begin and end with degree + 1 repeats", ErrKnotVector)
	}
	for _, m := range this.Multiplicities() {
		if m.Mult > degree+1 {
			return fmt.Errorf("%w: knot %g repeats %d times, more than degree + 1", ErrKnotVector, m.Knot, m.Mult)
		}
	}
	if len(this) != numPts+degree+1 {
		return fmt.Errorf("%w: %d control points + degree %d + 1 must equal %d knots",
			ErrDimensionMismatch, numPts, degree, len(this))
	}
	return nil
}

func (this KnotVec) IsValid(degree int) bool {
	if len(this) == 0 {
		return false
	}

	if len(this) < (degree+1)*2 {
		return false
	}

	rep := this[0]

	for _, knot := range this[:degree+1] {
		if math.Abs(knot-rep) > Epsilon {
			return false
		}
	}

	rep = this[len(this)-1]

	for _, knot := range this[len(this)-degree-1:] {
		if math.Abs(knot-rep) > Epsilon {
			return false
		}
	}

	if this[len(this)-1]-this[0] <= Epsilon {
		return false
	}

	return this.IsNonDecreasing()
}

func (this KnotVec) IsNonDecreasing() bool {
	rep := this[0]
	for _, knot := range this[1:] {
		if knot < rep || math.IsNaN(knot) {
			return false
		}
		rep = knot
	}
	return true
}

// ClampedKnots builds a clamped knot vector from breakpoints. cont holds
// the continuity at each interior breakpoint, in [-1, degree-1]; the ends
// get degree+1 repeats.
func ClampedKnots(breaks []float64, degree int, cont []int) (KnotVec, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: negative degree %d", ErrKnotVector, degree)
	}
	if len(breaks) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", ErrKnotVector, len(breaks))
	}
	if len(cont) != len(breaks)-2 {
		return nil, fmt.Errorf("%w: %d continuity values for %d interior breakpoints",
			ErrDimensionMismatch, len(cont), len(breaks)-2)
	}

	knots := make(KnotVec, 0, 2*(degree+1)+len(cont)*degree)
	for k := 0; k < degree+1; k++ {
		knots = append(knots, breaks[0])
	}
	for i, c := range cont {
		if c < -1 || c >= degree {
			return nil, fmt.Errorf("%w: continuity %d at breakpoint %g outside [-1, %d]",
				ErrKnotVector, c, breaks[i+1], degree-1)
		}
		for k := 0; k < degree-c; k++ {
			knots = append(knots, breaks[i+1])
		}
	}
	for k := 0; k < degree+1; k++ {
		knots = append(knots, breaks[len(breaks)-1])
	}

	for i := 1; i < len(breaks); i++ {
		if breaks[i] <= breaks[i-1] {
			return nil, fmt.Errorf("%w: breakpoints must be strictly increasing", ErrKnotVector)
		}
	}

	return knots, nil
}
