package nurbs

import (
	"fmt"
	"math"

	"github.com/alexozer/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Breakpoints describe a clamped knot vector by its distinct values. The
// ends get Degree+1 repeats; interior breakpoint i gets
// Degree - Continuity[i] repeats, so Continuity holds len(Values)-2 entries
// in [-1, Degree-1], where -1 is a discontinuous join.
type Breakpoints struct {
	Values     []float64
	Degree     int
	Continuity []int
}

// Knots expands the breakpoints into a clamped knot vector.
func (bp Breakpoints) Knots() ([]float64, error) {
	return internal.ClampedKnots(bp.Values, bp.Degree, bp.Continuity)
}

// checkKnots validates a knot vector for numPts control points and returns
// its derived degree.
func checkKnots(knots internal.KnotVec, numPts int) (int, error) {
	if numPts == 0 {
		return 0, fmt.Errorf("%w: no control points", ErrUnset)
	}
	degree, nc, err := checkKnotVector(knots)
	if err != nil {
		return 0, err
	}
	if nc != numPts {
		return 0, fmt.Errorf("%w: %d control points + degree %d + 1 must equal %d knots",
			ErrDimensionMismatch, numPts, degree, len(knots))
	}
	return degree, nil
}

// checkKnotVector validates the structure of a knot vector on its own and
// returns its degree and the control point count it supports.
func checkKnotVector(knots internal.KnotVec) (degree, nc int, err error) {
	if len(knots) == 0 {
		return 0, 0, fmt.Errorf("%w: no knots", ErrUnset)
	}
	degree = knots.Degree()
	if degree < 1 {
		return 0, 0, fmt.Errorf("%w: degree must be at least 1, got %d", ErrKnotVector, degree)
	}
	nc = knots.RequiredControlPoints()
	if err = knots.Validate(degree, nc); err != nil {
		return 0, 0, err
	}
	return degree, nc, nil
}

func checkWeights(weights []float64, numPts int) error {
	if weights == nil {
		return nil
	}
	if len(weights) != numPts {
		return fmt.Errorf("%w: %d weights for %d control points", ErrDimensionMismatch, len(weights), numPts)
	}
	for i, w := range weights {
		if err := checkWeight(w); err != nil {
			return fmt.Errorf("weight %d: %w", i, err)
		}
	}
	return nil
}

func checkWeight(w float64) error {
	if !(w > 0) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: weight %g must be positive and finite", ErrDomain, w)
	}
	return nil
}

// isRational reports whether weights exist and are not all identical.
func isRational(weights []float64) bool {
	for _, w := range weights {
		if w != weights[0] {
			return true
		}
	}
	return false
}

// basisMatrix returns one row per parameter holding the full-width basis of
// the given derivative order.
func basisMatrix(knots internal.KnotVec, degree int, params []float64, order int) (*mat.Dense, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no parameters", ErrUnset)
	}
	if order < 0 {
		return nil, fmt.Errorf("%w: negative derivative order %d", ErrDomain, order)
	}

	nc := len(knots) - degree - 1
	basis := mat.NewDense(len(params), nc, nil)
	for i, u := range params {
		if err := knots.CheckDomain(degree, u); err != nil {
			return nil, err
		}
		if order == 0 {
			basis.SetRow(i, internal.FullBasis(u, degree, knots))
		} else {
			basis.SetRow(i, internal.FullDerivativeBasis(u, degree, order, knots))
		}
	}

	return basis, nil
}

// rationalize renormalizes every row as B_i*w_i / sum_j(B_j*w_j). Derivative
// rows go through the same formula, which is not the quotient rule.
func rationalize(basis *mat.Dense, weights []float64) {
	rows, _ := basis.Dims()
	for i := 0; i < rows; i++ {
		row := basis.RawRowView(i)
		denom := floats.Dot(row, weights)
		floats.Mul(row, weights)
		floats.Scale(1/denom, row)
	}
}

// combine multiplies the basis rows with the control points.
func combine(basis *mat.Dense, pts []vec3.T) []vec3.T {
	cpts := mat.NewDense(len(pts), 3, nil)
	for i := range pts {
		cpts.SetRow(i, pts[i][:])
	}

	var res mat.Dense
	res.Mul(basis, cpts)

	rows, _ := res.Dims()
	out := make([]vec3.T, rows)
	for i := range out {
		copy(out[i][:], res.RawRowView(i))
	}
	return out
}

// uniform returns n parameters spread evenly over [min, max]. A single
// sample lies at min.
func uniform(n int, min, max float64) ([]float64, error) {
	switch {
	case n < 1:
		return nil, fmt.Errorf("%w: need at least 1 sample, got %d", ErrDomain, n)
	case n == 1:
		return []float64{min}, nil
	}
	return floats.Span(make([]float64, n), min, max), nil
}

// refine lifts the control points to homogeneous form, runs op on them and
// projects the result back. Without weights the points are lifted with unit
// weights and the result carries no weights either.
func refine(pts []vec3.T, weights []float64, op func([]internal.HomoPoint) ([]internal.HomoPoint, error)) ([]vec3.T, []float64, error) {
	out, err := op(internal.Homogenize1d(pts, weights))
	if err != nil {
		return nil, nil, err
	}
	newPts, newWeights := project(out, weights != nil)
	return newPts, newWeights, nil
}

// project drops homogeneous points back to Cartesian points, keeping the
// weights only for rational data.
func project(hpts []internal.HomoPoint, rational bool) ([]vec3.T, []float64) {
	if !rational {
		pts := make([]vec3.T, len(hpts))
		for i := range hpts {
			pts[i] = hpts[i].Vec3
		}
		return pts, nil
	}
	return internal.Dehomogenize1d(hpts), internal.Weight1d(hpts)
}

func clonePoints(pts []vec3.T) []vec3.T {
	return append([]vec3.T(nil), pts...)
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}
