package nurbs

import (
	"fmt"

	"github.com/alexozer/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"
)

// Curve is a NURBS curve. The zero value is an unset curve; configure it
// with Set or SetFromBreakpoints.
type Curve struct {
	// degree derived from the knot vector
	degree int

	// slice of nondecreasing knot values, clamped at both ends
	knots internal.KnotVec

	// control points, nc = len(knots) - degree - 1
	controlPoints []vec3.T

	// one weight per control point, nil for a plain B-spline
	weights []float64

	opts options

	// parameters of the last evaluation and the cached results, which are
	// nil whenever the curve changed after they were computed
	params  []float64
	basis   *mat.Dense
	samples []vec3.T
}

func NewCurve(opts ...Option) *Curve {
	return &Curve{opts: newOptions(opts)}
}

// Set replaces knots, control points and weights as a unit. weights may be
// nil for a non-rational curve.
func (this *Curve) Set(knots []float64, controlPoints []vec3.T, weights []float64) error {
	kv := internal.KnotVec(knots).Clone()
	degree, err := checkKnots(kv, len(controlPoints))
	if err != nil {
		return err
	}
	if err := checkWeights(weights, len(controlPoints)); err != nil {
		return err
	}

	this.replace(degree, kv, clonePoints(controlPoints), cloneFloats(weights))
	return nil
}

// SetFromBreakpoints derives a clamped knot vector from bp and configures
// the curve with it.
func (this *Curve) SetFromBreakpoints(bp Breakpoints, controlPoints []vec3.T, weights []float64) error {
	knots, err := bp.Knots()
	if err != nil {
		return err
	}
	return this.Set(knots, controlPoints, weights)
}

// replace commits new state and marks every cached sample stale.
func (this *Curve) replace(degree int, knots internal.KnotVec, controlPoints []vec3.T, weights []float64) {
	this.degree = degree
	this.knots = knots
	this.controlPoints = controlPoints
	this.weights = weights
	this.invalidate()
}

func (this *Curve) invalidate() {
	this.basis = nil
	this.samples = nil
}

func (this *Curve) check() error {
	if this.knots == nil || this.controlPoints == nil {
		return ErrUnset
	}
	return nil
}

// Clone returns a deep copy, including cached samples.
func (this *Curve) Clone() *Curve {
	clone := &Curve{
		degree:        this.degree,
		knots:         this.knots.Clone(),
		controlPoints: clonePoints(this.controlPoints),
		weights:       cloneFloats(this.weights),
		opts:          this.opts,
		params:        cloneFloats(this.params),
		samples:       clonePoints(this.samples),
	}
	if this.basis != nil {
		clone.basis = mat.DenseCopyOf(this.basis)
	}
	return clone
}

func (this *Curve) Knots() []float64 {
	return []float64(this.knots.Clone())
}

func (this *Curve) ControlPoints() []vec3.T {
	return clonePoints(this.controlPoints)
}

// Weights returns a copy of the weights, nil if none were given.
func (this *Curve) Weights() []float64 {
	return cloneFloats(this.weights)
}

// Tolerance returns the deviation RemoveKnot accepts.
func (this *Curve) Tolerance() float64 {
	return this.opts.tol()
}

func (this *Curve) ControlPoint(i int) (vec3.T, error) {
	if err := this.checkIndex(i); err != nil {
		return vec3.Zero, err
	}
	return this.controlPoints[i], nil
}

func (this *Curve) SetControlPoint(i int, pt vec3.T) error {
	if err := this.checkIndex(i); err != nil {
		return err
	}
	this.controlPoints[i] = pt
	this.invalidate()
	return nil
}

// SetWeight sets one weight. A curve without weights gets unit weights for
// all other control points.
func (this *Curve) SetWeight(i int, w float64) error {
	if err := this.checkIndex(i); err != nil {
		return err
	}
	if err := checkWeight(w); err != nil {
		return err
	}
	if this.weights == nil {
		this.weights = make([]float64, len(this.controlPoints))
		for j := range this.weights {
			this.weights[j] = 1
		}
	}
	this.weights[i] = w
	this.invalidate()
	return nil
}

// SetWeights replaces all weights; nil makes the curve non-rational.
func (this *Curve) SetWeights(weights []float64) error {
	if err := this.check(); err != nil {
		return err
	}
	if err := checkWeights(weights, len(this.controlPoints)); err != nil {
		return err
	}
	this.weights = cloneFloats(weights)
	this.invalidate()
	return nil
}

func (this *Curve) checkIndex(i int) error {
	if err := this.check(); err != nil {
		return err
	}
	if i < 0 || i >= len(this.controlPoints) {
		return fmt.Errorf("%w: control point index %d not in [0, %d)", ErrDomain, i, len(this.controlPoints))
	}
	return nil
}

func (this *Curve) Degree() (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}
	return this.degree, nil
}

// Multiplicity returns the run length of every distinct knot value.
func (this *Curve) Multiplicity() ([]int, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	return multiplicities(this.knots), nil
}

// Continuity returns degree - multiplicity for every distinct knot value;
// -1 marks the clamped ends and discontinuous joins.
func (this *Curve) Continuity() ([]int, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	return this.knots.Continuity(this.degree), nil
}

// RequiredControlPoints is sum(multiplicities) - degree - 1, the control
// point count the knot vector supports.
func (this *Curve) RequiredControlPoints() (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}
	return this.knots.RequiredControlPoints(), nil
}

// IsRational reports whether the curve has weights that are not all equal.
func (this *Curve) IsRational() (bool, error) {
	if err := this.check(); err != nil {
		return false, err
	}
	return isRational(this.weights), nil
}

// Determine the valid domain of the curve
func (this *Curve) Domain() (min, max float64, err error) {
	if err = this.check(); err != nil {
		return
	}
	min, max = this.knots.Domain(this.degree)
	return
}

// Span returns the index k of the knot span with knot[k] <= u < knot[k+1];
// the end of the domain maps to the last span.
func (this *Curve) Span(u float64) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}
	if err := this.knots.CheckDomain(this.degree, u); err != nil {
		return 0, err
	}
	return this.knots.Span(this.degree, u), nil
}

// Basis returns the basis matrix with one row per parameter and one column
// per control point. Rational curves return the weighted basis
// B_i*w_i / sum_j(B_j*w_j).
func (this *Curve) Basis(params []float64) (*mat.Dense, error) {
	return this.basisMatrix(params, 0)
}

// DerivativeBasis returns the derivative of the given order of every basis
// function, one row per parameter. Combined with the control points it
// yields the derivative of a non-rational curve. Rational curves normalize
// the rows with the weights like Basis does, giving B'_i*w_i / sum_j(B'_j*w_j).
// That is not the exact derivative of the rational basis; use Derivatives
// for that. Where sum_j(B'_j*w_j) is zero, as at a stationary point of the
// weight function, the row holds ±Inf and NaN and no error is returned.
func (this *Curve) DerivativeBasis(params []float64, order int) (*mat.Dense, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: derivative order %d must be at least 1", ErrDomain, order)
	}
	return this.basisMatrix(params, order)
}

func (this *Curve) basisMatrix(params []float64, order int) (*mat.Dense, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	basis, err := basisMatrix(this.knots, this.degree, params, order)
	if err != nil {
		return nil, err
	}
	if isRational(this.weights) {
		rationalize(basis, this.weights)
	}
	return basis, nil
}

// Evaluate computes the curve points at params and keeps them as the
// current geometry samples.
func (this *Curve) Evaluate(params []float64) ([]vec3.T, error) {
	basis, err := this.Basis(params)
	if err != nil {
		return nil, err
	}

	this.params = cloneFloats(params)
	this.basis = basis
	this.samples = combine(basis, this.controlPoints)

	return clonePoints(this.samples), nil
}

// EvaluateUniform evaluates n parameters evenly spaced over the domain,
// both ends included. A single sample is taken at the domain start.
func (this *Curve) EvaluateUniform(n int) ([]vec3.T, error) {
	min, max, err := this.Domain()
	if err != nil {
		return nil, err
	}
	params, err := uniform(n, min, max)
	if err != nil {
		return nil, err
	}
	return this.Evaluate(params)
}

// Params returns the parameters of the last evaluation.
func (this *Curve) Params() []float64 {
	return cloneFloats(this.params)
}

// Geometry returns the geometry samples of the last evaluation, recomputing
// them if the curve changed since.
func (this *Curve) Geometry() ([]vec3.T, error) {
	if this.params == nil {
		return nil, fmt.Errorf("%w: curve was never evaluated", ErrUnset)
	}
	if this.samples == nil {
		return this.Evaluate(this.params)
	}
	return clonePoints(this.samples), nil
}

// Compute a point on the curve
//
// **params**
// + parameter on the curve at which the point is to be evaluated
//
// **returns**
// + the point
func (this *Curve) Point(u float64) (vec3.T, error) {
	if err := this.check(); err != nil {
		return vec3.Zero, err
	}
	if err := this.knots.CheckDomain(this.degree, u); err != nil {
		return vec3.Zero, err
	}

	homoPt := this.nonRationalPoint(u)
	return homoPt.Dehomogenized(), nil
}

// Compute the tangent at a point on the curve
func (this *Curve) Tangent(u float64) (vec3.T, error) {
	ders, err := this.Derivatives(u, 1)
	if err != nil {
		return vec3.Zero, err
	}
	return ders[1], nil
}

//
// Determine the derivatives of the curve at a given parameter, using the
// quotient rule on the homogeneous derivatives
// (corresponds to algorithm 4.2 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + parameter on the curve at which the point is to be evaluated
// + number of derivatives to evaluate
//
// **returns**
// + the point followed by its numDerivs derivatives
//
func (this *Curve) Derivatives(u float64, numDerivs int) ([]vec3.T, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	if err := this.knots.CheckDomain(this.degree, u); err != nil {
		return nil, err
	}
	if numDerivs < 0 {
		return nil, fmt.Errorf("%w: negative derivative count %d", ErrDomain, numDerivs)
	}

	ders := this.nonRationalDerivatives(u, numDerivs)
	ck := make([]vec3.T, 0, numDerivs+1)

	for k := 0; k <= numDerivs; k++ {
		v := ders[k].Vec3

		for i := 1; i <= k; i++ {
			scaled := ck[k-i].Scaled(internal.Binomial(k, i) * ders[i].W)
			v.Sub(&scaled)
		}
		v.Scale(1 / ders[0].W)
		ck = append(ck, v)
	}

	return ck, nil
}

// homoControlPoints returns the control points lifted to (w*p, w).
func (this *Curve) homoControlPoints() []internal.HomoPoint {
	return internal.Homogenize1d(this.controlPoints, this.weights)
}

// Determine the derivatives of the homogeneous curve at a given parameter
// (corresponds to algorithm 3.2 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **returns**
// + numDerivs+1 homogeneous points; derivatives above the degree are zero
func (this *Curve) nonRationalDerivatives(u float64, numDerivs int) []internal.HomoPoint {
	degree := this.degree
	controlPoints := this.homoControlPoints()
	knots := this.knots

	du := min(numDerivs, degree)

	ck := make([]internal.HomoPoint, numDerivs+1)
	knotSpanIndex := knots.Span(degree, u)
	nders := internal.DerivativeBasisFunctionsGivenNI(knotSpanIndex, u, degree, du, knots)

	for k := 0; k <= du; k++ {
		for j := 0; j <= degree; j++ {
			scaled := controlPoints[knotSpanIndex-degree+j]
			scaled.Scale(nders[k][j])
			ck[k].Add(&scaled)
		}
	}

	return ck
}

// Compute a point on the homogeneous curve
// (corresponds to algorithm 4.1 from The NURBS book, Piegl & Tiller 2nd edition)
func (this *Curve) nonRationalPoint(u float64) internal.HomoPoint {
	degree := this.degree
	knots := this.knots

	knotSpanIndex := knots.Span(degree, u)
	basisValues := internal.BasisFunctionsGivenKnotSpanIndex(knotSpanIndex, u, degree, knots)
	var position internal.HomoPoint

	for j := 0; j <= degree; j++ {
		i := knotSpanIndex - degree + j
		w := 1.0
		if this.weights != nil {
			w = this.weights[i]
		}
		scaled := internal.Homogenized(this.controlPoints[i], w)
		scaled.Scale(basisValues[j])
		position.Add(&scaled)
	}

	return position
}

// InsertKnot inserts u r times, keeping the shape of the curve. The knot's
// multiplicity after insertion may reach degree+1, where the curve passes
// through a repeated control point at u.
func (this *Curve) InsertKnot(u float64, r int) error {
	if err := this.check(); err != nil {
		return err
	}

	var knots internal.KnotVec
	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		var (
			out []internal.HomoPoint
			err error
		)
		knots, out, err = internal.InsertKnot(this.degree, this.knots, hpts, u, r)
		return out, err
	})
	if err != nil {
		return err
	}

	this.replace(this.degree, knots, pts, weights)
	Logger().Debug("inserted knot", "u", u, "times", r, "controlPoints", len(pts))
	return nil
}

// RemoveKnot removes the interior knot u up to r times, as long as the
// curve stays within the configured tolerance. It returns the number of
// removals done; when it is zero the curve is unchanged.
func (this *Curve) RemoveKnot(u float64, r int) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}
	if r < 0 {
		return 0, fmt.Errorf("%w: negative removal count %d", ErrDomain, r)
	}
	if err := this.knots.CheckDomain(this.degree, u); err != nil {
		return 0, err
	}

	var (
		knots   internal.KnotVec
		removed int
	)
	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		var out []internal.HomoPoint
		knots, out, removed = internal.RemoveKnot(this.degree, this.knots, hpts, u, r, this.opts.tol())
		return out, nil
	})
	if err != nil {
		return 0, err
	}

	if removed == 0 {
		Logger().Debug("knot not removable", "u", u, "requested", r)
		return 0, nil
	}

	this.replace(this.degree, knots, pts, weights)
	Logger().Debug("removed knot", "u", u, "times", removed, "requested", r)
	return removed, nil
}

// ElevateDegree raises the degree by t, keeping the shape of the curve.
func (this *Curve) ElevateDegree(t int) error {
	if err := this.check(); err != nil {
		return err
	}

	var (
		degree int
		knots  internal.KnotVec
	)
	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		var (
			out []internal.HomoPoint
			err error
		)
		degree, knots, out, err = internal.ElevateDegree(this.degree, this.knots, hpts, t)
		return out, err
	})
	if err != nil {
		return err
	}

	this.replace(degree, knots, pts, weights)
	Logger().Debug("elevated degree", "by", t, "degree", degree, "controlPoints", len(pts))
	return nil
}

func multiplicities(knots internal.KnotVec) []int {
	mults := knots.Multiplicities()
	out := make([]int, len(mults))
	for i, m := range mults {
		out[i] = m.Mult
	}
	return out
}
