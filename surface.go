package nurbs

import (
	"fmt"

	"github.com/alexozer/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"
)

// Surface is a tensor-product NURBS surface. Directions are numbered 1 and
// 2; the control grid is flattened with direction 1 varying fastest, so
// control point (i1, i2) lives at index i1 + Count(1)*i2.
type Surface struct {
	degree [2]int
	knots  [2]internal.KnotVec

	// control point count per direction
	count [2]int

	controlPoints []vec3.T
	weights       []float64

	opts options

	// parameter grid of the last evaluation, cached basis and samples
	params  [2][]float64
	basis   *mat.Dense
	samples []vec3.T
}

func NewSurface(opts ...Option) *Surface {
	return &Surface{opts: newOptions(opts)}
}

// direction maps a direction number to an axis of the control grid.
func direction(dir int) (int, error) {
	if dir != 1 && dir != 2 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
	return dir - 1, nil
}

// Set replaces both knot vectors, the flattened control grid and the
// weights as a unit. weights may be nil for a non-rational surface.
func (this *Surface) Set(knots1, knots2 []float64, controlPoints []vec3.T, weights []float64) error {
	if len(controlPoints) == 0 {
		return fmt.Errorf("%w: no control points", ErrUnset)
	}

	var (
		degree, count [2]int
		knots         [2]internal.KnotVec
	)
	for axis, k := range [2][]float64{knots1, knots2} {
		kv := internal.KnotVec(k).Clone()
		d, nc, err := checkKnotVector(kv)
		if err != nil {
			return fmt.Errorf("direction %d: %w", axis+1, err)
		}
		degree[axis], count[axis], knots[axis] = d, nc, kv
	}

	if count[0]*count[1] != len(controlPoints) {
		return fmt.Errorf("%w: knot vectors support %dx%d control points, got %d",
			ErrDimensionMismatch, count[0], count[1], len(controlPoints))
	}
	if err := checkWeights(weights, len(controlPoints)); err != nil {
		return err
	}

	this.replace(degree, knots, count, clonePoints(controlPoints), cloneFloats(weights))
	return nil
}

// SetFromBreakpoints derives both knot vectors from breakpoints.
func (this *Surface) SetFromBreakpoints(bp1, bp2 Breakpoints, controlPoints []vec3.T, weights []float64) error {
	knots1, err := bp1.Knots()
	if err != nil {
		return fmt.Errorf("direction 1: %w", err)
	}
	knots2, err := bp2.Knots()
	if err != nil {
		return fmt.Errorf("direction 2: %w", err)
	}
	return this.Set(knots1, knots2, controlPoints, weights)
}

func (this *Surface) replace(degree [2]int, knots [2]internal.KnotVec, count [2]int, controlPoints []vec3.T, weights []float64) {
	this.degree = degree
	this.knots = knots
	this.count = count
	this.controlPoints = controlPoints
	this.weights = weights
	this.invalidate()
}

func (this *Surface) invalidate() {
	this.basis = nil
	this.samples = nil
}

func (this *Surface) check() error {
	if this.knots[0] == nil || this.knots[1] == nil || this.controlPoints == nil {
		return ErrUnset
	}
	return nil
}

// checkDirection validates the surface state and the direction together.
func (this *Surface) checkDirection(dir int) (int, error) {
	axis, err := direction(dir)
	if err != nil {
		return 0, err
	}
	if err := this.check(); err != nil {
		return 0, err
	}
	return axis, nil
}

// Clone returns a deep copy, including cached samples.
func (this *Surface) Clone() *Surface {
	clone := &Surface{
		degree:        this.degree,
		knots:         [2]internal.KnotVec{this.knots[0].Clone(), this.knots[1].Clone()},
		count:         this.count,
		controlPoints: clonePoints(this.controlPoints),
		weights:       cloneFloats(this.weights),
		opts:          this.opts,
		params:        [2][]float64{cloneFloats(this.params[0]), cloneFloats(this.params[1])},
		samples:       clonePoints(this.samples),
	}
	if this.basis != nil {
		clone.basis = mat.DenseCopyOf(this.basis)
	}
	return clone
}

func (this *Surface) Knots(dir int) ([]float64, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, err
	}
	return []float64(this.knots[axis].Clone()), nil
}

// ControlPoints returns a copy of the flattened control grid.
func (this *Surface) ControlPoints() []vec3.T {
	return clonePoints(this.controlPoints)
}

func (this *Surface) Weights() []float64 {
	return cloneFloats(this.weights)
}

// Tolerance returns the deviation RemoveKnot accepts.
func (this *Surface) Tolerance() float64 {
	return this.opts.tol()
}

func (this *Surface) index(i1, i2 int) (int, error) {
	if err := this.check(); err != nil {
		return 0, err
	}
	if i1 < 0 || i1 >= this.count[0] || i2 < 0 || i2 >= this.count[1] {
		return 0, fmt.Errorf("%w: control point (%d, %d) not in %dx%d grid",
			ErrDomain, i1, i2, this.count[0], this.count[1])
	}
	return i1 + this.count[0]*i2, nil
}

func (this *Surface) ControlPoint(i1, i2 int) (vec3.T, error) {
	i, err := this.index(i1, i2)
	if err != nil {
		return vec3.Zero, err
	}
	return this.controlPoints[i], nil
}

func (this *Surface) SetControlPoint(i1, i2 int, pt vec3.T) error {
	i, err := this.index(i1, i2)
	if err != nil {
		return err
	}
	this.controlPoints[i] = pt
	this.invalidate()
	return nil
}

// SetWeight sets the weight of control point (i1, i2). A surface without
// weights gets unit weights everywhere else.
func (this *Surface) SetWeight(i1, i2 int, w float64) error {
	i, err := this.index(i1, i2)
	if err != nil {
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

// SetWeights replaces all weights, ordered like the control grid; nil makes
// the surface non-rational.
func (this *Surface) SetWeights(weights []float64) error {
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

func (this *Surface) Degree(dir int) (int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, err
	}
	return this.degree[axis], nil
}

// Count returns the number of control points along a direction.
func (this *Surface) Count(dir int) (int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, err
	}
	return this.count[axis], nil
}

func (this *Surface) Multiplicity(dir int) ([]int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, err
	}
	return multiplicities(this.knots[axis]), nil
}

func (this *Surface) Continuity(dir int) ([]int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, err
	}
	return this.knots[axis].Continuity(this.degree[axis]), nil
}

func (this *Surface) RequiredControlPoints(dir int) (int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, err
	}
	return this.knots[axis].RequiredControlPoints(), nil
}

func (this *Surface) IsRational() (bool, error) {
	if err := this.check(); err != nil {
		return false, err
	}
	return isRational(this.weights), nil
}

func (this *Surface) Domain(dir int) (min, max float64, err error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, 0, err
	}
	min, max = this.knots[axis].Domain(this.degree[axis])
	return min, max, nil
}

func (this *Surface) Span(dir int, t float64) (int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, err
	}
	if err := this.knots[axis].CheckDomain(this.degree[axis], t); err != nil {
		return 0, err
	}
	return this.knots[axis].Span(this.degree[axis], t), nil
}

// Basis returns the combined basis of the parameter grid params1 x params2:
// row j1 + len(params1)*j2 holds kron(B2(params2[j2]), B1(params1[j1])),
// which lines up with the flattened control grid. Rational surfaces are
// normalized with the flattened weights.
func (this *Surface) Basis(params1, params2 []float64) (*mat.Dense, error) {
	return this.basisMatrix(params1, params2, 0, 0)
}

// DerivativeBasis is Basis for the mixed partial derivative of order1 in
// direction 1 and order2 in direction 2. Rational surfaces are normalized
// like Basis, dividing every weighted row by its own weighted sum. That is
// not the exact derivative of the rational basis; use Derivatives for that.
// A row whose weighted sum is zero holds ±Inf and NaN and no error is
// returned.
func (this *Surface) DerivativeBasis(params1, params2 []float64, order1, order2 int) (*mat.Dense, error) {
	if order1 < 0 || order2 < 0 || order1+order2 == 0 {
		return nil, fmt.Errorf("%w: derivative orders (%d, %d) must be non-negative and not both zero",
			ErrDomain, order1, order2)
	}
	return this.basisMatrix(params1, params2, order1, order2)
}

func (this *Surface) basisMatrix(params1, params2 []float64, order1, order2 int) (*mat.Dense, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	b1, err := basisMatrix(this.knots[0], this.degree[0], params1, order1)
	if err != nil {
		return nil, fmt.Errorf("direction 1: %w", err)
	}
	b2, err := basisMatrix(this.knots[1], this.degree[1], params2, order2)
	if err != nil {
		return nil, fmt.Errorf("direction 2: %w", err)
	}

	var grid mat.Dense
	grid.Kronecker(b2, b1)
	if isRational(this.weights) {
		rationalize(&grid, this.weights)
	}
	return &grid, nil
}

// Evaluate computes the surface over the grid params1 x params2. Samples
// are ordered j1 + len(params1)*j2 and kept as the current geometry.
func (this *Surface) Evaluate(params1, params2 []float64) ([]vec3.T, error) {
	basis, err := this.Basis(params1, params2)
	if err != nil {
		return nil, err
	}

	this.params = [2][]float64{cloneFloats(params1), cloneFloats(params2)}
	this.basis = basis
	this.samples = combine(basis, this.controlPoints)

	return clonePoints(this.samples), nil
}

// EvaluateUniform evaluates an n1 x n2 grid spread evenly over the domain.
// A direction with a single sample uses the start of its domain.
func (this *Surface) EvaluateUniform(n1, n2 int) ([]vec3.T, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	var params [2][]float64
	for axis, n := range [2]int{n1, n2} {
		min, max := this.knots[axis].Domain(this.degree[axis])
		p, err := uniform(n, min, max)
		if err != nil {
			return nil, fmt.Errorf("direction %d: %w", axis+1, err)
		}
		params[axis] = p
	}
	return this.Evaluate(params[0], params[1])
}

// Params returns the parameter grid of the last evaluation.
func (this *Surface) Params() (params1, params2 []float64) {
	return cloneFloats(this.params[0]), cloneFloats(this.params[1])
}

// Geometry returns the samples of the last evaluation, recomputing them if
// the surface changed since.
func (this *Surface) Geometry() ([]vec3.T, error) {
	if this.params[0] == nil || this.params[1] == nil {
		return nil, fmt.Errorf("%w: surface was never evaluated", ErrUnset)
	}
	if this.samples == nil {
		return this.Evaluate(this.params[0], this.params[1])
	}
	return clonePoints(this.samples), nil
}

func (this *Surface) checkParams(t1, t2 float64) error {
	if err := this.check(); err != nil {
		return err
	}
	for axis, t := range [2]float64{t1, t2} {
		if err := this.knots[axis].CheckDomain(this.degree[axis], t); err != nil {
			return fmt.Errorf("direction %d: %w", axis+1, err)
		}
	}
	return nil
}

// homoControlPoint returns control point i lifted to (w*p, w).
func (this *Surface) homoControlPoint(i int) internal.HomoPoint {
	w := 1.0
	if this.weights != nil {
		w = this.weights[i]
	}
	return internal.Homogenized(this.controlPoints[i], w)
}

// Compute a point on the surface
// (corresponds to algorithm 3.5 from The NURBS book, Piegl & Tiller 2nd edition)
func (this *Surface) Point(t1, t2 float64) (vec3.T, error) {
	if err := this.checkParams(t1, t2); err != nil {
		return vec3.Zero, err
	}

	p, q := this.degree[0], this.degree[1]
	span1 := this.knots[0].Span(p, t1)
	span2 := this.knots[1].Span(q, t2)
	basis1 := internal.BasisFunctionsGivenKnotSpanIndex(span1, t1, p, this.knots[0])
	basis2 := internal.BasisFunctionsGivenKnotSpanIndex(span2, t2, q, this.knots[1])

	var position internal.HomoPoint
	for l := 0; l <= q; l++ {
		var temp internal.HomoPoint
		for k := 0; k <= p; k++ {
			scaled := this.homoControlPoint(span1 - p + k + this.count[0]*(span2-q+l))
			scaled.Scale(basis1[k])
			temp.Add(&scaled)
		}
		temp.Scale(basis2[l])
		position.Add(&temp)
	}

	return position.Dehomogenized(), nil
}

// Normal returns the cross product of the first partial derivatives. It is
// not normalized and vanishes where the surface is degenerate.
func (this *Surface) Normal(t1, t2 float64) (vec3.T, error) {
	derivs, err := this.Derivatives(t1, t2, 1)
	if err != nil {
		return vec3.Zero, err
	}
	return vec3.Cross(&derivs[1][0], &derivs[0][1]), nil
}

// Compute the derivatives at a point on the surface
// (corresponds to algorithm 4.4 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + parameter in direction 1
// + parameter in direction 2
// + maximum total derivative order
//
// **returns**
// + jagged array where entry [k][l] is the derivative of order k in direction 1
// and l in direction 2, for k + l <= numDerivs
func (this *Surface) Derivatives(t1, t2 float64, numDerivs int) ([][]vec3.T, error) {
	if err := this.checkParams(t1, t2); err != nil {
		return nil, err
	}
	if numDerivs < 0 {
		return nil, fmt.Errorf("%w: negative derivative count %d", ErrDomain, numDerivs)
	}

	ders := this.nonRationalDerivatives(t1, t2, numDerivs)
	skl := make([][]vec3.T, numDerivs+1)

	for k := 0; k <= numDerivs; k++ {
		skl[k] = make([]vec3.T, numDerivs-k+1)

		for l := 0; l <= numDerivs-k; l++ {
			v := ders[k][l].Vec3

			for j := 1; j <= l; j++ {
				scaled := skl[k][l-j].Scaled(internal.Binomial(l, j) * ders[0][j].W)
				v.Sub(&scaled)
			}

			for i := 1; i <= k; i++ {
				scaled := skl[k-i][l].Scaled(internal.Binomial(k, i) * ders[i][0].W)
				v.Sub(&scaled)

				var v2 vec3.T
				for j := 1; j <= l; j++ {
					scaled := skl[k-i][l-j].Scaled(internal.Binomial(l, j) * ders[i][j].W)
					v2.Add(&scaled)
				}

				scaled = v2.Scaled(internal.Binomial(k, i))
				v.Sub(&scaled)
			}

			v.Scale(1 / ders[0][0].W)
			skl[k][l] = v
		}
	}

	return skl, nil
}

// Compute the derivatives of the homogeneous surface
// (corresponds to algorithm 3.6 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **returns**
// + jagged array of homogeneous derivatives, [k][l] for k + l <= numDerivs;
// entries above the degree in either direction are zero
func (this *Surface) nonRationalDerivatives(t1, t2 float64, numDerivs int) [][]internal.HomoPoint {
	p, q := this.degree[0], this.degree[1]
	du, dv := min(numDerivs, p), min(numDerivs, q)

	skl := make([][]internal.HomoPoint, numDerivs+1)
	for k := range skl {
		skl[k] = make([]internal.HomoPoint, numDerivs-k+1)
	}

	span1 := this.knots[0].Span(p, t1)
	span2 := this.knots[1].Span(q, t2)
	ders1 := internal.DerivativeBasisFunctionsGivenNI(span1, t1, p, du, this.knots[0])
	ders2 := internal.DerivativeBasisFunctionsGivenNI(span2, t2, q, dv, this.knots[1])
	temp := make([]internal.HomoPoint, q+1)

	for k := 0; k <= du; k++ {
		for s := range temp {
			temp[s] = internal.HomoPoint{}

			for r := 0; r <= p; r++ {
				scaled := this.homoControlPoint(span1 - p + r + this.count[0]*(span2-q+s))
				scaled.Scale(ders1[k][r])
				temp[s].Add(&scaled)
			}
		}

		dd := min(numDerivs-k, dv)
		for l := 0; l <= dd; l++ {
			for s := range temp {
				scaled := temp[s].Scaled(ders2[l][s])
				skl[k][l].Add(&scaled)
			}
		}
	}

	return skl
}

// Isocurve extracts the curve of constant parameter t in direction dir. The
// result runs along the other direction and reproduces the surface exactly.
func (this *Surface) Isocurve(dir int, t float64) (*Curve, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, err
	}
	degree, knots := this.degree[axis], this.knots[axis]
	if err := knots.CheckDomain(degree, t); err != nil {
		return nil, err
	}

	span := knots.Span(degree, t)
	basis := internal.BasisFunctionsGivenKnotSpanIndex(span, t, degree, knots)

	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		out, _, err := internal.ApplyAlong(hpts, this.count[:], axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
			var pt internal.HomoPoint
			for j := 0; j <= degree; j++ {
				scaled := line[span-degree+j].Scaled(basis[j])
				pt.Add(&scaled)
			}
			return []internal.HomoPoint{pt}, nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	other := 1 - axis
	curve := &Curve{opts: this.opts}
	if err := curve.Set(this.knots[other], pts, weights); err != nil {
		return nil, err
	}
	return curve, nil
}

// refineAlong lifts the control grid, runs op on every line of control
// points along axis and projects the result back.
func (this *Surface) refineAlong(axis int, op func([]internal.HomoPoint) ([]internal.HomoPoint, error)) ([]vec3.T, []float64, [2]int, error) {
	var shape []int
	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		out, newShape, err := internal.ApplyAlong(hpts, this.count[:], axis, op)
		shape = newShape
		return out, err
	})
	if err != nil {
		return nil, nil, [2]int{}, err
	}
	return pts, weights, [2]int{shape[0], shape[1]}, nil
}

// InsertKnot inserts t r times into the knot vector of direction dir,
// keeping the shape of the surface. The multiplicity of t may reach the
// degree of that direction plus one.
func (this *Surface) InsertKnot(dir int, t float64, r int) error {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return err
	}

	var knots internal.KnotVec
	pts, weights, count, err := this.refineAlong(axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
		var (
			out []internal.HomoPoint
			err error
		)
		knots, out, err = internal.InsertKnot(this.degree[axis], this.knots[axis], line, t, r)
		return out, err
	})
	if err != nil {
		return err
	}

	newKnots := this.knots
	newKnots[axis] = knots
	this.replace(this.degree, newKnots, count, pts, weights)
	Logger().Debug("inserted knot", "direction", dir, "t", t, "times", r, "count", count[axis])
	return nil
}

// RemoveKnot removes the interior knot t of direction dir up to r times.
// A removal is done only when every line of control points along dir stays
// within tolerance, so the returned count is the minimum over all lines.
func (this *Surface) RemoveKnot(dir int, t float64, r int) (int, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return 0, err
	}
	if r < 0 {
		return 0, fmt.Errorf("%w: negative removal count %d", ErrDomain, r)
	}
	degree, knots := this.degree[axis], this.knots[axis]
	if err := knots.CheckDomain(degree, t); err != nil {
		return 0, err
	}

	tol := this.opts.tol()
	removed := r
	var newKnots internal.KnotVec
	pts, weights, err := refine(this.controlPoints, this.weights, func(hpts []internal.HomoPoint) ([]internal.HomoPoint, error) {
		// first pass finds how many removals every line allows
		_, _, err := internal.ApplyAlong(hpts, this.count[:], axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
			_, _, n := internal.RemoveKnot(degree, knots, line, t, removed, tol)
			removed = min(removed, n)
			return nil, nil
		})
		if err != nil || removed == 0 {
			return nil, err
		}

		out, _, err := internal.ApplyAlong(hpts, this.count[:], axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
			var res []internal.HomoPoint
			newKnots, res, _ = internal.RemoveKnot(degree, knots, line, t, removed, tol)
			return res, nil
		})
		return out, err
	})
	if err != nil {
		return 0, err
	}

	if removed == 0 {
		Logger().Debug("knot not removable", "direction", dir, "t", t, "requested", r)
		return 0, nil
	}

	count := this.count
	count[axis] -= removed
	allKnots := this.knots
	allKnots[axis] = newKnots
	this.replace(this.degree, allKnots, count, pts, weights)
	Logger().Debug("removed knot", "direction", dir, "t", t, "times", removed, "requested", r)
	return removed, nil
}

// ElevateDegree raises the degree of direction dir by t, keeping the shape
// of the surface.
func (this *Surface) ElevateDegree(dir int, t int) error {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return err
	}

	var (
		degree int
		knots  internal.KnotVec
	)
	pts, weights, count, err := this.refineAlong(axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
		var (
			out []internal.HomoPoint
			err error
		)
		degree, knots, out, err = internal.ElevateDegree(this.degree[axis], this.knots[axis], line, t)
		return out, err
	})
	if err != nil {
		return err
	}

	newDegree, newKnots := this.degree, this.knots
	newDegree[axis], newKnots[axis] = degree, knots
	this.replace(newDegree, newKnots, count, pts, weights)
	Logger().Debug("elevated degree", "direction", dir, "by", t, "degree", degree, "count", count[axis])
	return nil
}
