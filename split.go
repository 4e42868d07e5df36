package nurbs

import (
	"github.com/alexozer/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
)

// Split cuts the curve at the interior parameter u into two curves that
// meet at Point(u). The receiver is left unchanged.
func (this *Curve) Split(u float64) (*Curve, *Curve, error) {
	if err := this.check(); err != nil {
		return nil, nil, err
	}

	hpts := internal.Homogenize1d(this.controlPoints, this.weights)
	knots0, hpts0, knots1, hpts1, err := internal.Split(this.degree, this.knots, hpts, u)
	if err != nil {
		return nil, nil, err
	}

	rational := this.weights != nil
	left, right := &Curve{opts: this.opts}, &Curve{opts: this.opts}
	pts, weights := project(hpts0, rational)
	left.replace(this.degree, knots0, pts, weights)
	pts, weights = project(hpts1, rational)
	right.replace(this.degree, knots1, pts, weights)

	Logger().Debug("split curve", "u", u, "controlPoints", [2]int{len(hpts0), len(hpts1)})
	return left, right, nil
}

// Reverse returns the same curve traversed in the opposite direction over
// the same domain.
func (this *Curve) Reverse() (*Curve, error) {
	if err := this.check(); err != nil {
		return nil, err
	}

	knots, pts := internal.Reverse(this.knots, this.controlPoints)
	var weights []float64
	if this.weights != nil {
		_, weights = internal.Reverse(this.knots, this.weights)
	}

	reversed := &Curve{opts: this.opts}
	reversed.replace(this.degree, knots, pts, weights)
	return reversed, nil
}

// BoundingBox returns the box around the control points. Positive weights
// keep the curve inside the convex hull of its control points, so the box
// also bounds the curve.
func (this *Curve) BoundingBox() (*BoundingBox, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	return new(BoundingBox).AddRange(this.controlPoints), nil
}

// Split cuts the surface at the interior parameter t of direction dir.
// The first surface covers the parameters below t.
func (this *Surface) Split(dir int, t float64) (*Surface, *Surface, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, nil, err
	}

	degree, knots := this.degree[axis], this.knots[axis]
	hpts := internal.Homogenize1d(this.controlPoints, this.weights)

	var halves [2]*Surface
	for side := range halves {
		var newKnots internal.KnotVec
		out, shape, err := internal.ApplyAlong(hpts, this.count[:], axis, func(line []internal.HomoPoint) ([]internal.HomoPoint, error) {
			knots0, pts0, knots1, pts1, err := internal.Split(degree, knots, line, t)
			if side == 0 {
				newKnots = knots0
				return pts0, err
			}
			newKnots = knots1
			return pts1, err
		})
		if err != nil {
			return nil, nil, err
		}

		allKnots := [2]internal.KnotVec{this.knots[0].Clone(), this.knots[1].Clone()}
		allKnots[axis] = newKnots
		pts, weights := project(out, this.weights != nil)

		halves[side] = &Surface{opts: this.opts}
		halves[side].replace(this.degree, allKnots, [2]int{shape[0], shape[1]}, pts, weights)
	}

	Logger().Debug("split surface", "direction", dir, "t", t,
		"count", [2]int{halves[0].count[axis], halves[1].count[axis]})
	return halves[0], halves[1], nil
}

// Reverse returns the same surface with direction dir traversed the other
// way.
func (this *Surface) Reverse(dir int) (*Surface, error) {
	axis, err := this.checkDirection(dir)
	if err != nil {
		return nil, err
	}

	var knots internal.KnotVec
	pts, _, err := internal.ApplyAlong(this.controlPoints, this.count[:], axis, func(line []vec3.T) ([]vec3.T, error) {
		var out []vec3.T
		knots, out = internal.Reverse(this.knots[axis], line)
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	var weights []float64
	if this.weights != nil {
		weights, _, err = internal.ApplyAlong(this.weights, this.count[:], axis, func(line []float64) ([]float64, error) {
			_, out := internal.Reverse(this.knots[axis], line)
			return out, nil
		})
		if err != nil {
			return nil, err
		}
	}

	allKnots := [2]internal.KnotVec{this.knots[0].Clone(), this.knots[1].Clone()}
	allKnots[axis] = knots

	reversed := &Surface{opts: this.opts}
	reversed.replace(this.degree, allKnots, this.count, pts, weights)
	return reversed, nil
}

// Boundaries returns the four edge curves: the isocurves at both ends of
// direction 1, then at both ends of direction 2.
func (this *Surface) Boundaries() ([4]*Curve, error) {
	var edges [4]*Curve
	if err := this.check(); err != nil {
		return edges, err
	}

	for axis := range this.knots {
		min, max := this.knots[axis].Domain(this.degree[axis])
		for end, t := range [2]float64{min, max} {
			c, err := this.Isocurve(axis+1, t)
			if err != nil {
				return edges, err
			}
			edges[2*axis+end] = c
		}
	}
	return edges, nil
}

// BoundingBox returns the box around the control grid, which also bounds
// the surface.
func (this *Surface) BoundingBox() (*BoundingBox, error) {
	if err := this.check(); err != nil {
		return nil, err
	}
	return new(BoundingBox).AddRange(this.controlPoints), nil
}
