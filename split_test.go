package nurbs

import (
	"errors"
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func TestCurveSplit(t *testing.T) {
	c := newCircle(t)

	left, right, err := c.Split(0.5)
	mustNoErr(t, err)

	min, max, err := left.Domain()
	mustNoErr(t, err)
	diff(t, [2]float64{0, 0.5}, [2]float64{min, max}, approx)
	min, max, err = right.Domain()
	mustNoErr(t, err)
	diff(t, [2]float64{0.5, 1}, [2]float64{min, max}, approx)

	for _, u := range []float64{0, 0.1, 1.0 / 3, 0.5} {
		want, err := c.Point(u)
		mustNoErr(t, err)
		got, err := left.Point(u)
		mustNoErr(t, err)
		diff(t, want, got, approx)
	}
	for _, u := range []float64{0.5, 0.6, 2.0 / 3, 1} {
		want, err := c.Point(u)
		mustNoErr(t, err)
		got, err := right.Point(u)
		mustNoErr(t, err)
		diff(t, want, got, approx)
	}

	// the halves meet at a shared control point
	lpts, rpts := left.ControlPoints(), right.ControlPoints()
	diff(t, lpts[len(lpts)-1], rpts[0], approx)

	for _, h := range []*Curve{left, right} {
		rational, err := h.IsRational()
		mustNoErr(t, err)
		if !rational {
			t.Error("halves of a circle should be rational")
		}
	}

	// the receiver is unchanged
	diff(t, circleKnots, c.Knots())

	if _, _, err := c.Split(1); !errors.Is(err, ErrDomain) {
		t.Errorf("split at the domain end: got %v, want ErrDomain", err)
	}
	if _, _, err := new(Curve).Split(0.5); !errors.Is(err, ErrUnset) {
		t.Errorf("split of an unset curve: got %v, want ErrUnset", err)
	}
}

func TestCurveSplitBezier(t *testing.T) {
	left, right, err := newBezier(t).Split(0.5)
	mustNoErr(t, err)
	diff(t, []float64{0, 0, 0, 0.5, 0.5, 0.5}, left.Knots())
	diff(t, []vec3.T{{0, 0, 0}, {0.5, 1, 0}, {1, 1, 0}}, left.ControlPoints(), approx)
	diff(t, []vec3.T{{1, 1, 0}, {1.5, 1, 0}, {2, 0, 0}}, right.ControlPoints(), approx)
	diff(t, []float64(nil), right.Weights())
}

func TestCurveReverse(t *testing.T) {
	c := newBezier(t)
	r, err := c.Reverse()
	mustNoErr(t, err)
	diff(t, []vec3.T{{2, 0, 0}, {1, 2, 0}, {0, 0, 0}}, r.ControlPoints())

	circle := newCircle(t)
	r, err = circle.Reverse()
	mustNoErr(t, err)
	diff(t, []float64{1, 0.5, 1, 0.5, 1, 0.5, 1}, r.Weights())
	for _, u := range []float64{0, 0.2, 0.5, 0.7, 1} {
		want, err := circle.Point(1 - u)
		mustNoErr(t, err)
		got, err := r.Point(u)
		mustNoErr(t, err)
		diff(t, want, got, approx)
	}
}

func TestCurveBoundingBox(t *testing.T) {
	c := newCircle(t)
	bb, err := c.BoundingBox()
	mustNoErr(t, err)

	s3 := math.Sqrt(3)
	diff(t, vec3.T{-s3, -1, 0}, bb.Min, approx)
	diff(t, vec3.T{s3, 2, 0}, bb.Max, approx)
	diff(t, 0, bb.LongestAxis())
	diff(t, 0.0, bb.AxisLength(2))
	diff(t, 0.0, bb.AxisLength(3))

	for _, pt := range samples(t, c, 50) {
		if !bb.Contains(&pt, 1e-12) {
			t.Errorf("%v outside %v", pt, bb)
		}
	}

	outside := vec3.T{0, 2.5, 0}
	if bb.Contains(&outside, 0.1) {
		t.Errorf("%v should be outside %v", outside, bb)
	}
	if !bb.Contains(&outside, 1) {
		t.Errorf("%v should be inside %v grown by 1", outside, bb)
	}

	var empty BoundingBox
	if !empty.IsEmpty() || empty.Intersects(bb, 1) || bb.Intersects(&empty, 1) {
		t.Error("the zero box should be empty and intersect nothing")
	}

	other, err := newBezier(t).BoundingBox()
	mustNoErr(t, err)
	if !bb.Intersects(other, 0) {
		t.Errorf("%v should intersect %v", bb, other)
	}
}

func TestSurfaceSplit(t *testing.T) {
	s := newPatch(t, 4)

	for _, dir := range []int{1, 2} {
		lo, hi, err := s.Split(dir, 0.25)
		mustNoErr(t, err)
		diff(t, [2]int{3, 3}, counts(t, lo))
		diff(t, [2]int{3, 3}, counts(t, hi))

		for _, f := range []float64{0, 0.3, 0.7, 1} {
			for _, other := range []float64{0, 0.5, 1} {
				var inLo, inHi [2]float64
				inLo[dir-1], inLo[2-dir] = 0.25*f, other
				inHi[dir-1], inHi[2-dir] = 0.25+0.75*f, other

				want, err := s.Point(inLo[0], inLo[1])
				mustNoErr(t, err)
				got, err := lo.Point(inLo[0], inLo[1])
				mustNoErr(t, err)
				diff(t, want, got, approx)

				want, err = s.Point(inHi[0], inHi[1])
				mustNoErr(t, err)
				got, err = hi.Point(inHi[0], inHi[1])
				mustNoErr(t, err)
				diff(t, want, got, approx)
			}
		}
	}

	cyl := newCylinder(t)
	lo, hi, err := cyl.Split(1, 0.5)
	mustNoErr(t, err)
	for _, half := range []*Surface{lo, hi} {
		pts := surfaceSamples(t, half, 7, 3)
		for _, pt := range pts {
			if r := math.Hypot(pt[0], pt[1]); math.Abs(r-1) > 1e-10 {
				t.Errorf("%v off the cylinder: radius %g", pt, r)
			}
		}
	}

	if _, _, err := s.Split(3, 0.5); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("got %v, want ErrInvalidDirection", err)
	}
	if _, _, err := s.Split(1, 0); !errors.Is(err, ErrDomain) {
		t.Errorf("got %v, want ErrDomain", err)
	}
}

func TestSurfaceReverse(t *testing.T) {
	cyl := newCylinder(t)

	r, err := cyl.Reverse(1)
	mustNoErr(t, err)
	weights := r.Weights()
	diff(t, 1.0, weights[0])
	diff(t, math.Sqrt2/2, weights[1], approx)

	r2, err := cyl.Reverse(2)
	mustNoErr(t, err)

	for _, tt := range [][2]float64{{0, 0}, {0.3, 0.6}, {1, 0.25}} {
		want, err := cyl.Point(1-tt[0], tt[1])
		mustNoErr(t, err)
		got, err := r.Point(tt[0], tt[1])
		mustNoErr(t, err)
		diff(t, want, got, approx)

		want, err = cyl.Point(tt[0], 1-tt[1])
		mustNoErr(t, err)
		got, err = r2.Point(tt[0], tt[1])
		mustNoErr(t, err)
		diff(t, want, got, approx)
	}
}

func TestSurfaceBoundaries(t *testing.T) {
	s := newPatch(t, 4)
	edges, err := s.Boundaries()
	mustNoErr(t, err)

	for _, v := range []float64{0, 0.4, 1} {
		for i, uv := range [4][2]float64{{0, v}, {1, v}, {v, 0}, {v, 1}} {
			want, err := s.Point(uv[0], uv[1])
			mustNoErr(t, err)
			got, err := edges[i].Point(v)
			mustNoErr(t, err)
			diff(t, want, got, approx)
		}
	}

	bb, err := s.BoundingBox()
	mustNoErr(t, err)
	diff(t, vec3.T{2, 2, 4}, bb.Max)
	for _, pt := range surfaceSamples(t, s, 5, 5) {
		if !bb.Contains(&pt, 1e-12) {
			t.Errorf("%v outside %v", pt, bb)
		}
	}

	if _, err := new(Surface).Boundaries(); !errors.Is(err, ErrUnset) {
		t.Errorf("got %v, want ErrUnset", err)
	}
}
