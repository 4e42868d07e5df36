package nurbs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ungerik/go3d/float64/vec3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

var approx = cmpopts.EquateApprox(0, 1e-10)

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// quadratic Bézier through (0,0) and (2,0) with its apex control point at (1,2)
func newBezier(t *testing.T) *Curve {
	t.Helper()
	c := NewCurve()
	mustNoErr(t, c.Set(
		[]float64{0, 0, 0, 1, 1, 1},
		[]vec3.T{{0, 0, 0}, {1, 2, 0}, {2, 0, 0}},
		nil,
	))
	return c
}

var circleKnots = []float64{0, 0, 0, 1.0 / 3, 1.0 / 3, 2.0 / 3, 2.0 / 3, 1, 1, 1}

// unit circle built from the equilateral triangle with vertices at radius 2
func newCircle(t *testing.T, opts ...Option) *Curve {
	t.Helper()
	s3 := math.Sqrt(3)
	c := NewCurve(opts...)
	mustNoErr(t, c.Set(
		circleKnots,
		[]vec3.T{
			{0, -1, 0},
			{s3, -1, 0},
			{s3 / 2, 0.5, 0},
			{0, 2, 0},
			{-s3 / 2, 0.5, 0},
			{-s3, -1, 0},
			{0, -1, 0},
		},
		[]float64{1, 0.5, 1, 0.5, 1, 0.5, 1},
	))
	return c
}

func radii(pts []vec3.T) []float64 {
	out := make([]float64, len(pts))
	for i := range pts {
		out[i] = pts[i].Length()
	}
	return out
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// samples evaluates c at n uniform parameters without touching its cache.
func samples(t *testing.T, c *Curve, n int) []vec3.T {
	t.Helper()
	pts, err := c.Clone().EvaluateUniform(n)
	mustNoErr(t, err)
	return pts
}
