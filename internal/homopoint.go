package internal

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// HomoPoint is a control point lifted to homogeneous form (w*p, w).
type HomoPoint struct {
	Vec3 vec3.T
	W    float64
}

func (this *HomoPoint) Add(pt *HomoPoint) *HomoPoint {
	this.Vec3.Add(&pt.Vec3)
	this.W += pt.W

	return this
}

func (this *HomoPoint) Scale(scale float64) *HomoPoint {
	this.Vec3.Scale(scale)
	this.W *= scale

	return this
}

func (this HomoPoint) Scaled(scale float64) HomoPoint {
	return HomoPoint{this.Vec3.Scaled(scale), this.W * scale}
}

func Homogenized(pt vec3.T, w float64) HomoPoint {
	return HomoPoint{pt.Scaled(w), w}
}

// Transform a 1d array of points into their homogeneous equivalents
//
// **params**
// + 1d array of control points
// + array of control point weights, the same size as the array of control
// points, or nil for unit weights
//
// **returns**
// + 1d array of control points where each point is (wi*pi, wi) where wi
// is the ith control point weight and pi is the ith control point
func Homogenize1d(pts []vec3.T, weights []float64) []HomoPoint {
	homoPts := make([]HomoPoint, 0, len(pts))
	for i, pt := range pts {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		homoPts = append(homoPts, Homogenized(pt, w))
	}

	return homoPts
}

// Dehomogenize a point
//
// **returns**
// + the point pi = (wi*pi) / wi
func (this *HomoPoint) Dehomogenized() vec3.T {
	return this.Vec3.Scaled(1 / this.W)
}

// Dehomogenize an array of points
func Dehomogenize1d(homoPoints []HomoPoint) []vec3.T {
	result := make([]vec3.T, 0, len(homoPoints))
	for _, homoPt := range homoPoints {
		result = append(result, homoPt.Dehomogenized())
	}

	return result
}

// Obtain the weight from a collection of points in homogeneous space
func Weight1d(homoPoints []HomoPoint) (weights []float64) {
	weights = make([]float64, len(homoPoints))
	for i := range weights {
		weights[i] = homoPoints[i].W
	}

	return
}

// HomoInterpolated returns (1-t)*hpt0 + t*hpt1.
func HomoInterpolated(hpt0, hpt1 *HomoPoint, t float64) HomoPoint {
	return HomoPoint{
		vec3.Interpolate(&hpt0.Vec3, &hpt1.Vec3, t),
		(1-t)*hpt0.W + t*hpt1.W,
	}
}

// HomoDistance is the euclidean distance of two points in 4D.
func HomoDistance(hpt0, hpt1 *HomoPoint) float64 {
	dw := hpt0.W - hpt1.W
	return math.Sqrt(vec3.SquareDistance(&hpt0.Vec3, &hpt1.Vec3) + dw*dw)
}
