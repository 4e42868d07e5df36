package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

var cubicKnots = KnotVec{0, 0, 0, 0, 0.2, 0.5, 0.5, 0.8, 1, 1, 1, 1}

func TestBasisFunctionsBezier(t *testing.T) {
	knots := KnotVec{0, 0, 0, 1, 1, 1}
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, BasisFunctions(0.5, 2, knots), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0, 0}, BasisFunctions(0, 2, knots), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 1}, BasisFunctions(1, 2, knots), 1e-12)
}

func TestBasisPartitionOfUnity(t *testing.T) {
	nc := len(cubicKnots) - 4
	for i := 0; i < 101; i++ {
		u := float64(i) / 100
		full := FullBasis(u, 3, cubicKnots)
		assert.Len(t, full, nc)
		assert.InDelta(t, 1, floats.Sum(full), 1e-10, "u = %g", u)
		for _, v := range full {
			assert.GreaterOrEqual(t, v, -1e-12, "u = %g", u)
		}

		// the sum of all basis functions is constant, so its derivatives vanish
		for order := 1; order <= 4; order++ {
			ders := FullDerivativeBasis(u, 3, order, cubicKnots)
			assert.InDelta(t, 0, floats.Sum(ders), 1e-8, "u = %g, order %d", u, order)
		}
	}
}

func TestBasisLocalSupport(t *testing.T) {
	for _, u := range []float64{0.1, 0.2, 0.35, 0.5, 0.9} {
		span := cubicKnots.Span(3, u)
		for j, v := range FullBasis(u, 3, cubicKnots) {
			if j < span-3 || j > span {
				assert.Zero(t, v, "basis %d at u = %g", j, u)
			}
		}
	}
}

func TestDerivativeBasisFunctions(t *testing.T) {
	knots := KnotVec{0, 0, 0, 1, 1, 1}
	ders := DerivativeBasisFunctions(0.25, 2, 4, knots)
	assert.Len(t, ders, 5)
	assert.InDeltaSlice(t, []float64{0.5625, 0.375, 0.0625}, ders[0], 1e-12)
	assert.InDeltaSlice(t, []float64{-1.5, 1, 0.5}, ders[1], 1e-12)
	assert.InDeltaSlice(t, []float64{2, -4, 2}, ders[2], 1e-12)
	assert.Equal(t, []float64{0, 0, 0}, ders[3])
	assert.Equal(t, []float64{0, 0, 0}, ders[4])
}

func TestDerivativeBasisFiniteDifference(t *testing.T) {
	const h = 1e-6
	for _, u := range []float64{0.1, 0.3, 0.65, 0.9} {
		ders := FullDerivativeBasis(u, 3, 1, cubicKnots)
		lo := FullBasis(u-h, 3, cubicKnots)
		hi := FullBasis(u+h, 3, cubicKnots)
		for j := range ders {
			assert.InDelta(t, (hi[j]-lo[j])/(2*h), ders[j], 1e-5, "basis %d at u = %g", j, u)
		}
	}
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, 1.0, Binomial(0, 0))
	assert.Equal(t, 1.0, Binomial(5, 0))
	assert.Equal(t, 10.0, Binomial(5, 2))
	assert.Equal(t, 10.0, Binomial(5, 3))
	assert.Equal(t, 184756.0, Binomial(20, 10))
	assert.Equal(t, 0.0, Binomial(3, 4))
}
