package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnotVecMultiplicities(t *testing.T) {
	knots := KnotVec{0, 0, 0, 0.5, 0.5, 1, 1, 1}
	assert.Equal(t, []KnotMultiplicity{{0, 3}, {0.5, 2}, {1, 3}}, knots.Multiplicities())
	assert.Equal(t, 2, knots.Degree())
	assert.Equal(t, 5, knots.RequiredControlPoints())
	assert.Equal(t, []int{-1, 0, -1}, knots.Continuity(2))
	assert.Equal(t, 2, knots.Multiplicity(0.5))
	assert.Equal(t, 2, knots.Multiplicity(0.5+Epsilon/2))
	assert.Equal(t, 0, knots.Multiplicity(0.25))

	min, max := knots.Domain(2)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)

	assert.Nil(t, KnotVec(nil).Multiplicities())
	assert.Equal(t, -1, KnotVec(nil).Degree())
}

func TestKnotVecReversed(t *testing.T) {
	knots := KnotVec{1, 1, 1, 1.5, 2, 2, 3, 3, 3}
	assert.Equal(t, KnotVec{1, 1, 1, 2, 2, 2.5, 3, 3, 3}, knots.Reversed())
	assert.Equal(t, knots, knots.Reversed().Reversed())
}

func TestKnotVecSpan(t *testing.T) {
	knots := KnotVec{0, 0, 0, 0.25, 0.5, 0.5, 1, 1, 1}
	for _, tt := range []struct {
		u    float64
		span int
	}{
		{0, 2},
		{0.1, 2},
		{0.25, 3},
		{0.3, 3},
		{0.5, 5},
		{0.75, 5},
		{1, 5},
	} {
		assert.Equal(t, tt.span, knots.Span(2, tt.u), "u = %g", tt.u)
	}

	// a discontinuous join still resolves the end of the domain to the last
	// non-empty span
	joined := KnotVec{0, 0, 0.5, 0.5, 1, 1}
	assert.Equal(t, 1, joined.Span(1, 0.49))
	assert.Equal(t, 3, joined.Span(1, 0.5))
	assert.Equal(t, 3, joined.Span(1, 1))
}

func TestKnotVecValidate(t *testing.T) {
	assert.NoError(t, KnotVec{0, 0, 0, 1, 1, 1}.Validate(2, 3))
	assert.NoError(t, KnotVec{0, 0, 0.5, 0.5, 1, 1}.Validate(1, 4))

	for _, tt := range []struct {
		name   string
		knots  KnotVec
		degree int
		numPts int
		want   error
	}{
		{"short", KnotVec{0, 0, 1}, 2, 0, ErrKnotVector},
		{"unclamped start", KnotVec{0, 0, 0.1, 1, 1, 1}, 2, 3, ErrKnotVector},
		{"unclamped end", KnotVec{0, 0, 0, 0.9, 1, 1}, 2, 3, ErrKnotVector},
		{"decreasing", KnotVec{0, 0, 0, 0.6, 0.4, 1, 1, 1}, 2, 5, ErrKnotVector},
		{"empty domain", KnotVec{1, 1, 1, 1, 1, 1}, 2, 3, ErrKnotVector},
		{"run too long", KnotVec{0, 0, 0.5, 0.5, 0.5, 1, 1}, 1, 5, ErrKnotVector},
		{"count", KnotVec{0, 0, 0, 1, 1, 1}, 2, 4, ErrDimensionMismatch},
	} {
		assert.ErrorIs(t, tt.knots.Validate(tt.degree, tt.numPts), tt.want, tt.name)
	}
}

func TestKnotVecCheckDomain(t *testing.T) {
	knots := KnotVec{0, 0, 0, 1, 2, 2, 2}
	assert.NoError(t, knots.CheckDomain(2, 0))
	assert.NoError(t, knots.CheckDomain(2, 2))
	assert.ErrorIs(t, knots.CheckDomain(2, -0.1), ErrDomain)
	assert.ErrorIs(t, knots.CheckDomain(2, 2.1), ErrDomain)
}

func TestClampedKnots(t *testing.T) {
	knots, err := ClampedKnots([]float64{0, 0.5, 1}, 3, []int{1})
	require.NoError(t, err)
	assert.Equal(t, KnotVec{0, 0, 0, 0, 0.5, 0.5, 1, 1, 1, 1}, knots)

	knots, err = ClampedKnots([]float64{0, 0.5, 1}, 2, []int{-1})
	require.NoError(t, err)
	assert.Equal(t, KnotVec{0, 0, 0, 0.5, 0.5, 0.5, 1, 1, 1}, knots)

	knots, err = ClampedKnots([]float64{0, 1}, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, KnotVec{0, 0, 1, 1}, knots)

	_, err = ClampedKnots([]float64{0, 0.5, 1}, 2, []int{2})
	assert.ErrorIs(t, err, ErrKnotVector)
	_, err = ClampedKnots([]float64{0, 0.5, 1}, 2, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = ClampedKnots([]float64{0, 0, 1}, 2, []int{0})
	assert.ErrorIs(t, err, ErrKnotVector)
	_, err = ClampedKnots([]float64{0}, 2, nil)
	assert.ErrorIs(t, err, ErrKnotVector)
}
