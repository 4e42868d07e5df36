package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAlong(t *testing.T) {
	// 3x2 grid indexed i0 + 3*i1
	data := []int{0, 1, 2, 10, 11, 12}
	shape := []int{3, 2}

	var lines [][]int
	out, newShape, err := ApplyAlong(data, shape, 0, func(line []int) ([]int, error) {
		lines = append(lines, slices.Clone(line))
		return append(slices.Clone(line), -1), nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {10, 11, 12}}, lines)
	assert.Equal(t, []int{4, 2}, newShape)
	assert.Equal(t, []int{0, 1, 2, -1, 10, 11, 12, -1}, out)

	lines = nil
	out, newShape, err = ApplyAlong(data, shape, 1, func(line []int) ([]int, error) {
		lines = append(lines, slices.Clone(line))
		return []int{line[0] + line[1]}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 10}, {1, 11}, {2, 12}}, lines)
	assert.Equal(t, []int{3, 1}, newShape)
	assert.Equal(t, []int{10, 12, 14}, out)

	// the input shape is not modified
	assert.Equal(t, []int{3, 2}, shape)
}

func TestApplyAlongThreeDimensions(t *testing.T) {
	shape := []int{2, 3, 2}
	data := make([]int, 12)
	for i := range data {
		data[i] = i
	}

	out, newShape, err := ApplyAlong(data, shape, 1, func(line []int) ([]int, error) {
		return []int{line[2], line[1], line[0]}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 2}, newShape)
	// reversing along the middle axis swaps planes 0 and 2 of every slab
	assert.Equal(t, []int{4, 5, 2, 3, 0, 1, 10, 11, 8, 9, 6, 7}, out)
}

func TestApplyAlongErrors(t *testing.T) {
	data := []int{0, 1, 2, 3}
	shape := []int{2, 2}

	calls := 0
	_, _, err := ApplyAlong(data, shape, 0, func(line []int) ([]int, error) {
		calls++
		return make([]int, calls), nil
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = ApplyAlong(data, shape, 0, func(line []int) ([]int, error) {
		return nil, ErrDomain
	})
	assert.ErrorIs(t, err, ErrDomain)

	assert.Panics(t, func() {
		ApplyAlong(data, shape, 2, func(line []int) ([]int, error) { return line, nil })
	})
	assert.Panics(t, func() {
		ApplyAlong(data, []int{3, 2}, 0, func(line []int) ([]int, error) { return line, nil })
	})
}
