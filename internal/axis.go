package internal

import "fmt"

// ApplyAlong runs fn on every 1D line of data taken along axis. data is a
// flattened array of the given shape with axis 0 varying fastest, so a
// surface control grid with shape {nc1, nc2} is indexed i1 + nc1*i2.
//
// All calls of fn must return lines of the same length, which becomes the
// new extent of axis in the returned shape. fn must not retain line.
func ApplyAlong[T any](data []T, shape []int, axis int, fn func(line []T) ([]T, error)) ([]T, []int, error) {
	if axis < 0 || axis >= len(shape) {
		panic(fmt.Sprintf("axis %d out of range for %d dimensions", axis, len(shape)))
	}

	size := 1
	for _, extent := range shape {
		size *= extent
	}
	if size != len(data) {
		panic(fmt.Sprintf("shape %v does not match %d elements", shape, len(data)))
	}

	stride := 1
	for _, extent := range shape[:axis] {
		stride *= extent
	}
	extent := shape[axis]
	outer := size / (stride * extent)

	newShape := append([]int(nil), shape...)
	newExtent := -1
	var out []T

	line := make([]T, extent)
	for o := 0; o < outer; o++ {
		for in := 0; in < stride; in++ {
			base := o*stride*extent + in
			for k := range line {
				line[k] = data[base+k*stride]
			}

			res, err := fn(line)
			if err != nil {
				return nil, nil, err
			}

			if newExtent < 0 {
				newExtent = len(res)
				newShape[axis] = newExtent
				out = make([]T, size/extent*newExtent)
			} else if len(res) != newExtent {
				return nil, nil, fmt.Errorf("%w: line of length %d, previous lines had %d",
					ErrDimensionMismatch, len(res), newExtent)
			}

			base = o*stride*newExtent + in
			for k, v := range res {
				out[base+k*stride] = v
			}
		}
	}

	return out, newShape, nil
}
