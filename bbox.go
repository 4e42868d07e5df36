package nurbs

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// BoundingBox is an axis-aligned box. The zero value is an empty box that
// contains nothing; Add initializes it.
type BoundingBox struct {
	Min, Max    vec3.T
	initialized bool
}

// Add expands the box to contain point.
func (this *BoundingBox) Add(point *vec3.T) *BoundingBox {
	if !this.initialized {
		this.Min, this.Max = *point, *point
		this.initialized = true
		return this
	}

	for i, val := range point {
		this.Max[i] = math.Max(this.Max[i], val)
		this.Min[i] = math.Min(this.Min[i], val)
	}
	return this
}

func (this *BoundingBox) AddRange(points []vec3.T) *BoundingBox {
	for i := range points {
		this.Add(&points[i])
	}
	return this
}

func (this *BoundingBox) IsEmpty() bool {
	return !this.initialized
}

// Contains reports whether point lies in the box grown by tol on every
// side.
func (this *BoundingBox) Contains(point *vec3.T, tol float64) bool {
	return this.Intersects(new(BoundingBox).Add(point), tol)
}

// Intersects reports whether the two boxes overlap once both are grown by
// tol.
func (this *BoundingBox) Intersects(bb *BoundingBox, tol float64) bool {
	if !this.initialized || !bb.initialized {
		return false
	}
	for i := range this.Min {
		if this.Min[i]-tol > bb.Max[i]+tol || bb.Min[i]-tol > this.Max[i]+tol {
			return false
		}
	}
	return true
}

// AxisLength returns the extent of the box along axis i, or 0 for an axis
// out of range.
func (this *BoundingBox) AxisLength(i int) float64 {
	if i < 0 || i >= len(this.Min) {
		return 0
	}
	return this.Max[i] - this.Min[i]
}

// LongestAxis returns the index of the longest axis.
func (this *BoundingBox) LongestAxis() int {
	id, max := 0, 0.0
	for i := range this.Min {
		if l := this.AxisLength(i); l > max {
			id, max = i, l
		}
	}
	return id
}
