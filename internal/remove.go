package internal

import (
	"math"
	"slices"
)

// Remove an interior knot up to num times, keeping only removals that
// reproduce the curve within tol.
//
// Corresponds to algorithm A5.8 (Piegl & Tiller)
//
// **params**
// + integer degree
// + array of nondecreasing knot values
// + array of homogeneous control points
// + the knot value to remove
// + maximum number of removals, clamped to the multiplicity of the knot
// + geometric tolerance; it is scaled by the minimum weight and the largest
// control point magnitude before being compared in homogeneous space
//
// **returns**
// + the new knots and control points and the number of removals done. When
// nothing could be removed the returned slices are copies of the input.
//
func RemoveKnot(degree int, knots KnotVec, controlPoints []HomoPoint, u float64, num int, tol float64) (KnotVec, []HomoPoint, int) {
	p := degree
	U := knots.Clone()
	Pw := slices.Clone(controlPoints)

	// r is the index of the last occurrence of u, s its multiplicity
	r, s := -1, 0
	for i, knot := range knots {
		if math.Abs(knot-u) <= Epsilon {
			r = i
			s++
		}
	}
	// only interior knots can be removed
	if s == 0 || r <= p || r >= len(Pw) || num <= 0 {
		return U, Pw, 0
	}
	num = min(num, s)
	u = knots[r]

	tol = removalTolerance(controlPoints, tol)

	n := len(Pw) - 1
	m := n + p + 1
	ord := p + 1
	fout := (2*r - s - p) / 2
	first, last := r-p, r-s
	temp := make([]HomoPoint, 2*p+2)

	var t int
	for t = 0; t < num; t++ {
		// compute new control points for one removal step
		off := first - 1
		temp[0] = Pw[off]
		temp[last+1-off] = Pw[last+1]

		i, j := first, last
		ii, jj := 1, last-off

		for j-i > t {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			alfj := (u - U[j-t]) / (U[j+ord] - U[j-t])

			temp[ii] = Pw[i]
			prev := temp[ii-1].Scaled(1 - alfi)
			temp[ii].Add(prev.Scale(-1)).Scale(1 / alfi)

			temp[jj] = Pw[j]
			next := temp[jj+1].Scaled(alfj)
			temp[jj].Add(next.Scale(-1)).Scale(1 / (1 - alfj))

			i++
			ii++
			j--
			jj--
		}

		// check if the knot is removable
		var removable bool
		if j-i < t {
			removable = HomoDistance(&temp[ii-1], &temp[jj+1]) <= tol
		} else {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			candidate := HomoInterpolated(&temp[ii-1], &temp[ii+t+1], alfi)
			removable = HomoDistance(&Pw[i], &candidate) <= tol
		}

		if !removable {
			break
		}

		// successful removal, save the new control points
		i, j = first, last
		for j-i > t {
			Pw[i] = temp[i-off]
			Pw[j] = temp[j-off]
			i++
			j--
		}

		first--
		last++
	}

	if t == 0 {
		return knots.Clone(), slices.Clone(controlPoints), 0
	}

	// shift knots
	for k := r + 1; k <= m; k++ {
		U[k-t] = U[k]
	}

	// Pj thru Pi will be overwritten
	j := fout
	i := j
	for k := 1; k < t; k++ {
		if k%2 == 1 {
			i++
		} else {
			j--
		}
	}

	// shift control points
	for k := i + 1; k <= n; k++ {
		Pw[j] = Pw[k]
		j++
	}

	return U[:len(U)-t], Pw[:len(Pw)-t], t
}

// removalTolerance converts a geometric deviation bound into the bound used
// on homogeneous control points: d * wmin / (1 + |P|max).
func removalTolerance(controlPoints []HomoPoint, tol float64) float64 {
	wmin := math.Inf(1)
	var pmax float64
	for i := range controlPoints {
		wmin = math.Min(wmin, controlPoints[i].W)
		pt := controlPoints[i].Dehomogenized()
		pmax = math.Max(pmax, pt.Length())
	}
	return tol * wmin / (1 + pmax)
}
