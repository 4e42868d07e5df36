package internal

import (
	"fmt"
	"math"
	"slices"
)

// Elevate the degree of a NURBS curve by t, keeping its shape.
//
// Corresponds to algorithm A5.9 (Piegl & Tiller). Interior knots of
// multiplicity degree + 1 (discontinuous joins) are carried through with
// all of their Bézier points.
//
// **params**
// + integer degree
// + array of nondecreasing knot values, clamped at both ends
// + array of homogeneous control points
// + number of degrees to add
//
// **returns**
// + the new degree, knots and control points
//
func ElevateDegree(degree int, knots KnotVec, controlPoints []HomoPoint, t int) (int, KnotVec, []HomoPoint, error) {
	if t < 0 {
		return 0, nil, nil, fmt.Errorf("%w: negative degree increment %d", ErrDomain, t)
	}
	if t == 0 {
		return degree, knots.Clone(), slices.Clone(controlPoints), nil
	}

	p := degree
	U, Pw := knots, controlPoints
	n := len(Pw) - 1
	m := n + p + 1
	ph := p + t
	ph2 := ph / 2

	// every distinct knot gains t repeats
	Uh := make(KnotVec, len(U)+t*len(U.Multiplicities()))
	Qw := make([]HomoPoint, len(Uh)-ph-1)

	// coefficients for degree elevating the Bézier segments
	bezalfs := zeros2d(ph+1, p+1)
	bpts := make([]HomoPoint, p+1)
	ebpts := make([]HomoPoint, ph+1)
	nextbpts := make([]HomoPoint, max(p, 1))
	alfs := make([]float64, max(p, 1))

	bezalfs[0][0] = 1
	bezalfs[ph][p] = 1

	for i := 1; i <= ph2; i++ {
		inv := 1 / Binomial(ph, i)
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = inv * Binomial(p, j) * Binomial(t, i-j)
		}
	}
	for i := ph2 + 1; i < ph; i++ {
		mpi := min(p, i)
		for j := max(0, i-t); j <= mpi; j++ {
			bezalfs[i][j] = bezalfs[ph-i][p-j]
		}
	}

	kind := ph + 1
	r := -1
	a, b := p, p+1
	cind := 1
	ua := U[0]
	Qw[0] = Pw[0]
	for i := 0; i <= ph; i++ {
		Uh[i] = ua
	}
	copy(bpts, Pw[:p+1])

	// big loop thru knot vector
	for b < m {
		i := b
		for b < m && math.Abs(U[b]-U[b+1]) <= Epsilon {
			b++
		}
		mul := b - i + 1
		ub := U[b]
		oldr := r
		r = p - mul

		// insert knot u(b) r times
		var lbz, rbz int
		switch {
		case oldr > 0:
			lbz = (oldr + 2) / 2
		case oldr < 0 && a != p:
			// the previous join was discontinuous, keep the first point
			lbz = 0
		default:
			lbz = 1
		}
		if r > 0 {
			rbz = ph - (r+1)/2
		} else {
			rbz = ph
		}

		if r > 0 {
			numer := ub - ua
			for k := p; k > mul; k-- {
				alfs[k-mul-1] = numer / (U[a+k] - ua)
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mul + j
				for k := p; k >= s; k-- {
					bpts[k] = HomoInterpolated(&bpts[k-1], &bpts[k], alfs[k-s])
				}
				nextbpts[save] = bpts[p]
			}
		}

		// degree elevate Bézier
		for i := lbz; i <= ph; i++ {
			ebpts[i] = HomoPoint{}
			mpi := min(p, i)
			for j := max(0, i-t); j <= mpi; j++ {
				scaled := bpts[j].Scaled(bezalfs[i][j])
				ebpts[i].Add(&scaled)
			}
		}

		// must remove knot u = U[a] oldr times
		if oldr > 1 {
			first, last := kind-2, kind
			den := ub - ua
			bet := (ub - Uh[kind-1]) / den

			// knot removal loop
			for tr := 1; tr < oldr; tr++ {
				i, j := first, last
				kj := j - kind + 1

				// loop and compute the new control points for one removal step
				for j-i > tr {
					if i < cind {
						alf := (ub - Uh[i]) / (ua - Uh[i])
						Qw[i] = HomoInterpolated(&Qw[i-1], &Qw[i], alf)
					}
					if j >= lbz {
						if j-tr <= kind-ph+oldr {
							gam := (ub - Uh[j-tr]) / den
							ebpts[kj] = HomoInterpolated(&ebpts[kj+1], &ebpts[kj], gam)
						} else {
							ebpts[kj] = HomoInterpolated(&ebpts[kj+1], &ebpts[kj], bet)
						}
					}
					i++
					j--
					kj--
				}

				first--
				last++
			}
		}

		// load the knot ua
		if a != p {
			for i := 0; i < ph-oldr; i++ {
				Uh[kind] = ua
				kind++
			}
		}

		// load control points into Qw
		for j := lbz; j <= rbz; j++ {
			Qw[cind] = ebpts[j]
			cind++
		}

		if b < m {
			// set up for next pass thru loop
			for j := 0; j < r; j++ {
				bpts[j] = nextbpts[j]
			}
			for j := max(r, 0); j <= p; j++ {
				bpts[j] = Pw[b-p+j]
			}
			a = b
			b++
			ua = ub
		} else {
			// end knot
			for i := 0; i <= ph; i++ {
				Uh[kind+i] = ub
			}
		}
	}

	return ph, Uh, Qw, nil
}
