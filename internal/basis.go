package internal

// BasisFunctions returns the degree+1 basis functions that are nonzero at u.
func BasisFunctions(u float64, degree int, knots KnotVec) []float64 {
	knotSpanIndex := knots.Span(degree, u)
	return BasisFunctionsGivenKnotSpanIndex(knotSpanIndex, u, degree, knots)
}

// BasisFunctionsGivenKnotSpanIndex is BasisFunctions for a known span
// (A2.2, Piegl & Tiller).
func BasisFunctionsGivenKnotSpanIndex(knotSpanIndex int, u float64, degree int, knots KnotVec) []float64 {
	basisFunctions := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)

	basisFunctions[0] = 1

	for j := 1; j <= degree; j++ {
		left[j] = u - knots[knotSpanIndex+1-j]
		right[j] = knots[knotSpanIndex+j] - u
		var saved float64

		for r := 0; r < j; r++ {
			temp := ratio(basisFunctions[r], right[r+1]+left[j-r])
			basisFunctions[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}

		basisFunctions[j] = saved
	}

	return basisFunctions
}

// DerivativeBasisFunctions returns an (n+1) x (degree+1) table whose row k
// holds the k-th derivatives of the basis functions nonzero at u.
func DerivativeBasisFunctions(u float64, degree, n int, knots KnotVec) [][]float64 {
	knotSpanIndex := knots.Span(degree, u)
	return DerivativeBasisFunctionsGivenNI(knotSpanIndex, u, degree, n, knots)
}

// DerivativeBasisFunctionsGivenNI is DerivativeBasisFunctions for a known
// span (A2.3, Piegl & Tiller). Rows above the degree are zero.
func DerivativeBasisFunctionsGivenNI(knotSpanIndex int, u float64, p, n int, knots KnotVec) [][]float64 {
	ndu := zeros2d(p+1, p+1)

	left := make([]float64, p+1)
	right := make([]float64, p+1)

	ndu[0][0] = 1

	for j := 1; j <= p; j++ {
		left[j] = u - knots[knotSpanIndex+1-j]
		right[j] = knots[knotSpanIndex+j] - u
		var saved float64

		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ratio(ndu[r][j-1], ndu[j][r])

			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := zeros2d(n+1, p+1)

	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	// derivatives above the degree vanish
	nd := min(n, p)

	a := zeros2d(2, p+1)
	var j1, j2 int

	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1

		for k := 1; k <= nd; k++ {
			var d float64
			rk := r - k
			pk := p - k

			if r >= k {
				a[s2][0] = ratio(a[s1][0], ndu[pk+1][rk])
				d = a[s2][0] * ndu[rk][pk]
			}

			if rk >= -1 {
				j1 = 1
			} else {
				j1 = -rk
			}

			if r-1 <= pk {
				j2 = k - 1
			} else {
				j2 = p - r
			}

			for j := j1; j <= j2; j++ {
				a[s2][j] = ratio(a[s1][j]-a[s1][j-1], ndu[pk+1][rk+j])
				d += a[s2][j] * ndu[rk+j][pk]
			}

			if r <= pk {
				a[s2][k] = ratio(-a[s1][k-1], ndu[pk+1][r])
				d += a[s2][k] * ndu[r][pk]
			}

			ders[k][r] = d

			s1, s2 = s2, s1
		}
	}

	acc := p
	for k := 1; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= float64(acc)
		}
		acc *= (p - k)
	}

	return ders
}

// FullBasis evaluates the basis at u and places the p+1 nonzero values at
// their global indices span-p..span of an nc-length vector.
func FullBasis(u float64, degree int, knots KnotVec) []float64 {
	nc := len(knots) - degree - 1
	span := knots.Span(degree, u)
	full := make([]float64, nc)
	copy(full[span-degree:], BasisFunctionsGivenKnotSpanIndex(span, u, degree, knots))
	return full
}

// FullDerivativeBasis is FullBasis for the derivative of the given order.
func FullDerivativeBasis(u float64, degree, order int, knots KnotVec) []float64 {
	nc := len(knots) - degree - 1
	span := knots.Span(degree, u)
	full := make([]float64, nc)
	ders := DerivativeBasisFunctionsGivenNI(span, u, degree, order, knots)
	copy(full[span-degree:], ders[order])
	return full
}

// ratio treats a zero-length knot interval as contributing nothing.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func zeros2d(n, m int) [][]float64 {
	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, m)
	}

	return result
}
