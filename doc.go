// Package nurbs evaluates and refines Non-Uniform Rational B-Spline curves
// and tensor-product surfaces.
//
// A [Curve] or [Surface] starts out unset. It is configured with a clamped
// knot vector (or breakpoints with per-breakpoint continuity, see
// [Breakpoints]), control points and optional weights. The degree is not
// stored separately: it is derived from the multiplicity of the first knot,
// and the number of control points must equal
// sum(multiplicities) - degree - 1.
//
// Configured entities can be queried for their basis functions (as
// gonum matrices, one row per parameter sample), evaluated at explicit or
// uniformly spaced parameters, and refined with the three shape-preserving
// operations: knot insertion, knot removal and degree elevation. Refinements
// replace knots and control points as a unit and invalidate any cached
// samples, which [Curve.Geometry] and [Surface.Geometry] recompute on demand.
//
// Rational entities are refined in homogeneous coordinates: every control
// point is lifted to (w*p, w), the non-rational algorithm runs on the lifted
// points, and the result is projected back.
//
// Surfaces store their control grid flattened with direction 1 varying
// fastest, index i1 + nc1*i2. Per-direction operations gather the lines of
// the grid along the requested direction, delegate to the curve algorithms
// and scatter the results back.
//
// Split, Reverse and Isocurve derive new entities without touching the
// receiver.
//
// None of the types are safe for concurrent mutation. Evaluation does
// update the sample cache, so concurrent readers should evaluate on clones.
package nurbs
