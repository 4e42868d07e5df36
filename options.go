package nurbs

// DefaultTolerance is the geometric deviation knot removal accepts when no
// tolerance is configured.
const DefaultTolerance = 1e-9

type options struct {
	tolerance float64
}

// Option configures a Curve or Surface on construction.
type Option func(*options)

// WithTolerance sets the largest deviation of the curve or surface that a
// knot removal may introduce. Values <= 0 select DefaultTolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) tol() float64 {
	if o.tolerance <= 0 {
		return DefaultTolerance
	}
	return o.tolerance
}
