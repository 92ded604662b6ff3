package pcago

type options struct {
	solver     Solver
	components int
	logger     *Logger
}

// Option configures Fit behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. solver-specific constructor variants).
type Option func(*options)

// WithSolver selects the decomposition backend used by Fit.
//
// The default is SolverSVD. Both solvers agree up to sign of the
// directions and floating-point rounding of the variances.
func WithSolver(s Solver) Option {
	return func(o *options) {
		o.solver = s
	}
}

// WithComponents truncates the result to the top k principal components.
//
// k is clamped to min(N, P); k = 0 (the default) keeps all components.
// Negative k is rejected by Fit with ErrInvalidK.
func WithComponents(k int) Option {
	return func(o *options) {
		o.components = k
	}
}

// WithLogger configures the logger used by Fit.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		solver:     SolverSVD,
		components: 0,
		logger:     NoopLogger(),
	}
}
