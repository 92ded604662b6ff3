package pcago

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/skarle/pcago/internal/eigen"
)

// Solver identifies the decomposition backend used by Fit.
type Solver int

const (
	// SolverSVD factorizes the centered data matrix directly with a thin
	// singular value decomposition.
	SolverSVD Solver = iota

	// SolverCovariance forms the P x P covariance matrix and
	// eigendecomposes it with cyclic Jacobi rotations.
	SolverCovariance
)

func (s Solver) String() string {
	switch s {
	case SolverSVD:
		return "SVD"
	case SolverCovariance:
		return "Covariance"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// PrincipalComponents is the immutable result of a single Fit call.
//
// Directions[j] is the j-th principal direction: a unit vector of length P,
// orthogonal to every other direction. Directions are ordered by descending
// explained variance. The sign of each direction is arbitrary; a direction
// and its negation are equally valid.
type PrincipalComponents struct {
	// Means holds the per-column means of the fitted data, needed to
	// re-center new observations in Transform.
	Means []float64

	// Directions holds K orthonormal direction vectors, each of length P.
	Directions [][]float64

	// Variances holds the variance explained by each direction,
	// non-increasing. The sum equals the total variance of the centered
	// data (trace preservation under an orthogonal transform).
	Variances []float64

	// Scores holds the projection of each centered observation onto each
	// direction: Scores[i][j] is observation i along direction j.
	Scores [][]float64
}

// Fit computes the principal components of data, where each row is one
// observation and each column one feature.
//
// Fit is a pure function: data is copied on entry and the result shares no
// memory with it. It returns ErrInvalidInput for malformed input (fewer
// than 2 rows, no columns, ragged rows, non-finite values) and
// ErrNumericalDegeneracy when the decomposition cannot converge.
func Fit(data [][]float64, opts ...Option) (*PrincipalComponents, error) {
	start := time.Now()

	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if o.components < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, o.components)
	}

	x, err := denseCopy(data)
	if err != nil {
		o.logger.LogFit(len(data), 0, 0, o.solver, time.Since(start), err)
		return nil, err
	}
	n, p := x.Dims()

	means := columnMeans(x)
	centered := centerColumns(x, means)

	var (
		dirs [][]float64
		vars []float64
	)
	switch o.solver {
	case SolverCovariance:
		dirs, vars, err = covarianceSolve(centered)
	default:
		dirs, vars, err = svdSolve(centered)
	}
	if err != nil {
		o.logger.LogFit(n, p, 0, o.solver, time.Since(start), err)
		return nil, err
	}

	dirs, vars = sortByVariance(dirs, vars)

	// Rank is at most min(N, P); the covariance path reports P directions,
	// the trailing ones carrying ~0 variance.
	k := min(len(vars), n, p)
	if o.components > 0 && o.components < k {
		k = o.components
	}
	dirs = dirs[:k]
	vars = vars[:k]

	pc := &PrincipalComponents{
		Means:      means,
		Directions: dirs,
		Variances:  vars,
		Scores:     project(centered, dirs),
	}

	o.logger.LogFit(n, p, k, o.solver, time.Since(start), nil)

	return pc, nil
}

// Components returns the number of retained principal components.
func (pc *PrincipalComponents) Components() int { return len(pc.Variances) }

// ExplainedRatio returns the share of total variance explained by each
// component. All-zero input yields an all-zero ratio.
func (pc *PrincipalComponents) ExplainedRatio() []float64 {
	out := make([]float64, len(pc.Variances))
	total := floats.Sum(pc.Variances)
	if total == 0 {
		return out
	}
	for i, v := range pc.Variances {
		out[i] = v / total
	}
	return out
}

// CumulativeRatio returns the running sum of ExplainedRatio: element i is
// the variance share captured by the first i+1 components together.
func (pc *PrincipalComponents) CumulativeRatio() []float64 {
	r := pc.ExplainedRatio()
	cum := make([]float64, len(r))
	floats.CumSum(cum, r)
	return cum
}

// Transform re-centers the given observations with the fitted means and
// projects them onto the principal directions. Each row must have exactly
// P features; rows are not modified.
func (pc *PrincipalComponents) Transform(rows [][]float64) ([][]float64, error) {
	p := len(pc.Means)
	out := make([][]float64, len(rows))
	centered := make([]float64, p)

	for i, row := range rows {
		if len(row) != p {
			return nil, &ErrDimensionMismatch{Expected: p, Actual: len(row)}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ErrInvalidInput{
					Reason: fmt.Sprintf("non-finite value %v at row %d, column %d", v, i, j),
				}
			}
		}

		floats.SubTo(centered, row, pc.Means)

		proj := make([]float64, len(pc.Directions))
		for j, dir := range pc.Directions {
			proj[j] = floats.Dot(centered, dir)
		}
		out[i] = proj
	}

	return out, nil
}

// denseCopy validates the input matrix and copies it into a Dense.
// The copy guarantees the result never aliases caller memory.
func denseCopy(data [][]float64) (*mat.Dense, error) {
	n := len(data)
	if n < 2 {
		return nil, &ErrInvalidInput{Reason: fmt.Sprintf("need at least 2 observations, got %d", n)}
	}
	p := len(data[0])
	if p < 1 {
		return nil, &ErrInvalidInput{Reason: "need at least 1 feature"}
	}

	buf := make([]float64, n*p)
	for i, row := range data {
		if len(row) != p {
			return nil, &ErrInvalidInput{
				Reason: fmt.Sprintf("ragged matrix: row %d has %d values, want %d", i, len(row), p),
			}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ErrInvalidInput{
					Reason: fmt.Sprintf("non-finite value %v at row %d, column %d", v, i, j),
				}
			}
			buf[i*p+j] = v
		}
	}

	return mat.NewDense(n, p, buf), nil
}

func columnMeans(x *mat.Dense) []float64 {
	n, p := x.Dims()
	means := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, x)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

func centerColumns(x *mat.Dense, means []float64) *mat.Dense {
	n, p := x.Dims()
	c := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			c.Set(i, j, x.At(i, j)-means[j])
		}
	}
	return c
}

// svdSolve extracts directions and variances from a thin SVD of the
// centered matrix: directions are the right singular vectors, variances
// the squared singular values divided by N.
func svdSolve(centered *mat.Dense) ([][]float64, []float64, error) {
	n, _ := centered.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, nil, &ErrNumericalDegeneracy{Solver: SolverSVD}
	}

	sv := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	k := len(sv)
	dirs := make([][]float64, k)
	vars := make([]float64, k)
	for j := 0; j < k; j++ {
		dirs[j] = mat.Col(nil, j, &v)
		vars[j] = sv[j] * sv[j] / float64(n)
	}

	return dirs, vars, nil
}

// covarianceSolve forms the P x P covariance matrix of the centered data
// and eigendecomposes it. Eigenvectors are the directions, eigenvalues the
// variances.
func covarianceSolve(centered *mat.Dense) ([][]float64, []float64, error) {
	n, p := centered.Dims()

	cols := make([][]float64, p)
	for j := 0; j < p; j++ {
		cols[j] = mat.Col(nil, j, centered)
	}

	cov := make([][]float64, p)
	for i := range cov {
		cov[i] = make([]float64, p)
	}
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			c := floats.Dot(cols[i], cols[j]) / float64(n)
			cov[i][j] = c
			cov[j][i] = c
		}
	}

	vals, vecs, err := eigen.Decompose(cov)
	if err != nil {
		return nil, nil, &ErrNumericalDegeneracy{Solver: SolverCovariance, cause: err}
	}

	// Covariance matrices are positive semi-definite; tiny negative
	// eigenvalues are rounding artifacts.
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		}
	}

	return vecs, vals, nil
}

// sortByVariance orders components by descending variance. Stable, so ties
// keep the solver's output order and results are deterministic for a fixed
// input.
func sortByVariance(dirs [][]float64, vars []float64) ([][]float64, []float64) {
	idx := make([]int, len(vars))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return vars[idx[a]] > vars[idx[b]]
	})

	sortedDirs := make([][]float64, len(dirs))
	sortedVars := make([]float64, len(vars))
	for to, from := range idx {
		sortedDirs[to] = dirs[from]
		sortedVars[to] = vars[from]
	}
	return sortedDirs, sortedVars
}

// project computes scores = centered * directions.
func project(centered *mat.Dense, dirs [][]float64) [][]float64 {
	n, p := centered.Dims()
	k := len(dirs)

	d := mat.NewDense(p, k, nil)
	for j, dir := range dirs {
		d.SetCol(j, dir)
	}

	var s mat.Dense
	s.Mul(centered, d)

	scores := make([][]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = mat.Row(nil, i, &s)
	}
	return scores
}
