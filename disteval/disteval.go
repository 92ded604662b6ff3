// Package disteval measures how well pairwise Euclidean distances survive
// dimension reduction.
//
// Projecting observations onto all principal components preserves pairwise
// distances exactly, because the basis is orthonormal. Truncating to the
// top-k components discards only the variance of the dropped directions,
// so the reduced distances stay highly correlated with the full ones.
// Compare quantifies that claim with a Pearson correlation over all
// unordered row pairs.
//
//	report, err := disteval.Compare(data, pc.Scores, 2)
//	fmt.Println(report.Correlation)
//
// CompareRaw performs the naive alternative of dropping raw feature
// columns without rotating first. Its reduced distances also correlate
// with the full ones but are systematically biased low, since every
// dropped column still carried its full share of squared difference.
package disteval

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/skarle/pcago/distance"
)

var (
	// ErrInvalidK is returned when k is outside [1, columns].
	ErrInvalidK = errors.New("k out of range")

	// ErrTooFewRows is returned when fewer than 2 rows are supplied.
	ErrTooFewRows = errors.New("need at least 2 rows")
)

// ErrRowCountMismatch indicates that data and scores disagree on the
// number of observations.
type ErrRowCountMismatch struct {
	Data   int
	Scores int
}

func (e *ErrRowCountMismatch) Error() string {
	return fmt.Sprintf("row count mismatch: %d data rows, %d score rows", e.Data, e.Scores)
}

// Pair identifies an unordered row pair, I < J.
type Pair struct {
	I, J int
}

// Report pairs full-dimension distances with their reduced-dimension
// counterparts over the same row pairs, in lexicographic (I, J) order.
type Report struct {
	// Pairs lists the row index pairs, parallel to Full and Reduced.
	Pairs []Pair

	// Full holds the Euclidean distances over all columns.
	Full []float64

	// Reduced holds the Euclidean distances over the first k columns of
	// the reduced representation.
	Reduced []float64

	// Correlation is the Pearson correlation between Full and Reduced.
	// It is NaN when fewer than two pairs exist or either sequence has
	// zero variance.
	Correlation float64
}

type options struct {
	parallelism int
}

// Option configures distance comparison behavior.
type Option func(*options)

// WithParallelism bounds the number of goroutines computing pairwise
// distances. Values <= 0 fall back to GOMAXPROCS. The result is identical
// to the single-threaded computation regardless of the setting.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(opts []Option) options {
	o := options{parallelism: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}
	if o.parallelism <= 0 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}

// Compare computes pairwise Euclidean distances over all rows of data,
// the distances over the first k columns of scores for the same row
// pairs, and the Pearson correlation between the two sequences.
//
// data and scores must have the same number of rows (at least 2) and
// rectangular shape; k must satisfy 1 <= k <= len(scores[0]).
func Compare(data, scores [][]float64, k int, opts ...Option) (*Report, error) {
	o := applyOptions(opts)

	n := len(data)
	if n != len(scores) {
		return nil, &ErrRowCountMismatch{Data: n, Scores: len(scores)}
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRows, n)
	}
	if err := checkRect(data, len(data[0]), "data"); err != nil {
		return nil, err
	}
	cols := len(scores[0])
	if err := checkRect(scores, cols, "scores"); err != nil {
		return nil, err
	}
	if k < 1 || k > cols {
		return nil, fmt.Errorf("%w: k=%d with %d score columns", ErrInvalidK, k, cols)
	}

	full := pairwise(data, len(data[0]), o.parallelism)
	reduced := pairwise(scores, k, o.parallelism)

	return newReport(n, full, reduced), nil
}

// CompareRaw is the naive truncation baseline: the reduced distances use
// the first k raw feature columns of data instead of rotated scores.
// k must satisfy 1 <= k <= len(data[0]).
func CompareRaw(data [][]float64, k int, opts ...Option) (*Report, error) {
	o := applyOptions(opts)

	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRows, n)
	}
	cols := len(data[0])
	if err := checkRect(data, cols, "data"); err != nil {
		return nil, err
	}
	if k < 1 || k > cols {
		return nil, fmt.Errorf("%w: k=%d with %d columns", ErrInvalidK, k, cols)
	}

	full := pairwise(data, cols, o.parallelism)
	reduced := pairwise(data, k, o.parallelism)

	return newReport(n, full, reduced), nil
}

func newReport(n int, full, reduced []float64) *Report {
	pairs := make([]Pair, 0, len(full))
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return &Report{
		Pairs:       pairs,
		Full:        full,
		Reduced:     reduced,
		Correlation: stat.Correlation(full, reduced, nil),
	}
}

func checkRect(rows [][]float64, want int, name string) error {
	for i, row := range rows {
		if len(row) != want {
			return fmt.Errorf("ragged %s matrix: row %d has %d values, want %d", name, i, len(row), want)
		}
	}
	return nil
}

// pairwise computes Euclidean distances for all unordered row pairs over
// the first cols columns, in lexicographic (i, j) order. Rows are fanned
// out across goroutines; each writes a disjoint slice range.
func pairwise(rows [][]float64, cols int, parallelism int) []float64 {
	n := len(rows)
	out := make([]float64, n*(n-1)/2)

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i := 0; i < n-1; i++ {
		i := i
		base := rowOffset(n, i)
		g.Go(func() error {
			a := rows[i][:cols]
			for j := i + 1; j < n; j++ {
				out[base+j-i-1] = distance.Euclidean(a, rows[j][:cols])
			}
			return nil
		})
	}

	// Workers never fail; Wait only synchronizes completion.
	_ = g.Wait()

	return out
}

// rowOffset returns the index of pair (i, i+1) in the lexicographic pair
// ordering for n rows.
func rowOffset(n, i int) int {
	return i*(n-1) - i*(i-1)/2
}
