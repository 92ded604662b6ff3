package pcago

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarle/pcago/testutil"
)

// assertOrthonormal checks that dirs are unit length and pairwise
// orthogonal within tol.
func assertOrthonormal(t *testing.T, dirs [][]float64, tol float64) {
	t.Helper()
	for i := range dirs {
		norm := 0.0
		for _, v := range dirs[i] {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, tol, "direction %d not unit length", i)

		for j := i + 1; j < len(dirs); j++ {
			dot := 0.0
			for d := range dirs[i] {
				dot += dirs[i][d] * dirs[j][d]
			}
			assert.InDelta(t, 0.0, dot, tol, "directions %d and %d not orthogonal", i, j)
		}
	}
}

// centeredSumOfSquares returns the mean sum of squares of the centered
// columns of data, i.e. the total variance the components must preserve.
func centeredSumOfSquares(data [][]float64) float64 {
	n := len(data)
	p := len(data[0])
	total := 0.0
	for j := 0; j < p; j++ {
		mean := 0.0
		for i := 0; i < n; i++ {
			mean += data[i][j]
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			d := data[i][j] - mean
			total += d * d
		}
	}
	return total / float64(n)
}

func TestFitValidation(t *testing.T) {
	valid := testutil.NewRNG(1).GaussianMatrix(10, 3)

	tests := []struct {
		name string
		data [][]float64
		opts []Option
	}{
		{"nil matrix", nil, nil},
		{"one row", valid[:1], nil},
		{"empty rows", [][]float64{{}, {}}, nil},
		{"ragged", [][]float64{{1, 2, 3}, {1, 2}}, nil},
		{"NaN", [][]float64{{1, math.NaN()}, {2, 3}}, nil},
		{"positive Inf", [][]float64{{1, 2}, {math.Inf(1), 3}}, nil},
		{"negative Inf", [][]float64{{1, 2}, {math.Inf(-1), 3}}, nil},
		{"negative components", valid, []Option{WithComponents(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.data, tt.opts...)
			require.Error(t, err)
		})
	}

	t.Run("error kinds", func(t *testing.T) {
		var inv *ErrInvalidInput
		_, err := Fit([][]float64{{1, math.NaN()}, {2, 3}})
		require.ErrorAs(t, err, &inv)

		_, err = Fit(valid, WithComponents(-1))
		require.ErrorIs(t, err, ErrInvalidK)
	})
}

func TestFitInvariants(t *testing.T) {
	fixtures := map[string][][]float64{
		"gaussian 50x5": testutil.NewRNG(7).GaussianMatrix(50, 5),
		"low rank 80x6": testutil.NewRNG(11).LowRankMatrix(80, 6, 2, 0.05),
		"wide 4x10":     testutil.NewRNG(13).GaussianMatrix(4, 10),
		"single column": testutil.NewRNG(17).GaussianMatrix(30, 1),
		"iris":          testutil.Iris(),
	}

	for _, solver := range []Solver{SolverSVD, SolverCovariance} {
		for name, data := range fixtures {
			t.Run(solver.String()+"/"+name, func(t *testing.T) {
				pc, err := Fit(data, WithSolver(solver))
				require.NoError(t, err)

				n := len(data)
				p := len(data[0])
				assert.LessOrEqual(t, pc.Components(), min(n, p))
				assert.Len(t, pc.Means, p)
				assert.Len(t, pc.Scores, n)

				assertOrthonormal(t, pc.Directions, 1e-6)

				for i := 1; i < len(pc.Variances); i++ {
					assert.GreaterOrEqual(t, pc.Variances[i-1], pc.Variances[i],
						"variances increase at index %d", i)
				}

				total := centeredSumOfSquares(data)
				sum := 0.0
				for _, v := range pc.Variances {
					sum += v
				}
				assert.InEpsilon(t, total, sum, 1e-6, "trace not preserved")
			})
		}
	}
}

func TestFitSolversAgree(t *testing.T) {
	// Full rank with decaying, well-separated variances, so every
	// eigenvector is uniquely determined up to sign.
	data := testutil.NewRNG(23).LowRankMatrix(60, 5, 5, 0.1)

	svd, err := Fit(data, WithSolver(SolverSVD))
	require.NoError(t, err)
	cov, err := Fit(data, WithSolver(SolverCovariance))
	require.NoError(t, err)

	require.Equal(t, svd.Components(), cov.Components())

	for j := range svd.Variances {
		assert.InDelta(t, svd.Variances[j], cov.Variances[j], 1e-8)

		// Directions agree up to sign: |dot| close to 1.
		dot := 0.0
		for d := range svd.Directions[j] {
			dot += svd.Directions[j][d] * cov.Directions[j][d]
		}
		assert.InDelta(t, 1.0, math.Abs(dot), 1e-6, "component %d differs beyond sign", j)
	}
}

func TestFitSignInvariance(t *testing.T) {
	data := testutil.NewRNG(29).GaussianMatrix(40, 3)

	pc, err := Fit(data)
	require.NoError(t, err)

	// Negating one direction and its score column keeps the result valid:
	// orthonormality holds and scores remain the projection of the
	// centered data.
	flipped := &PrincipalComponents{
		Means:      pc.Means,
		Directions: testutil.CloneMatrix(pc.Directions),
		Variances:  pc.Variances,
		Scores:     testutil.CloneMatrix(pc.Scores),
	}
	for d := range flipped.Directions[0] {
		flipped.Directions[0][d] = -flipped.Directions[0][d]
	}
	for i := range flipped.Scores {
		flipped.Scores[i][0] = -flipped.Scores[i][0]
	}

	assertOrthonormal(t, flipped.Directions, 1e-6)

	projected, err := flipped.Transform(data)
	require.NoError(t, err)
	for i := range projected {
		for j := range projected[i] {
			assert.InDelta(t, flipped.Scores[i][j], projected[i][j], 1e-8)
		}
	}
}

func TestFitTwinHeights(t *testing.T) {
	// Two strongly correlated columns, the tutorial's twin-height setup:
	// the first component alone should carry nearly all the variance
	// ((1+rho)/2 = 96% in expectation for rho = 0.92).
	data := testutil.NewRNG(42).CorrelatedPairs(100, 0.92)

	pc, err := Fit(data)
	require.NoError(t, err)
	require.Equal(t, 2, pc.Components())

	ratio := pc.ExplainedRatio()
	assert.GreaterOrEqual(t, ratio[0], 0.90)
}

func TestFitZeroVarianceColumn(t *testing.T) {
	rng := testutil.NewRNG(31)
	data := rng.GaussianMatrix(25, 3)
	for i := range data {
		data[i][1] = 4.2 // constant column
	}

	for _, solver := range []Solver{SolverSVD, SolverCovariance} {
		t.Run(solver.String(), func(t *testing.T) {
			pc, err := Fit(data, WithSolver(solver))
			require.NoError(t, err)

			for j, dir := range pc.Directions {
				assert.False(t, math.IsNaN(pc.Variances[j]), "NaN variance at %d", j)
				for d, v := range dir {
					assert.False(t, math.IsNaN(v), "NaN in direction %d at %d", j, d)
				}
			}
			for _, row := range pc.Scores {
				for _, v := range row {
					assert.False(t, math.IsNaN(v))
				}
			}

			// The degenerate column contributes no variance.
			last := pc.Variances[len(pc.Variances)-1]
			assert.InDelta(t, 0.0, last, 1e-9)
		})
	}
}

func TestFitComponentsTruncation(t *testing.T) {
	data := testutil.Iris()

	full, err := Fit(data)
	require.NoError(t, err)
	require.Equal(t, 4, full.Components())

	top2, err := Fit(data, WithComponents(2))
	require.NoError(t, err)
	require.Equal(t, 2, top2.Components())
	require.Len(t, top2.Scores[0], 2)

	for j := 0; j < 2; j++ {
		assert.InDelta(t, full.Variances[j], top2.Variances[j], 1e-12)
	}

	t.Run("clamped to rank", func(t *testing.T) {
		pc, err := Fit(data, WithComponents(99))
		require.NoError(t, err)
		assert.Equal(t, 4, pc.Components())
	})
}

func TestTransform(t *testing.T) {
	data := testutil.NewRNG(37).GaussianMatrix(20, 4)

	pc, err := Fit(data)
	require.NoError(t, err)

	t.Run("training rows reproduce scores", func(t *testing.T) {
		projected, err := pc.Transform(data)
		require.NoError(t, err)
		require.Len(t, projected, len(pc.Scores))
		for i := range projected {
			for j := range projected[i] {
				assert.InDelta(t, pc.Scores[i][j], projected[i][j], 1e-8)
			}
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		var dm *ErrDimensionMismatch
		_, err := pc.Transform([][]float64{{1, 2}})
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 4, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
	})

	t.Run("non-finite", func(t *testing.T) {
		var inv *ErrInvalidInput
		_, err := pc.Transform([][]float64{{1, 2, math.NaN(), 4}})
		require.ErrorAs(t, err, &inv)
	})
}

func TestExplainedRatio(t *testing.T) {
	data := testutil.Iris()
	pc, err := Fit(data)
	require.NoError(t, err)

	ratio := pc.ExplainedRatio()
	sum := 0.0
	for _, r := range ratio {
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	cum := pc.CumulativeRatio()
	require.Len(t, cum, len(ratio))
	assert.InDelta(t, ratio[0], cum[0], 1e-12)
	assert.InDelta(t, 1.0, cum[len(cum)-1], 1e-9)
	for i := 1; i < len(cum); i++ {
		assert.GreaterOrEqual(t, cum[i]+1e-12, cum[i-1])
	}
}

func TestFitDefensiveCopy(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}, {5, 7}}
	pc, err := Fit(data)
	require.NoError(t, err)

	means := append([]float64(nil), pc.Means...)
	data[0][0] = 1000

	assert.Equal(t, means, pc.Means, "result aliases caller memory")
}

func BenchmarkFit(b *testing.B) {
	data := testutil.NewRNG(1).GaussianMatrix(500, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Fit(data); err != nil {
			b.Fatal(err)
		}
	}
}
