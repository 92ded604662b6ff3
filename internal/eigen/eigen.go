// Package eigen implements eigendecomposition of symmetric matrices using
// cyclic Jacobi rotations.
//
// Used internally by the covariance solver to extract principal directions
// from a P x P covariance matrix. Suitable for the small-to-moderate P
// typical of feature matrices (e.g. P < 1024).
package eigen

import (
	"errors"
	"fmt"
	"math"
)

const (
	// tol bounds the off-diagonal Frobenius norm, relative to the full
	// Frobenius norm, below which the iteration is considered converged.
	tol = 1e-12

	maxSweeps = 60
)

// ErrNotConverged is returned when the rotation sweeps fail to drive the
// off-diagonal mass below tolerance within the sweep budget.
var ErrNotConverged = errors.New("jacobi iteration did not converge")

// Decompose computes the eigenvalues and eigenvectors of the symmetric
// matrix a. It returns the eigenvalues and, in the same order, the
// corresponding eigenvectors (each of length len(a), mutually orthonormal).
// The order is unsorted; callers rank as needed. a is not modified.
//
// Only the lower triangle of a is required to be consistent with the upper
// triangle; asymmetry beyond floating-point noise gives meaningless results.
func Decompose(a [][]float64) ([]float64, [][]float64, error) {
	n := len(a)
	if n == 0 {
		return nil, nil, errors.New("empty matrix")
	}
	for i := range a {
		if len(a[i]) != n {
			return nil, nil, fmt.Errorf("matrix is not square: row %d has %d columns, want %d", i, len(a[i]), n)
		}
	}

	// Work on a copy; rotations are applied in place.
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
		copy(w[i], a[i])
	}

	v := identity(n)

	total := frobenius(w)
	if total == 0 {
		// Zero matrix: eigenvalues all zero, eigenvectors the standard basis.
		return diagonal(w), columns(v), nil
	}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		if offDiagonal(w) <= tol*total {
			return diagonal(w), columns(v), nil
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				rotate(w, v, p, q)
			}
		}
	}

	if offDiagonal(w) <= tol*total {
		return diagonal(w), columns(v), nil
	}

	return nil, nil, ErrNotConverged
}

// rotate zeroes w[p][q] with a Jacobi rotation, updating w symmetrically
// and accumulating the rotation into the columns of v.
func rotate(w, v [][]float64, p, q int) {
	apq := w[p][q]
	if apq == 0 {
		return
	}

	theta := (w[q][q] - w[p][p]) / (2 * apq)
	var t float64
	if theta >= 0 {
		t = 1 / (theta + math.Sqrt(1+theta*theta))
	} else {
		t = -1 / (-theta + math.Sqrt(1+theta*theta))
	}
	c := 1 / math.Sqrt(1+t*t)
	s := c * t

	n := len(w)

	app := w[p][p]
	aqq := w[q][q]
	w[p][p] = app - t*apq
	w[q][q] = aqq + t*apq
	w[p][q] = 0
	w[q][p] = 0

	for k := 0; k < n; k++ {
		if k == p || k == q {
			continue
		}
		akp := w[k][p]
		akq := w[k][q]
		w[k][p] = c*akp - s*akq
		w[p][k] = w[k][p]
		w[k][q] = s*akp + c*akq
		w[q][k] = w[k][q]
	}

	for k := 0; k < n; k++ {
		vkp := v[k][p]
		vkq := v[k][q]
		v[k][p] = c*vkp - s*vkq
		v[k][q] = s*vkp + c*vkq
	}
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func frobenius(w [][]float64) float64 {
	sum := 0.0
	for i := range w {
		for j := range w[i] {
			sum += w[i][j] * w[i][j]
		}
	}
	return math.Sqrt(sum)
}

func offDiagonal(w [][]float64) float64 {
	sum := 0.0
	for i := range w {
		for j := range w[i] {
			if i != j {
				sum += w[i][j] * w[i][j]
			}
		}
	}
	return math.Sqrt(sum)
}

func diagonal(w [][]float64) []float64 {
	d := make([]float64, len(w))
	for i := range w {
		d[i] = w[i][i]
	}
	return d
}

// columns transposes the accumulated rotation matrix into a slice of
// eigenvectors: columns(v)[j][i] = v[i][j].
func columns(v [][]float64) [][]float64 {
	n := len(v)
	out := make([][]float64, n)
	for j := 0; j < n; j++ {
		vec := make([]float64, n)
		for i := 0; i < n; i++ {
			vec[i] = v[i][j]
		}
		out[j] = vec
	}
	return out
}
