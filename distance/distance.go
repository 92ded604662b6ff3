// Package distance provides Euclidean distance calculations on float64
// vectors. Dot products and scaling are delegated to gonum's floats
// package.
package distance

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// SquaredEuclidean calculates the squared Euclidean (L2) distance between
// two vectors. Assumes vectors are the same length (caller's
// responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean calculates the Euclidean (L2) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// NormalizeInPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeInPlace(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return false
	}
	floats.Scale(1/norm, v)
	return true
}

// NormalizeCopy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeCopy(src []float64) ([]float64, bool) {
	dst := slices.Clone(src)
	if !NormalizeInPlace(dst) {
		return nil, false
	}
	return dst, true
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64
