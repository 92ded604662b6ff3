// Package testutil provides testing utilities for pcago.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for random data matrices and the
// classic Iris measurement matrix as a fixed fixture.
package testutil

import (
	"math"
	"math/rand"
)

// RNG encapsulates a seeded random number generator for reproducible
// fixtures.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// FillGaussian fills dst with standard normal values.
func (r *RNG) FillGaussian(dst []float64) {
	for i := range dst {
		dst[i] = r.rand.NormFloat64()
	}
}

// GaussianMatrix returns an n x p matrix of standard normal values.
func (r *RNG) GaussianMatrix(n, p int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, p)
		r.FillGaussian(m[i])
	}
	return m
}

// CorrelatedPairs returns an n x 2 matrix whose columns have population
// correlation rho. Column one is standard normal; column two mixes it
// with independent noise.
func (r *RNG) CorrelatedPairs(n int, rho float64) [][]float64 {
	noise := math.Sqrt(1 - rho*rho)
	m := make([][]float64, n)
	for i := range m {
		x := r.rand.NormFloat64()
		y := rho*x + noise*r.rand.NormFloat64()
		m[i] = []float64{x, y}
	}
	return m
}

// LowRankMatrix returns an n x p matrix whose variance is concentrated in
// the first rank directions: each row is a random combination of rank
// fixed axis-aligned directions with decaying weights, plus small
// isotropic noise.
func (r *RNG) LowRankMatrix(n, p, rank int, noise float64) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		row := make([]float64, p)
		for d := 0; d < rank && d < p; d++ {
			weight := float64(rank-d) * r.rand.NormFloat64()
			row[d] += weight
		}
		for j := range row {
			row[j] += noise * r.rand.NormFloat64()
		}
		m[i] = row
	}
	return m
}

// CloneMatrix returns a deep copy of m.
func CloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
