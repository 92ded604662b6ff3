// Package pcago implements principal component analysis (PCA) for dense
// real-valued data matrices.
//
// Given a matrix with one observation per row and one feature per column,
// Fit produces an orthonormal basis of principal directions ranked by the
// variance each direction explains, together with the projection (scores)
// of every observation onto that basis.
//
// # Quick Start
//
//	pc, err := pcago.Fit(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pc.ExplainedRatio()) // variance share per component
//
// Truncate to the top two components for a 2D embedding:
//
//	pc, _ := pcago.Fit(data, pcago.WithComponents(2))
//	embedding := pc.Scores // N x 2
//
// Project new observations into the fitted basis:
//
//	coords, err := pc.Transform(newRows)
//
// # Solvers
//
// Two solvers are available, selected with WithSolver:
//
//   - SolverSVD (default): thin singular value decomposition of the
//     centered data matrix. Numerically stable, preferred for all inputs.
//   - SolverCovariance: eigendecomposition of the P x P covariance matrix
//     via cyclic Jacobi rotations. Useful when P is small and the
//     covariance matrix is wanted anyway.
//
// Both solvers produce the same directions up to sign and the same
// variances up to floating-point rounding.
//
// # Distance Preservation
//
// The companion package disteval measures how well pairwise Euclidean
// distances between observations survive truncation to the top-k
// components:
//
//	report, _ := disteval.Compare(data, pc.Scores, 2)
//	fmt.Println(report.Correlation) // close to 1 when structure is preserved
//
// Because the principal basis is orthonormal, projection onto all
// min(N, P) components preserves pairwise distances exactly; truncation
// discards only the variance of the dropped directions. Dropping raw
// feature columns instead (disteval.CompareRaw) systematically
// underestimates distances.
//
// # Input Requirements
//
// Fit requires at least two rows, at least one column, a rectangular
// shape, and finite values throughout. Sanitizing non-finite entries
// (for example, substituting zero for undefined correlations of
// constant columns) is the caller's responsibility. Inputs are copied
// on entry; results never alias caller memory.
package pcago
