// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Package linalg holds the small dense linear algebra kernels shared by the
// latent model trainer and the collaborative engine.
package linalg

import (
	"errors"
	"math"
)

// ErrNotPositiveDefinite is returned when a Cholesky factorization fails.
var ErrNotPositiveDefinite = errors.New("matrix is not positive definite")

// ErrNonFinite is returned when a vector contains NaN or Inf.
var ErrNonFinite = errors.New("non-finite value")

// Dot returns the inner product of a and b. Extra elements of the longer
// slice are ignored.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean length of v.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// Cosine returns the cosine similarity of a and b given their norms na and
// nb, or 0 when either norm is zero.
func Cosine(a, b []float64, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Finite reports whether every element of v is a finite number.
func Finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// NewSquare allocates an n×n zero matrix.
func NewSquare(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Gram returns VᵀV for the row vectors in rows, each of length k.
func Gram(rows [][]float64, k int) [][]float64 {
	g := NewSquare(k)
	for _, r := range rows {
		AddOuter(g, r, 1)
	}
	return g
}

// AddOuter adds w·v·vᵀ to the symmetric matrix m in place.
func AddOuter(m [][]float64, v []float64, w float64) {
	k := len(v)
	for f1 := 0; f1 < k; f1++ {
		wf := w * v[f1]
		for f2 := f1; f2 < k; f2++ {
			d := wf * v[f2]
			m[f1][f2] += d
			if f1 != f2 {
				m[f2][f1] += d
			}
		}
	}
}

// Clone returns a deep copy of m.
func Clone(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = append([]float64(nil), m[i]...)
	}
	return out
}

// SolveSPD solves A·x = b for a symmetric positive definite A using a
// Cholesky factorization. A is not modified.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func SolveSPD(A [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	if len(A) != n {
		return nil, errors.New("dimension mismatch")
	}

	L := NewSquare(n)
	for i := 0; i < n; i++ {
		if len(A[i]) != n {
			return nil, errors.New("dimension mismatch")
		}
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if !(sum > 0) {
					return nil, ErrNotPositiveDefinite
				}
				L[i][j] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// L·z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		z[i] = sum / L[i][i]
	}

	// Lᵀ·x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		x[i] = sum / L[i][i]
	}

	if !Finite(x) {
		return nil, ErrNonFinite
	}
	return x, nil
}
