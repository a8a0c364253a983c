// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor implements fixed-shape vector and nested-tensor
// arithmetic shared by every other package in this module: facet
// geometry, kernel evaluation and the FMM all operate on the same small
// number of shapes (a dim-vector, an R×C tensor, and a dim×R×C
// per-basis influence tensor), so the algebra lives in one place instead
// of being re-derived per call site.
package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec is a dim-sized real vector. dim is always 2 or 3 in this module;
// Vec carries no compile-time size because Go generics have no const
// type parameters, so callers are responsible for dimensional
// consistency the way gofem's la.Vector callers are.
type Vec []float64

// NewVec returns a zeroed vector of length dim.
func NewVec(dim int) Vec {
	return make(Vec, dim)
}

// Dot returns the Euclidean inner product of a and b.
func (a Vec) Dot(b Vec) float64 {
	return floats.Dot(a, b)
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Sub returns a - b as a freshly allocated vector.
func (a Vec) Sub(b Vec) Vec {
	out := make(Vec, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Add returns a + b as a freshly allocated vector.
func (a Vec) Add(b Vec) Vec {
	out := make(Vec, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Scale returns s*v as a freshly allocated vector.
func (v Vec) Scale(s float64) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = s * v[i]
	}
	return out
}

// AddScaled adds s*b into a in place, returning a.
func (a Vec) AddScaled(s float64, b Vec) Vec {
	for i := range a {
		a[i] += s * b[i]
	}
	return a
}

// Unit returns v normalized to unit length. Panics on a zero vector.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		panic("tensor: Unit of zero-length vector")
	}
	return v.Scale(1.0 / n)
}

// Clone returns a copy of v.
func (v Vec) Clone() Vec {
	out := make(Vec, len(v))
	copy(out, v)
	return out
}

// Tensor2 is an R×C dense tensor, row-major ([row][col]).
type Tensor2 [][]float64

// NewTensor2 returns a zeroed R×C tensor.
func NewTensor2(r, c int) Tensor2 {
	out := make(Tensor2, r)
	for i := range out {
		out[i] = make([]float64, c)
	}
	return out
}

// Scale returns s*t as a freshly allocated tensor.
func (t Tensor2) Scale(s float64) Tensor2 {
	out := make(Tensor2, len(t))
	for i, row := range t {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = s * v
		}
	}
	return out
}

// AddScaled adds s*b into a in place, returning a.
func (a Tensor2) AddScaled(s float64, b Tensor2) Tensor2 {
	for i := range a {
		for j := range a[i] {
			a[i][j] += s * b[i][j]
		}
	}
	return a
}

// Influence is a dim×R×C tensor: one R×C kernel tensor per local basis
// function of a facet. It is the accumulator type for every quadrature
// rule in package quadrature and every pass of the FMM evaluator.
type Influence [][]Tensor2

// NewInfluence returns a zeroed dim×R×C influence tensor.
func NewInfluence(dim, r, c int) Influence {
	out := make(Influence, dim)
	for b := range out {
		out[b] = NewTensor2(r, c)
	}
	return out
}

// OuterBasis scales k by each entry of basis and writes the result into
// slot b of a new Influence tensor; this is the per-point contribution
// of eval_point_influence in the original 3bem integral_term.cpp:
// outer_product(linear_basis(x_hat), kernel_val * jacobian).
func OuterBasis(basis Vec, k Tensor2) Influence {
	out := make(Influence, len(basis))
	for b, w := range basis {
		out[b] = k.Scale(w)
	}
	return out
}

// AddScaled adds s*b into a in place, returning a. Used to accumulate
// quadrature-point contributions: integrals += point_value * weight.
func (a Influence) AddScaled(s float64, b Influence) Influence {
	for i := range a {
		a[i].AddScaled(s, b[i])
	}
	return a
}

// Add adds b into a in place, returning a.
func (a Influence) Add(b Influence) Influence {
	return a.AddScaled(1.0, b)
}
