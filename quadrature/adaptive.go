// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadrature

import (
	"github.com/cpmech/bemcore/tensor"
)

// adaptiveMaxDepth bounds the bisection recursion of Adaptive1D; it is
// the Go analog of the recursion cap implied by 3bem's adaptive_integrate,
// which never terminates by construction otherwise.
const adaptiveMaxDepth = 40

// loOrder/hiOrder are the two embedded Gauss rules compared to estimate
// the error of a sub-interval, the standard Gauss/Gauss-Kronrod-style
// doubling scheme.
const (
	loOrder = 5
	hiOrder = 10
)

var (
	loRuleCache = GaussLegendre1D(loOrder)
	hiRuleCache = GaussLegendre1D(hiOrder)
)

// Adaptive1D integrates f over [a, b] to within absolute tolerance tol,
// returning the best estimate and whether it converged (false means the
// recursion cap was hit — a QuadratureNonconvergence condition that
// callers should flag rather than treat as fatal).
func Adaptive1D(f func(x float64) tensor.Influence, a, b, tol float64, dim, r, c int) (tensor.Influence, bool) {
	return adaptiveRecurse(f, a, b, tol, dim, r, c, 0)
}

func evalOnRule(f func(float64) tensor.Influence, a, b float64, rule []Point, dim, r, c int) tensor.Influence {
	half := 0.5 * (b - a)
	mid := 0.5 * (a + b)
	acc := tensor.NewInfluence(dim, r, c)
	for _, p := range rule {
		x := mid + half*p.XHat[0]
		acc.AddScaled(half*p.W, f(x))
	}
	return acc
}

func infNorm(t tensor.Influence) float64 {
	max := 0.0
	for _, t2 := range t {
		for _, row := range t2 {
			for _, v := range row {
				if v < 0 {
					v = -v
				}
				if v > max {
					max = v
				}
			}
		}
	}
	return max
}

func infDiffNorm(a, b tensor.Influence) float64 {
	max := 0.0
	for i := range a {
		for j := range a[i] {
			for k := range a[i][j] {
				d := a[i][j][k] - b[i][j][k]
				if d < 0 {
					d = -d
				}
				if d > max {
					max = d
				}
			}
		}
	}
	return max
}

func adaptiveRecurse(f func(float64) tensor.Influence, a, b, tol float64, dim, r, c, depth int) (tensor.Influence, bool) {
	lo := evalOnRule(f, a, b, loRuleCache, dim, r, c)
	hi := evalOnRule(f, a, b, hiRuleCache, dim, r, c)
	if infDiffNorm(lo, hi) < tol || depth >= adaptiveMaxDepth {
		return hi, depth < adaptiveMaxDepth
	}
	mid := 0.5 * (a + b)
	left, okL := adaptiveRecurse(f, a, mid, tol*0.5, dim, r, c, depth+1)
	right, okR := adaptiveRecurse(f, mid, b, tol*0.5, dim, r, c, depth+1)
	left.Add(right)
	return left, okL && okR
}

// Adaptive2DTriangle nests two Adaptive1D calls over the reference
// triangle {(x,y): x>=0, y>=0, x+y<=1}, exactly mirroring 3bem's
// UnitFacetAdaptiveIntegrator<3> specialization in integral_term.cpp.
func Adaptive2DTriangle(f func(x, y float64) tensor.Influence, tol float64, r, c int) (tensor.Influence, bool) {
	ok := true
	outer := func(x float64) tensor.Influence {
		if x == 1.0 {
			return tensor.NewInfluence(3, r, c)
		}
		inner, innerOk := Adaptive1D(func(y float64) tensor.Influence {
			return f(x, y)
		}, 0.0, 1-x, tol, 3, r, c)
		ok = ok && innerOk
		return inner
	}
	result, outerOk := Adaptive1D(outer, 0.0, 1.0, tol, 3, r, c)
	return result, ok && outerOk
}
