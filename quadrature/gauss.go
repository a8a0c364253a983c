// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quadrature implements the rules used by the integration
// dispatcher (package integral): plain Gauss-Legendre, tensor-product
// and triangular facet rules, the sinh/sinh-sigmoidal singular
// transforms, an adaptive recursive-bisection rule (a 5-point Gauss
// estimate checked against a 10-point one on each sub-interval), and
// Richardson extrapolation.
package quadrature

import (
	"math"

	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// Point is a single quadrature node: a reference-space location XHat
// (length dim-1, i.e. a scalar on a 2D edge or a 2-vector on a 3D
// triangle) and its weight W.
type Point struct {
	XHat tensor.Vec
	W    float64
}

// Rule is an ordered set of quadrature points.
type Rule []Point

// GaussLegendre1D returns the n-point Gauss-Legendre rule on [-1, 1].
// Node/weight generation is self-contained (Newton iteration on the
// Legendre polynomial, the standard textbook algorithm), matching the
// original 3bem numerics.h: that library generates its own Gauss rules
// rather than reaching for a third-party quadrature table, and since no
// example in this corpus exposes an arbitrary-order Legendre node
// generator under a stable API, the same self-contained approach is
// used here.
func GaussLegendre1D(n int) []Point {
	if n < 1 {
		chk.Panic("quadrature: GaussLegendre1D requires n >= 1, got %d", n)
	}
	pts := make([]Point, n)
	m := (n + 1) / 2
	for i := 0; i < m; i++ {
		// initial guess (Chebyshev node)
		z := math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))
		var pp float64
		for iter := 0; iter < 100; iter++ {
			p0, p1 := 1.0, 0.0
			for j := 0; j < n; j++ {
				p2 := p1
				p1 = p0
				p0 = ((2*float64(j)+1)*z*p1 - float64(j)*p2) / (float64(j) + 1)
			}
			pp = float64(n) * (z*p0 - p1) / (z*z - 1)
			z1 := z
			z = z1 - p0/pp
			if math.Abs(z-z1) < 1e-15 {
				break
			}
		}
		w := 2.0 / ((1 - z*z) * pp * pp)
		pts[i] = Point{XHat: tensor.Vec{-z}, W: w}
		pts[n-1-i] = Point{XHat: tensor.Vec{z}, W: w}
	}
	return pts
}

// GaussEdge returns the order-point Gauss rule over the reference
// interval [0, 1] used for dim=2 facets (the reference element is the
// unit interval there).
func GaussEdge(order int) Rule {
	raw := GaussLegendre1D(order)
	out := make(Rule, len(raw))
	for i, p := range raw {
		x := 0.5 * (p.XHat[0] + 1) // map [-1,1] -> [0,1]
		out[i] = Point{XHat: tensor.Vec{x}, W: 0.5 * p.W}
	}
	return out
}

// GaussTriangle returns an order^2-point tensor-product rule over the
// reference right triangle {(x,y): x>=0, y>=0, x+y<=1}, built by a
// Duffy (collapsed-coordinate) transform of a tensor-product square
// rule. This is the dim=3 facet reference element.
func GaussTriangle(order int) Rule {
	edge := GaussLegendre1D(order)
	out := make(Rule, 0, len(edge)*len(edge))
	for _, px := range edge {
		x := 0.5 * (px.XHat[0] + 1) // [-1,1] -> [0,1]
		for _, py := range edge {
			y := 0.5 * (py.XHat[0] + 1)
			// Duffy map: (x,y) in unit square -> (u,v) in unit triangle
			u := x * (1 - y)
			v := y
			jac := 1 - y
			w := 0.25 * px.W * py.W * jac
			out = append(out, Point{XHat: tensor.Vec{u, v}, W: w})
		}
	}
	return out
}

// GaussFacet dispatches to the correct reference-element rule for the
// given ambient dimension (2 -> edge, 3 -> triangle), mirroring 3bem's
// gauss_facet<dim>.
func GaussFacet(dim, order int) Rule {
	switch dim {
	case 2:
		return GaussEdge(order)
	case 3:
		return GaussTriangle(order)
	default:
		chk.Panic("quadrature: GaussFacet only supports dim in {2,3}, got %d", dim)
		return nil
	}
}
