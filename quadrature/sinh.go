// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadrature

import "math"

// SinhTransform remaps a 1D rule on [-1, 1] to cluster nodes near
// singularPt according to the sinh singular-integration transform
// (Johnston & Elliott): x = singularPt + scaledDistance *
// sinh(t*mu_2 + (1-t)*mu_1) with t = (u+1)/2, chosen so that the pullback of a
// near-singular kernel is smooth in u. Mirrors 3bem's sinh_transform.
func SinhTransform(base Rule, singularPt, scaledDistance float64, reverse bool) Rule {
	mu1 := math.Asinh((-1 - singularPt) / scaledDistance)
	mu2 := math.Asinh((1 - singularPt) / scaledDistance)
	out := make(Rule, len(base))
	for i, p := range base {
		u := p.XHat[0] // in [-1, 1]
		t := 0.5 * (u + 1) // map to [0, 1]
		arg := mu2*t + mu1*(1-t)
		x := singularPt + scaledDistance*math.Sinh(arg)
		dxdu := 0.5 * (mu2 - mu1) * scaledDistance * math.Cosh(arg)
		idx := i
		if reverse {
			idx = len(base) - 1 - i
		}
		out[idx] = pointAt(x, p.W*dxdu)
	}
	return out
}

func pointAt(x, w float64) Point {
	return Point{XHat: vec1(x), W: w}
}

func vec1(x float64) []float64 { return []float64{x} }

// SinhSigmoidalTransform builds a 2D singular rule over the reference
// triangle clustered near (sx, sy), composing a sinh transform in the
// radial-like direction with a plain Gauss rule in the angular-like
// direction. Mirrors 3bem's sinh_sigmoidal_transform used for the
// dim=3 nearfield sinh quadrature in choose_sinh_quad.
func SinhSigmoidalTransform(outer, inner Rule, sx, sy, scaledDistance float64, reverse bool) Rule {
	radial := SinhTransform(inner, 0.0, scaledDistance, reverse)
	out := make(Rule, 0, len(outer)*len(radial))
	for _, a := range outer {
		theta := 0.5 * math.Pi * (a.XHat[0] + 1) // map to [0, pi]
		for _, rp := range radial {
			rho := rp.XHat[0]
			if rho < 0 {
				rho = -rho
			}
			x := sx + rho*math.Cos(theta)
			y := sy + rho*math.Sin(theta)
			if x < 0 || y < 0 || x+y > 1 {
				continue
			}
			w := a.W * 0.5 * math.Pi * rp.W * rho
			out = append(out, Point{XHat: []float64{x, y}, W: w})
		}
	}
	return out
}
