// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import "math"

// chebyNodes1D returns the p Chebyshev nodes of the first kind on
// [-1, 1]: x_k = cos(pi*(k+0.5)/p), the 1D basis of the order-p
// tensor-product Chebyshev grid.
func chebyNodes1D(p int) []float64 {
	out := make([]float64, p)
	for k := 0; k < p; k++ {
		out[k] = math.Cos(math.Pi * (float64(k) + 0.5) / float64(p))
	}
	return out
}

// sn1D evaluates the order-p Chebyshev interpolation kernel (Fong &
// Darve's S_n) at reference coordinate x against every node, returning
// one weight per node: S_p(x, x_k) = 1/p + (2/p) * sum_{n=1}^{p-1}
// T_n(x_k) T_n(x). x is clamped to [-1, 1] before the Chebyshev
// polynomials are evaluated via their cosine form, the standard
// numerically stable evaluation.
func sn1D(x float64, nodes []float64) []float64 {
	if x < -1 {
		x = -1
	}
	if x > 1 {
		x = 1
	}
	p := len(nodes)
	thetaX := math.Acos(x)
	out := make([]float64, p)
	for k, xk := range nodes {
		thetaK := math.Acos(xk)
		sum := 1.0 / float64(p)
		for n := 1; n < p; n++ {
			sum += (2.0 / float64(p)) * math.Cos(float64(n)*thetaK) * math.Cos(float64(n)*thetaX)
		}
		out[k] = sum
	}
	return out
}

// snTensor evaluates the dim-dimensional tensor-product interpolation
// weights at reference coordinate refPt (each component in [-1, 1])
// against the p^dim node grid, returning one weight per node, ordered
// so that node index = sum_a idx_a * p^a (axis 0 fastest).
func snTensor(refPt []float64, p int, nodes []float64) []float64 {
	dim := len(refPt)
	per := make([][]float64, dim)
	for a := 0; a < dim; a++ {
		per[a] = sn1D(refPt[a], nodes)
	}
	np := intPow(p, dim)
	out := make([]float64, np)
	idx := make([]int, dim)
	for j := 0; j < np; j++ {
		unrank(j, p, idx)
		w := 1.0
		for a := 0; a < dim; a++ {
			w *= per[a][idx[a]]
		}
		out[j] = w
	}
	return out
}

// nodeRealPos returns the real-space coordinates of tensor-grid node j
// within the box described by center/halfWidth.
func nodeRealPos(j, p int, nodes, center, halfWidth []float64) []float64 {
	dim := len(center)
	idx := make([]int, dim)
	unrank(j, p, idx)
	out := make([]float64, dim)
	for a := 0; a < dim; a++ {
		out[a] = center[a] + halfWidth[a]*nodes[idx[a]]
	}
	return out
}

// refCoord maps a real-space point into [-1,1]^dim reference
// coordinates of the box described by center/halfWidth.
func refCoord(pt, center, halfWidth []float64) []float64 {
	dim := len(pt)
	out := make([]float64, dim)
	for a := 0; a < dim; a++ {
		out[a] = (pt[a] - center[a]) / halfWidth[a]
	}
	return out
}

func intPow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// unrank writes into idx the dim per-axis digits (base p, axis 0
// fastest) of flat node index j.
func unrank(j, p int, idx []int) {
	for a := range idx {
		idx[a] = j % p
		j /= p
	}
}
