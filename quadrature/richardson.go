// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadrature

import "github.com/cpmech/bemcore/tensor"

// RichardsonSteps returns the geometric sequence of step-size factors
// used by the singular-integration Richardson extrapolation: {1, 1/2,
// 1/4, 1/8, 1/16} by default (factor 2, 5 steps), matching 3bem's
// default singular_steps.
func RichardsonSteps(nSteps int) []float64 {
	out := make([]float64, nSteps)
	h := 1.0
	for i := range out {
		out[i] = h
		h *= 0.5
	}
	return out
}

// RichardsonLimit applies the Richardson extrapolation tableau to a
// sequence of evaluations `steps[k] = f(h_k)` whose step sizes shrink
// by stepRatio from one to the next (2 for RichardsonSteps) and returns
// the extrapolated limit f(0). This is a direct port of 3bem's
// richardson_limit: level j of the tableau eliminates the h^j error
// term, so n evaluations remove the h, h^2, ..., h^(n-1) terms.
func RichardsonLimit(stepRatio int, steps []tensor.Influence) tensor.Influence {
	n := len(steps)
	table := make([]tensor.Influence, n)
	copy(table, steps)

	factor := stepRatio // stepRatio^level: the step ratio raised to the eliminated power
	for level := 1; level < n; level++ {
		next := make([]tensor.Influence, n-level)
		for i := 0; i < n-level; i++ {
			hi := cloneInfluence(table[i+1])
			lo := table[i]
			// R_{i,level} = (factor*hi - lo) / (factor - 1)
			combined := cloneInfluence(hi)
			combined = scaleInfluence(combined, float64(factor))
			combined = subInfluence(combined, lo)
			combined = scaleInfluence(combined, 1.0/float64(factor-1))
			next[i] = combined
		}
		table = next
		factor *= stepRatio
	}
	return table[0]
}

func cloneInfluence(t tensor.Influence) tensor.Influence {
	dim := len(t)
	if dim == 0 {
		return t
	}
	r := len(t[0])
	c := 0
	if r > 0 {
		c = len(t[0][0])
	}
	out := tensor.NewInfluence(dim, r, c)
	out.AddScaled(1.0, t)
	return out
}

func scaleInfluence(t tensor.Influence, s float64) tensor.Influence {
	for b := range t {
		t[b] = t[b].Scale(s)
	}
	return t
}

func subInfluence(a, b tensor.Influence) tensor.Influence {
	for i := range a {
		a[i].AddScaled(-1.0, b[i])
	}
	return a
}
