// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import "github.com/cpmech/bemcore/kernel"

// DirectSum computes the exact O(N*M) kernel sum, obsEffect[i] =
// sum_j K(obs_i, src_j) * values[j], used as the ground-truth reference
// for FMM accuracy/convergence tests. It is not part of the evaluator's
// hot path.
func DirectSum(k kernel.Kernel, src, obs PointSet, values [][]float64) [][]float64 {
	r := k.R()
	out := newWeightArray(len(obs.Locations), r)
	for i, oLoc := range obs.Locations {
		oNorm := normalAt(obs.Normals, i)
		for j, sLoc := range src.Locations {
			sNorm := normalAt(src.Normals, j)
			delta := sLoc.Sub(oLoc)
			r2 := delta.Dot(delta)
			kv := k.Eval(r2, delta, sNorm, oNorm)
			applyKernel(out[i], kv, values[j])
		}
	}
	return out
}
