// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fmm implements a kernel-independent fast multipole / treecode
// evaluator over a pair of point sets (or a single set evaluated against
// itself): Chebyshev expansion, P2M/M2M aggregation, a dual-tree MAC
// traversal that classifies well-separated cell pairs into P2P/M2P/M2L
// jobs, job execution, and L2P distribution. Grounded on
// original_source/3bem/fmm.h and original_source/3bem/octree.h.
package fmm

import (
	"sync"

	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/octree"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// Params are the three tunables of the evaluator: the expansion
// order, the multipole acceptance criterion threshold (compared against
// squared distances, hence "MAC2"), and the octree's leaf-size cap.
type Params struct {
	NExpPts            int // p: Chebyshev nodes per axis
	MAC2               float64
	MaxElementsPerCell int
}

// PointSet is one side of an evaluation: source or observation points
// with their outward normals (nil entries are fine for kernels that
// ignore a normal argument, e.g. LaplaceSingle).
type PointSet struct {
	Locations []tensor.Vec
	Normals   []tensor.Vec
}

// Evaluator holds everything that survives across repeated FMM.Evaluate
// calls against the same geometry and kernel: the two octrees and the
// cached Chebyshev node set. Building it is the expensive, reusable
// part; Evaluate itself is the O(N) (or O(N log N) far-dominated) pass.
type Evaluator struct {
	Params Params
	K      kernel.Kernel

	SrcTree *octree.Tree
	ObsTree *octree.Tree
	SrcPts  PointSet
	ObsPts  PointSet

	dim   int
	np    int
	nodes []float64
}

// NewEvaluator builds the source and observation octrees and caches the
// Chebyshev node set, ready for repeated Evaluate calls.
func NewEvaluator(params Params, k kernel.Kernel, src, obs PointSet) *Evaluator {
	if params.NExpPts < 1 {
		chk.Panic("fmm: NExpPts must be >= 1, got %d", params.NExpPts)
	}
	dim := k.Dim()
	srcRadii := make([]float64, len(src.Locations))
	obsRadii := make([]float64, len(obs.Locations))
	return &Evaluator{
		Params:  params,
		K:       k,
		SrcTree: octree.Build(dim, src.Locations, srcRadii, params.MaxElementsPerCell),
		ObsTree: octree.Build(dim, obs.Locations, obsRadii, params.MaxElementsPerCell),
		SrcPts:  src,
		ObsPts:  obs,
		dim:     dim,
		np:      intPow(params.NExpPts, dim),
		nodes:   chebyNodes1D(params.NExpPts),
	}
}

// jobSet is the per-observation-cell bucket of pending work the dual
// tree traversal fills in, keyed by observation cell index.
type jobSet struct {
	p2p []int
	m2l []int
	m2p []int
}

// Evaluate computes, for every observation point, the kernel sum over
// all source points weighted by values (one length-C vector per source
// point), approximated via the multipole/local expansion passes.
func (e *Evaluator) Evaluate(values [][]float64) [][]float64 {
	if len(values) != len(e.SrcPts.Locations) {
		chk.Panic("fmm: DimensionMismatch, len(values)=%d len(srcPts)=%d", len(values), len(e.SrcPts.Locations))
	}
	r, c := e.K.R(), e.K.C()

	multipoleWeights := newWeightArray(len(e.SrcTree.Cells)*e.np, c)
	localWeights := newWeightArray(len(e.ObsTree.Cells)*e.np, r)
	obsEffect := newWeightArray(len(e.ObsPts.Locations), r)

	e.p2m(e.SrcTree.Root, values, multipoleWeights)

	jobs := make([]jobSet, len(e.ObsTree.Cells))
	e.traverse(e.SrcTree.Root, e.ObsTree.Root, jobs)

	e.executeJobs(jobs, values, multipoleWeights, localWeights, obsEffect)

	e.l2p(e.ObsTree.Root, localWeights, obsEffect)

	return obsEffect
}

func newWeightArray(n, width int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, width)
	}
	return out
}

func addScaledInto(dst []float64, w float64, src []float64) {
	for i := range dst {
		dst[i] += w * src[i]
	}
}

// p2m is the bottom-up particle-to-multipole / multipole-to-multipole
// pass: leaves scatter point values onto their cell's Chebyshev nodes,
// internal cells gather each non-empty child's node values onto their
// own nodes. Children are recursed into as separate goroutines — each
// goroutine writes only multipoleWeights[child*np : child*np+np], a
// range disjoint across siblings, so no synchronization is needed
// beyond the WaitGroup barrier before the parent aggregates.
func (e *Evaluator) p2m(cellIdx int, values [][]float64, multipoleWeights [][]float64) {
	tree := e.SrcTree
	cell := tree.Cells[cellIdx]
	p := e.Params.NExpPts

	if cell.IsLeaf {
		for pos := cell.Begin; pos < cell.End; pos++ {
			orig := tree.Permutation[pos]
			rc := refCoord(tree.Centers[pos], cell.Bounds.Center, cell.Bounds.HalfWidth)
			w := snTensor(rc, p, e.nodes)
			for j := 0; j < e.np; j++ {
				addScaledInto(multipoleWeights[cellIdx*e.np+j], w[j], values[orig])
			}
		}
		return
	}

	var wg sync.WaitGroup
	for c := 0; c < tree.NumChildren(); c++ {
		child := cell.Children[c]
		if child < 0 {
			continue
		}
		wg.Add(1)
		go func(child int) {
			defer wg.Done()
			e.p2m(child, values, multipoleWeights)
		}(child)
	}
	wg.Wait()

	for c := 0; c < tree.NumChildren(); c++ {
		child := cell.Children[c]
		if child < 0 {
			continue
		}
		childCell := tree.Cells[child]
		for i := 0; i < e.np; i++ {
			childNodePos := nodeRealPos(i, p, e.nodes, childCell.Bounds.Center, childCell.Bounds.HalfWidth)
			rc := refCoord(childNodePos, cell.Bounds.Center, cell.Bounds.HalfWidth)
			w := snTensor(rc, p, e.nodes)
			childWeight := multipoleWeights[child*e.np+i]
			for j := 0; j < e.np; j++ {
				addScaledInto(multipoleWeights[cellIdx*e.np+j], w[j], childWeight)
			}
		}
	}
}

// traverse implements the dual-tree multipole-acceptance-criterion
// traversal. The write-safety invariant: tasks are forked only when
// refining the observation cell, never the source cell, so concurrent
// goroutines always touch disjoint jobs[obsIdx] slots. Refining the
// source cell instead happens sequentially in the same goroutine.
func (e *Evaluator) traverse(srcIdx, obsIdx int, jobs []jobSet) {
	src := e.SrcTree.Cells[srcIdx]
	obs := e.ObsTree.Cells[obsIdx]

	d2 := dist2(obs.Bounds.Center, src.Bounds.Center)
	r2 := obs.Bounds.Radius2 + src.Bounds.Radius2
	wellSeparated := 2*d2 > e.Params.MAC2*r2

	if wellSeparated {
		obsCount := obs.End - obs.Begin
		srcCount := src.End - src.Begin
		switch {
		case obsCount < e.np && srcCount < e.np:
			jobs[obsIdx].p2p = append(jobs[obsIdx].p2p, srcIdx)
		case obsCount < e.np:
			jobs[obsIdx].m2p = append(jobs[obsIdx].m2p, srcIdx)
		default:
			jobs[obsIdx].m2l = append(jobs[obsIdx].m2l, srcIdx)
		}
		return
	}

	if src.IsLeaf && obs.IsLeaf {
		jobs[obsIdx].p2p = append(jobs[obsIdx].p2p, srcIdx)
		return
	}

	refineObs := !obs.IsLeaf && (obs.Level <= src.Level || src.IsLeaf)
	if refineObs {
		var wg sync.WaitGroup
		for c := 0; c < e.ObsTree.NumChildren(); c++ {
			child := obs.Children[c]
			if child < 0 {
				continue
			}
			wg.Add(1)
			go func(child int) {
				defer wg.Done()
				e.traverse(srcIdx, child, jobs) // disjoint jobs[child] per the invariant above
			}(child)
		}
		wg.Wait()
		return
	}

	// Refine the source cell instead: sequential, since all children
	// would otherwise write into the same jobs[obsIdx] bucket.
	for c := 0; c < e.SrcTree.NumChildren(); c++ {
		child := src.Children[c]
		if child < 0 {
			continue
		}
		e.traverse(child, obsIdx, jobs)
	}
}

func dist2(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// executeJobs runs the P2P, M2L, M2P passes, in that order, parallel
// over the observation cell each jobSet belongs to. Each goroutine owns
// exactly one obsIdx's slice of localWeights and the obsEffect entries
// within that cell's [Begin,End) range, which are disjoint across
// obsIdx values by construction of the octree partition.
func (e *Evaluator) executeJobs(jobs []jobSet, values, multipoleWeights, localWeights, obsEffect [][]float64) {
	var wg sync.WaitGroup
	for obsIdx := range jobs {
		wg.Add(1)
		go func(obsIdx int) {
			defer wg.Done()
			e.runP2P(obsIdx, jobs[obsIdx].p2p, values, obsEffect)
			e.runM2L(obsIdx, jobs[obsIdx].m2l, multipoleWeights, localWeights)
			e.runM2P(obsIdx, jobs[obsIdx].m2p, multipoleWeights, obsEffect)
		}(obsIdx)
	}
	wg.Wait()
}

func (e *Evaluator) runP2P(obsIdx int, srcIdxs []int, values, obsEffect [][]float64) {
	obsCell := e.ObsTree.Cells[obsIdx]
	for oPos := obsCell.Begin; oPos < obsCell.End; oPos++ {
		oOrig := e.ObsTree.Permutation[oPos]
		oLoc := e.ObsTree.Centers[oPos]
		oNorm := normalAt(e.ObsPts.Normals, oOrig)
		for _, srcIdx := range srcIdxs {
			srcCell := e.SrcTree.Cells[srcIdx]
			for sPos := srcCell.Begin; sPos < srcCell.End; sPos++ {
				sOrig := e.SrcTree.Permutation[sPos]
				sLoc := e.SrcTree.Centers[sPos]
				sNorm := normalAt(e.SrcPts.Normals, sOrig)
				delta := sLoc.Sub(oLoc)
				r2 := delta.Dot(delta)
				kv := e.K.Eval(r2, delta, sNorm, oNorm)
				applyKernel(obsEffect[oOrig], kv, values[sOrig])
			}
		}
	}
}

func (e *Evaluator) runM2L(obsIdx int, srcIdxs []int, multipoleWeights, localWeights [][]float64) {
	obsCell := e.ObsTree.Cells[obsIdx]
	p := e.Params.NExpPts
	for j := 0; j < e.np; j++ {
		oLoc := tensor.Vec(nodeRealPos(j, p, e.nodes, obsCell.Bounds.Center, obsCell.Bounds.HalfWidth))
		for _, srcIdx := range srcIdxs {
			srcCell := e.SrcTree.Cells[srcIdx]
			for i := 0; i < e.np; i++ {
				sLoc := tensor.Vec(nodeRealPos(i, p, e.nodes, srcCell.Bounds.Center, srcCell.Bounds.HalfWidth))
				delta := sLoc.Sub(oLoc)
				r2 := delta.Dot(delta)
				kv := e.K.Eval(r2, delta, nil, nil)
				applyKernel(localWeights[obsIdx*e.np+j], kv, multipoleWeights[srcIdx*e.np+i])
			}
		}
	}
}

func (e *Evaluator) runM2P(obsIdx int, srcIdxs []int, multipoleWeights, obsEffect [][]float64) {
	obsCell := e.ObsTree.Cells[obsIdx]
	p := e.Params.NExpPts
	for oPos := obsCell.Begin; oPos < obsCell.End; oPos++ {
		oOrig := e.ObsTree.Permutation[oPos]
		oLoc := e.ObsTree.Centers[oPos]
		oNorm := normalAt(e.ObsPts.Normals, oOrig)
		for _, srcIdx := range srcIdxs {
			srcCell := e.SrcTree.Cells[srcIdx]
			for i := 0; i < e.np; i++ {
				sLoc := tensor.Vec(nodeRealPos(i, p, e.nodes, srcCell.Bounds.Center, srcCell.Bounds.HalfWidth))
				delta := sLoc.Sub(oLoc)
				r2 := delta.Dot(delta)
				kv := e.K.Eval(r2, delta, nil, oNorm)
				applyKernel(obsEffect[oOrig], kv, multipoleWeights[srcIdx*e.np+i])
			}
		}
	}
}

// applyKernel adds kv*src (an R×C matrix-vector product) into dst (a
// length-R accumulator).
func applyKernel(dst []float64, kv tensor.Tensor2, src []float64) {
	for row := range kv {
		s := 0.0
		for col, v := range kv[row] {
			s += v * src[col]
		}
		dst[row] += s
	}
}

func normalAt(normals []tensor.Vec, idx int) tensor.Vec {
	if normals == nil {
		return nil
	}
	return normals[idx]
}

// l2p is the top-down local-to-local / local-to-particle pass: internal
// cells push their node weights down into each child's nodes via
// interpolation, leaves push their node weights into the observation
// points they own. Mirror of p2m.
func (e *Evaluator) l2p(cellIdx int, localWeights, obsEffect [][]float64) {
	tree := e.ObsTree
	cell := tree.Cells[cellIdx]
	p := e.Params.NExpPts

	if cell.IsLeaf {
		for pos := cell.Begin; pos < cell.End; pos++ {
			orig := tree.Permutation[pos]
			rc := refCoord(tree.Centers[pos], cell.Bounds.Center, cell.Bounds.HalfWidth)
			w := snTensor(rc, p, e.nodes)
			for j := 0; j < e.np; j++ {
				addScaledInto(obsEffect[orig], w[j], localWeights[cellIdx*e.np+j])
			}
		}
		return
	}

	var wg sync.WaitGroup
	for c := 0; c < tree.NumChildren(); c++ {
		child := cell.Children[c]
		if child < 0 {
			continue
		}
		childCell := tree.Cells[child]
		for i := 0; i < e.np; i++ {
			childNodePos := nodeRealPos(i, p, e.nodes, childCell.Bounds.Center, childCell.Bounds.HalfWidth)
			rc := refCoord(childNodePos, cell.Bounds.Center, cell.Bounds.HalfWidth)
			w := snTensor(rc, p, e.nodes)
			for j := 0; j < e.np; j++ {
				addScaledInto(localWeights[child*e.np+i], w[j], localWeights[cellIdx*e.np+j])
			}
		}
		wg.Add(1)
		go func(child int) {
			defer wg.Done()
			e.l2p(child, localWeights, obsEffect)
		}(child)
	}
	wg.Wait()
}
