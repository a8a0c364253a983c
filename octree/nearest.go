// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package octree

import (
	"math"

	"github.com/cpmech/bemcore/tensor"
)

// ExactDistance computes the true distance from pt to the original
// element identified by origIndex (the index space of the slice passed
// to Build). It returns only the distance. It is supplied by the
// caller because only the caller knows the true geometry (a facet, not
// just its bounding ball).
type ExactDistance func(origIndex int, pt tensor.Vec) (distance float64)

// NearestResult is the outcome of a Nearest query.
type NearestResult struct {
	OrigIndex int
	Distance  float64
}

// BruteForceNearest scans every element in indices (original index
// space) and returns the closest by exact, ignoring the tree entirely.
// This is both a reference implementation for tests comparing against
// Nearest and the leaf-level primitive used by Nearest, mirroring
// original_source/cpp/nearest_neighbors.h's nearest_facet_brute_force.
func BruteForceNearest(pt tensor.Vec, indices []int, ballCenter func(int) tensor.Vec, ballRadius func(int) float64, exact ExactDistance) NearestResult {
	best := NearestResult{OrigIndex: -1, Distance: math.Inf(1)}
	for _, idx := range indices {
		if ballCenter != nil {
			d := pt.Sub(ballCenter(idx)).Norm()
			if d > best.Distance+ballRadius(idx) {
				continue
			}
		}
		d := exact(idx, pt)
		if d < best.Distance {
			best = NearestResult{OrigIndex: idx, Distance: d}
		}
	}
	return best
}

// Nearest runs a branch-and-bound nearest-element query: at a leaf,
// linear search with ball-radius rejection; at an internal cell,
// recurse first into the bounding-box-closest child, then visit
// remaining children whose bounding box intersects a ball of the
// current best radius around pt.
func (t *Tree) Nearest(pt tensor.Vec, exact ExactDistance) NearestResult {
	if len(t.Cells) == 0 {
		return NearestResult{OrigIndex: -1, Distance: math.Inf(1)}
	}
	return t.nearestHelper(pt, t.Root, exact)
}

func (t *Tree) nearestHelper(pt tensor.Vec, cellIdx int, exact ExactDistance) NearestResult {
	cell := t.Cells[cellIdx]
	if cell.IsLeaf {
		indices := make([]int, 0, cell.End-cell.Begin)
		for i := cell.Begin; i < cell.End; i++ {
			indices = append(indices, t.Permutation[i])
		}
		return BruteForceNearest(pt, indices,
			func(i int) tensor.Vec { return t.centerByOrig(i) },
			func(i int) float64 { return t.radiusByOrig(i) },
			exact)
	}

	closest := t.closestNonEmptyChild(cell, pt)
	best := t.nearestHelper(pt, cell.Children[closest], exact)

	for c := 0; c < t.NumChildren(); c++ {
		if c == closest || cell.Children[c] == maxAbsentChild {
			continue
		}
		childCell := t.Cells[cell.Children[c]]
		if !childCell.Bounds.IntersectsBall(pt, best.Distance) {
			continue
		}
		alt := t.nearestHelper(pt, cell.Children[c], exact)
		if alt.Distance < best.Distance {
			best = alt
		}
	}
	return best
}

// closestNonEmptyChild returns the index of the present child whose
// bounding-box center is nearest pt, so Nearest can recurse there
// first.
func (t *Tree) closestNonEmptyChild(cell Cell, pt tensor.Vec) int {
	best := -1
	bestDist := math.Inf(1)
	for c := 0; c < t.NumChildren(); c++ {
		if cell.Children[c] == maxAbsentChild {
			continue
		}
		d := pt.Sub(t.Cells[cell.Children[c]].Bounds.Center).Norm()
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// centerByOrig/radiusByOrig recover a sorted-position lookup from an
// original index; built lazily since most callers only need leaf-local
// lookups where a direct reverse map would be wasteful for large trees.
func (t *Tree) centerByOrig(orig int) tensor.Vec {
	return t.Centers[t.sortedPosOf(orig)]
}

func (t *Tree) radiusByOrig(orig int) float64 {
	return t.Radii[t.sortedPosOf(orig)]
}

func (t *Tree) sortedPosOf(orig int) int {
	if t.reverseIdx == nil {
		t.reverseIdx = make(map[int]int, len(t.Permutation))
		for pos, o := range t.Permutation {
			t.reverseIdx[o] = pos
		}
	}
	return t.reverseIdx[orig]
}
