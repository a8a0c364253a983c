// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package octree implements a point/ball spatial index (a quadtree when
// dim=2, an octree when dim=3): balanced construction over mixed
// element sizes via Morton-code sorting, branch-and-bound nearest-facet
// queries, and bulk traversal helpers for tree-walking algorithms such
// as the FMM evaluator's P2M/L2P passes. Grounded on
// original_source/3bem/octree.h and original_source/cpp/nearest_neighbors.h.
package octree

import (
	"sort"

	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// mortonBits is the per-axis bit depth of the interleaved Morton code.
const mortonBits = 21

// maxAbsentChild marks an absent child slot, mirroring 3bem's
// children[i] == -1 convention.
const maxAbsentChild = -1

// Box is an axis-aligned bounding box described by center and
// half-width, with derived corners and squared radius.
type Box struct {
	Center    tensor.Vec
	HalfWidth tensor.Vec
	MinCorner tensor.Vec
	MaxCorner tensor.Vec
	Radius2   float64
}

// NewBox computes a Box's derived fields from its center and half-width.
func NewBox(center, halfWidth tensor.Vec) Box {
	dim := len(center)
	min := make(tensor.Vec, dim)
	max := make(tensor.Vec, dim)
	r2 := 0.0
	for i := 0; i < dim; i++ {
		min[i] = center[i] - halfWidth[i]
		max[i] = center[i] + halfWidth[i]
		r2 += halfWidth[i] * halfWidth[i]
	}
	return Box{Center: center, HalfWidth: halfWidth, MinCorner: min, MaxCorner: max, Radius2: r2}
}

// IntersectsBall reports whether box intersects the ball centered at c
// with the given radius.
func (b Box) IntersectsBall(c tensor.Vec, radius float64) bool {
	d2 := 0.0
	for i := range c {
		v := c[i]
		if v < b.MinCorner[i] {
			d := b.MinCorner[i] - v
			d2 += d * d
		} else if v > b.MaxCorner[i] {
			d := v - b.MaxCorner[i]
			d2 += d * d
		}
	}
	return d2 <= radius*radius
}

// Cell is one node of the flat cell array. Begin/End index into the
// Tree's permuted element arrays; Children holds up to 2^dim entries,
// maxAbsentChild meaning no child occupies that octant.
type Cell struct {
	Level    int
	Bounds   Box
	Begin    int
	End      int
	Children [8]int
	IsLeaf   bool
}

// Tree owns the permuted element arrays, their Morton codes, the
// permutation from sorted position to original index, and the flat cell
// array. The root is always cells[Root].
type Tree struct {
	Dim                int
	MaxElementsPerCell int

	// Centers/Radii are stored in sorted (Morton) order, one entry per
	// input element.
	Centers []tensor.Vec
	Radii   []float64

	// Permutation[sortedPos] == original input index, the inverse of a
	// sorted-position lookup: storing it this direction makes the common
	// leaf-scan-then-recover-original-index operation an O(1) lookup
	// instead of requiring an inverse pass.
	Permutation []int

	mortonCodes []uint64
	Cells       []Cell
	Bounds      Box
	Root        int

	reverseIdx map[int]int // lazily built by sortedPosOf
}

// Build constructs a Tree over the given element centers (and,
// optionally, radii for ball elements; pass nil for point elements).
func Build(dim int, centers []tensor.Vec, radii []float64, maxElementsPerCell int) *Tree {
	if dim != 2 && dim != 3 {
		chk.Panic("octree: unsupported dim %d (want 2 or 3)", dim)
	}
	n := len(centers)
	if radii == nil {
		radii = make([]float64, n)
	}
	if len(radii) != n {
		chk.Panic("octree: DimensionMismatch, len(centers)=%d len(radii)=%d", n, len(radii))
	}

	bounds := boundingBox(dim, centers)
	codes := make([]uint64, n)
	for i, c := range centers {
		codes[i] = mortonCode(c, bounds, dim)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return codes[perm[a]] < codes[perm[b]]
	})

	t := &Tree{
		Dim:                dim,
		MaxElementsPerCell: maxElementsPerCell,
		Centers:            make([]tensor.Vec, n),
		Radii:              make([]float64, n),
		Permutation:        perm,
		mortonCodes:        make([]uint64, n),
		Bounds:             bounds,
	}
	for sortedPos, orig := range perm {
		t.Centers[sortedPos] = centers[orig]
		t.Radii[sortedPos] = radii[orig]
		t.mortonCodes[sortedPos] = codes[orig]
	}

	if n == 0 {
		t.Root = 0
		t.Cells = []Cell{{Level: 0, Bounds: bounds, Begin: 0, End: 0, IsLeaf: true, Children: emptyChildren()}}
		return t
	}

	t.Root = t.buildRecursive(0, n, 0, bounds)
	return t
}

func emptyChildren() [8]int {
	return [8]int{maxAbsentChild, maxAbsentChild, maxAbsentChild, maxAbsentChild,
		maxAbsentChild, maxAbsentChild, maxAbsentChild, maxAbsentChild}
}

// boundingBox computes the AABB of all points and expands each
// half-width slightly so that no point lies exactly on a boundary.
func boundingBox(dim int, pts []tensor.Vec) Box {
	min := make(tensor.Vec, dim)
	max := make(tensor.Vec, dim)
	for i := 0; i < dim; i++ {
		min[i] = 0
		max[i] = 0
	}
	if len(pts) > 0 {
		copy(min, pts[0])
		copy(max, pts[0])
	}
	for _, p := range pts {
		for i := 0; i < dim; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	center := make(tensor.Vec, dim)
	half := make(tensor.Vec, dim)
	const eps = 1e-10
	for i := 0; i < dim; i++ {
		center[i] = 0.5 * (min[i] + max[i])
		hw := 0.5 * (max[i] - min[i])
		if hw < eps {
			hw = eps
		}
		half[i] = hw * (1 + 1e-6)
	}
	return NewBox(center, half)
}

// mortonCode computes the interleaved 21-bit-per-axis Morton code of pt
// within box.
func mortonCode(pt tensor.Vec, box Box, dim int) uint64 {
	leaves := float64(uint64(1) << mortonBits)
	var code uint64
	for axis := 0; axis < dim; axis++ {
		x := (pt[axis]-box.Center[axis])/(2*box.HalfWidth[axis]) + 0.5
		ic := int64(x * leaves)
		if ic < 0 {
			ic = 0
		}
		if ic >= int64(leaves) {
			ic = int64(leaves) - 1
		}
		code |= spread(uint64(ic), dim) << uint(axis)
	}
	return code
}

// spread inserts dim-1 zero bits after each bit of v, so that dim
// independently-spread per-axis codes OR'd together (each shifted by
// its axis index) interleave correctly.
func spread(v uint64, dim int) uint64 {
	var out uint64
	for bit := 0; bit < mortonBits; bit++ {
		if v&(1<<uint(bit)) != 0 {
			out |= 1 << uint(bit*dim)
		}
	}
	return out
}

// childCodeAt extracts the dim-bit group of code at bit-group index
// (counted from the least significant group, group 0).
func childCodeAt(code uint64, group, dim int) int {
	shift := uint(group * dim)
	mask := uint64((1 << uint(dim)) - 1)
	return int((code >> shift) & mask)
}

func (t *Tree) buildRecursive(begin, end, level int, box Box) int {
	idx := len(t.Cells)
	t.Cells = append(t.Cells, Cell{})

	if end-begin <= t.MaxElementsPerCell || level >= mortonBits {
		t.Cells[idx] = Cell{Level: level, Bounds: box, Begin: begin, End: end, IsLeaf: true, Children: emptyChildren()}
		return idx
	}

	group := mortonBits - 1 - level
	numChildren := 1 << uint(t.Dim)
	children := emptyChildren()

	cur := begin
	for c := 0; c < numChildren; c++ {
		start := cur
		for cur < end && childCodeAt(t.mortonCodes[cur], group, t.Dim) == c {
			cur++
		}
		if cur > start {
			children[c] = t.buildRecursive(start, cur, level+1, subBox(box, c, t.Dim))
		}
	}

	t.Cells[idx] = Cell{Level: level, Bounds: box, Begin: begin, End: end, IsLeaf: false, Children: children}
	return idx
}

// subBox returns the bounding box of octant childIdx within parent,
// where bit a of childIdx selects the lower (0) or upper (1) half of
// axis a.
func subBox(parent Box, childIdx, dim int) Box {
	center := make(tensor.Vec, dim)
	half := make(tensor.Vec, dim)
	for a := 0; a < dim; a++ {
		h := 0.5 * parent.HalfWidth[a]
		half[a] = h
		if (childIdx>>uint(a))&1 == 0 {
			center[a] = parent.Center[a] - h
		} else {
			center[a] = parent.Center[a] + h
		}
	}
	return NewBox(center, half)
}

// NumChildren returns 2^Dim, the maximum fan-out of a cell.
func (t *Tree) NumChildren() int { return 1 << uint(t.Dim) }
