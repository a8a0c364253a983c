// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package continuity derives equality constraints on DOFs from vertex
// coincidence (mesh continuity), user-supplied Dirichlet boundary
// conditions, and normal/symmetry constraints, producing the
// constraint.EQ lists consumed by package constraint. Grounded on
// original_source/unit_tests/test_continuity_builder.cpp.
package continuity

import (
	"fmt"
	"sort"

	"github.com/cpmech/bemcore/constraint"
	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/fun"
)

// BCFunc is a user-supplied boundary condition. It is gosl/fun's own
// time-varying scalar field interface (F/G/H), reused as-is: any of
// gosl's concrete Func implementers (fun.Cte, fun.Add, fun.Mul, ...) or
// a user type implementing the same interface plugs directly into
// DirichletConstraints as a zero-time-slice Dirichlet value provider.
type BCFunc = fun.Func

// DOF returns the global degree of freedom for (facetIndex,
// localVertex), using the layout `dim*facet_index+vertex_index`.
func DOF(dim, facetIndex, localVertex int) int {
	return dim*facetIndex + localVertex
}

// Builder derives constraints over a fixed mesh of facets.
type Builder struct {
	Dim     int
	Facets  []facet.Facet
	Tol     float64 // coincidence tolerance for vertex matching
}

// NewBuilder returns a Builder with the default coincidence tolerance.
func NewBuilder(dim int, facets []facet.Facet) Builder {
	return Builder{Dim: dim, Facets: facets, Tol: 1e-10}
}

// vertexKey rounds a coordinate to the builder's tolerance grid so that
// coincident (to within Tol) vertices of different facets hash equal.
func (b Builder) vertexKey(p tensor.Vec) string {
	s := ""
	for _, v := range p {
		q := round(v, b.Tol)
		s += fmt.Sprintf("%.*f|", decimalsFor(b.Tol), q)
	}
	return s
}

func round(v, tol float64) float64 {
	if tol <= 0 {
		return v
	}
	return float64(int64(v/tol+0.5)) * tol
}

func decimalsFor(tol float64) int {
	d := 0
	for t := tol; t < 1 && d < 15; t *= 10 {
		d++
	}
	return d
}

// ContinuityConstraints emits, for every group of coincident facet
// vertices (mesh continuity across shared edges/corners), a chain of
// equality constraints tying every DOF in the group to the group's
// first DOF: dof_i - dof_first = 0.
func (b Builder) ContinuityConstraints() []constraint.EQ {
	groups := make(map[string][]int)
	order := make([]string, 0)
	for fi, f := range b.Facets {
		for vi, p := range f {
			key := b.vertexKey(p)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], DOF(b.Dim, fi, vi))
		}
	}

	var out []constraint.EQ
	for _, key := range order {
		dofs := groups[key]
		if len(dofs) < 2 {
			continue
		}
		sort.Ints(dofs)
		first := dofs[0]
		for _, d := range dofs[1:] {
			out = append(out, constraint.EQ{
				Terms: []constraint.LinearTerm{{DOF: d, Weight: 1}, {DOF: first, Weight: -1}},
				RHS:   0,
			})
		}
	}
	return out
}

// DirichletConstraints emits dof = value for every facet vertex where
// onBoundary(x) is true, value supplied by bc (evaluated at t=0, the
// static-BVP convention used throughout this module).
func (b Builder) DirichletConstraints(onBoundary func(x tensor.Vec) bool, bc BCFunc) []constraint.EQ {
	var out []constraint.EQ
	for fi, f := range b.Facets {
		for vi, p := range f {
			if !onBoundary(p) {
				continue
			}
			value := bc.F(0, []float64(p))
			out = append(out, constraint.EQ{
				Terms: []constraint.LinearTerm{{DOF: DOF(b.Dim, fi, vi), Weight: 1}},
				RHS:   value,
			})
		}
	}
	return out
}

// NormalConstraint emits a single user-supplied linear relation among
// explicit DOFs (e.g. a symmetry or normal-flux condition that isn't
// expressible as per-vertex coincidence or a pure Dirichlet value). It
// is a thin pass-through so callers can still route non-standard
// constraints through the same Builder-centric API.
func (b Builder) NormalConstraint(terms []constraint.LinearTerm, rhs float64) constraint.EQ {
	return constraint.EQ{Terms: terms, RHS: rhs}
}
