// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package operator assembles the dense boundary-element operator: for
// every (observation facet, source facet) pair, the integration
// dispatcher (package integral) is evaluated at each observation
// quadrature point and scattered into the global DOF-indexed block
// operator, which is then condensed through package constraint.
// Grounded on original_source/3bem/interpolation_operator.h (the
// observation-quadrature assembly loop) and
// original_source/3bem/constraint_matrix.cpp (condense_block_operator).
package operator

import (
	"sync"

	"github.com/cpmech/bemcore/constraint"
	"github.com/cpmech/bemcore/continuity"
	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/integral"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/quadrature"
	"gonum.org/v1/gonum/mat"
)

// Config bundles the kernel, classification thresholds, quadrature
// orders and nearfield strategy that Assemble needs.
type Config struct {
	K             kernel.Kernel
	Thresholds    integral.Thresholds
	FarOrder      int
	ObsQuadOrder  int
	Nearfield     integral.NearfieldIntegrator
	SingularSteps []float64
}

// Assemble builds the full (uncondensed) dense BlockOperator over
// obsFacets x srcFacets: an NCompRows x NCompCols grid (NCompRows=K.R(),
// NCompCols=K.C()) of (dim*len(obsFacets)) x (dim*len(srcFacets)) dense
// matrices. The outer loop over observation facets is
// parallel; each goroutine only ever writes rows
// [dim*obsFacetIdx, dim*obsFacetIdx+dim) of every block, a range
// disjoint across facets, so no locking is required.
func Assemble(cfg Config, obsFacets, srcFacets []facet.Info) constraint.BlockOperator {
	dim := cfg.K.Dim()
	r, c := cfg.K.R(), cfg.K.C()
	nObsDOF := dim * len(obsFacets)
	nSrcDOF := dim * len(srcFacets)

	blocks := make([]*mat.Dense, r*c)
	for i := range blocks {
		blocks[i] = mat.NewDense(nObsDOF, nSrcDOF, nil)
	}

	obsQuad := quadrature.GaussFacet(dim, cfg.ObsQuadOrder)
	farQuad := quadrature.GaussFacet(dim, cfg.FarOrder)
	strat := integral.Strategy{
		K:             cfg.K,
		Thresholds:    cfg.Thresholds,
		FarQuad:       farQuad,
		Nearfield:     cfg.Nearfield,
		SingularSteps: cfg.SingularSteps,
	}

	var wg sync.WaitGroup
	for obsIdx, obsInfo := range obsFacets {
		wg.Add(1)
		go func(obsIdx int, obsInfo facet.Info) {
			defer wg.Done()
			assembleRow(dim, r, c, obsIdx, obsInfo, srcFacets, obsQuad, strat, blocks)
		}(obsIdx, obsInfo)
	}
	wg.Wait()

	return constraint.BlockOperator{NCompRows: r, NCompCols: c, Ops: blocks}
}

func assembleRow(dim, r, c, obsIdx int, obsInfo facet.Info, srcFacets []facet.Info, obsQuad quadrature.Rule, strat integral.Strategy, blocks []*mat.Dense) {
	for _, qp := range obsQuad {
		obsLoc := facet.RefToReal(qp.XHat, obsInfo.Facet)
		obsBasis := facet.LinearBasis(qp.XHat, dim)
		obsPt := integral.ObsPt{Loc: obsLoc, Normal: obsInfo.Normal, RichardsonDir: obsInfo.Normal}

		for srcIdx, srcInfo := range srcFacets {
			term := integral.Term{Obs: obsPt, SrcFace: srcInfo}
			infl := strat.ComputeTerm(term)

			for srcVertex := 0; srcVertex < dim; srcVertex++ {
				colDOF := continuity.DOF(dim, srcIdx, srcVertex)
				for rr := 0; rr < r; rr++ {
					for cc := 0; cc < c; cc++ {
						block := blocks[rr*c+cc]
						val := infl[srcVertex][rr][cc] * qp.W * obsInfo.Jacobian
						for obsVertex := 0; obsVertex < dim; obsVertex++ {
							rowDOF := continuity.DOF(dim, obsIdx, obsVertex)
							contrib := val * obsBasis[obsVertex]
							block.Set(rowDOF, colDOF, block.At(rowDOF, colDOF)+contrib)
						}
					}
				}
			}
		}
	}
}

// Condense condenses a full-sized BlockOperator by row/column
// ConstraintMatrices per component, reducing it to the constrained
// DOF space the solver actually works in.
func Condense(rowCMs, colCMs []constraint.Matrix, op constraint.BlockOperator) constraint.BlockOperator {
	return constraint.CondenseBlockOperator(rowCMs, colCMs, op)
}
