// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve exposes the boundary-element operator as the callback
// an external iterative solver expects: a closure (x_reduced) ->
// y_reduced that distributes x into full DOF space, applies the
// operator (dense or FMM), and condenses the result back to the
// reduced (free-DOF) space. The reduced-space vector type at this
// boundary is gosl/la's Vector, the same convention gofem's solvers use
// at the package boundary between an assembled system and an external
// iterative method.
package solve

import (
	"github.com/cpmech/bemcore/constraint"
	"github.com/cpmech/bemcore/fmm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// MatVec is the solver callback: (x_reduced) -> y_reduced.
type MatVec func(xReduced la.Vector) la.Vector

// Dense builds the matvec closure around a single precomputed dense
// operator block (the R=C=1 scalar-kernel case: op is
// nObsDOF x nSrcDOF). rowCM/colCM are the observation-/source-side
// constraint matrices; totalDOFs is the full (uncondensed) source DOF
// count that colCM distributes into.
func Dense(op *mat.Dense, rowCM, colCM constraint.Matrix, totalDOFs int) MatVec {
	nRows, nCols := op.Dims()
	return func(xReduced la.Vector) la.Vector {
		full := constraint.Distribute(colCM, []float64(xReduced), totalDOFs)
		if len(full) != nCols {
			chk.Panic("solve: DimensionMismatch, distributed vector has %d entries, operator expects %d columns", len(full), nCols)
		}
		x := mat.NewVecDense(nCols, full)
		y := mat.NewVecDense(nRows, nil)
		y.MulVec(op, x)

		fullY := make([]float64, nRows)
		for i := 0; i < nRows; i++ {
			fullY[i] = y.AtVec(i)
		}
		return la.Vector(constraint.Condense(rowCM, fullY))
	}
}

// FMM builds the matvec closure around a prebuilt fmm.Evaluator, for
// callers that want the operator applied via the fast multipole method
// instead of a dense block. It assumes a one-point-per-DOF collocation
// layout with a scalar
// (R=C=1) kernel: ev's source and observation point sets correspond
// 1:1, in order, with the reduced-space DOF's distributed full vector
// and the condensed output respectively.
func FMM(ev *fmm.Evaluator, rowCM, colCM constraint.Matrix, totalDOFs int) MatVec {
	return func(xReduced la.Vector) la.Vector {
		full := constraint.Distribute(colCM, []float64(xReduced), totalDOFs)
		if len(full) != len(ev.SrcPts.Locations) {
			chk.Panic("solve: DimensionMismatch, distributed vector has %d entries, FMM expects %d source points", len(full), len(ev.SrcPts.Locations))
		}
		values := make([][]float64, len(full))
		for i, v := range full {
			values[i] = []float64{v}
		}
		effect := ev.Evaluate(values)
		y := make([]float64, len(effect))
		for i, e := range effect {
			y[i] = e[0]
		}
		return la.Vector(constraint.Condense(rowCM, y))
	}
}
