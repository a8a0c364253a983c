// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint implements reduction of arbitrary linear equality
// constraints on DOFs to lower-triangular echelon form, and the
// condense/distribute operators mapping between the full DOF space and
// the reduced free-DOF space. It is a direct, line-for-line port of
// original_source/3bem/constraint_matrix.cpp, with an explicit
// substitution-depth bound in place of the original's unbounded
// recursion.
package constraint

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// zeroWeightEps is the relative tolerance for dropping a term whose
// weight has been reduced to (numerical) zero by substitution: a term
// survives only if its weight is at least this fraction of the
// equation's largest weight.
const zeroWeightEps = 1e-13

// LinearTerm is one (dof, weight) pair of a constraint equation.
type LinearTerm struct {
	DOF    int
	Weight float64
}

// EQ is Σ w_i·x_{d_i} = rhs, an unordered list of terms with distinct
// DOFs plus a constant.
type EQ struct {
	Terms []LinearTerm
	RHS   float64
}

// Rearranged is an EQ rewritten with its largest-index DOF isolated on
// the left: x_{d*} = RHS + Σ w_i·x_{d_i}, where w_i are the stored term
// weights (each original weight divided by −w*) and d_i < d* for every
// term. The leading weight is implicitly 1 and is not stored.
type Rearranged struct {
	ConstrainedDOF int
	Terms          []LinearTerm
	RHS            float64
}

// Matrix maps a constrained DOF to the Rearranged row whose left-hand
// side it is.
type Matrix map[int]Rearranged

// Verbose gates progress/trace logging the way gofem gates messages
// behind FEM.ShowMsg; off by default so library use is silent unless
// opted in.
var Verbose = false

func trace(format string, args ...interface{}) {
	if Verbose {
		io.Pf(format, args...)
	}
}

func isConstrained(m Matrix, dof int) bool {
	_, ok := m[dof]
	return ok
}

func findLastDOFIndex(c EQ) int {
	best := 0
	for i, t := range c.Terms {
		if t.DOF > c.Terms[best].DOF {
			best = i
		}
	}
	return best
}

func maxAbsWeight(c EQ) float64 {
	max := 0.0
	for _, t := range c.Terms {
		w := math.Abs(t.Weight)
		if w > max {
			max = w
		}
	}
	return max
}

// substitute replaces the term at lastIdx (whose DOF is already a key
// of the partial matrix) by absorbing the stored row for that DOF,
// mirroring 3bem's substitute(): with x_{d*} = row.RHS + Σ row.Terms,
// c's term w*·x_{d*} becomes w*·Σ row.Terms on the left-hand side and
// w*·row.RHS moves to the right-hand side.
func substitute(c EQ, lastIdx int, row Rearranged) EQ {
	w := c.Terms[lastIdx].Weight
	out := EQ{RHS: c.RHS - w*row.RHS}
	out.Terms = make([]LinearTerm, 0, len(c.Terms)-1+len(row.Terms))
	for i, t := range c.Terms {
		if i == lastIdx {
			continue
		}
		out.Terms = append(out.Terms, t)
	}
	for _, t := range row.Terms {
		out.Terms = append(out.Terms, LinearTerm{DOF: t.DOF, Weight: w * t.Weight})
	}
	return mergeDuplicateTerms(out)
}

// mergeDuplicateTerms sums weights of terms that share a DOF, which can
// arise after substitution when the substituted row references a DOF
// already present elsewhere in c.
func mergeDuplicateTerms(c EQ) EQ {
	byDOF := make(map[int]float64, len(c.Terms))
	order := make([]int, 0, len(c.Terms))
	for _, t := range c.Terms {
		if _, seen := byDOF[t.DOF]; !seen {
			order = append(order, t.DOF)
		}
		byDOF[t.DOF] += t.Weight
	}
	out := EQ{RHS: c.RHS, Terms: make([]LinearTerm, 0, len(order))}
	for _, d := range order {
		out.Terms = append(out.Terms, LinearTerm{DOF: d, Weight: byDOF[d]})
	}
	return out
}

func filterZeroTerms(c EQ) EQ {
	maxW := maxAbsWeight(c)
	if maxW == 0 {
		return EQ{RHS: c.RHS}
	}
	out := EQ{RHS: c.RHS, Terms: make([]LinearTerm, 0, len(c.Terms))}
	for _, t := range c.Terms {
		if math.Abs(t.Weight) >= zeroWeightEps*maxW {
			out.Terms = append(out.Terms, t)
		}
	}
	return out
}

func isolate(c EQ, lastIdx int) Rearranged {
	pivot := c.Terms[lastIdx]
	out := Rearranged{ConstrainedDOF: pivot.DOF, RHS: c.RHS / pivot.Weight}
	out.Terms = make([]LinearTerm, 0, len(c.Terms)-1)
	for i, t := range c.Terms {
		if i == lastIdx {
			continue
		}
		out.Terms = append(out.Terms, LinearTerm{DOF: t.DOF, Weight: -t.Weight / pivot.Weight})
	}
	return out
}

// makeLowerTriangular reduces c against the partial matrix, returning
// (row, true) on success or (_, false) if c collapses to the empty,
// redundant equation (to be silently dropped by the caller).
// Substitution depth is capped at len(matrix)+1: exceeding it means the
// constraint set has a cycle and is a fatal ConstraintCycle condition.
func makeLowerTriangular(c EQ, m Matrix) (Rearranged, bool) {
	maxDepth := len(m) + 1
	for depth := 0; ; depth++ {
		if len(c.Terms) == 0 {
			return Rearranged{}, false
		}
		if depth > maxDepth {
			chk.Panic("constraint: ConstraintCycle, substitution depth exceeded %d (matrix has %d rows)", maxDepth, len(m))
		}
		lastIdx := findLastDOFIndex(c)
		lastDOF := c.Terms[lastIdx].DOF
		if row, ok := m[lastDOF]; ok {
			c = filterZeroTerms(substitute(c, lastIdx, row))
			continue
		}
		return isolate(c, lastIdx), true
	}
}

// FromConstraints builds the echelon ConstraintMatrix from an unordered,
// potentially redundant or cyclic list of equations. Equations that
// reduce to empty are dropped and logged at trace level as an
// InvalidConstraint condition.
func FromConstraints(eqs []EQ) Matrix {
	m := make(Matrix)
	for i, c := range eqs {
		row, ok := makeLowerTriangular(c, m)
		if !ok {
			trace("constraint: dropping redundant/empty equation #%d\n", i)
			continue
		}
		m[row.ConstrainedDOF] = row
	}
	return m
}

// Distribute maps a reduced vector (indexed over unconstrained DOFs, in
// increasing DOF order) back to the full N-vector.
func Distribute(m Matrix, reduced []float64, totalDOFs int) []float64 {
	out := make([]float64, totalDOFs)
	next := 0
	for dof := 0; dof < totalDOFs; dof++ {
		if isConstrained(m, dof) {
			continue
		}
		out[dof] = reduced[next]
		next++
	}
	for dof := 0; dof < totalDOFs; dof++ {
		row, ok := m[dof]
		if !ok {
			continue
		}
		val := row.RHS
		for _, t := range row.Terms {
			val += t.Weight * out[t.DOF]
		}
		out[dof] = val
	}
	return out
}

// addTermWithConstraints is the adjoint push-down used by Condense: if
// dof is unconstrained the weight lands directly in vec[dof]; if
// constrained, it is redistributed onto the row's terms. The rhs is
// deliberately not touched here: condense is the adjoint of
// distribute's homogeneous map only.
func addTermWithConstraints(m Matrix, vec []float64, dof int, weight float64) {
	row, ok := m[dof]
	if !ok {
		vec[dof] += weight
		return
	}
	for _, t := range row.Terms {
		vec[t.DOF] += t.Weight * weight
	}
}

// Condense maps a full N-vector to the reduced vector over unconstrained
// DOFs. It is the adjoint of Distribute's homogeneous part.
func Condense(m Matrix, all []float64) []float64 {
	n := len(all)
	acc := make([]float64, n)
	for dof := n - 1; dof >= 0; dof-- {
		value := all[dof] + acc[dof]
		acc[dof] = 0
		addTermWithConstraints(m, acc, dof, value)
	}
	out := make([]float64, 0, n-len(m))
	for dof := 0; dof < n; dof++ {
		if isConstrained(m, dof) {
			continue
		}
		out = append(out, acc[dof])
	}
	return out
}

// addEntryWithConstraints is the two-axis analog of
// addTermWithConstraints, used by CondenseMatrix. Edge policy: if both
// the row and column index are constrained, the row axis is resolved
// first — arbitrary, but applied consistently everywhere.
func addEntryWithConstraints(rowCM, colCM Matrix, modifiable *mat.Dense, row, col int, value float64) {
	rowConstrained := isConstrained(rowCM, row)
	colConstrained := isConstrained(colCM, col)
	if !rowConstrained && !colConstrained {
		modifiable.Set(row, col, modifiable.At(row, col)+value)
		return
	}

	var cm Matrix
	var constrainedDOF int
	var recurse func(otherIdx int, w float64)
	if !rowConstrained {
		cm = colCM
		constrainedDOF = col
		recurse = func(newCol int, w float64) {
			modifiable.Set(row, newCol, modifiable.At(row, newCol)+w)
		}
	} else {
		cm = rowCM
		constrainedDOF = row
		recurse = func(newRow int, w float64) {
			modifiable.Set(newRow, col, modifiable.At(newRow, col)+w)
		}
	}

	eqRow := cm[constrainedDOF]
	for _, t := range eqRow.Terms {
		recurse(t.DOF, t.Weight*value)
	}
}

// CondenseMatrix condenses a full-sized dense operator by the row and
// column constraint matrices.
func CondenseMatrix(rowCM, colCM Matrix, a *mat.Dense) *mat.Dense {
	nRows, nCols := a.Dims()
	condensed := mat.NewDense(nRows, nCols, nil)

	for r := nRows - 1; r >= 0; r-- {
		for c := nCols - 1; c >= 0; c-- {
			value := condensed.At(r, c) + a.At(r, c)
			condensed.Set(r, c, 0)
			addEntryWithConstraints(rowCM, colCM, condensed, r, c, value)
		}
	}

	return removeConstrained(rowCM, colCM, condensed)
}

func removeConstrained(rowCM, colCM Matrix, a *mat.Dense) *mat.Dense {
	nRows, nCols := a.Dims()
	outRows := nRows - len(rowCM)
	outCols := nCols - len(colCM)
	out := mat.NewDense(outRows, outCols, nil)

	outR := 0
	for r := 0; r < nRows; r++ {
		if isConstrained(rowCM, r) {
			continue
		}
		outC := 0
		for c := 0; c < nCols; c++ {
			if isConstrained(colCM, c) {
				continue
			}
			out.Set(outR, outC, a.At(r, c))
			outC++
		}
		outR++
	}
	return out
}
