// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import "gonum.org/v1/gonum/mat"

// BlockOperator is an nCompRows x nCompCols grid of dense operators,
// used when the kernel returns an R×C tensor. Ops is laid
// out row-major: Ops[r*nCompCols+c].
type BlockOperator struct {
	NCompRows int
	NCompCols int
	Ops       []*mat.Dense
}

// CondenseBlockOperator condenses every component block of op by its
// corresponding row/column ConstraintMatrix, per original_source's
// condense_block_operator (3bem/constraint_matrix.cpp).
func CondenseBlockOperator(rowCMs, colCMs []Matrix, op BlockOperator) BlockOperator {
	out := BlockOperator{NCompRows: op.NCompRows, NCompCols: op.NCompCols}
	out.Ops = make([]*mat.Dense, 0, len(op.Ops))
	for d1 := 0; d1 < op.NCompRows; d1++ {
		for d2 := 0; d2 < op.NCompCols; d2++ {
			block := op.Ops[d1*op.NCompCols+d2]
			out.Ops = append(out.Ops, CondenseMatrix(rowCMs[d1], colCMs[d2], block))
		}
	}
	return out
}
