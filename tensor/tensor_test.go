// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestVecDotNorm(tst *testing.T) {
	chk.PrintTitle("VecDotNorm")
	a := Vec{3, 4, 0}
	b := Vec{1, 0, 0}
	chk.Float64(tst, "a.b", 1e-15, a.Dot(b), 3)
	chk.Float64(tst, "|a|", 1e-15, a.Norm(), 5)
}

func TestVecUnit(tst *testing.T) {
	chk.PrintTitle("VecUnit")
	a := Vec{0, 5, 0}
	u := a.Unit()
	chk.Float64(tst, "|u|", 1e-15, u.Norm(), 1)
}

func TestOuterBasisAndAccumulate(tst *testing.T) {
	chk.PrintTitle("OuterBasisAndAccumulate")
	basis := Vec{0.25, 0.75}
	k := Tensor2{{2.0}}
	infl := OuterBasis(basis, k)
	if len(infl) != 2 {
		tst.Fatalf("expected dim=2 basis slots, got %d", len(infl))
	}
	chk.Float64(tst, "infl[0][0][0]", 1e-15, infl[0][0][0], 0.5)
	chk.Float64(tst, "infl[1][0][0]", 1e-15, infl[1][0][0], 1.5)

	acc := NewInfluence(2, 1, 1)
	acc.AddScaled(2.0, infl)
	chk.Float64(tst, "acc[0][0][0]", 1e-15, acc[0][0][0], 1.0)
	chk.Float64(tst, "acc[1][0][0]", 1e-15, acc[1][0][0], 3.0)
}
