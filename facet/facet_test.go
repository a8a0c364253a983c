// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facet

import (
	"testing"

	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

func TestBuild3DJacobianAndNormal(tst *testing.T) {
	chk.PrintTitle("Build3DJacobianAndNormal")
	f := Facet{
		tensor.Vec{0, 0, 0},
		tensor.Vec{2, 0, 0},
		tensor.Vec{0, 1, 0},
	}
	info := Build(f)
	chk.Float64(tst, "jacobian", 1e-13, info.Jacobian, 2.0)
	chk.Float64(tst, "|normal|", 1e-13, info.Normal.Norm(), 1.0)
	chk.Float64(tst, "normal_z", 1e-13, info.Normal[2], 1.0)
}

func TestClosestPointOnTriangleVertex(tst *testing.T) {
	chk.PrintTitle("ClosestPointOnTriangleVertex")
	f := Facet{
		tensor.Vec{0, 0, 0},
		tensor.Vec{1, 0, 0},
		tensor.Vec{0, 1, 0},
	}
	np := ClosestPoint(tensor.Vec{-5, -5, 0}, f)
	chk.Float64(tst, "x", 1e-13, np.RealPt[0], 0)
	chk.Float64(tst, "y", 1e-13, np.RealPt[1], 0)
}

func TestClosestPointOnSegment(tst *testing.T) {
	chk.PrintTitle("ClosestPointOnSegment")
	f := Facet{tensor.Vec{0, 0}, tensor.Vec{2, 0}}
	np := ClosestPoint(tensor.Vec{1, 3}, f)
	chk.Float64(tst, "x", 1e-13, np.RealPt[0], 1)
	chk.Float64(tst, "y", 1e-13, np.RealPt[1], 0)
	chk.Float64(tst, "dist", 1e-13, np.Distance, 3)
}
