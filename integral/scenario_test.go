// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integral

import (
	"math"
	"testing"

	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/quadrature"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// uvSphere triangulates the unit sphere (centered at the origin) into a
// latitude/longitude grid of triangles, coarser than a subdivided
// icosphere but dense enough to exercise the farfield quadrature path
// end to end.
func uvSphere(nLat, nLon int) []facet.Facet {
	vertex := func(i, j int) tensor.Vec {
		theta := math.Pi * float64(i) / float64(nLat)
		phi := 2 * math.Pi * float64(j) / float64(nLon)
		return tensor.Vec{
			math.Sin(theta) * math.Cos(phi),
			math.Sin(theta) * math.Sin(phi),
			math.Cos(theta),
		}
	}
	var out []facet.Facet
	for i := 0; i < nLat; i++ {
		for j := 0; j < nLon; j++ {
			v00 := vertex(i, j)
			v01 := vertex(i, j+1)
			v10 := vertex(i+1, j)
			v11 := vertex(i+1, j+1)
			if i > 0 {
				out = append(out, facet.Facet{v00, v10, v01})
			}
			if i < nLat-1 {
				out = append(out, facet.Facet{v10, v11, v01})
			}
		}
	}
	return out
}

// TestSphereSurfaceArea checks that integrating the constant-1 kernel
// over a sphere mesh from an interior point via the farfield rule
// recovers the sphere's surface area, 4*pi*r^2.
func TestSphereSurfaceArea(tst *testing.T) {
	chk.PrintTitle("SphereSurfaceArea")
	facets := uvSphere(48, 48)

	unitKernel := kernel.Func{
		DimVal: 3, RVal: 1, CVal: 1,
		Eval_: func(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
			return tensor.Tensor2{{1}}
		},
	}
	farQuad := quadrature.GaussTriangle(4)
	obs := ObsPt{Loc: tensor.Vec{0, 0, 0}, Normal: tensor.Vec{0, 0, 1}}

	total := 0.0
	for _, f := range facets {
		info := facet.Build(f)
		term := Term{Obs: obs, SrcFace: info}
		infl := computeFarfieldDirect(unitKernel, farQuad, term)
		for b := range infl {
			total += infl[b][0][0]
		}
	}

	chk.Float64(tst, "surfaceArea", 1e-2, total, 4*math.Pi)
}

// TestSolidAngleIdentity checks that the constant Laplace double-layer
// integral over a closed surface from an interior point is identically
// 1 (the solid-angle identity).
func TestSolidAngleIdentity(tst *testing.T) {
	chk.PrintTitle("SolidAngleIdentity")
	facets := uvSphere(48, 48)

	k := kernel.LaplaceDouble3D{}
	farQuad := quadrature.GaussTriangle(4)
	obs := ObsPt{Loc: tensor.Vec{0, 0, 0}, Normal: tensor.Vec{0, 0, 1}}

	total := 0.0
	for _, f := range facets {
		info := facet.Build(f)
		term := Term{Obs: obs, SrcFace: info}
		infl := computeFarfieldDirect(k, farQuad, term)
		for b := range infl {
			total += infl[b][0][0]
		}
	}

	chk.Float64(tst, "solidAngle", 1e-2, total, 1.0)
}

// computeFarfieldDirect applies the farfield Gauss rule directly
// (bypassing Classify): an interior observation point places every
// facet's closest point well away from it in any reasonably fine
// sphere mesh, so the farfield rule alone is accurate enough to check.
func computeFarfieldDirect(k kernel.Kernel, q quadrature.Rule, term Term) tensor.Influence {
	acc := tensor.NewInfluence(term.SrcFace.Facet.Dim(), k.R(), k.C())
	for _, p := range q {
		acc.AddScaled(p.W, EvalPointInfluence(k, p.XHat, term, term.Obs.Loc))
	}
	return acc
}
