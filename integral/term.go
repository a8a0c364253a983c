// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integral implements the per-(observer, source-facet)
// integration dispatcher: classification into farfield / nearfield /
// singular work, and the farfield Gauss, nearfield adaptive/sinh, and
// singular Richardson-extrapolated quadrature strategies. Grounded on
// original_source/cpp/integral_term.cpp.
package integral

import (
	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/tensor"
)

// ObsPt is an observation point: its location, outward normal, and
// Richardson direction (the offset direction used for singular-limit
// extraction).
type ObsPt struct {
	Loc           tensor.Vec
	Normal        tensor.Vec
	RichardsonDir tensor.Vec
}

// Term is the 4-tuple (obs point, obs normal, obs Richardson direction,
// source facet) that identifies a single integral contribution,
// collapsed here to (ObsPt, facet.Info) since ObsPt already carries the
// first three.
type Term struct {
	Obs     ObsPt
	SrcFace facet.Info
}

// EvalPointInfluence evaluates the kernel at the mapped source point
// y(xHat) against movedObsLoc (the observation location, possibly
// Richardson-shifted), multiplies by the basis vector at xHat and the
// facet jacobian, and returns the per-basis influence tensor. This is a
// direct port of IntegralTerm::eval_point_influence.
func EvalPointInfluence(k kernel.Kernel, xHat tensor.Vec, term Term, movedObsLoc tensor.Vec) tensor.Influence {
	srcPt := facet.RefToReal(xHat, term.SrcFace.Facet)
	delta := srcPt.Sub(movedObsLoc) // delta = y - x, per the GLOSSARY
	r2 := delta.Dot(delta)
	kv := k.Eval(r2, delta, term.SrcFace.Normal, term.Obs.Normal)
	basis := facet.LinearBasis(xHat, term.SrcFace.Facet.Dim())
	return tensor.OuterBasis(basis, kv.Scale(term.SrcFace.Jacobian))
}

// Thresholds are the configurable singular/far classification
// boundaries, exposed as configuration rather than baked in so callers
// can tune them for a given kernel and mesh density.
type Thresholds struct {
	SingularThreshold float64
	FarThreshold      float64
}

// DefaultThresholds returns conservative defaults consistent with
// standard BEM practice (singular within 1e-1 facet radii, nearfield
// within 3 facet radii).
func DefaultThresholds() Thresholds {
	return Thresholds{SingularThreshold: 1e-1, FarThreshold: 3.0}
}

// Classify computes the closest point on the facet to obs, then
// classifies by distance relative to the facet's length scale.
func (th Thresholds) Classify(obsLoc tensor.Vec, info facet.Info) (facet.NearestPoint, facet.Classification) {
	near := facet.ClosestPoint(obsLoc, info.Facet)
	switch {
	case near.Distance < th.SingularThreshold*info.LengthScale:
		return near, facet.Singular
	case near.Distance < th.FarThreshold*info.LengthScale:
		return near, facet.Nearfield
	default:
		return near, facet.Farfield
	}
}
