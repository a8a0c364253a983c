// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integral

import (
	"math"

	"github.com/cpmech/bemcore/facet"
	"github.com/cpmech/bemcore/kernel"
	"github.com/cpmech/bemcore/quadrature"
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Verbose gates the per-classification trace messages, mirroring
// FarNearType logging in the original (which printed "SINGULAR" /
// "NEARFIELD" / "FARFIELD" unconditionally — here gated so library use
// stays silent by default).
var Verbose = false

func trace(format string, args ...interface{}) {
	if Verbose {
		io.Pf(format, args...)
	}
}

// NearfieldIntegrator computes the nearfield quadrature for a term once
// the dispatcher has classified it. Two implementations are provided,
// adaptive and sinh-transformed.
type NearfieldIntegrator interface {
	ComputeNearfield(k kernel.Kernel, term Term, near facet.NearestPoint) tensor.Influence
}

// AdaptiveIntegrator wraps the adaptive recursive-bisection Gauss rule
// of package quadrature (Adaptive1D / Adaptive2DTriangle).
type AdaptiveIntegrator struct {
	Tolerance float64
	// Nonconvergent is incremented (if non-nil) whenever the adaptive
	// recursion cap is hit without reaching Tolerance: the best estimate
	// is still returned, just flagged as a QuadratureNonconvergence.
	Nonconvergent *int
}

func (a AdaptiveIntegrator) ComputeNearfield(k kernel.Kernel, term Term, near facet.NearestPoint) tensor.Influence {
	dim := term.SrcFace.Facet.Dim()
	r, c := k.R(), k.C()
	var result tensor.Influence
	var ok bool
	switch dim {
	case 2:
		result, ok = quadrature.Adaptive1D(func(x float64) tensor.Influence {
			return EvalPointInfluence(k, tensor.Vec{x}, term, term.Obs.Loc)
		}, 0, 1, a.Tolerance, dim, r, c)
	case 3:
		result, ok = quadrature.Adaptive2DTriangle(func(x, y float64) tensor.Influence {
			return EvalPointInfluence(k, tensor.Vec{x, y}, term, term.Obs.Loc)
		}, a.Tolerance, r, c)
	default:
		chk.Panic("integral: AdaptiveIntegrator unsupported dim %d", dim)
	}
	if !ok && a.Nonconvergent != nil {
		*a.Nonconvergent++
	}
	return result
}

// SinhIntegrator wraps the sinh/sinh-sigmoidal singular transform.
type SinhIntegrator struct {
	Order            int
	OrderGrowthRate  int
}

func chooseSinhQuad(dim, farOrder, growthRate int, srcLengthScale, dist float64, singularRefPt tensor.Vec) quadrature.Rule {
	scaledDistance := dist / srcLengthScale
	if scaledDistance > 0.5 {
		return quadrature.GaussFacet(dim, 10)
	}
	n := farOrder + int(float64(growthRate)*(-math.Log(scaledDistance)))
	if n < 1 {
		n = 1
	}
	switch dim {
	case 2:
		// SinhTransform works on [-1, 1]: move the singular point there and
		// map the resulting rule back onto the [0, 1] reference interval.
		// scaledDistance (distance over half the segment length) is
		// already in [-1, 1] units.
		raw := quadrature.SinhTransform(rawLegendreRule(n), 2*singularRefPt[0]-1, scaledDistance, false)
		out := make(quadrature.Rule, len(raw))
		for i, p := range raw {
			out[i] = quadrature.Point{XHat: tensor.Vec{0.5 * (p.XHat[0] + 1)}, W: 0.5 * p.W}
		}
		return out
	case 3:
		return quadrature.SinhSigmoidalTransform(
			rawLegendreRule(2*n), rawLegendreRule(n),
			singularRefPt[0], singularRefPt[1], scaledDistance, false)
	default:
		chk.Panic("integral: chooseSinhQuad unsupported dim %d", dim)
		return nil
	}
}

// rawLegendreRule wraps GaussLegendre1D's [-1, 1] points as a Rule, the
// form SinhTransform and SinhSigmoidalTransform expect (as opposed to
// GaussEdge's [0, 1]-mapped points).
func rawLegendreRule(n int) quadrature.Rule {
	pts := quadrature.GaussLegendre1D(n)
	out := make(quadrature.Rule, len(pts))
	copy(out, pts)
	return out
}

func (s SinhIntegrator) ComputeNearfield(k kernel.Kernel, term Term, near facet.NearestPoint) tensor.Influence {
	dim := term.SrcFace.Facet.Dim()
	r, c := k.R(), k.C()
	if near.Distance <= 0 {
		chk.Panic("integral: SinhIntegrator requires a strictly positive distance, got %v", near.Distance)
	}
	growth := s.OrderGrowthRate
	if growth == 0 {
		growth = s.Order
	}
	q := chooseSinhQuad(dim, s.Order, growth, term.SrcFace.LengthScale, near.Distance, near.RefPt)
	acc := tensor.NewInfluence(dim, r, c)
	for _, p := range q {
		acc.AddScaled(p.W, EvalPointInfluence(k, p.XHat, term, term.Obs.Loc))
	}
	return acc
}

// Strategy is the integration dispatcher: given a classified term,
// route to farfield Gauss, the configured nearfield integrator, or
// singular Richardson extrapolation.
type Strategy struct {
	K             kernel.Kernel
	Thresholds    Thresholds
	FarQuad       quadrature.Rule // farfield rule over the source facet's reference element
	Nearfield     NearfieldIntegrator
	SingularSteps []float64 // geometric step-size factors, e.g. quadrature.RichardsonSteps(5)
}

// ComputeTerm evaluates the full influence tensor of term, dispatching
// on the classification of the observation point against the source
// facet.
func (s Strategy) ComputeTerm(term Term) tensor.Influence {
	near, cls := s.Thresholds.Classify(term.Obs.Loc, term.SrcFace)
	switch cls {
	case facet.Singular:
		trace("integral: SINGULAR\n")
		return s.computeSingular(term)
	case facet.Nearfield:
		trace("integral: NEARFIELD\n")
		return s.Nearfield.ComputeNearfield(s.K, term, near)
	default:
		trace("integral: FARFIELD\n")
		return s.computeFarfield(term)
	}
}

func (s Strategy) computeFarfield(term Term) tensor.Influence {
	acc := tensor.NewInfluence(term.SrcFace.Facet.Dim(), s.K.R(), s.K.C())
	for _, p := range s.FarQuad {
		acc.AddScaled(p.W, EvalPointInfluence(s.K, p.XHat, term, term.Obs.Loc))
	}
	return acc
}

// computeSingular performs Richardson extrapolation over a geometric
// sequence of offset observation locations, each evaluated with the
// *nearfield* integrator. Mirrors IntegrationStrategy::compute_singular.
func (s Strategy) computeSingular(term Term) tensor.Influence {
	steps := make([]tensor.Influence, len(s.SingularSteps))
	for i, h := range s.SingularSteps {
		stepLoc := stepLocation(term.Obs, h)
		shiftedNear := facet.ClosestPoint(stepLoc, term.SrcFace.Facet)
		shiftedObs := ObsPt{Loc: stepLoc, Normal: term.Obs.Normal, RichardsonDir: term.Obs.RichardsonDir}
		shiftedTerm := Term{Obs: shiftedObs, SrcFace: term.SrcFace}
		steps[i] = s.Nearfield.ComputeNearfield(s.K, shiftedTerm, shiftedNear)
	}
	return quadrature.RichardsonLimit(2, steps)
}

// stepLocation offsets obs.Loc by stepSize along its Richardson
// direction, mirroring 3bem's get_step_loc.
func stepLocation(obs ObsPt, stepSize float64) tensor.Vec {
	return obs.Loc.Add(obs.RichardsonDir.Scale(stepSize))
}
