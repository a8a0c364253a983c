// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel defines the pure-function kernel interface used by the
// integration dispatcher (package integral) and the analytic Laplace
// kernels, grounded on original_source/3bem/laplace_kernels.h. The
// source used static-polymorphic C++ templates per kernel; here that
// collapses into one uniform interface plus a small set of built-ins
// and a user-extensible functional hook.
package kernel

import (
	"math"

	"github.com/cpmech/bemcore/tensor"
)

// Kernel is the capability set every kernel — built-in or user-supplied
// — must provide: K(r², δ, n_src, n_obs) -> an R×C tensor.
type Kernel interface {
	Dim() int
	R() int
	C() int
	Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2
}

// Func adapts a plain function to the Kernel interface, the
// user-extensible hook for kernels that aren't one of the built-ins.
type Func struct {
	DimVal, RVal, CVal int
	Eval_              func(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2
}

func (f Func) Dim() int { return f.DimVal }
func (f Func) R() int   { return f.RVal }
func (f Func) C() int   { return f.CVal }
func (f Func) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	return f.Eval_(r2, delta, nSrc, nObs)
}

// scalar1x1 is a small helper for the scalar (R=C=1) Laplace kernels.
func scalar1x1(v float64) tensor.Tensor2 {
	return tensor.Tensor2{{v}}
}

// LaplaceSingle3D is K(x,y) = 1 / (4*pi*sqrt(r2)).
type LaplaceSingle3D struct{}

func (LaplaceSingle3D) Dim() int { return 3 }
func (LaplaceSingle3D) R() int   { return 1 }
func (LaplaceSingle3D) C() int   { return 1 }
func (LaplaceSingle3D) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	return scalar1x1(1.0 / (4 * math.Pi * math.Sqrt(r2)))
}

// LaplaceDouble3D is K(x,y) = (n_src . delta) / (4*pi*r2*sqrt(r2)).
type LaplaceDouble3D struct{}

func (LaplaceDouble3D) Dim() int { return 3 }
func (LaplaceDouble3D) R() int   { return 1 }
func (LaplaceDouble3D) C() int   { return 1 }
func (LaplaceDouble3D) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	return scalar1x1(nSrc.Dot(delta) / (4 * math.Pi * r2 * math.Sqrt(r2)))
}

// LaplaceSingle2D is K(x,y) = log(sqrt(r2)) / (2*pi).
type LaplaceSingle2D struct{}

func (LaplaceSingle2D) Dim() int { return 2 }
func (LaplaceSingle2D) R() int   { return 1 }
func (LaplaceSingle2D) C() int   { return 1 }
func (LaplaceSingle2D) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	return scalar1x1(math.Log(math.Sqrt(r2)) / (2 * math.Pi))
}

// LaplaceDouble2D is K(x,y) = (n_src . delta) / (2*pi*r2).
type LaplaceDouble2D struct{}

func (LaplaceDouble2D) Dim() int { return 2 }
func (LaplaceDouble2D) R() int   { return 1 }
func (LaplaceDouble2D) C() int   { return 1 }
func (LaplaceDouble2D) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	return scalar1x1(nSrc.Dot(delta) / (2 * math.Pi * r2))
}

// LaplaceHypersingular2D is
// K(x,y) = [-(n_obs.n_src)/r2 + 2*(n_src.delta)*(n_obs.delta)/r2^2] / (2*pi).
type LaplaceHypersingular2D struct{}

func (LaplaceHypersingular2D) Dim() int { return 2 }
func (LaplaceHypersingular2D) R() int   { return 1 }
func (LaplaceHypersingular2D) C() int   { return 1 }
func (LaplaceHypersingular2D) Eval(r2 float64, delta, nSrc, nObs tensor.Vec) tensor.Tensor2 {
	v := (-nObs.Dot(nSrc)/r2 + 2*nSrc.Dot(delta)*nObs.Dot(delta)/(r2*r2)) / (2 * math.Pi)
	return scalar1x1(v)
}
