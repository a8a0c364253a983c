// Copyright 2024 The bemcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facet implements boundary-element geometry: a Facet is a line
// segment (dim=2) or a triangle (dim=3) over the unit reference element,
// and Info derives its jacobian, unit normal, bounding ball and
// closest-point query, grounded on original_source/cpp/facet_info.h and
// original_source/cpp/nearest_neighbors.h.
package facet

import (
	"github.com/cpmech/bemcore/tensor"
	"github.com/cpmech/gosl/chk"
)

// Facet is an ordered tuple of dim vertices in R^dim: two points for a
// dim=2 line segment, three points for a dim=3 triangle.
type Facet []tensor.Vec

// Dim returns the ambient dimension of the facet (len(f)).
func (f Facet) Dim() int { return len(f) }

// Ball is a bounding sphere: Center plus Radius.
type Ball struct {
	Center tensor.Vec
	Radius float64
}

// Classification of a point relative to a facet, produced by the
// integration dispatcher in package integral.
type Classification int

const (
	Farfield Classification = iota
	Nearfield
	Singular
)

// NearestPoint is the result of a facet-proximity query.
type NearestPoint struct {
	RefPt    tensor.Vec // reference-space foot (length dim-1)
	RealPt   tensor.Vec // real-space foot (length dim)
	Distance float64
}

// Info holds the derived geometric quantities of a facet, computed once
// per mesh and never mutated afterward.
type Info struct {
	Facet       Facet
	LengthScale float64 // bounding-ball radius
	Jacobian    float64
	Normal      tensor.Vec
}

// Build computes the Info of a single facet. Panics with DegenerateFacet
// semantics if the jacobian is (numerically) zero.
func Build(f Facet) Info {
	switch f.Dim() {
	case 2:
		return build2(f)
	case 3:
		return build3(f)
	default:
		chk.Panic("facet: unsupported dimension %d (want 2 or 3)", f.Dim())
		return Info{}
	}
}

func build2(f Facet) Info {
	d := f[1].Sub(f[0])
	length := d.Norm()
	if length < 1e-14 {
		chk.Panic("facet: DegenerateFacet, zero-length 2D facet %v", f)
	}
	normal := tensor.Vec{d[1], -d[0]}.Scale(1.0 / length)
	return Info{
		Facet:       f,
		LengthScale: boundingBall(f).Radius,
		Jacobian:    length,
		Normal:      normal,
	}
}

func build3(f Facet) Info {
	e1 := f[1].Sub(f[0])
	e2 := f[2].Sub(f[0])
	cr := cross(e1, e2)
	jac := cr.Norm()
	if jac < 1e-14 {
		chk.Panic("facet: DegenerateFacet, zero-area 3D facet %v", f)
	}
	normal := cr.Scale(1.0 / jac)
	return Info{
		Facet:       f,
		LengthScale: boundingBall(f).Radius,
		Jacobian:    jac,
		Normal:      normal,
	}
}

func cross(a, b tensor.Vec) tensor.Vec {
	return tensor.Vec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// boundingBall computes the centroid-centered ball whose radius is the
// max vertex distance from the centroid, so the ball always fully
// contains the facet.
func boundingBall(f Facet) Ball {
	dim := f.Dim()
	centroid := tensor.NewVec(len(f[0]))
	for _, v := range f {
		centroid.AddScaled(1.0, v)
	}
	centroid = centroid.Scale(1.0 / float64(dim))
	radius := 0.0
	for _, v := range f {
		d := v.Sub(centroid).Norm()
		if d > radius {
			radius = d
		}
	}
	return Ball{Center: centroid, Radius: radius}
}

// RefToReal maps a reference-space coordinate xHat (length dim-1) of
// facet f to its real-space image.
func RefToReal(xHat tensor.Vec, f Facet) tensor.Vec {
	switch f.Dim() {
	case 2:
		t := xHat[0]
		return f[0].Scale(1 - t).Add(f[1].Scale(t))
	case 3:
		u, v := xHat[0], xHat[1]
		out := f[0].Scale(1 - u - v)
		out = out.Add(f[1].Scale(u))
		out = out.Add(f[2].Scale(v))
		return out
	default:
		chk.Panic("facet: RefToReal unsupported dimension %d", f.Dim())
		return nil
	}
}

// LinearBasis evaluates the dim linear (barycentric) nodal basis
// functions of facet f at reference point xHat. These are the `b`-indexed
// weights in eval_point_influence's outer_product(linear_basis(x_hat), ...).
func LinearBasis(xHat tensor.Vec, dim int) tensor.Vec {
	switch dim {
	case 2:
		t := xHat[0]
		return tensor.Vec{1 - t, t}
	case 3:
		u, v := xHat[0], xHat[1]
		return tensor.Vec{1 - u - v, u, v}
	default:
		chk.Panic("facet: LinearBasis unsupported dimension %d", dim)
		return nil
	}
}

// ClosestPoint returns the closest point on facet f (in reference and
// real space) to pt, and the Euclidean distance, following
// original_source/cpp/nearest_neighbors.h's closest_pt_facet.
func ClosestPoint(pt tensor.Vec, f Facet) NearestPoint {
	switch f.Dim() {
	case 2:
		return closestPointSegment(pt, f)
	case 3:
		return closestPointTriangle(pt, f)
	default:
		chk.Panic("facet: ClosestPoint unsupported dimension %d", f.Dim())
		return NearestPoint{}
	}
}

func closestPointSegment(pt tensor.Vec, f Facet) NearestPoint {
	d := f[1].Sub(f[0])
	denom := d.Dot(d)
	t := 0.0
	if denom > 0 {
		t = pt.Sub(f[0]).Dot(d) / denom
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	real := RefToReal(tensor.Vec{t}, f)
	return NearestPoint{
		RefPt:    tensor.Vec{t},
		RealPt:   real,
		Distance: real.Sub(pt).Norm(),
	}
}

// closestPointTriangle implements the classic region-based closest
// point on a triangle algorithm (Ericson, Real-Time Collision
// Detection §5.1.5), returning barycentric (u, v) reference coordinates
// consistent with LinearBasis/RefToReal's (1-u-v, u, v) convention.
func closestPointTriangle(pt tensor.Vec, f Facet) NearestPoint {
	a, b, c := f[0], f[1], f[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := pt.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return finishTriangle(a, 0, 0, pt, f)
	}

	bp := pt.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return finishTriangle(b, 1, 0, pt, f)
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return finishTriangle(a.Add(ab.Scale(v)), v, 0, pt, f)
	}

	cp := pt.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return finishTriangle(c, 0, 1, pt, f)
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return finishTriangle(a.Add(ac.Scale(w)), 0, w, pt, f)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return finishTriangle(b.Add(c.Sub(b).Scale(w)), 1-w, w, pt, f)
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	closest := a.Add(ab.Scale(v)).Add(ac.Scale(w))
	return finishTriangle(closest, v, w, pt, f)
}

func finishTriangle(closest tensor.Vec, u, v float64, pt tensor.Vec, f Facet) NearestPoint {
	_ = f
	return NearestPoint{
		RefPt:    tensor.Vec{u, v},
		RealPt:   closest,
		Distance: closest.Sub(pt).Norm(),
	}
}
