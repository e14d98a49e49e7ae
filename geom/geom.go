// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package geom implements geometric queries on top of
// package linear.
package geom

import (
	"math"

	"github.com/gviegas/texel/linear"
)

// Eps is the tolerance used by IntersectTri.
const Eps = 1e-6

// Hit describes where a ray crosses a triangle.
// U and V are barycentric weights of the second and
// third vertices; T is the distance along the ray
// direction, in units of its length.
type Hit struct {
	U, V, T float32
}

// IntersectTri tests the ray orig + t⋅dir against the
// triangle p0, p1, p2 (Möller-Trumbore).
// Unless the ray is parallel to the triangle's plane,
// in which case h is the zero Hit, h is filled even when
// ok is false.
// Hits at or behind the origin are not reported.
func IntersectTri(p0, p1, p2, orig, dir *linear.V3) (h Hit, ok bool) {
	var e1, e2, p, s, q linear.V3
	e1.Sub(p1, p0)
	e2.Sub(p2, p0)
	p.Cross(dir, &e2)
	det := e1.Dot(&p)
	if det > -Eps && det < Eps {
		return
	}
	idet := 1 / det
	s.Sub(orig, p0)
	h.U = s.Dot(&p) * idet
	q.Cross(&s, &e1)
	h.V = dir.Dot(&q) * idet
	h.T = e2.Dot(&q) * idet
	ok = h.U >= 0 && h.U <= 1 && h.V >= 0 && h.U+h.V <= 1 && h.T > Eps
	return
}

// BoundingSphere computes a sphere enclosing every
// point using Ritter's method. The result is not
// minimal, but is usually within a few percent of it.
// An empty slice yields a zero sphere.
func BoundingSphere(points []linear.V3) (center linear.V3, radius float32) {
	if len(points) == 0 {
		return
	}
	far := func(from *linear.V3) *linear.V3 {
		var d linear.V3
		var best float32 = -1
		var i int
		for j := range points {
			d.Sub(&points[j], from)
			if l := d.Dot(&d); l > best {
				best = l
				i = j
			}
		}
		return &points[i]
	}
	y := far(&points[0])
	z := far(y)
	var d linear.V3
	center.Add(y, z)
	center.Scale(0.5, &center)
	d.Sub(z, y)
	radius = d.Len() / 2
	for i := range points {
		d.Sub(&points[i], &center)
		l := d.Len()
		if l <= radius {
			continue
		}
		r := (radius + l) / 2
		// Move the center toward the point so that the
		// new sphere touches it and still contains the old.
		d.Scale((r-radius)/l, &d)
		center.Add(&center, &d)
		radius = r
	}
	// Absorb rounding so every point is inside.
	var max float32
	for i := range points {
		d.Sub(&points[i], &center)
		max = float32(math.Max(float64(max), float64(d.Len())))
	}
	if max > radius {
		radius = max
	}
	return
}
