// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

const eps = 1e-4

func near(a, b float32) bool { return math.Abs(float64(a-b)) < eps }

func nearV3(v, w *V3) bool {
	for i := range v {
		if !near(v[i], w[i]) {
			return false
		}
	}
	return true
}

func nearM4(m, n *M4) bool {
	for i := range m {
		for j := range m[i] {
			if !near(m[i][j], n[i][j]) {
				return false
			}
		}
	}
	return true
}

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if u.Cross(&w, &v); u != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", u)
	}

	var p V2
	if p.Add(&V2{1, 2}, &V2{3, -4}); p != (V2{4, -2}) {
		t.Fatalf("V2.Add\nhave %v\nwant [4 -2]", p)
	}
	if l := (&V2{3, 4}).Len(); l != 5 {
		t.Fatalf("V2.Len\nhave %v\nwant 5", l)
	}
	var q V4
	if q.Sub(&V4{1, 1, 1, 1}, &V4{0, 1, 2, 3}); q != (V4{1, 0, -1, -2}) {
		t.Fatalf("V4.Sub\nhave %v\nwant [1 0 -1 -2]", q)
	}
}

func TestTransform(t *testing.T) {
	m := M4{
		{2, 0, 1, 0},
		{1, 3, 2, 0},
		{4, 2, 3, 0},
		{0, 0, 0, 1},
	}
	var v V4
	if v.Transform(&V4{-1, 0, 1, 0}, &m); v != (V4{2, 2, 2, 0}) {
		t.Fatalf("V4.Transform\nhave %v\nwant [2 2 2 0]", v)
	}
	m.I()
	w := V4{5, 6, 7, 8}
	if v.Transform(&w, &m); v != w {
		t.Fatalf("V4.Transform\nhave %v\nwant %v", v, w)
	}

	var u V3
	m.Translate(1, 2, 3)
	if u.TransformCoord(&V3{1, 1, 1}, &m); u != (V3{2, 3, 4}) {
		t.Fatalf("V3.TransformCoord\nhave %v\nwant [2 3 4]", u)
	}
	if u.TransformNormal(&V3{1, 1, 1}, &m); u != (V3{1, 1, 1}) {
		t.Fatalf("V3.TransformNormal\nhave %v\nwant [1 1 1]", u)
	}
	if v.TransformV3(&V3{1, 1, 1}, &m); v != (V4{2, 3, 4, 1}) {
		t.Fatalf("V4.TransformV3\nhave %v\nwant [2 3 4 1]", v)
	}

	// w of 2 halves the result.
	m.I()
	m[3][3] = 2
	if u.TransformCoord(&V3{2, 4, 6}, &m); u != (V3{1, 2, 3}) {
		t.Fatalf("V3.TransformCoord\nhave %v\nwant [1 2 3]", u)
	}
	// w of exactly 0 skips the divide.
	m[3][3] = 0
	if u.TransformCoord(&V3{2, 4, 6}, &m); u != (V3{2, 4, 6}) {
		t.Fatalf("V3.TransformCoord\nhave %v\nwant [2 4 6]", u)
	}
}

func TestM(t *testing.T) {
	var l M4
	m := M4{
		{1, 5, 9, 13},
		{2, 6, 10, 14},
		{3, 7, 11, 15},
		{4, 8, 12, 16},
	}
	n := M4{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{1, 0, 0, 0},
	}

	if l.I(); l != (M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}}) {
		t.Fatalf("M4.I\nhave %v", l)
	}
	if l.Mul(&l, &m); l != m {
		t.Fatalf("M4.Mul\nhave %v\nwant %v", l, m)
	}
	if l.Mul(&n, &m); l != (M4{m[1], m[2], m[3], m[0]}) {
		t.Fatalf("M4.Mul\nhave %v\nwant [%v %v %v %v]", l, m[1], m[2], m[3], m[0])
	}
	if l.Transpose(&m); l != (M4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16}}) {
		t.Fatalf("M4.Transpose\nhave %v", l)
	}
	l = m
	if l.Transpose(&l); l[0] != (V4{1, 2, 3, 4}) || l[3] != (V4{13, 14, 15, 16}) {
		t.Fatalf("M4.Transpose (in place)\nhave %v", l)
	}
	if d := l.Invert(&n); l != (M4{n[3], n[0], n[1], n[2]}) || d != -1 {
		t.Fatalf("M4.Invert\nhave %v %v\nwant %v -1", l, d, M4{n[3], n[0], n[1], n[2]})
	}
	if d := m.Det(); d != 0 {
		t.Fatalf("M4.Det\nhave %v\nwant 0", d)
	}

	a := M4{
		{2, 0, 0, 1},
		{0, 3, 1, 0},
		{1, 0, 4, 0},
		{5, 6, 7, 1},
	}
	var inv, back M4
	inv.Invert(&a)
	back.Invert(&inv)
	if !nearM4(&back, &a) {
		t.Fatalf("M4.Invert twice\nhave %v\nwant %v", back, a)
	}
	var prod, id M4
	prod.Mul(&a, &inv)
	id.I()
	if !nearM4(&prod, &id) {
		t.Fatalf("M4.Mul(a, a⁻¹)\nhave %v\nwant %v", prod, id)
	}
	// In place.
	b := a
	b.Invert(&b)
	if b != inv {
		t.Fatalf("M4.Invert (in place)\nhave %v\nwant %v", b, inv)
	}

	var sing M4
	sing.Invert(&M4{})
	if x := sing[0][0]; !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0) {
		t.Fatalf("M4.Invert (singular)\nhave %v\nwant NaN or Inf", x)
	}
}

func TestQ(t *testing.T) {
	var r Q
	q := Q{V: V3{1, 0, 0}, R: 3}
	p := Q{V: V3{0, 1, 0}, R: 3}

	if r.Mul(&q, &p); r.V != (V3{3, 3, 1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 1] 9}", r)
	}
	if r.Mul(&p, &q); r.V != (V3{3, 3, -1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 -1] 9}", r)
	}
	if q.Mul(&q, &q); q.V != (V3{6}) || q.R != 8 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[6 0 0] 8}", q)
	}

	var m, n M4
	q.Rotate(math.Pi/2, &V3{0, 0, 3})
	m.RotateQ(&q)
	n.RotateZ(math.Pi / 2)
	if !nearM4(&m, &n) {
		t.Fatalf("M4.RotateQ\nhave %v\nwant %v", m, n)
	}
}

func TestTRS(t *testing.T) {
	var x, r, s M4
	var q Q

	s.Scale(5, 5, 5)
	q.Rotate(0, &V3{1})
	r.RotateQ(&q)
	x.Translate(-1, -2, -3)
	x.Mul(&r, &x)
	x.Mul(&s, &x)
	if x != (M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}}) {
		t.Fatalf("S*R*T\nhave %v\nwant %v", x, M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}})
	}
	v := V4{1, 1, 1, 1}
	v.Transform(&v, &x)
	if v != (V4{4, 3, 2, 1}) {
		t.Fatalf("v*SRT\nhave %v\nwant %v", v, V4{4, 3, 2, 1})
	}
}

func TestRotate(t *testing.T) {
	var m M4
	var v V3

	m.RotateZ(math.Pi / 2)
	if v.TransformCoord(&V3{1, 0, 0}, &m); !nearV3(&v, &V3{0, 1, 0}) {
		t.Fatalf("M4.RotateZ\nhave %v\nwant [0 1 0]", v)
	}
	m.RotateAxis(&V3{0, 0, 2}, math.Pi/2)
	if v.TransformCoord(&V3{1, 0, 0}, &m); !nearV3(&v, &V3{0, 1, 0}) {
		t.Fatalf("M4.RotateAxis (z)\nhave %v\nwant [0 1 0]", v)
	}
	m.RotateAxis(&V3{1, 0, 0}, math.Pi/2)
	if v.TransformCoord(&V3{0, 1, 0}, &m); !nearV3(&v, &V3{0, 0, 1}) {
		t.Fatalf("M4.RotateAxis (x)\nhave %v\nwant [0 0 1]", v)
	}
	m.RotateAxis(&V3{}, 1)
	if !math.IsNaN(float64(m[0][0])) {
		t.Fatalf("M4.RotateAxis (zero axis)\nhave %v\nwant NaN", m[0][0])
	}
}

func TestLookAt(t *testing.T) {
	var m M4
	var v V3
	eye := V3{0, 0, 5}
	up := V3{0, 1, 0}

	m.LookAtRH(&eye, &V3{}, &up)
	if v.TransformCoord(&V3{}, &m); !nearV3(&v, &V3{0, 0, -5}) {
		t.Fatalf("M4.LookAtRH\nhave %v\nwant [0 0 -5]", v)
	}
	if v.TransformCoord(&eye, &m); !nearV3(&v, &V3{}) {
		t.Fatalf("M4.LookAtRH (eye)\nhave %v\nwant [0 0 0]", v)
	}
	m.LookAtLH(&eye, &V3{}, &up)
	if v.TransformCoord(&V3{}, &m); !nearV3(&v, &V3{0, 0, 5}) {
		t.Fatalf("M4.LookAtLH\nhave %v\nwant [0 0 5]", v)
	}
}

func TestOrtho(t *testing.T) {
	var m M4
	var v V3

	m.OrthoOffCenterRH(0, 800, 600, 0, 0, 1)
	if v.TransformCoord(&V3{0, 0, 0}, &m); !nearV3(&v, &V3{-1, 1, 0}) {
		t.Fatalf("M4.OrthoOffCenterRH\nhave %v\nwant [-1 1 0]", v)
	}
	if v.TransformCoord(&V3{800, 600, -1}, &m); !nearV3(&v, &V3{1, -1, 1}) {
		t.Fatalf("M4.OrthoOffCenterRH\nhave %v\nwant [1 -1 1]", v)
	}
	m.OrthoOffCenterLH(-1, 1, -1, 1, 0, 10)
	if v.TransformCoord(&V3{1, 1, 10}, &m); !nearV3(&v, &V3{1, 1, 1}) {
		t.Fatalf("M4.OrthoOffCenterLH\nhave %v\nwant [1 1 1]", v)
	}

	for _, x := range [...][6]float32{
		{1, 1, 0, 1, 0, 1},
		{0, 1, 2, 2, 0, 1},
		{0, 1, 0, 1, 3, 3},
	} {
		m.I()
		m[3][0] = 42
		want := m
		m.OrthoOffCenterRH(x[0], x[1], x[2], x[3], x[4], x[5])
		if m != want {
			t.Fatalf("M4.OrthoOffCenterRH%v\nhave %v\nwant %v (unchanged)", x, m, want)
		}
		m.OrthoOffCenterLH(x[0], x[1], x[2], x[3], x[4], x[5])
		if m != want {
			t.Fatalf("M4.OrthoOffCenterLH%v\nhave %v\nwant %v (unchanged)", x, m, want)
		}
	}
}

func TestPerspective(t *testing.T) {
	var m M4
	var v V3
	m.PerspectiveFovRH(math.Pi/2, 1, 1, 100)
	if v.TransformCoord(&V3{0, 0, -1}, &m); !nearV3(&v, &V3{0, 0, 0}) {
		t.Fatalf("M4.PerspectiveFovRH (near)\nhave %v\nwant [0 0 0]", v)
	}
	if v.TransformCoord(&V3{0, 0, -100}, &m); !nearV3(&v, &V3{0, 0, 1}) {
		t.Fatalf("M4.PerspectiveFovRH (far)\nhave %v\nwant [0 0 1]", v)
	}
}

func Test2D(t *testing.T) {
	var m M4
	var v V3

	m.AffineTransform2D(2, nil, 0, &V2{1, 2})
	if v.TransformCoord(&V3{1, 1, 0}, &m); v != (V3{3, 4, 0}) {
		t.Fatalf("M4.AffineTransform2D\nhave %v\nwant [3 4 0]", v)
	}
	m.AffineTransform2D(1, &V2{1, 1}, math.Pi/2, nil)
	if v.TransformCoord(&V3{2, 1, 0}, &m); !nearV3(&v, &V3{1, 2, 0}) {
		t.Fatalf("M4.AffineTransform2D (rotCenter)\nhave %v\nwant [1 2 0]", v)
	}

	var n M4
	n.Transform2D(nil, 0, nil, nil, 0, nil)
	if m.I(); n != m {
		t.Fatalf("M4.Transform2D (nil)\nhave %v\nwant %v", n, m)
	}
	n.Transform2D(&V2{1, 1}, 0, &V2{2, 3}, nil, 0, &V2{-1, 0})
	if v.TransformCoord(&V3{2, 2, 0}, &n); !nearV3(&v, &V3{2, 4, 0}) {
		t.Fatalf("M4.Transform2D\nhave %v\nwant [2 4 0]", v)
	}
	m.AffineTransform2D(3, &V2{4, 5}, 0.5, &V2{6, 7})
	n.Transform2D(nil, 0, &V2{3, 3}, &V2{4, 5}, 0.5, &V2{6, 7})
	if !nearM4(&m, &n) {
		t.Fatalf("M4.Transform2D (uniform)\nhave %v\nwant %v", n, m)
	}
}
