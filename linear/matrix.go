// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// M4 is a 4x4 row-major matrix of float32.
// m[i] is the i-th row.
type M4 [4]V4

// I sets m to contain the identity matrix.
func (m *M4) I() {
	*m = M4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul sets m to contain l ⋅ r.
// Transforming by m is the same as transforming
// by l then by r.
func (m *M4) Mul(l, r *M4) {
	var p M4
	for i := range p {
		for j := range p[i] {
			for k := range l[i] {
				p[i][j] += l[i][k] * r[k][j]
			}
		}
	}
	*m = p
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// cofac computes the 2x2 sub-determinants used by
// Invert and Det.
func (m *M4) cofac() (s, c [6]float32) {
	s[0] = m[0][0]*m[1][1] - m[0][1]*m[1][0]
	s[1] = m[0][0]*m[1][2] - m[0][2]*m[1][0]
	s[2] = m[0][0]*m[1][3] - m[0][3]*m[1][0]
	s[3] = m[0][1]*m[1][2] - m[0][2]*m[1][1]
	s[4] = m[0][1]*m[1][3] - m[0][3]*m[1][1]
	s[5] = m[0][2]*m[1][3] - m[0][3]*m[1][2]
	c[0] = m[2][0]*m[3][1] - m[2][1]*m[3][0]
	c[1] = m[2][0]*m[3][2] - m[2][2]*m[3][0]
	c[2] = m[2][0]*m[3][3] - m[2][3]*m[3][0]
	c[3] = m[2][1]*m[3][2] - m[2][2]*m[3][1]
	c[4] = m[2][1]*m[3][3] - m[2][3]*m[3][1]
	c[5] = m[2][2]*m[3][3] - m[2][3]*m[3][2]
	return
}

// Det returns the determinant of m.
func (m *M4) Det() float32 {
	s, c := m.cofac()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Invert sets m to contain the inverse of n and
// returns the determinant of n.
// If n is singular, m will contain infinities or NaNs.
func (m *M4) Invert(n *M4) (det float32) {
	s, c := n.cofac()
	det = s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	idet := 1 / det
	inv := M4{
		{
			(c[5]*n[1][1] - c[4]*n[1][2] + c[3]*n[1][3]) * idet,
			(-c[5]*n[0][1] + c[4]*n[0][2] - c[3]*n[0][3]) * idet,
			(s[5]*n[3][1] - s[4]*n[3][2] + s[3]*n[3][3]) * idet,
			(-s[5]*n[2][1] + s[4]*n[2][2] - s[3]*n[2][3]) * idet,
		},
		{
			(-c[5]*n[1][0] + c[2]*n[1][2] - c[1]*n[1][3]) * idet,
			(c[5]*n[0][0] - c[2]*n[0][2] + c[1]*n[0][3]) * idet,
			(-s[5]*n[3][0] + s[2]*n[3][2] - s[1]*n[3][3]) * idet,
			(s[5]*n[2][0] - s[2]*n[2][2] + s[1]*n[2][3]) * idet,
		},
		{
			(c[4]*n[1][0] - c[2]*n[1][1] + c[0]*n[1][3]) * idet,
			(-c[4]*n[0][0] + c[2]*n[0][1] - c[0]*n[0][3]) * idet,
			(s[4]*n[3][0] - s[2]*n[3][1] + s[0]*n[3][3]) * idet,
			(-s[4]*n[2][0] + s[2]*n[2][1] - s[0]*n[2][3]) * idet,
		},
		{
			(-c[3]*n[1][0] + c[1]*n[1][1] - c[0]*n[1][2]) * idet,
			(c[3]*n[0][0] - c[1]*n[0][1] + c[0]*n[0][2]) * idet,
			(-s[3]*n[3][0] + s[1]*n[3][1] - s[0]*n[3][2]) * idet,
			(s[3]*n[2][0] - s[1]*n[2][1] + s[0]*n[2][2]) * idet,
		},
	}
	*m = inv
	return
}

// Scale sets m to contain a scaling matrix.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	}
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	*m = M4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{x, y, z, 1},
	}
}

// RotateAxis sets m to contain a rotation of angle
// radians about axis. axis is normalized first; the
// zero vector produces NaNs.
func (m *M4) RotateAxis(axis *V3, angle float32) {
	var a V3
	a.Norm(axis)
	s64, c64 := math.Sincos(float64(angle))
	s, c := float32(s64), float32(c64)
	t := 1 - c
	x, y, z := a[0], a[1], a[2]
	*m = M4{
		{c + x*x*t, x*y*t + z*s, x*z*t - y*s, 0},
		{x*y*t - z*s, c + y*y*t, y*z*t + x*s, 0},
		{x*z*t + y*s, y*z*t - x*s, c + z*z*t, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ sets m to contain a rotation of angle
// radians about the z axis.
func (m *M4) RotateZ(angle float32) {
	s64, c64 := math.Sincos(float64(angle))
	s, c := float32(s64), float32(c64)
	*m = M4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// RotateQ sets m to contain the rotation described by
// the unit quaternion q.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// view builds a view matrix from an orthonormal basis.
func (m *M4) view(x, y, z, eye *V3) {
	*m = M4{
		{x[0], y[0], z[0], 0},
		{x[1], y[1], z[1], 0},
		{x[2], y[2], z[2], 0},
		{-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1},
	}
}

// LookAtRH sets m to contain a right-handed view
// transform.
func (m *M4) LookAtRH(eye, target, up *V3) {
	var x, y, z V3
	z.Sub(eye, target)
	z.Norm(&z)
	x.Cross(up, &z)
	x.Norm(&x)
	y.Cross(&z, &x)
	m.view(&x, &y, &z, eye)
}

// LookAtLH sets m to contain a left-handed view
// transform.
func (m *M4) LookAtLH(eye, target, up *V3) {
	var x, y, z V3
	z.Sub(target, eye)
	z.Norm(&z)
	x.Cross(up, &z)
	x.Norm(&x)
	y.Cross(&z, &x)
	m.view(&x, &y, &z, eye)
}

func (m *M4) orthoOffCenter(l, r, b, t, zn, zf float32, rh bool) {
	if l == r || b == t || zn == zf {
		return
	}
	dz := zf - zn
	if rh {
		dz = zn - zf
	}
	*m = M4{
		{2 / (r - l), 0, 0, 0},
		{0, 2 / (t - b), 0, 0},
		{0, 0, 1 / dz, 0},
		{(l + r) / (l - r), (t + b) / (b - t), zn / (zn - zf), 1},
	}
}

// OrthoOffCenterRH sets m to contain a right-handed
// orthographic projection mapping depth to [0, 1].
// m is left unchanged if the volume is degenerate.
func (m *M4) OrthoOffCenterRH(l, r, b, t, zn, zf float32) {
	m.orthoOffCenter(l, r, b, t, zn, zf, true)
}

// OrthoOffCenterLH is the left-handed counterpart of
// OrthoOffCenterRH.
func (m *M4) OrthoOffCenterLH(l, r, b, t, zn, zf float32) {
	m.orthoOffCenter(l, r, b, t, zn, zf, false)
}

// PerspectiveFovRH sets m to contain a right-handed
// perspective projection mapping depth to [0, 1].
// m is left unchanged if aspect is zero or zn == zf.
func (m *M4) PerspectiveFovRH(fovY, aspect, zn, zf float32) {
	if aspect == 0 || zn == zf {
		return
	}
	ys := float32(1 / math.Tan(float64(fovY)/2))
	xs := ys / aspect
	*m = M4{
		{xs, 0, 0, 0},
		{0, ys, 0, 0},
		{0, 0, zf / (zn - zf), -1},
		{0, 0, zn * zf / (zn - zf), 0},
	}
}

func orZero(v *V2) V2 {
	if v == nil {
		return V2{}
	}
	return *v
}

// AffineTransform2D sets m to contain a 2D transform that
// scales uniformly, rotates about rotCenter and then
// translates by trans. Nil vectors are treated as zero.
func (m *M4) AffineTransform2D(scaling float32, rotCenter *V2, rotation float32, trans *V2) {
	rc, t := orZero(rotCenter), orZero(trans)
	var rot M4
	rot.RotateZ(rotation)
	m.Scale(scaling, scaling, 1)
	m[3][0] -= rc[0]
	m[3][1] -= rc[1]
	m.Mul(m, &rot)
	m[3][0] += rc[0] + t[0]
	m[3][1] += rc[1] + t[1]
}

// Transform2D sets m to contain a 2D transform that scales
// by scaling about scaleCenter along axes rotated by
// scaleRotation, rotates by rotation about rotCenter and
// then translates by trans.
// Nil centers and translation are treated as zero and
// a nil scaling is treated as (1, 1).
func (m *M4) Transform2D(scaleCenter *V2, scaleRotation float32, scaling *V2, rotCenter *V2, rotation float32, trans *V2) {
	sc, rc, t := orZero(scaleCenter), orZero(rotCenter), orZero(trans)
	s := V2{1, 1}
	if scaling != nil {
		s = *scaling
	}
	var orient, orientT, scale, rot M4
	orient.RotateZ(scaleRotation)
	orientT.Transpose(&orient)
	scale.Scale(s[0], s[1], 1)
	m.Translate(-sc[0], -sc[1], 0)
	m.Mul(m, &orientT)
	m.Mul(m, &scale)
	m.Mul(m, &orient)
	m[3][0] += sc[0] - rc[0]
	m[3][1] += sc[1] - rc[1]
	rot.RotateZ(rotation)
	m.Mul(m, &rot)
	m[3][0] += rc[0] + t[0]
	m[3][1] += rc[1] + t[1]
}
