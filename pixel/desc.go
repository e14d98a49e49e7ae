// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pixel

// Desc describes the layout of a pixel as stored
// in a legacy texture container.
type Desc struct {
	Size     uint32
	Flags    uint32
	FourCC   uint32
	BitCount uint32
	RMask    uint32
	GMask    uint32
	BMask    uint32
	AMask    uint32
}

// Flags of Desc.
const (
	DAlphaPixels = 0x1
	DAlpha       = 0x2
	DFourCC      = 0x4
	DRGB         = 0x40
	DYUV         = 0x200
	DLuminance   = 0x20000
	DBumpDUDV    = 0x80000
)

// DescSize is the expected value of Desc.Size.
const DescSize = 32

// MakeFourCC builds a four-character code.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

type masks [4]uint32

func (d *Desc) masks() masks { return masks{d.RMask, d.GMask, d.BMask, d.AMask} }

type maskFmt struct {
	m masks
	f Fmt
}

// Mask tables, in match order.
var (
	rgb32 = [...]maskFmt{
		{masks{0xff, 0xff00, 0xff0000, 0xff000000}, A8B8G8R8},
		{masks{0xff0000, 0xff00, 0xff, 0xff000000}, A8R8G8B8},
		{masks{0xff0000, 0xff00, 0xff, 0}, X8R8G8B8},
		{masks{0xff, 0xff00, 0xff0000, 0}, X8B8G8R8},
		{masks{0x3ff00000, 0xffc00, 0x3ff, 0xc0000000}, A2B10G10R10},
		{masks{0x3ff, 0xffc00, 0x3ff00000, 0xc0000000}, A2R10G10B10},
		{masks{0xffff, 0xffff0000, 0, 0}, G16R16}, // V16U16 is bump-only
		{masks{0xffffffff, 0, 0, 0}, R32F},
	}
	rgb24 = [...]maskFmt{
		{masks{0xff, 0xff00, 0xff0000, 0}, R8G8B8},
	}
	rgb16 = [...]maskFmt{
		{masks{0x7c00, 0x3e0, 0x1f, 0x8000}, A1R5G5B5},
		{masks{0xf800, 0x7e0, 0x1f, 0}, R5G6B5},
		{masks{0x7c00, 0x3e0, 0x1f, 0}, X1R5G5B5},
		{masks{0xf00, 0xf0, 0xf, 0xf000}, A4R4G4B4},
		{masks{0xff, 0, 0, 0xff00}, A8L8},
		{masks{0xffff, 0, 0, 0}, L16},
		{masks{0xf00, 0xf0, 0xf, 0}, X4R4G4B4}, // not A8P8
	}
	rgb8 = [...]maskFmt{
		{masks{0xff, 0, 0, 0}, L8},
	}
	lum16 = [...]maskFmt{
		{masks{0xffff, 0, 0, 0}, L16},
		{masks{0xff, 0, 0, 0xff00}, A8L8},
	}
	lum8 = [...]maskFmt{
		{masks{0xff, 0, 0, 0}, L8},
		{masks{0xf, 0, 0, 0xf0}, A4L4},
		{masks{0xff, 0, 0, 0xff00}, A8L8},
	}
	bump32 = [...]maskFmt{
		{masks{0xff, 0xff00, 0xff0000, 0xff000000}, Q8W8V8U8},
		{masks{0xffff, 0xffff0000, 0, 0}, V16U16},
		{masks{0x3ff00000, 0xffc00, 0x3ff, 0xc0000000}, A2W10V10U10},
	}
	bump16 = [...]maskFmt{
		{masks{0xff, 0xff00, 0, 0}, V8U8},
	}
	fourCC = [...]struct {
		c uint32
		f Fmt
	}{
		{MakeFourCC('D', 'X', 'T', '1'), DXT1},
		{MakeFourCC('D', 'X', 'T', '3'), DXT3},
		{MakeFourCC('D', 'X', 'T', '5'), DXT5},
		{MakeFourCC('D', 'X', 'T', '2'), DXT2},
		{MakeFourCC('D', 'X', 'T', '4'), DXT4},
		{MakeFourCC('Y', 'U', 'Y', '2'), YUY2},
		{36, A16B16G16R16},
		{110, Q16W16V16U16},
		{111, R16F},
		{112, G16R16F},
		{113, A16B16G16R16F},
		{114, R32F},
		{115, G32R32F},
		{116, A32B32G32R32F},
	}
)

func match(m masks, tab []maskFmt) Fmt {
	for _, x := range tab {
		if x.m == m {
			return x.f
		}
	}
	return FUnknown
}

// Resolve returns the canonical format described by d,
// or FUnknown if d describes no supported format.
// The first of DRGB, DLuminance, DAlpha, DBumpDUDV and
// DFourCC that is set in d.Flags selects the category;
// other flags are ignored.
func Resolve(d *Desc) Fmt {
	m := d.masks()
	switch {
	case d.Flags&DRGB != 0:
		switch d.BitCount {
		case 32:
			return match(m, rgb32[:])
		case 24:
			return match(m, rgb24[:])
		case 16:
			return match(m, rgb16[:])
		case 8:
			return match(m, rgb8[:])
		}
	case d.Flags&DLuminance != 0:
		switch d.BitCount {
		case 16:
			return match(m, lum16[:])
		case 8:
			return match(m, lum8[:])
		}
	case d.Flags&DAlpha != 0:
		if d.BitCount == 8 {
			return A8
		}
	case d.Flags&DBumpDUDV != 0:
		switch d.BitCount {
		case 32:
			return match(m, bump32[:])
		case 16:
			return match(m, bump16[:])
		}
	case d.Flags&DFourCC != 0:
		for _, x := range fourCC {
			if x.c == d.FourCC {
				return x.f
			}
		}
	}
	return FUnknown
}

// Describe returns a descriptor that Resolve maps back
// to f. It reports false for FUnknown.
func Describe(f Fmt) (Desc, bool) {
	d := Desc{Size: DescSize}
	find := func(flags, bits uint32, tab []maskFmt) bool {
		for _, x := range tab {
			if x.f == f {
				d.Flags = flags
				d.BitCount = bits
				d.RMask, d.GMask, d.BMask, d.AMask = x.m[0], x.m[1], x.m[2], x.m[3]
				if x.m[3] != 0 {
					d.Flags |= DAlphaPixels
				}
				return true
			}
		}
		return false
	}
	switch {
	case !f.valid():
		return Desc{}, false
	case f == R32F:
		// Prefer the FourCC code; the RGB masks are a
		// legacy spelling.
	case find(DRGB, 32, rgb32[:]), find(DRGB, 24, rgb24[:]),
		find(DLuminance, 16, lum16[:]), find(DLuminance, 8, lum8[:]),
		find(DRGB, 16, rgb16[:]),
		find(DBumpDUDV, 32, bump32[:]), find(DBumpDUDV, 16, bump16[:]):
		return d, true
	case f == A8:
		d.Flags = DAlpha | DAlphaPixels
		d.BitCount = 8
		d.AMask = 0xff
		return d, true
	}
	for _, x := range fourCC {
		if x.f == f {
			d.Flags = DFourCC
			d.FourCC = x.c
			return d, true
		}
	}
	return Desc{}, false
}
