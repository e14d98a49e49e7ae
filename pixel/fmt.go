// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package pixel defines the canonical pixel formats
// understood by the texture pipeline and resolves
// container pixel-format descriptors into them.
package pixel

// Fmt is a canonical pixel format.
// Names list components from the most significant bit
// down, as a packed little-endian word; A8R8G8B8 is thus
// stored as B, G, R, A bytes in memory.
type Fmt int

// Pixel formats.
const (
	FUnknown Fmt = iota
	A8R8G8B8
	X8R8G8B8
	A8B8G8R8
	X8B8G8R8
	A2B10G10R10
	A2R10G10B10
	G16R16
	R8G8B8
	A1R5G5B5
	R5G6B5
	X1R5G5B5
	A4R4G4B4
	X4R4G4B4
	L8
	L16
	A8L8
	A4L4
	A8
	V8U8
	Q8W8V8U8
	V16U16
	A2W10V10U10
	DXT1
	DXT2
	DXT3
	DXT4
	DXT5
	YUY2
	A16B16G16R16
	Q16W16V16U16
	R16F
	G16R16F
	A16B16G16R16F
	R32F
	G32R32F
	A32B32G32R32F

	fmtN
)

var fmtInfo = [fmtN]struct {
	name string
	bpp  int // Per block for compressed formats.
}{
	FUnknown:      {"Unknown", 0},
	A8R8G8B8:      {"A8R8G8B8", 32},
	X8R8G8B8:      {"X8R8G8B8", 32},
	A8B8G8R8:      {"A8B8G8R8", 32},
	X8B8G8R8:      {"X8B8G8R8", 32},
	A2B10G10R10:   {"A2B10G10R10", 32},
	A2R10G10B10:   {"A2R10G10B10", 32},
	G16R16:        {"G16R16", 32},
	R8G8B8:        {"R8G8B8", 24},
	A1R5G5B5:      {"A1R5G5B5", 16},
	R5G6B5:        {"R5G6B5", 16},
	X1R5G5B5:      {"X1R5G5B5", 16},
	A4R4G4B4:      {"A4R4G4B4", 16},
	X4R4G4B4:      {"X4R4G4B4", 16},
	L8:            {"L8", 8},
	L16:           {"L16", 16},
	A8L8:          {"A8L8", 16},
	A4L4:          {"A4L4", 8},
	A8:            {"A8", 8},
	V8U8:          {"V8U8", 16},
	Q8W8V8U8:      {"Q8W8V8U8", 32},
	V16U16:        {"V16U16", 32},
	A2W10V10U10:   {"A2W10V10U10", 32},
	DXT1:          {"DXT1", 64},
	DXT2:          {"DXT2", 128},
	DXT3:          {"DXT3", 128},
	DXT4:          {"DXT4", 128},
	DXT5:          {"DXT5", 128},
	YUY2:          {"YUY2", 16},
	A16B16G16R16:  {"A16B16G16R16", 64},
	Q16W16V16U16:  {"Q16W16V16U16", 64},
	R16F:          {"R16F", 16},
	G16R16F:       {"G16R16F", 32},
	A16B16G16R16F: {"A16B16G16R16F", 64},
	R32F:          {"R32F", 32},
	G32R32F:       {"G32R32F", 64},
	A32B32G32R32F: {"A32B32G32R32F", 128},
}

func (f Fmt) valid() bool { return f > FUnknown && f < fmtN }

// String returns the name of f.
func (f Fmt) String() string {
	if f < 0 || f >= fmtN {
		return "Fmt(?)"
	}
	return fmtInfo[f].name
}

// IsCompressed returns whether f is a 4x4 block
// compressed format.
func (f Fmt) IsCompressed() bool { return f >= DXT1 && f <= DXT5 }

// BlockSize returns the size in bytes of a 4x4 block
// of f, or 0 if f is not block compressed.
func (f Fmt) BlockSize() int {
	if !f.IsCompressed() {
		return 0
	}
	return fmtInfo[f].bpp / 8
}

// BitsPerPixel returns the average number of bits
// per pixel of f. It returns 0 for FUnknown.
func (f Fmt) BitsPerPixel() int {
	switch {
	case !f.valid():
		return 0
	case f.IsCompressed():
		return fmtInfo[f].bpp / 16
	}
	return fmtInfo[f].bpp
}

// Pitch returns the number of bytes in one row of
// f that is width pixels wide. For compressed formats
// a row is a row of blocks.
func (f Fmt) Pitch(width int) int {
	switch {
	case !f.valid() || width <= 0:
		return 0
	case f.IsCompressed():
		return max(1, (width+3)/4) * f.BlockSize()
	case f == YUY2:
		// Two pixels share a macropixel.
		return (width + 1) / 2 * 4
	}
	return (width*fmtInfo[f].bpp + 7) / 8
}

// Rows returns the number of rows of f that make up
// an image height pixels tall.
func (f Fmt) Rows(height int) int {
	switch {
	case !f.valid() || height <= 0:
		return 0
	case f.IsCompressed():
		return max(1, (height+3)/4)
	}
	return height
}

// Size returns the number of bytes of a width by height
// image of f.
func (f Fmt) Size(width, height int) int { return f.Pitch(width) * f.Rows(height) }
