// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package pixel

import (
	"github.com/gogpu/gputypes"
)

var webgpuFmt = map[Fmt]gputypes.TextureFormat{
	A8R8G8B8:      gputypes.TextureFormatBGRA8Unorm,
	X8R8G8B8:      gputypes.TextureFormatBGRA8Unorm,
	A8B8G8R8:      gputypes.TextureFormatRGBA8Unorm,
	X8B8G8R8:      gputypes.TextureFormatRGBA8Unorm,
	A2B10G10R10:   gputypes.TextureFormatRGB10A2Unorm,
	G16R16:        gputypes.TextureFormatRG16Unorm,
	L8:            gputypes.TextureFormatR8Unorm,
	L16:           gputypes.TextureFormatR16Unorm,
	A8L8:          gputypes.TextureFormatRG8Unorm,
	V8U8:          gputypes.TextureFormatRG8Snorm,
	Q8W8V8U8:      gputypes.TextureFormatRGBA8Snorm,
	V16U16:        gputypes.TextureFormatRG16Snorm,
	DXT1:          gputypes.TextureFormatBC1RGBAUnorm,
	DXT2:          gputypes.TextureFormatBC2RGBAUnorm,
	DXT3:          gputypes.TextureFormatBC2RGBAUnorm,
	DXT4:          gputypes.TextureFormatBC3RGBAUnorm,
	DXT5:          gputypes.TextureFormatBC3RGBAUnorm,
	A16B16G16R16:  gputypes.TextureFormatRGBA16Unorm,
	Q16W16V16U16:  gputypes.TextureFormatRGBA16Snorm,
	R16F:          gputypes.TextureFormatR16Float,
	G16R16F:       gputypes.TextureFormatRG16Float,
	A16B16G16R16F: gputypes.TextureFormatRGBA16Float,
	R32F:          gputypes.TextureFormatR32Float,
	G32R32F:       gputypes.TextureFormatRG32Float,
	A32B32G32R32F: gputypes.TextureFormatRGBA32Float,
}

// WebGPU returns the WebGPU texture format whose memory
// layout matches f.
// X formats map to their A counterparts, so the unused
// bits are read as alpha. DXT2 and DXT4 map to their
// non-premultiplied block formats.
// It reports false when no such format exists
// (e.g., 16-bit packed RGB).
func (f Fmt) WebGPU() (gputypes.TextureFormat, bool) {
	x, ok := webgpuFmt[f]
	return x, ok
}
