// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"github.com/gogpu/gputypes"
)

// Descriptor describes img as a WebGPU texture.
// It reports false if img's pixel format has no
// WebGPU counterpart.
// Cube images become 2D textures with six layers.
func Descriptor(img Image) (gputypes.TextureDescriptor, bool) {
	f, ok := img.PixelFmt().WebGPU()
	if !ok {
		return gputypes.TextureDescriptor{}, false
	}
	size := img.Size()
	desc := gputypes.TextureDescriptor{
		Label:         img.Type().String() + " " + img.PixelFmt().String(),
		Size:          gputypes.NewExtent2D(uint32(size.Width), uint32(size.Height)),
		MipLevelCount: uint32(MipChain(img)),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        f,
		Usage:         gputypes.TextureUsageCopyDst,
	}
	switch img.Type() {
	case ICube:
		desc.Size.DepthOrArrayLayers = 6
	case IVolume:
		desc.Size = gputypes.NewExtent3D(uint32(size.Width), uint32(size.Height), uint32(size.Depth))
		desc.Dimension = gputypes.TextureDimension3D
	}
	usg := img.Usage()
	if usg&UShaderSample != 0 {
		desc.Usage |= gputypes.TextureUsageTextureBinding
	}
	if usg&URenderTarget != 0 {
		desc.Usage |= gputypes.TextureUsageRenderAttachment
	}
	if img.Pool().IsLockable() {
		desc.Usage |= gputypes.TextureUsageCopySrc
	}
	return desc, true
}
