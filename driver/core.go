// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"strconv"

	"github.com/gviegas/texel/pixel"
)

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create images and to move texel data
// between them.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// NewImage creates a new image.
	NewImage(param *ImageParam) (Image, error)

	// Update copies every level of src into dst.
	// src must be lockable and both images must have
	// the same format, size, type and level count.
	// No level of either image may be locked.
	Update(src, dst Image) error

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Pool identifies the memory an image lives in.
type Pool int

// Memory pools.
const (
	// Device memory, managed by the driver.
	// Not accessible by the CPU.
	PDefault Pool = iota
	// Device memory backed by a driver-managed copy.
	// Writes go through GPU.Update.
	PManaged
	// Host memory that the device can copy from.
	PSystem
	// Host memory that the device cannot use at all.
	PScratch
)

// IsLockable returns whether images in p can be locked
// for CPU access.
func (p Pool) IsLockable() bool { return p == PSystem || p == PScratch }

func (p Pool) String() string {
	switch p {
	case PDefault:
		return "default"
	case PManaged:
		return "managed"
	case PSystem:
		return "system"
	case PScratch:
		return "scratch"
	}
	return "Pool(" + strconv.Itoa(int(p)) + ")"
}

// ImageType is the type of an image.
type ImageType int

// Image types.
const (
	I2D ImageType = iota
	ICube
	IVolume
)

func (t ImageType) String() string {
	switch t {
	case I2D:
		return "2D"
	case ICube:
		return "cube"
	case IVolume:
		return "volume"
	}
	return "ImageType(" + strconv.Itoa(int(t)) + ")"
}

// Usage is a mask indicating valid uses for an image.
type Usage int

// Usage flags for Image.
const (
	// The image can be sampled in shaders.
	UShaderSample Usage = 1 << iota
	// The image can be used as render target.
	URenderTarget
	// The image's mip chain is generated by the
	// driver from level 0 (see Image.GenMips).
	// Such images expose a single level; the driver
	// keeps the rest of the chain (see MipChain).
	UGenMips
	// The image is expected to be rewritten often.
	UDynamic
	// The image can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Level returns the size of the given mip level of an
// image whose level 0 has size d.
// No dimension is ever smaller than 1.
func (d Dim3D) Level(level int) Dim3D {
	return Dim3D{
		Width:  max(1, d.Width>>level),
		Height: max(1, d.Height>>level),
		Depth:  max(1, d.Depth>>level),
	}
}

// FullChain returns the number of levels of a complete
// mip chain for an image whose level 0 has size d.
func (d Dim3D) FullChain() int {
	n := max(d.Width, d.Height, d.Depth, 1)
	levels := 1
	for n > 1 {
		n >>= 1
		levels++
	}
	return levels
}

// ImageParam describes an image to be created by
// GPU.NewImage.
type ImageParam struct {
	PixelFmt pixel.Fmt
	Size     Dim3D
	// Zero means a complete mip chain.
	Levels int
	Type   ImageType
	Pool   Pool
	Usage  Usage
}

// Validate checks whether p describes an image that
// can be created under lim.
// Zero values in lim are treated as no limit.
func (p *ImageParam) Validate(lim *Limits) error {
	const prefix = "driver: "
	var reason string
	maxDim := func(n int) bool { return n != 0 && max(p.Size.Width, p.Size.Height, p.Size.Depth) > n }
	switch {
	case p.PixelFmt == pixel.FUnknown:
		reason = "unknown pixel format"
	case p.Size.Width < 1 || p.Size.Height < 1 || p.Size.Depth < 1:
		reason = "invalid image size"
	case p.Levels < 0 || p.Levels > p.Size.FullChain():
		reason = "invalid level count"
	case p.Type < I2D || p.Type > IVolume:
		reason = "invalid image type"
	case p.Type != IVolume && p.Size.Depth != 1:
		reason = "depth must be 1 for non-volume images"
	case p.Type == ICube && p.Size.Width != p.Size.Height:
		reason = "cube images must be square"
	case p.Pool < PDefault || p.Pool > PScratch:
		reason = "invalid memory pool"
	case p.Usage&URenderTarget != 0 && p.Pool.IsLockable():
		reason = "render targets cannot live in lockable pools"
	case p.Usage&UGenMips != 0 && p.Pool == PScratch:
		reason = "scratch images cannot generate mips"
	case p.Usage&UGenMips != 0 && p.Levels > 1:
		reason = "UGenMips images must have a single level"
	case p.Type == I2D && maxDim(lim.MaxImage2D),
		p.Type == ICube && maxDim(lim.MaxImageCube),
		p.Type == IVolume && maxDim(lim.MaxImage3D):
		reason = "image size exceeds limits"
	default:
		return nil
	}
	return errors.New(prefix + reason)
}

// Locked describes the memory of a locked image level.
type Locked struct {
	// Bits refers to the level's memory. It must not
	// be used after the level is unlocked.
	Bits []byte
	// Pitch is the distance in bytes between rows
	// (rows of blocks for compressed formats).
	Pitch int
}

// Image is the interface that defines a GPU image.
// Only images in lockable pools (see Pool.IsLockable)
// give direct access to their memory. Copying data from
// the CPU into other images requires a lockable staging
// image and GPU.Update.
type Image interface {
	Destroyer

	// PixelFmt returns the image's pixel format.
	PixelFmt() pixel.Fmt

	// Size returns the size of level 0.
	Size() Dim3D

	// Levels returns the number of mip levels.
	// It is 1 for images with the UGenMips usage.
	Levels() int

	// Type returns the image type.
	Type() ImageType

	// Pool returns the memory pool the image lives in.
	Pool() Pool

	// Usage returns the image's usage mask.
	Usage() Usage

	// Lock gives CPU access to a level of the image.
	// It fails with ErrNotLockable if the image's pool
	// is not lockable and with ErrLocked if the level is
	// already locked.
	// For cube images, the faces of a level are stored
	// contiguously; for volumes, the slices are.
	Lock(level int) (Locked, error)

	// Unlock ends CPU access to a level of the image.
	Unlock(level int) error

	// GenMips fills the levels that the driver keeps
	// behind level 0 by filtering it.
	// It requires the UGenMips usage.
	GenMips() error
}

// MipChain returns the number of levels that back img.
// This is the length of a complete chain for images with
// the UGenMips usage and img.Levels() otherwise.
func MipChain(img Image) int {
	if img.Usage()&UGenMips != 0 {
		return img.Size().FullChain()
	}
	return img.Levels()
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2D images.
	MaxImage2D int
	// Maximum width and height of cube images.
	MaxImageCube int
	// Maximum width, height and depth of 3D images.
	MaxImage3D int
	// Amount of device memory available for images
	// in non-lockable pools.
	MaxMemory int64
}
