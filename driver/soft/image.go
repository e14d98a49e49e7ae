// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/internal/bitvec"
	"github.com/gviegas/texel/pixel"
)

var (
	errForeign   = errors.New("soft: image not created by this driver")
	errMismatch  = errors.New("soft: images differ in format, size, type or levels")
	errNoGenMips = errors.New("soft: image lacks UGenMips usage")
	errMipFmt    = errors.New("soft: mip generation not supported for pixel format")
)

// image implements driver.Image.
type image struct {
	d      *Driver
	param  driver.ImageParam // Levels is never zero.
	// Backing levels; for UGenMips images, the
	// whole chain behind the single visible level.
	levels [][]byte
	locked bitvec.V[uint32]
	blk    int
	nblk   int
	gen    int
}

// layers returns the number of 2D slices that make up
// the given level of an image described by p.
func layers(p *driver.ImageParam, level int) int {
	switch p.Type {
	case driver.ICube:
		return 6
	case driver.IVolume:
		return p.Size.Level(level).Depth
	}
	return 1
}

// levelSize returns the size in bytes of the given level.
func levelSize(p *driver.ImageParam, level int) int {
	sz := p.Size.Level(level)
	return p.PixelFmt.Size(sz.Width, sz.Height) * layers(p, level)
}

// NewImage creates a new image.
// Images in PDefault and PManaged consume device
// memory; the others only consume host memory.
func (d *Driver) NewImage(param *driver.ImageParam) (driver.Image, error) {
	if err := param.Validate(&d.lim); err != nil {
		return nil, err
	}
	p := *param
	chain := p.Levels
	switch {
	case p.Usage&driver.UGenMips != 0:
		p.Levels = 1
		chain = p.Size.FullChain()
	case p.Levels == 0:
		p.Levels = p.Size.FullChain()
		chain = p.Levels
	}
	var total int64
	for i := range chain {
		total += int64(levelSize(&p, i))
	}
	blk, nblk, gen, err := d.alloc(total, !p.Pool.IsLockable())
	if err != nil {
		return nil, err
	}
	img := &image{
		d:      d,
		param:  p,
		levels: make([][]byte, chain),
		blk:    blk,
		nblk:   nblk,
		gen:    gen,
	}
	for i := range img.levels {
		img.levels[i] = make([]byte, levelSize(&p, i))
	}
	img.locked.Grow((p.Levels + 31) / 32)
	texel.Logger().Debug("soft image created", "fmt", p.PixelFmt, "size", p.Size, "levels", p.Levels, "chain", chain, "pool", p.Pool, "bytes", total)
	return img, nil
}

// Destroy releases the image's memory.
// Destroying an image twice has no effect.
func (m *image) Destroy() {
	if m.levels == nil {
		return
	}
	m.d.free(m.blk, m.nblk, m.gen)
	m.levels = nil
}

func (m *image) PixelFmt() pixel.Fmt { return m.param.PixelFmt }

func (m *image) Size() driver.Dim3D { return m.param.Size }

func (m *image) Levels() int { return m.param.Levels }

func (m *image) Type() driver.ImageType { return m.param.Type }

func (m *image) Pool() driver.Pool { return m.param.Pool }

func (m *image) Usage() driver.Usage { return m.param.Usage }

func (m *image) anyLocked() bool { return m.locked.Rem() != m.locked.Len() }

// checkLevel panics if level is not valid for m.
func (m *image) checkLevel(level int) {
	if level < 0 || level >= m.param.Levels {
		panic("soft: image level out of range")
	}
	if m.levels == nil {
		panic("soft: use of destroyed image")
	}
}

// Lock gives CPU access to a level of the image.
func (m *image) Lock(level int) (driver.Locked, error) {
	m.checkLevel(level)
	switch {
	case !m.param.Pool.IsLockable():
		return driver.Locked{}, driver.ErrNotLockable
	case m.locked.IsSet(level):
		return driver.Locked{}, driver.ErrLocked
	}
	m.locked.Set(level)
	sz := m.param.Size.Level(level)
	return driver.Locked{
		Bits:  m.levels[level],
		Pitch: m.param.PixelFmt.Pitch(sz.Width),
	}, nil
}

// Unlock ends CPU access to a level of the image.
func (m *image) Unlock(level int) error {
	m.checkLevel(level)
	if !m.locked.IsSet(level) {
		return driver.ErrNotLocked
	}
	m.locked.Unset(level)
	return nil
}

// GenMips fills the hidden levels of the chain with a
// box filter. Only formats made of 8-bit unsigned
// channels are supported.
// 1x1 images have no levels to fill.
func (m *image) GenMips() error {
	m.checkLevel(0)
	switch {
	case m.param.Usage&driver.UGenMips == 0:
		return errNoGenMips
	case m.anyLocked():
		return driver.ErrLocked
	case len(m.levels) == 1:
		return nil
	}
	bpp, ok := channelBytes[m.param.PixelFmt]
	if !ok {
		return errMipFmt
	}
	for i := 1; i < len(m.levels); i++ {
		src := m.param.Size.Level(i - 1)
		dst := m.param.Size.Level(i)
		if m.param.Type == driver.ICube {
			ssz := len(m.levels[i-1]) / 6
			dsz := len(m.levels[i]) / 6
			for f := range 6 {
				src.Depth, dst.Depth = 1, 1
				downsample(m.levels[i][f*dsz:(f+1)*dsz], dst, m.levels[i-1][f*ssz:(f+1)*ssz], src, bpp)
			}
			continue
		}
		if m.param.Type == driver.I2D {
			src.Depth, dst.Depth = 1, 1
		}
		downsample(m.levels[i], dst, m.levels[i-1], src, bpp)
	}
	return nil
}

// Update copies every level of src into dst.
// Hidden levels are copied only if both images
// have them.
func (d *Driver) Update(src, dst driver.Image) error {
	s, ok := src.(*image)
	if !ok || s.d != d {
		return errForeign
	}
	t, ok := dst.(*image)
	if !ok || t.d != d {
		return errForeign
	}
	switch {
	case s.levels == nil || t.levels == nil:
		return driver.ErrFatal
	case !s.param.Pool.IsLockable():
		return driver.ErrNotLockable
	case s.param.PixelFmt != t.param.PixelFmt || s.param.Size != t.param.Size ||
		s.param.Type != t.param.Type || s.param.Levels != t.param.Levels:
		return errMismatch
	case s.anyLocked() || t.anyLocked():
		return driver.ErrLocked
	}
	for i := range min(len(s.levels), len(t.levels)) {
		copy(t.levels[i], s.levels[i])
	}
	return nil
}

// Contents returns a copy of the given level of img,
// regardless of its pool. img must have been created
// by a soft Driver.
// The hidden levels of UGenMips images are included,
// so level may be as large as driver.MipChain(img)-1.
// It is meant for inspection in tests and tools.
func Contents(img driver.Image, level int) ([]byte, bool) {
	m, ok := img.(*image)
	if !ok || m.levels == nil || level < 0 || level >= len(m.levels) {
		return nil, false
	}
	return append([]byte(nil), m.levels[level]...), true
}
