// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"fmt"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/pixel"
)

// checkUpload checks whether src can be uploaded
// into dst. It does not touch dst's memory.
func checkUpload(src *Data, dst driver.Image) error {
	if src.Volume || src.Cube || dst.Type() != driver.I2D {
		return ErrUnsupportedLayout
	}
	var reason string
	size := dst.Size()
	switch levels := max(src.Levels, 1); {
	case src.Fmt == pixel.FUnknown:
		reason = "unknown source format"
	case src.Fmt != dst.PixelFmt():
		reason = "format mismatch (" + src.Fmt.String() + " vs. " + dst.PixelFmt().String() + ")"
	case levels != dst.Levels():
		reason = fmt.Sprintf("level count mismatch (%d vs. %d)", levels, dst.Levels())
	case src.Width != size.Width || src.Height != size.Height:
		reason = fmt.Sprintf("size mismatch (%dx%d vs. %dx%d)", src.Width, src.Height, size.Width, size.Height)
	default:
		if len(src.Pixels) < src.Size() {
			return fmt.Errorf("%w: have %d bytes, need %d", ErrTruncated, len(src.Pixels), src.Size())
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrIncompatible, reason)
}

// Upload copies every level of src into dst.
// src must describe a 2D texture whose format, size
// and level count (one, if src.Levels is zero) match
// dst's. Nothing is written to dst when they do not.
//
// Lockable targets are written directly. Other targets
// are written through a staging image created with
// gpu, which is destroyed before Upload returns.
//
// If a single level is uploaded and dst has room for
// a longer chain (see driver.MipChain), dst.GenMips is
// called; its failure is logged but not returned.
//
// Writes to a lockable dst are committed once every
// level is locked and checked. A later Unlock failure
// is returned, but dst keeps the new contents.
func Upload(gpu driver.GPU, src *Data, dst driver.Image) error {
	if err := checkUpload(src, dst); err != nil {
		return err
	}
	levels := max(src.Levels, 1)
	if dst.Pool().IsLockable() {
		texel.Logger().Debug("uploading directly", "fmt", src.Fmt, "levels", levels, "pool", dst.Pool())
		if err := copyLevels(src, dst, levels); err != nil {
			return err
		}
	} else {
		texel.Logger().Debug("uploading through staging image", "fmt", src.Fmt, "levels", levels, "pool", dst.Pool())
		stg, err := newStaging(gpu, dst)
		if err != nil {
			return err
		}
		defer stg.free()
		if err := copyLevels(src, stg.img, levels); err != nil {
			return err
		}
		if err := stg.commit(); err != nil {
			return err
		}
	}
	if chain := driver.MipChain(dst); chain > levels {
		texel.Logger().Debug("generating mips", "fmt", src.Fmt, "levels", chain)
		if err := dst.GenMips(); err != nil {
			texel.Logger().Warn("mip generation failed", "fmt", src.Fmt, "err", err)
		}
	}
	return nil
}

// copyLevels locks the first levels levels of img,
// copies src into them row by row and unlocks them.
// If any level cannot be locked or is too small,
// nothing is written.
func copyLevels(src *Data, img driver.Image, levels int) (err error) {
	locked := make([]driver.Locked, 0, levels)
	defer func() {
		for i := range locked {
			if e := img.Unlock(i); e != nil && err == nil {
				err = fmt.Errorf("%sunlocking level %d: %w", prefix, i, e)
			}
		}
	}()
	for i := range levels {
		lk, e := img.Lock(i)
		if e != nil {
			return fmt.Errorf("%slocking level %d: %w", prefix, i, e)
		}
		locked = append(locked, lk)
	}

	type region struct{ row, rows int }
	regs := make([]region, levels)
	for i, lk := range locked {
		w := max(1, src.Width>>i)
		h := max(1, src.Height>>i)
		regs[i] = region{src.Fmt.Pitch(w), src.Fmt.Rows(h)}
		if lk.Pitch < regs[i].row || len(lk.Bits) < lk.Pitch*regs[i].rows {
			return fmt.Errorf("%w: locked level %d is too small", ErrIncompatible, i)
		}
	}

	off := 0
	for i, lk := range locked {
		r := regs[i]
		if lk.Pitch == r.row {
			off += copy(lk.Bits, src.Pixels[off:off+r.row*r.rows])
			continue
		}
		for y := range r.rows {
			copy(lk.Bits[y*lk.Pitch:], src.Pixels[off:off+r.row])
			off += r.row
		}
	}
	return nil
}

// CreateParam configures the creation of images
// from decoded data. Zero fields are taken from the
// data being uploaded.
type CreateParam struct {
	Size   driver.Dim3D
	Levels int
	Fmt    pixel.Fmt
	Pool   driver.Pool
	Usage  driver.Usage
}

func create(gpu driver.GPU, d *Data, param *CreateParam) (driver.Image, error) {
	var p CreateParam
	if param != nil {
		p = *param
	}
	if p.Size == (driver.Dim3D{}) {
		p.Size = driver.Dim3D{Width: d.Width, Height: d.Height, Depth: 1}
	}
	if p.Levels == 0 {
		p.Levels = max(d.Levels, 1)
	}
	if p.Fmt == pixel.FUnknown {
		p.Fmt = d.Fmt
	}
	if p.Usage == 0 {
		p.Usage = driver.UShaderSample
	}
	if d.Volume || d.Cube {
		return nil, ErrUnsupportedLayout
	}
	if p.Fmt == pixel.FUnknown {
		return nil, fmt.Errorf("%w: unknown source format", ErrIncompatible)
	}
	img, err := gpu.NewImage(&driver.ImageParam{
		PixelFmt: p.Fmt,
		Size:     p.Size,
		Levels:   p.Levels,
		Type:     driver.I2D,
		Pool:     p.Pool,
		Usage:    p.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("%screating image: %w", prefix, err)
	}
	if err := Upload(gpu, d, img); err != nil {
		img.Destroy()
		return nil, err
	}
	return img, nil
}

// CreateFromFile decodes the file at path and uploads
// it into a new image created with gpu.
// param may be nil, in which case the image is placed
// in driver.PDefault with driver.UShaderSample usage.
// The decoded data is returned alongside the image.
func CreateFromFile(gpu driver.GPU, path string, param *CreateParam) (driver.Image, *Data, error) {
	d, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	img, err := create(gpu, d, param)
	if err != nil {
		return nil, d, err
	}
	return img, d, nil
}

// CreateFromBytes is like CreateFromFile for in-memory
// data.
func CreateFromBytes(gpu driver.GPU, b []byte, param *CreateParam) (driver.Image, *Data, error) {
	d, err := LoadBytes(b)
	if err != nil {
		return nil, nil, err
	}
	img, err := create(gpu, d, param)
	if err != nil {
		return nil, d, err
	}
	return img, d, nil
}
