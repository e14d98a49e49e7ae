// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package texture decodes texture files into a
// format-agnostic description and uploads them
// into driver images.
//
// Decoders for specific containers live in
// sub-packages and register themselves from init,
// so client code imports them for side effects:
//
//	import _ "github.com/gviegas/texel/texture/dds"
package texture

import (
	"errors"

	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/pixel"
)

const prefix = "texture: "

// Decoding errors.
var (
	ErrBadMagic      = errors.New(prefix + "bad magic number")
	ErrBadHeaderSize = errors.New(prefix + "bad header size")
	ErrTruncated     = errors.New(prefix + "truncated data")
	ErrIO            = errors.New(prefix + "I/O error")
	ErrUnsupported   = errors.New(prefix + "no decoder for data")
)

// Upload errors.
var (
	ErrIncompatible      = errors.New(prefix + "source and target are incompatible")
	ErrUnsupportedLayout = errors.New(prefix + "layout not supported for upload")
)

// Data describes decoded texture data.
// It is created by a Decoder and never modified
// afterwards.
type Data struct {
	Width  int
	Height int
	// 1 unless Volume is set.
	Depth int
	// Number of mip levels present in Pixels.
	// Zero means that a single level is present and
	// that the consumer may generate the remaining.
	Levels int
	// FUnknown if the pixel layout could not be
	// resolved; Pixels is kept verbatim regardless.
	Fmt    pixel.Fmt
	Volume bool
	Cube   bool
	// Payload in container order: for cubes, each
	// face's mip chain in turn; for volumes, each
	// level's slices in turn.
	Pixels []byte
}

func (d *Data) layers(level int) int {
	switch {
	case d.Cube:
		return 6
	case d.Volume:
		return max(1, d.Depth>>level)
	}
	return 1
}

func (d *Data) levelSize(level int) int {
	w := max(1, d.Width>>level)
	h := max(1, d.Height>>level)
	return d.Fmt.Size(w, h)
}

// Size returns the number of bytes that the shape
// of d requires Pixels to have.
// It returns 0 if d.Fmt is FUnknown.
func (d *Data) Size() int {
	n := 0
	for i := range max(d.Levels, 1) {
		n += d.levelSize(i) * d.layers(i)
	}
	return n
}

// Level returns the bytes of the given mip level.
// For cubes it returns the first face only; for
// volumes, every slice of the level.
// It returns nil if the level is not present.
func (d *Data) Level(level int) []byte {
	if level < 0 || level >= max(d.Levels, 1) || d.Fmt == pixel.FUnknown {
		return nil
	}
	off := 0
	for i := range level {
		if d.Cube {
			off += d.levelSize(i)
		} else {
			off += d.levelSize(i) * d.layers(i)
		}
	}
	n := d.levelSize(level)
	if d.Volume {
		n *= d.layers(level)
	}
	if off+n > len(d.Pixels) {
		return nil
	}
	return d.Pixels[off : off+n]
}

// ImageType returns the driver.ImageType matching
// the layout of d.
func (d *Data) ImageType() driver.ImageType {
	switch {
	case d.Cube:
		return driver.ICube
	case d.Volume:
		return driver.IVolume
	}
	return driver.I2D
}

// ImageInfo summarizes a texture file.
type ImageInfo struct {
	Width   int
	Height  int
	Depth   int
	Levels  int
	Fmt     pixel.Fmt
	Type    driver.ImageType
	Decoder string
}
