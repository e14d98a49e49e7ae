// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package dds implements a decoder and an encoder for
// the legacy DDS texture container.
//
// Importing the package registers its decoder with
// the texture package under the name "dds".
package dds

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/pixel"
	"github.com/gviegas/texel/texture"
)

const prefix = "dds: "

// ErrNoDesc means that a pixel format has no legacy
// descriptor and thus cannot be encoded.
var ErrNoDesc = errors.New(prefix + "pixel format cannot be described")

// Sniff returns whether b starts with a valid header.
func Sniff(b []byte) bool {
	_, err := ParseHeader(b)
	return err == nil
}

// SniffFile returns whether the file at path has a
// .dds extension (in any case) and starts with a
// valid header.
func SniffFile(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".dds") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var b [HeaderSize]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return false
	}
	return Sniff(b[:])
}

// Decode decodes a DDS file held in b.
// The payload is copied verbatim. If the pixel format
// cannot be resolved, the returned Data has Fmt set to
// pixel.FUnknown and no size check is made.
func Decode(b []byte) (*texture.Data, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	d := &texture.Data{
		Width:  int(h.Width),
		Height: int(h.Height),
		Depth:  1,
		Levels: int(h.MipMapCount),
		Fmt:    pixel.Resolve(&h.PixelFmt),
		Volume: h.IsVolume(),
		Cube:   h.IsCube(),
	}
	if d.Volume {
		d.Depth = max(1, int(h.Depth))
	}
	pay := b[HeaderSize:]
	if d.Fmt == pixel.FUnknown {
		texel.Logger().Debug("unresolved pixel format",
			"flags", h.PixelFmt.Flags, "fourCC", h.PixelFmt.FourCC, "bitCount", h.PixelFmt.BitCount)
	} else if !fits(d, len(pay)) {
		return nil, fmt.Errorf("%w: %s payload of %d bytes is short for %dx%dx%d with %d levels",
			texture.ErrTruncated, d.Fmt, len(pay), d.Width, d.Height, d.Depth, max(d.Levels, 1))
	}
	d.Pixels = append([]byte(nil), pay...)
	return d, nil
}

// fits returns whether n bytes hold the payload that
// the shape of d requires. Every known format takes
// at least one byte per level, so the loop ends after
// at most n+1 iterations whatever the header says.
func fits(d *texture.Data, n int) bool {
	for i := range max(d.Levels, 1) {
		w := max(1, d.Width>>i)
		h := max(1, d.Height>>i)
		// Block counts never overflow for 32-bit
		// dimensions and bound the level size from
		// below.
		if (w+3)/4 > n || (h+3)/4 > n || (w+3)/4*((h+3)/4) > n {
			return false
		}
		layers := 1
		switch {
		case d.Cube:
			layers = 6
		case d.Volume:
			layers = max(1, d.Depth>>i)
		}
		sz := d.Fmt.Size(w, h)
		if sz > n/layers {
			return false
		}
		n -= sz * layers
	}
	return true
}

// DecodeFile decodes the DDS file at path.
func DecodeFile(path string) (*texture.Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return Decode(b)
}

// DecodeReader decodes a DDS file read from r until
// EOF.
func DecodeReader(r io.Reader) (*texture.Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return Decode(b)
}

// Encode writes d to w as a DDS file.
// The pixel format is described with legacy masks or
// a four-character code; formats that have neither
// fail with ErrNoDesc.
func Encode(w io.Writer, d *texture.Data) error {
	desc, ok := pixel.Describe(d.Fmt)
	if !ok {
		return fmt.Errorf("%w (%s)", ErrNoDesc, d.Fmt)
	}
	n := d.Size()
	if len(d.Pixels) < n {
		return fmt.Errorf("%w: have %d bytes, need %d", texture.ErrTruncated, len(d.Pixels), n)
	}
	h := Header{
		Magic:    Magic,
		Size:     hdrSize,
		Flags:    FCaps | FHeight | FWidth | FPixelFormat,
		Height:   uint32(d.Height),
		Width:    uint32(d.Width),
		PixelFmt: desc,
		Caps:     CapsTexture,
	}
	if d.Fmt.IsCompressed() {
		h.Flags |= FLinearSize
		h.PitchOrLinearSize = uint32(d.Fmt.Size(d.Width, d.Height))
	} else {
		h.Flags |= FPitch
		h.PitchOrLinearSize = uint32(d.Fmt.Pitch(d.Width))
	}
	if d.Levels > 0 {
		h.Flags |= FMipMapCount
		h.MipMapCount = uint32(d.Levels)
		if d.Levels > 1 {
			h.Caps |= CapsComplex | CapsMipMap
		}
	}
	switch {
	case d.Cube:
		h.Caps |= CapsComplex
		h.Caps2 = Caps2Cubemap | Caps2AllFaces
	case d.Volume:
		h.Flags |= FDepth
		h.Depth = uint32(max(1, d.Depth))
		h.Caps |= CapsComplex
		h.Caps2 = Caps2Volume
	}
	b, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(b, d.Pixels[:n]...)); err != nil {
		return fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return nil
}

// Decoder is the texture.Decoder for DDS files.
type Decoder struct{}

func init() { texture.Register(Decoder{}) }

// Name returns "dds".
func (Decoder) Name() string { return "dds" }

// Sniff calls SniffFile.
func (Decoder) Sniff(path string) bool { return SniffFile(path) }

// SniffBytes calls Sniff.
func (Decoder) SniffBytes(b []byte) bool { return Sniff(b) }

// Decode calls DecodeFile.
func (Decoder) Decode(path string) (*texture.Data, error) { return DecodeFile(path) }

// DecodeBytes calls Decode.
func (Decoder) DecodeBytes(b []byte) (*texture.Data, error) { return Decode(b) }
