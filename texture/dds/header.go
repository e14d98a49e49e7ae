// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package dds

import (
	"encoding/binary"

	"github.com/gviegas/texel/pixel"
	"github.com/gviegas/texel/texture"
)

// Magic is the four-character code "DDS " that
// starts every file.
const Magic = 0x20534444

// HeaderSize is the number of bytes that precede the
// payload, magic included.
const HeaderSize = 128

// hdrSize is the expected value of Header.Size,
// which does not count the magic.
const hdrSize = HeaderSize - 4

// Header flags.
const (
	FCaps        = 0x1
	FHeight      = 0x2
	FWidth       = 0x4
	FPitch       = 0x8
	FPixelFormat = 0x1000
	FMipMapCount = 0x20000
	FLinearSize  = 0x80000
	FDepth       = 0x800000
)

// Capability bits.
const (
	CapsComplex = 0x8
	CapsTexture = 0x1000
	CapsMipMap  = 0x400000

	Caps2Cubemap  = 0x200
	Caps2AllFaces = 0xfc00
	Caps2Volume   = 0x200000
)

// Header is the fixed-size header of a DDS file.
// Fields are stored little-endian, in order.
type Header struct {
	Magic             uint32
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFmt          pixel.Desc
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// ParseHeader parses the header at the start of b.
// It fails with texture.ErrTruncated if b is shorter
// than HeaderSize, texture.ErrBadMagic if the magic
// does not match and texture.ErrBadHeaderSize if
// either of the self-reported sizes is wrong.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, texture.ErrTruncated
	}
	if _, err := binary.Decode(b[:HeaderSize], binary.LittleEndian, &h); err != nil {
		return Header{}, texture.ErrTruncated
	}
	switch {
	case h.Magic != Magic:
		return Header{}, texture.ErrBadMagic
	case h.Size != hdrSize, h.PixelFmt.Size != pixel.DescSize:
		return Header{}, texture.ErrBadHeaderSize
	}
	return h, nil
}

// MarshalBinary encodes h as HeaderSize bytes.
// It implements encoding.BinaryMarshaler.
func (h *Header) MarshalBinary() ([]byte, error) {
	return binary.Append(make([]byte, 0, HeaderSize), binary.LittleEndian, h)
}

// IsCube returns whether h describes a cube map.
func (h *Header) IsCube() bool { return h.Caps2&Caps2Cubemap != 0 }

// IsVolume returns whether h describes a volume
// texture. Either the depth flag or the caps2 volume
// bit marks one.
func (h *Header) IsVolume() bool { return h.Flags&FDepth != 0 || h.Caps2&Caps2Volume != 0 }
