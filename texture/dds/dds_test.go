// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/pixel"
	"github.com/gviegas/texel/texture"
)

// newData returns texture data whose payload counts
// up from 1.
func newData(f pixel.Fmt, w, h, d, levels int, cube, vol bool) *texture.Data {
	x := &texture.Data{Width: w, Height: h, Depth: d, Levels: levels, Fmt: f, Cube: cube, Volume: vol}
	x.Pixels = make([]byte, x.Size())
	for i := range x.Pixels {
		x.Pixels[i] = byte(i + 1)
	}
	return x
}

func encode(t *testing.T, d *texture.Data) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := Encode(&b, d); err != nil {
		t.Fatalf("Encode:\nhave %v\nwant nil", err)
	}
	return b.Bytes()
}

func checkData(t *testing.T, have, want *texture.Data) {
	t.Helper()
	switch {
	case have.Width != want.Width, have.Height != want.Height, have.Depth != want.Depth,
		have.Levels != want.Levels, have.Fmt != want.Fmt,
		have.Cube != want.Cube, have.Volume != want.Volume:
		t.Fatalf("Decode:\nhave %dx%dx%d %v levels=%d cube=%t volume=%t\nwant %dx%dx%d %v levels=%d cube=%t volume=%t",
			have.Width, have.Height, have.Depth, have.Fmt, have.Levels, have.Cube, have.Volume,
			want.Width, want.Height, want.Depth, want.Fmt, want.Levels, want.Cube, want.Volume)
	case !bytes.Equal(have.Pixels, want.Pixels):
		t.Fatalf("Decode: Pixels\nhave %v\nwant %v", have.Pixels, want.Pixels)
	}
}

func TestEncodeLayout(t *testing.T) {
	b := encode(t, newData(pixel.A8R8G8B8, 4, 4, 1, 3, false, false))
	if n := len(b); n != HeaderSize+84 {
		t.Fatalf("Encode: len\nhave %d\nwant %d", n, HeaderSize+84)
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
	for _, x := range [...]struct {
		off  int
		want uint32
	}{
		{0, Magic},
		{4, 124},
		{8, FCaps | FHeight | FWidth | FPixelFormat | FPitch | FMipMapCount},
		{12, 4},
		{16, 4},
		{20, 16},
		{28, 3},
		{76, 32},
		{80, pixel.DRGB | pixel.DAlphaPixels},
		{88, 32},
		{92, 0xff0000},
		{104, 0xff000000},
		{108, CapsTexture | CapsComplex | CapsMipMap},
		{112, 0},
	} {
		if have := u32(x.off); have != x.want {
			t.Fatalf("Encode: offset %d\nhave %#x\nwant %#x", x.off, have, x.want)
		}
	}
	if !bytes.Equal(b[:4], []byte("DDS ")) {
		t.Fatalf("Encode: magic\nhave %q\nwant \"DDS \"", b[:4])
	}

	b = encode(t, newData(pixel.DXT1, 8, 8, 1, 0, false, false))
	if u32(8)&(FLinearSize|FMipMapCount) != FLinearSize || u32(20) != 32 || u32(84) != pixel.MakeFourCC('D', 'X', 'T', '1') {
		t.Fatalf("Encode (DXT1): flags %#x, linear size %d, FourCC %#x", u32(8), u32(20), u32(84))
	}

	b = encode(t, newData(pixel.L8, 2, 2, 1, 2, true, false))
	if u32(112) != Caps2Cubemap|Caps2AllFaces {
		t.Fatalf("Encode (cube): caps2\nhave %#x\nwant %#x", u32(112), Caps2Cubemap|Caps2AllFaces)
	}
	b = encode(t, newData(pixel.L8, 4, 4, 4, 3, false, true))
	if u32(8)&FDepth == 0 || u32(24) != 4 || u32(112) != Caps2Volume {
		t.Fatalf("Encode (volume): flags %#x, depth %d, caps2 %#x", u32(8), u32(24), u32(112))
	}
}

func TestParseHeader(t *testing.T) {
	b := encode(t, newData(pixel.L8, 4, 2, 1, 0, false, false))
	h, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader:\nhave %v\nwant nil", err)
	}
	if h.Width != 4 || h.Height != 2 || h.MipMapCount != 0 || h.PixelFmt.BitCount != 8 {
		t.Fatalf("ParseHeader:\nhave %+v", h)
	}
	hb, err := h.MarshalBinary()
	if err != nil || !bytes.Equal(hb, b[:HeaderSize]) {
		t.Fatalf("Header.MarshalBinary:\nhave %v, %v\nwant %v, nil", hb, err, b[:HeaderSize])
	}

	corrupt := func(off int, v byte) []byte {
		c := append([]byte(nil), b...)
		c[off] = v
		return c
	}
	for _, x := range [...]struct {
		b   []byte
		err error
	}{
		{nil, texture.ErrTruncated},
		{b[:HeaderSize-1], texture.ErrTruncated},
		{corrupt(0, 'X'), texture.ErrBadMagic},
		{corrupt(4, 128), texture.ErrBadHeaderSize},
		{corrupt(76, 24), texture.ErrBadHeaderSize},
	} {
		if _, err := ParseHeader(x.b); err != x.err {
			t.Fatalf("ParseHeader:\nhave %v\nwant %v", err, x.err)
		}
		if Sniff(x.b) {
			t.Fatal("Sniff: invalid header accepted")
		}
		if _, err := Decode(x.b); err != x.err {
			t.Fatalf("Decode:\nhave %v\nwant %v", err, x.err)
		}
	}
	// Any altered magic byte.
	for off := range 4 {
		c := corrupt(off, b[off]^0x20)
		if _, err := ParseHeader(c); err != texture.ErrBadMagic {
			t.Fatalf("ParseHeader (magic byte %d):\nhave %v\nwant %v", off, err, texture.ErrBadMagic)
		}
		if _, err := Decode(c); err != texture.ErrBadMagic {
			t.Fatalf("Decode (magic byte %d):\nhave %v\nwant %v", off, err, texture.ErrBadMagic)
		}
		if Sniff(c) {
			t.Fatalf("Sniff (magic byte %d): invalid header accepted", off)
		}
	}
	if !Sniff(b[:HeaderSize]) {
		t.Fatal("Sniff: header-only data rejected")
	}
}

func TestRoundTrip(t *testing.T) {
	for f := pixel.FUnknown + 1; f.BitsPerPixel() > 0; f++ {
		want := newData(f, 4, 2, 1, 2, false, false)
		have, err := Decode(encode(t, want))
		if err != nil {
			t.Fatalf("Decode (%v):\nhave %v\nwant nil", f, err)
		}
		checkData(t, have, want)
	}
	for _, want := range [...]*texture.Data{
		newData(pixel.R5G6B5, 5, 3, 1, 0, false, false),
		newData(pixel.L8, 2, 2, 1, 2, true, false),
		newData(pixel.A8L8, 4, 4, 4, 3, false, true),
		newData(pixel.DXT5, 16, 4, 1, 5, false, false),
	} {
		have, err := Decode(encode(t, want))
		if err != nil {
			t.Fatalf("Decode:\nhave %v\nwant nil", err)
		}
		checkData(t, have, want)
	}
}

func TestDecode(t *testing.T) {
	want := newData(pixel.A8R8G8B8, 4, 4, 1, 3, false, false)
	b := encode(t, want)

	d, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode:\nhave %v\nwant nil", err)
	}
	b[HeaderSize] = 0xaa
	if d.Pixels[0] != 1 {
		t.Fatal("Decode: Pixels aliases the input")
	}

	if _, err := Decode(b[:len(b)-1]); !errors.Is(err, texture.ErrTruncated) {
		t.Fatalf("Decode (short payload):\nhave %v\nwant %v", err, texture.ErrTruncated)
	}

	// Absurd shapes must fail fast.
	for _, off := range [...]int{12, 16, 28} {
		c := append([]byte(nil), b...)
		binary.LittleEndian.PutUint32(c[off:], 0xffffffff)
		if _, err := Decode(c); !errors.Is(err, texture.ErrTruncated) {
			t.Fatalf("Decode (offset %d = 0xffffffff):\nhave %v\nwant %v", off, err, texture.ErrTruncated)
		}
	}

	// Unknown formats keep the payload verbatim.
	h, _ := ParseHeader(b)
	h.PixelFmt = pixel.Desc{Size: pixel.DescSize, Flags: pixel.DFourCC, FourCC: pixel.MakeFourCC('A', 'T', 'I', '1')}
	hb, _ := h.MarshalBinary()
	d, err = Decode(append(hb, 1, 2, 3))
	if err != nil || d.Fmt != pixel.FUnknown || !bytes.Equal(d.Pixels, []byte{1, 2, 3}) {
		t.Fatalf("Decode (ATI1):\nhave %v, %v\nwant FUnknown [1 2 3], nil", d, err)
	}

	// Volume marked by the header flag alone, with
	// a zero depth.
	h = Header{
		Magic:    Magic,
		Size:     124,
		Flags:    FCaps | FWidth | FHeight | FPixelFormat | FDepth,
		Width:    2,
		Height:   2,
		PixelFmt: pixel.Desc{Size: 32, Flags: pixel.DLuminance, BitCount: 8, RMask: 0xff},
	}
	hb, _ = h.MarshalBinary()
	d, err = Decode(append(hb, 1, 2, 3, 4))
	if err != nil || !d.Volume || d.Depth != 1 || d.Levels != 0 || d.Fmt != pixel.L8 {
		t.Fatalf("Decode (volume flag):\nhave %+v, %v", d, err)
	}
}

func TestEncodeError(t *testing.T) {
	var b bytes.Buffer
	if err := Encode(&b, &texture.Data{Width: 1, Height: 1, Depth: 1}); !errors.Is(err, ErrNoDesc) {
		t.Fatalf("Encode (FUnknown):\nhave %v\nwant %v", err, ErrNoDesc)
	}
	d := newData(pixel.L16, 4, 4, 1, 1, false, false)
	d.Pixels = d.Pixels[:31]
	if err := Encode(&b, d); !errors.Is(err, texture.ErrTruncated) {
		t.Fatalf("Encode (short):\nhave %v\nwant %v", err, texture.ErrTruncated)
	}
	if b.Len() != 0 {
		t.Fatalf("Encode: %d bytes written on failure", b.Len())
	}
	errW := errors.New("write failed")
	w := writerFunc(func([]byte) (int, error) { return 0, errW })
	if err := Encode(w, newData(pixel.L8, 1, 1, 1, 0, false, false)); !errors.Is(err, texture.ErrIO) || !errors.Is(err, errW) {
		t.Fatalf("Encode (write fails):\nhave %v\nwant %v", err, texture.ErrIO)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestFile(t *testing.T) {
	dir := t.TempDir()
	b := encode(t, newData(pixel.A8R8G8B8, 4, 4, 1, 3, false, false))
	write := func(name string, b []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	good := write("good.DDS", b)
	for _, x := range [...]struct {
		path string
		want bool
	}{
		{good, true},
		{write("lower.dds", b), true},
		{write("other.png", b), false},
		{write("noext", b), false},
		{write("short.dds", b[:HeaderSize-1]), false},
		{write("junk.dds", bytes.Repeat([]byte{0xcd}, 256)), false},
		{filepath.Join(dir, "missing.dds"), false},
	} {
		if have := SniffFile(x.path); have != x.want {
			t.Fatalf("SniffFile(%s):\nhave %t\nwant %t", filepath.Base(x.path), have, x.want)
		}
	}

	d, err := DecodeFile(good)
	if err != nil || d.Width != 4 || d.Levels != 3 {
		t.Fatalf("DecodeFile:\nhave %v, %v", d, err)
	}
	if _, err := DecodeFile(filepath.Join(dir, "missing.dds")); !errors.Is(err, texture.ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("DecodeFile (missing):\nhave %v\nwant %v", err, texture.ErrIO)
	}
	if _, err := DecodeReader(bytes.NewReader(b)); err != nil {
		t.Fatalf("DecodeReader:\nhave %v\nwant nil", err)
	}
	errR := errors.New("read failed")
	if _, err := DecodeReader(iotest.ErrReader(errR)); !errors.Is(err, texture.ErrIO) || !errors.Is(err, errR) {
		t.Fatalf("DecodeReader (read fails):\nhave %v\nwant %v", err, texture.ErrIO)
	}

	if dec := texture.Select(good); dec == nil || dec.Name() != "dds" {
		t.Fatalf("texture.Select:\nhave %v\nwant dds", dec)
	}
	if dec := texture.SelectBytes(b); dec == nil || dec.Name() != "dds" {
		t.Fatalf("texture.SelectBytes:\nhave %v\nwant dds", dec)
	}
	info, err := texture.Info(good)
	want := texture.ImageInfo{Width: 4, Height: 4, Depth: 1, Levels: 3, Fmt: pixel.A8R8G8B8, Type: driver.I2D, Decoder: "dds"}
	if err != nil || info != want {
		t.Fatalf("texture.Info:\nhave %+v, %v\nwant %+v, nil", info, err, want)
	}
}
