// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package zdds decodes DDS files stored in a single
// zstd frame, as found in packed asset archives.
//
// Importing the package registers its decoder with
// the texture package under the name "zdds".
// Files are recognized by the .zdds or .dds.zst
// extension and by the zstd frame magic.
package zdds

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/gviegas/texel/texture"
	"github.com/gviegas/texel/texture/dds"
)

// Magic is the zstd frame magic, as stored.
var Magic = [4]byte{0x28, 0xb5, 0x2f, 0xfd}

// DefaultLevel is the compression level used by
// Encode.
const DefaultLevel = zstd.BestSpeed

func hasMagic(b []byte) bool { return bytes.HasPrefix(b, Magic[:]) }

// sniffReader decompresses just enough of r to check
// the DDS header.
func sniffReader(r io.Reader) bool {
	zr := zstd.NewReader(r)
	defer zr.Close()
	var b [dds.HeaderSize]byte
	if _, err := io.ReadFull(zr, b[:]); err != nil {
		return false
	}
	return dds.Sniff(b[:])
}

// Sniff returns whether b is a zstd frame holding
// a DDS file.
func Sniff(b []byte) bool { return hasMagic(b) && sniffReader(bytes.NewReader(b)) }

// SniffFile is like Sniff for the file at path,
// which must also have one of the recognized
// extensions.
func SniffFile(path string) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".zdds") && !strings.HasSuffix(lower, ".dds.zst") {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var m [len(Magic)]byte
	if _, err := io.ReadFull(f, m[:]); err != nil || m != Magic {
		return false
	}
	return sniffReader(io.MultiReader(bytes.NewReader(m[:]), f))
}

// Decode decompresses b and decodes the DDS file
// within. Decompression failures are reported as
// texture.ErrIO.
func Decode(b []byte) (*texture.Data, error) {
	switch {
	case len(b) < len(Magic):
		return nil, texture.ErrTruncated
	case !hasMagic(b):
		return nil, texture.ErrBadMagic
	}
	raw, err := zstd.Decompress(nil, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return dds.Decode(raw)
}

// DecodeFile decodes the file at path.
func DecodeFile(path string) (*texture.Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return Decode(b)
}

// DecodeReader decodes a compressed DDS file read
// from r, decompressing as it reads.
func DecodeReader(r io.Reader) (*texture.Data, error) {
	var m [len(Magic)]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, texture.ErrTruncated
		}
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	if m != Magic {
		return nil, texture.ErrBadMagic
	}
	zr := zstd.NewReader(io.MultiReader(bytes.NewReader(m[:]), r))
	defer zr.Close()
	return dds.DecodeReader(zr)
}

// Encode writes d to w as a DDS file compressed with
// DefaultLevel.
func Encode(w io.Writer, d *texture.Data) error { return EncodeLevel(w, d, DefaultLevel) }

// EncodeLevel is like Encode with a given zstd
// compression level.
func EncodeLevel(w io.Writer, d *texture.Data, level int) error {
	var raw bytes.Buffer
	if err := dds.Encode(&raw, d); err != nil {
		return err
	}
	b, err := zstd.CompressLevel(nil, raw.Bytes(), level)
	if err != nil {
		return fmt.Errorf("zdds: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return nil
}

// Decoder is the texture.Decoder for zstd-compressed
// DDS files.
type Decoder struct{}

func init() { texture.Register(Decoder{}) }

func (Decoder) Name() string { return "zdds" }

func (Decoder) Sniff(path string) bool { return SniffFile(path) }

func (Decoder) SniffBytes(b []byte) bool { return Sniff(b) }

func (Decoder) Decode(path string) (*texture.Data, error) { return DecodeFile(path) }

func (Decoder) DecodeBytes(b []byte) (*texture.Data, error) { return Decode(b) }
