// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package stdimg decodes raster image files (PNG, BMP,
// TIFF and WebP) into pixel.A8R8G8B8 texture data.
//
// Importing the package registers one decoder per
// file type with the texture package. Files are
// recognized by content, not by extension.
package stdimg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gviegas/texel/pixel"
	"github.com/gviegas/texel/texture"
)

const prefix = "stdimg: "

// sniffLen is the number of bytes that sniffing
// needs to see.
const sniffLen = 12

// ErrTooLarge means that an image's dimensions exceed
// MaxDim.
var ErrTooLarge = errors.New(prefix + "image too large")

// MaxDim is the largest width or height that is
// decoded. Headers declaring larger images are rejected
// before any pixel memory is allocated.
var MaxDim = 16384

// Decoder is a texture.Decoder for one raster
// image type.
type Decoder struct {
	name   string
	sniff  func(b []byte) bool
	config func(r io.Reader) (image.Config, error)
	decode func(r io.Reader) (image.Image, error)
}

// Raster decoders.
var (
	PNG = &Decoder{"png", func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n"))
	}, png.DecodeConfig, png.Decode}

	BMP = &Decoder{"bmp", func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("BM"))
	}, bmp.DecodeConfig, bmp.Decode}

	TIFF = &Decoder{"tiff", func(b []byte) bool {
		return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
	}, tiff.DecodeConfig, tiff.Decode}

	WebP = &Decoder{"webp", func(b []byte) bool {
		return len(b) >= sniffLen && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.DecodeConfig, webp.Decode}
)

func init() {
	for _, dec := range [...]*Decoder{PNG, BMP, TIFF, WebP} {
		texture.Register(dec)
	}
}

func (d *Decoder) Name() string { return d.name }

// Sniff checks the leading bytes of the file at path.
func (d *Decoder) Sniff(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var b [sniffLen]byte
	n, _ := io.ReadFull(f, b[:])
	return d.sniff(b[:n])
}

func (d *Decoder) SniffBytes(b []byte) bool { return d.sniff(b) }

// Decode decodes the file at path.
func (d *Decoder) Decode(path string) (*texture.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	defer f.Close()
	return d.DecodeReader(f)
}

func (d *Decoder) DecodeBytes(b []byte) (*texture.Data, error) {
	if !d.sniff(b) {
		return nil, texture.ErrBadMagic
	}
	return d.DecodeReader(bytes.NewReader(b))
}

// DecodeReader decodes an image read from r.
func (d *Decoder) DecodeReader(r io.Reader) (*texture.Data, error) {
	img, err := d.Image(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Image decodes an image read from r without
// converting it.
// It fails with ErrTooLarge if the image header
// declares a width or height greater than MaxDim.
func (d *Decoder) Image(r io.Reader) (image.Image, error) {
	var hdr bytes.Buffer
	cfg, err := d.config(io.TeeReader(r, &hdr))
	if err != nil {
		return nil, d.wrap(err)
	}
	if cfg.Width > MaxDim || cfg.Height > MaxDim {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrTooLarge, d.name, cfg.Width, cfg.Height)
	}
	img, err := d.decode(io.MultiReader(&hdr, r))
	if err != nil {
		return nil, d.wrap(err)
	}
	return img, nil
}

// wrap maps decoding errors to texture errors.
func (d *Decoder) wrap(err error) error {
	var perr *os.PathError
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %w", texture.ErrTruncated, err)
	case errors.As(err, &perr):
		return fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	return fmt.Errorf("%s%s: %w", prefix, d.name, err)
}

// FromImage converts img into a single level of
// pixel.A8R8G8B8 data, stored as B, G, R, A bytes
// with straight alpha.
func FromImage(img image.Image) *texture.Data {
	b := img.Bounds()
	m, ok := img.(*image.NRGBA)
	if !ok || m.Rect.Min != (image.Point{}) || m.Stride != 4*b.Dx() {
		m = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(m, image.Point{}, img, b, xdraw.Src, nil)
	}
	pix := make([]byte, 4*b.Dx()*b.Dy())
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = m.Pix[i+2]
		pix[i+1] = m.Pix[i+1]
		pix[i+2] = m.Pix[i+0]
		pix[i+3] = m.Pix[i+3]
	}
	return &texture.Data{
		Width:  b.Dx(),
		Height: b.Dy(),
		Depth:  1,
		Fmt:    pixel.A8R8G8B8,
		Pixels: pix,
	}
}

// Fit scales img down, keeping its aspect ratio, so
// that neither dimension exceeds maxDim.
// It returns img itself if it already fits or if
// maxDim is not positive.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w >= h {
		w, h = maxDim, max(1, h*maxDim/w)
	} else {
		w, h = max(1, w*maxDim/h), maxDim
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, img, b, xdraw.Src, nil)
	return dst
}
