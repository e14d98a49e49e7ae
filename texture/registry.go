// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"fmt"
	"os"
	"sync"

	"github.com/gviegas/texel"
)

// Decoder is the interface that texture container
// decoders implement.
type Decoder interface {
	// Name returns the name of the decoder.
	// It must be unique among registered decoders.
	Name() string

	// Sniff returns whether the file at path appears
	// to be in the decoder's format.
	// It must not panic, whatever the file contents.
	Sniff(path string) bool

	// SniffBytes is like Sniff for in-memory data.
	SniffBytes(b []byte) bool

	// Decode decodes the file at path.
	Decode(path string) (*Data, error)

	// DecodeBytes decodes in-memory data.
	// The returned Data must not alias b.
	DecodeBytes(b []byte) (*Data, error)
}

// Registry is an ordered collection of decoders.
// Selection picks the first decoder, in registration
// order, whose sniff succeeds.
// The zero value is an empty registry ready to use.
type Registry struct {
	mu   sync.RWMutex
	decs []Decoder
}

// Register appends dec to r.
// If a decoder with the same name is already
// registered, dec takes its place.
func (r *Registry) Register(dec Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.decs {
		if r.decs[i].Name() == dec.Name() {
			r.decs[i] = dec
			texel.Logger().Warn("decoder replaced", "name", dec.Name())
			return
		}
	}
	r.decs = append(r.decs, dec)
}

// Decoders returns the registered decoders in order.
func (r *Registry) Decoders() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Decoder(nil), r.decs...)
}

// Select returns the decoder for the file at path,
// or nil if no decoder recognizes it.
func (r *Registry) Select(path string) Decoder {
	for _, dec := range r.Decoders() {
		if dec.Sniff(path) {
			texel.Logger().Debug("decoder selected", "name", dec.Name(), "path", path)
			return dec
		}
	}
	return nil
}

// SelectBytes is like Select for in-memory data.
func (r *Registry) SelectBytes(b []byte) Decoder {
	for _, dec := range r.Decoders() {
		if dec.SniffBytes(b) {
			texel.Logger().Debug("decoder selected", "name", dec.Name(), "len", len(b))
			return dec
		}
	}
	return nil
}

// Lookup is like Select, but it fails with ErrIO if
// the file at path cannot be accessed and with
// ErrUnsupported if no decoder recognizes it.
func (r *Registry) Lookup(path string) (Decoder, error) {
	if dec := r.Select(path); dec != nil {
		return dec, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil, ErrUnsupported
}

// Load selects a decoder from r and decodes the file
// at path with it.
func (r *Registry) Load(path string) (*Data, string, error) {
	dec, err := r.Lookup(path)
	if err != nil {
		return nil, "", err
	}
	d, err := dec.Decode(path)
	return d, dec.Name(), err
}

// LoadBytes selects a decoder from r and decodes b
// with it.
func (r *Registry) LoadBytes(b []byte) (*Data, string, error) {
	dec := r.SelectBytes(b)
	if dec == nil {
		return nil, "", ErrUnsupported
	}
	d, err := dec.DecodeBytes(b)
	return d, dec.Name(), err
}

var registry Registry

// Register registers dec in the default registry.
// Decoder packages call it from init.
func Register(dec Decoder) { registry.Register(dec) }

// Decoders returns the decoders of the default
// registry.
func Decoders() []Decoder { return registry.Decoders() }

// Select calls Select on the default registry.
func Select(path string) Decoder { return registry.Select(path) }

// SelectBytes calls SelectBytes on the default
// registry.
func SelectBytes(b []byte) Decoder { return registry.SelectBytes(b) }

// Lookup calls Lookup on the default registry.
func Lookup(path string) (Decoder, error) { return registry.Lookup(path) }

// Load decodes the file at path using the default
// registry. It fails with ErrUnsupported if no
// registered decoder recognizes the file.
func Load(path string) (*Data, error) {
	d, _, err := registry.Load(path)
	return d, err
}

// LoadBytes is like Load for in-memory data.
func LoadBytes(b []byte) (*Data, error) {
	d, _, err := registry.LoadBytes(b)
	return d, err
}

// Info decodes the file at path and describes it.
func Info(path string) (ImageInfo, error) {
	d, name, err := registry.Load(path)
	if err != nil {
		return ImageInfo{}, err
	}
	return ImageInfo{
		Width:   d.Width,
		Height:  d.Height,
		Depth:   d.Depth,
		Levels:  d.Levels,
		Fmt:     d.Fmt,
		Type:    d.ImageType(),
		Decoder: name,
	}, nil
}
