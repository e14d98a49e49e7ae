// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package soft implements driver.Driver on the CPU.
// Device memory is emulated by a fixed-size heap
// divided in blocks, so out-of-memory conditions can
// be reproduced deterministically.
// The driver registers itself as "soft".
package soft

import (
	"errors"
	"sync"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/internal/bitvec"
)

const driverName = "soft"

// Config configures a Driver.
type Config struct {
	// Amount of memory available for images in
	// non-lockable pools.
	MaxMemory int64
	// Allocation granularity of MaxMemory.
	BlockSize int64
	// Image size limits.
	MaxImage2D   int
	MaxImageCube int
	MaxImage3D   int
}

// DefaultConfig is the configuration of the
// registered driver.
var DefaultConfig = Config{
	MaxMemory:    256 << 20,
	BlockSize:    64 << 10,
	MaxImage2D:   16384,
	MaxImageCube: 16384,
	MaxImage3D:   2048,
}

func (c *Config) validate() error {
	const prefix = "soft: "
	var reason string
	switch {
	case c.MaxMemory < 0:
		reason = "negative MaxMemory"
	case c.BlockSize <= 0:
		reason = "non-positive BlockSize"
	case c.MaxImage2D < 1 || c.MaxImageCube < 1 || c.MaxImage3D < 1:
		reason = "image limits must be positive"
	default:
		return nil
	}
	return errors.New(prefix + reason)
}

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	cfg Config
	lim driver.Limits

	mu   sync.Mutex
	open bool
	heap bitvec.V[uint64]
	// Number of trailing heap bits that do not
	// correspond to a block.
	pad  int
	live int
	// Incremented by Close, so that images that
	// outlive the heap do not release blocks
	// from a newer one.
	gen int
}

// New creates a new driver that uses cfg.
// The driver is not registered.
func New(cfg Config) *Driver {
	return &Driver{
		cfg: cfg,
		lim: driver.Limits{
			MaxImage2D:   cfg.MaxImage2D,
			MaxImageCube: cfg.MaxImageCube,
			MaxImage3D:   cfg.MaxImage3D,
			MaxMemory:    cfg.MaxMemory,
		},
	}
}

func init() {
	driver.Register(New(DefaultConfig))
}

// Open initializes the driver.
func (d *Driver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return d, nil
	}
	if err := d.cfg.validate(); err != nil {
		return nil, err
	}
	nblk := int((d.cfg.MaxMemory + d.cfg.BlockSize - 1) / d.cfg.BlockSize)
	d.heap = bitvec.V[uint64]{}
	d.heap.Grow((nblk + 63) / 64)
	d.pad = d.heap.Len() - nblk
	d.heap.SetRange(nblk, d.pad)
	d.open = true
	texel.Logger().Debug("soft driver opened", "blocks", nblk, "blockSize", d.cfg.BlockSize)
	return d, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close deinitializes the driver.
// Images created by the driver must not be used
// afterwards.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.heap = bitvec.V[uint64]{}
	d.pad = 0
	d.live = 0
	d.gen++
}

// Driver returns d.
func (d *Driver) Driver() driver.Driver { return d }

// Limits returns the implementation limits.
func (d *Driver) Limits() driver.Limits { return d.lim }

// Allocated returns the amount of device memory in use,
// rounded up to whole blocks.
func (d *Driver) Allocated() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	used := d.heap.Len() - d.heap.Rem() - d.pad
	return int64(used) * d.cfg.BlockSize
}

// Live returns the number of images created and not
// yet destroyed.
func (d *Driver) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// alloc reserves device memory for size bytes.
// Memory is only accounted for if dev is true.
func (d *Driver) alloc(size int64, dev bool) (blk, nblk, gen int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return 0, 0, 0, driver.ErrFatal
	}
	if dev {
		nblk = int((size + d.cfg.BlockSize - 1) / d.cfg.BlockSize)
		var ok bool
		if blk, ok = d.heap.SearchRange(nblk); !ok {
			return 0, 0, 0, driver.ErrNoDeviceMemory
		}
		d.heap.SetRange(blk, nblk)
	}
	d.live++
	return blk, nblk, d.gen, nil
}

func (d *Driver) free(blk, nblk, gen int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return
	}
	d.heap.UnsetRange(blk, nblk)
	d.live--
}
