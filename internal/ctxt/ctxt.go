// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package ctxt provides the GPU driver used by the
// command line tools.
package ctxt

import (
	"errors"
	"strings"
	"sync"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
	_ "github.com/gviegas/texel/driver/soft"
)

var (
	mu     sync.Mutex
	drv    driver.Driver
	gpu    driver.GPU
	limits driver.Limits
)

var errNoDriver = errors.New("ctxt: driver not found")

// Load attempts to load any driver whose name
// contains the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// On success, the previously loaded driver (if any
// and if different) is closed and the new driver,
// GPU and limits replace it. On failure, they are
// left unchanged.
func Load(name string) error {
	mu.Lock()
	defer mu.Unlock()
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			texel.Logger().Debug("driver failed to open", "name", drivers[i].Name(), "err", err)
			continue
		}
		if drv != nil && drv != drivers[i] {
			drv.Close()
		}
		drv = drivers[i]
		gpu = u
		limits = gpu.Limits()
		texel.Logger().Info("driver loaded", "name", drv.Name())
		return nil
	}
	return err
}

// Close closes the loaded driver, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if drv != nil {
		drv.Close()
	}
	drv, gpu, limits = nil, nil, driver.Limits{}
}

// Driver returns the driver.Driver.
func Driver() driver.Driver {
	mu.Lock()
	defer mu.Unlock()
	return drv
}

// GPU returns the driver.GPU.
func GPU() driver.GPU {
	mu.Lock()
	defer mu.Unlock()
	return gpu
}

// Limits returns GPU().Limits().
// This value is retrieved only once per Load.
func Limits() driver.Limits {
	mu.Lock()
	defer mu.Unlock()
	return limits
}
