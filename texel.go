// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package texel provides texture decoding, texture upload
// to GPU images and the math used to place them.
//
// The functionality lives in sub-packages:
//
//	pixel    - pixel format resolution
//	texture  - decoded texture data, decoder registry and upload
//	driver   - interfaces that GPU back-ends implement
//	linear   - vectors, matrices and quaternions
//	geom     - ray/triangle intersection and bounding volumes
//
// This package only holds the logger shared by them.
package texel

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record.
// Enabled returns false so that callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var logger atomic.Pointer[slog.Logger]

func init() { logger.Store(slog.New(nopHandler{})) }

// SetLogger sets the logger used by texel and its
// sub-packages. By default nothing is logged.
// Passing nil restores the default.
//
// Levels in use:
//   - slog.LevelDebug: decoder selection, upload strategy
//   - slog.LevelInfo: driver registration
//   - slog.LevelWarn: replaced registrations, failed mip generation
//
// It is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the current logger.
// It is safe for concurrent use.
func Logger() *slog.Logger { return logger.Load() }
