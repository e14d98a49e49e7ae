// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command texinfo prints information about texture
// files and optionally uploads them to a GPU driver or
// converts them to DDS.
//
// Usage:
//
//	texinfo [flags] file...
//
// The flags are:
//
//	-driver name
//		driver to upload with (default "soft")
//	-upload
//		create an image from each file
//	-pool default|managed|system|scratch
//		memory pool of uploaded images
//	-maxdim n
//		scale raster images down to fit n by n
//	-o out.dds
//		write the single input file as DDS; a .zdds or
//		.dds.zst name writes it zstd-compressed
//	-v
//		verbose logging
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/internal/ctxt"
	"github.com/gviegas/texel/texture"
	"github.com/gviegas/texel/texture/dds"
	"github.com/gviegas/texel/texture/stdimg"
	"github.com/gviegas/texel/texture/zdds"
)

type options struct {
	driver  string
	upload  bool
	pool    driver.Pool
	maxDim  int
	out     string
	verbose bool
	files   []string
}

func parsePool(s string) (driver.Pool, error) {
	for _, p := range [...]driver.Pool{driver.PDefault, driver.PManaged, driver.PSystem, driver.PScratch} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown pool: %s", s)
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var opt options
	var pool string
	fs := flag.NewFlagSet("texinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opt.driver, "driver", "soft", "Driver to upload with")
	fs.BoolVar(&opt.upload, "upload", false, "Create an image from each file")
	fs.StringVar(&pool, "pool", "default", "Memory pool of uploaded images: default, managed, system, scratch")
	fs.IntVar(&opt.maxDim, "maxdim", 0, "Scale raster images down to fit n by n")
	fs.StringVar(&opt.out, "o", "", "Write the single input file as DDS (.zdds or .dds.zst compresses)")
	fs.BoolVar(&opt.verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opt.files = fs.Args()
	var err error
	switch {
	case len(opt.files) == 0:
		err = errors.New("no input files")
	case opt.out != "" && len(opt.files) != 1:
		err = errors.New("-o requires exactly one input file")
	case opt.maxDim < 0:
		err = errors.New("-maxdim must not be negative")
	default:
		opt.pool, err = parsePool(pool)
	}
	if err != nil {
		fs.Usage()
		return nil, err
	}
	return &opt, nil
}

// load decodes the file at path. Raster images are
// scaled down to fit maxDim, if positive.
func load(path string, maxDim int) (*texture.Data, string, error) {
	dec, err := texture.Lookup(path)
	if err != nil {
		return nil, "", err
	}
	raster, ok := dec.(*stdimg.Decoder)
	if !ok || maxDim <= 0 {
		d, err := dec.Decode(path)
		return d, dec.Name(), err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", texture.ErrIO, err)
	}
	defer f.Close()
	img, err := raster.Image(f)
	if err != nil {
		return nil, "", err
	}
	return stdimg.FromImage(stdimg.Fit(img, maxDim)), dec.Name(), nil
}

func describe(w io.Writer, path, name string, d *texture.Data) {
	fmt.Fprintf(w, "%s: %s %dx%dx%d %v levels=%d type=%v size=%d", path, name,
		d.Width, d.Height, d.Depth, d.Fmt, d.Levels, d.ImageType(), len(d.Pixels))
	if f, ok := d.Fmt.WebGPU(); ok {
		fmt.Fprintf(w, " webgpu=%v", f)
	}
	fmt.Fprintln(w)
}

// upload creates an image from d and reports it.
func upload(w io.Writer, gpu driver.GPU, d *texture.Data, pool driver.Pool) error {
	if d.Cube || d.Volume {
		return texture.ErrUnsupportedLayout
	}
	// Single levels get the rest of the chain
	// generated, where the pool allows it.
	usg := driver.UShaderSample
	if d.Levels <= 1 && pool != driver.PScratch {
		usg |= driver.UGenMips
	}
	img, err := gpu.NewImage(&driver.ImageParam{
		PixelFmt: d.Fmt,
		Size:     driver.Dim3D{Width: d.Width, Height: d.Height, Depth: 1},
		Levels:   max(d.Levels, 1),
		Type:     driver.I2D,
		Pool:     pool,
		Usage:    usg,
	})
	if err != nil {
		return err
	}
	defer img.Destroy()
	if err := texture.Upload(gpu, d, img); err != nil {
		return err
	}
	fmt.Fprintf(w, "\tuploaded to %s: pool=%v levels=%d", gpu.Driver().Name(), img.Pool(), img.Levels())
	if n := driver.MipChain(img); n > img.Levels() {
		fmt.Fprintf(w, " mips=%d", n)
	}
	if desc, ok := driver.Descriptor(img); ok {
		fmt.Fprintf(w, " texture=%q %dx%dx%d %v usage=%#x", desc.Label,
			desc.Size.Width, desc.Size.Height, desc.Size.DepthOrArrayLayers, desc.Format, uint32(desc.Usage))
	}
	fmt.Fprintln(w)
	return nil
}

// write encodes d into a new file at path.
func write(path string, d *texture.Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".zdds") || strings.HasSuffix(lower, ".zst") {
		return zdds.Encode(f, d)
	}
	return dds.Encode(f, d)
}

func run(args []string, stdout, stderr io.Writer) error {
	opt, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if opt.verbose {
		level = slog.LevelDebug
	}
	texel.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	var gpu driver.GPU
	if opt.upload {
		if err := ctxt.Load(opt.driver); err != nil {
			return fmt.Errorf("%w: %s", err, opt.driver)
		}
		defer ctxt.Close()
		gpu = ctxt.GPU()
		if lim := ctxt.Limits().MaxImage2D; lim > 0 {
			stdimg.MaxDim = lim
		}
	}

	var errs []error
	for _, path := range opt.files {
		d, name, err := load(path, opt.maxDim)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		describe(stdout, path, name, d)
		if gpu != nil {
			if err := upload(stdout, gpu, d, opt.pool); err != nil {
				errs = append(errs, fmt.Errorf("%s: upload: %w", path, err))
			}
		}
		if opt.out != "" {
			if err := write(opt.out, d); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", opt.out, err))
			}
		}
	}
	return errors.Join(errs...)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "texinfo: %v\n", err)
		}
		os.Exit(1)
	}
}
