// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"github.com/gviegas/texel/driver"
	"github.com/gviegas/texel/pixel"
)

// Formats whose every channel is an 8-bit unsigned
// integer, and their pixel size in bytes.
var channelBytes = map[pixel.Fmt]int{
	pixel.A8R8G8B8: 4,
	pixel.X8R8G8B8: 4,
	pixel.A8B8G8R8: 4,
	pixel.X8B8G8R8: 4,
	pixel.R8G8B8:   3,
	pixel.A8L8:     2,
	pixel.L8:       1,
	pixel.A8:       1,
}

// downsample fills dst (of size dsz) by averaging 2x2
// (or 2x2x2, for volumes) regions of src (of size ssz).
// Odd dimensions repeat the last row, column or slice.
func downsample(dst []byte, dsz driver.Dim3D, src []byte, ssz driver.Dim3D, bpp int) {
	sRow := ssz.Width * bpp
	sSlice := sRow * ssz.Height
	dRow := dsz.Width * bpp
	dSlice := dRow * dsz.Height
	for dz := range dsz.Depth {
		z0 := min(dz*2, ssz.Depth-1)
		z1 := min(dz*2+1, ssz.Depth-1)
		zs := [2]int{z0, z1}
		nz := 2
		if ssz.Depth == 1 {
			nz = 1
		}
		for dy := range dsz.Height {
			y0 := min(dy*2, ssz.Height-1)
			y1 := min(dy*2+1, ssz.Height-1)
			for dx := range dsz.Width {
				x0 := min(dx*2, ssz.Width-1)
				x1 := min(dx*2+1, ssz.Width-1)
				d := dz*dSlice + dy*dRow + dx*bpp
				for c := range bpp {
					var sum int
					for _, z := range zs[:nz] {
						s := z*sSlice + c
						sum += int(src[s+y0*sRow+x0*bpp])
						sum += int(src[s+y0*sRow+x1*bpp])
						sum += int(src[s+y1*sRow+x0*bpp])
						sum += int(src[s+y1*sRow+x1*bpp])
					}
					dst[d+c] = byte(sum / (4 * nz))
				}
			}
		}
	}
}
