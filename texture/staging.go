// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"fmt"

	"github.com/gviegas/texel"
	"github.com/gviegas/texel/driver"
)

// stagingImage is used to copy texel data from the
// CPU into an image that cannot be locked.
type stagingImage struct {
	gpu driver.GPU
	img driver.Image
	dst driver.Image
}

// newStaging creates a lockable image with the same
// format, size, type and level count as dst.
func newStaging(gpu driver.GPU, dst driver.Image) (*stagingImage, error) {
	img, err := gpu.NewImage(&driver.ImageParam{
		PixelFmt: dst.PixelFmt(),
		Size:     dst.Size(),
		Levels:   dst.Levels(),
		Type:     dst.Type(),
		Pool:     driver.PSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("%screating staging image: %w", prefix, err)
	}
	return &stagingImage{gpu, img, dst}, nil
}

// commit copies the staging image into the target.
func (s *stagingImage) commit() error {
	if err := s.gpu.Update(s.img, s.dst); err != nil {
		return fmt.Errorf("%supdating target from staging image: %w", prefix, err)
	}
	return nil
}

// free destroys the staging image.
func (s *stagingImage) free() {
	s.img.Destroy()
	texel.Logger().Debug("staging image released", "fmt", s.dst.PixelFmt(), "size", s.dst.Size())
	*s = stagingImage{}
}
