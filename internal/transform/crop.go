package transform

import (
	"fmt"
	"image"

	"medimage-workbench/internal/imaging"
)

// Crop extracts the axis-aligned rectangle at (X, Y) with the requested
// size. A negative origin is clamped to the image edge; the rectangle is
// then clipped to the image bounds and never padded. An origin past the far
// edge, a non-positive size, or a clip down to zero area all fail with
// ErrInvalidGeometry.
type Crop struct {
	X, Y          int
	Width, Height int
}

func (Crop) Kind() Kind { return KindCrop }

func (c Crop) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, "", fmt.Errorf("%w: crop size %dx%d must be positive", ErrInvalidGeometry, c.Width, c.Height)
	}

	imgW, imgH := src.Width(), src.Height()

	x := max(0, c.X)
	y := max(0, c.Y)
	if x >= imgW || y >= imgH {
		return nil, "", fmt.Errorf("%w: crop origin (%d, %d) outside %dx%d image", ErrInvalidGeometry, c.X, c.Y, imgW, imgH)
	}

	x2 := min(imgW, x+c.Width)
	y2 := min(imgH, y+c.Height)
	if x2 <= x || y2 <= y {
		return nil, "", fmt.Errorf("%w: crop region degenerates to zero area", ErrInvalidGeometry)
	}

	region := src.Mat().Region(image.Rect(x, y, x2, y2))
	out := region.Clone()
	region.Close()

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}

	// The tag records the effective rectangle after clamping and clipping.
	tag := fmt.Sprintf("Cr_%d_%d_%dx%d", x, y, x2-x, y2-y)
	return buf, tag, nil
}
