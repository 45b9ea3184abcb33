package transform

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Default translation used by the batch preprocessing path.
const (
	DefaultAlignDX = 5
	DefaultAlignDY = 5
)

// Align translates the image by (DX, DY) without resizing, filling the
// uncovered border by edge reflection. This is the placeholder for real
// registration logic and is intentionally nothing more than a translation.
type Align struct {
	DX, DY int
}

func (Align) Kind() Kind { return KindAlign }

func (a Align) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV32F)
	defer m.Close()
	m.SetFloatAt(0, 0, 1)
	m.SetFloatAt(0, 2, float32(a.DX))
	m.SetFloatAt(1, 1, 1)
	m.SetFloatAt(1, 2, float32(a.DY))

	out := gocv.NewMat()
	gocv.WarpAffineWithParams(src.Mat(), &out, m,
		image.Pt(src.Width(), src.Height()),
		gocv.InterpolationLinear, gocv.BorderReflect, color.RGBA{})

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("A_%d_%d", a.DX, a.DY), nil
}
