package transform

import (
	"fmt"

	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Flip axes.
const (
	AxisHorizontal = "h"
	AxisVertical   = "v"
)

// Flip mirrors the image around the vertical axis (AxisHorizontal) or the
// horizontal axis (AxisVertical).
type Flip struct {
	Axis string
}

func (Flip) Kind() Kind { return KindFlip }

func (f Flip) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	var flipCode int
	var tag string

	switch f.Axis {
	case AxisHorizontal:
		flipCode = 1
		tag = "F_h"
	case AxisVertical:
		flipCode = 0
		tag = "F_v"
	default:
		return nil, "", fmt.Errorf("%w: flip axis %q (want %q or %q)", ErrInvalidParameter, f.Axis, AxisHorizontal, AxisVertical)
	}

	out := gocv.NewMat()
	gocv.Flip(src.Mat(), &out, flipCode)

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}
	return buf, tag, nil
}
