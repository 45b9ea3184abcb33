package transform

import (
	"fmt"

	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Color conversion targets.
const (
	ModeGray = "gray"
	ModeRGB  = "rgb"
)

// ColorConvert switches between single-channel grayscale and 3-channel
// color. Converting to the current channel layout is idempotent and returns
// a plain copy.
type ColorConvert struct {
	Mode string
}

func (ColorConvert) Kind() Kind { return KindColorConvert }

func (c ColorConvert) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	switch c.Mode {
	case ModeGray:
		if src.IsGray() {
			return src.Clone(), "C_toGray", nil
		}
		out := gocv.NewMat()
		gocv.CvtColor(src.Mat(), &out, gocv.ColorBGRToGray)
		buf, err := imaging.Adopt(out)
		if err != nil {
			return nil, "", err
		}
		return buf, "C_toGray", nil

	case ModeRGB:
		if !src.IsGray() {
			return src.Clone(), "C_toRGB", nil
		}
		out := gocv.NewMat()
		gocv.CvtColor(src.Mat(), &out, gocv.ColorGrayToBGR)
		buf, err := imaging.Adopt(out)
		if err != nil {
			return nil, "", err
		}
		return buf, "C_toRGB", nil

	default:
		return nil, "", fmt.Errorf("%w: color mode %q", ErrInvalidParameter, c.Mode)
	}
}
