package transform

import (
	"fmt"

	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Rotate turns the image by a right angle. Only 90, 180 and 270 degrees
// (taken mod 360) are legal; anything else fails with
// ErrUnsupportedParameter.
type Rotate struct {
	Angle int
}

func (Rotate) Kind() Kind { return KindRotate }

func (r Rotate) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	angle := ((r.Angle % 360) + 360) % 360

	var code gocv.RotateFlag
	switch angle {
	case 90:
		code = gocv.Rotate90Clockwise
	case 180:
		code = gocv.Rotate180Clockwise
	case 270:
		code = gocv.Rotate90CounterClockwise
	default:
		return nil, "", fmt.Errorf("%w: rotation angle %d (only 90/180/270 supported)", ErrUnsupportedParameter, r.Angle)
	}

	out := gocv.NewMat()
	gocv.Rotate(src.Mat(), &out, code)

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("R_%d", angle), nil
}
