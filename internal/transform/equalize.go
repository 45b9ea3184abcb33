package transform

import (
	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Equalize stretches the intensity histogram. Grayscale buffers are
// equalized directly. Color buffers are decomposed into YCrCb and only the
// luma channel is equalized; the chroma channels pass through untouched, so
// hue is preserved.
type Equalize struct{}

func (Equalize) Kind() Kind { return KindEqualize }

func (Equalize) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	const tag = "HEq"

	if src.IsGray() {
		out := gocv.NewMat()
		gocv.EqualizeHist(src.Mat(), &out)
		buf, err := imaging.Adopt(out)
		if err != nil {
			return nil, "", err
		}
		return buf, tag, nil
	}

	ycrcb := gocv.NewMat()
	gocv.CvtColor(src.Mat(), &ycrcb, gocv.ColorBGRToYCrCb)
	channels := gocv.Split(ycrcb)
	ycrcb.Close()

	lumaEq := gocv.NewMat()
	gocv.EqualizeHist(channels[0], &lumaEq)

	merged := gocv.NewMat()
	gocv.Merge([]gocv.Mat{lumaEq, channels[1], channels[2]}, &merged)
	lumaEq.Close()
	for i := range channels {
		channels[i].Close()
	}

	out := gocv.NewMat()
	gocv.CvtColor(merged, &out, gocv.ColorYCrCbToBGR)
	merged.Close()

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}
	return buf, tag, nil
}
