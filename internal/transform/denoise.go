// Noise reduction: median, gaussian and bilateral smoothing
package transform

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// Denoise methods.
const (
	MethodMedian    = "median"
	MethodGaussian  = "gaussian"
	MethodBilateral = "bilateral"
)

// Named defaults; callers pass these explicitly instead of relying on
// hidden module state.
const (
	DefaultKernelSize        = 3
	DefaultBilateralDiameter = 5
	DefaultBilateralSigma    = 75.0
)

// Denoise smooths the image with the selected method. Kernel sizes must be
// odd; an even KernelSize is incremented by one rather than rejected, and a
// non-positive one falls back to DefaultKernelSize.
type Denoise struct {
	Method     string
	KernelSize int     // median and gaussian
	SigmaX     float64 // gaussian; 0 derives sigma from the kernel size
	Diameter   int     // bilateral neighborhood diameter
	SigmaColor float64 // bilateral; 0 selects DefaultBilateralSigma
	SigmaSpace float64 // bilateral; 0 selects DefaultBilateralSigma
}

func (Denoise) Kind() Kind { return KindDenoise }

func (d Denoise) apply(src *imaging.Buffer) (*imaging.Buffer, string, error) {
	ksize := d.KernelSize
	if ksize <= 0 {
		ksize = DefaultKernelSize
	}
	if ksize%2 == 0 {
		ksize++
	}

	out := gocv.NewMat()
	var tag string

	switch d.Method {
	case MethodMedian:
		gocv.MedianBlur(src.Mat(), &out, ksize)
		tag = fmt.Sprintf("D_median%d", ksize)

	case MethodGaussian:
		sigma := d.SigmaX
		if sigma < 0 {
			sigma = 0
		}
		gocv.GaussianBlur(src.Mat(), &out, image.Pt(ksize, ksize), sigma, 0, gocv.BorderDefault)
		tag = fmt.Sprintf("D_gauss%d", ksize)

	case MethodBilateral:
		d2 := d.Diameter
		if d2 <= 0 {
			d2 = DefaultBilateralDiameter
		}
		sigmaColor := d.SigmaColor
		if sigmaColor <= 0 {
			sigmaColor = DefaultBilateralSigma
		}
		sigmaSpace := d.SigmaSpace
		if sigmaSpace <= 0 {
			sigmaSpace = DefaultBilateralSigma
		}
		gocv.BilateralFilter(src.Mat(), &out, d2, sigmaColor, sigmaSpace)
		tag = fmt.Sprintf("D_bilat%d", d2)

	default:
		out.Close()
		return nil, "", fmt.Errorf("%w: denoise method %q", ErrInvalidParameter, d.Method)
	}

	buf, err := imaging.Adopt(out)
	if err != nil {
		return nil, "", err
	}
	return buf, tag, nil
}
