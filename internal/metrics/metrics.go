// Quality metrics for before/after comparison
package metrics

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"medimage-workbench/internal/imaging"
)

// Evaluator computes comparison metrics between two buffers. Results are
// clamped to finite, comparable ranges: PSNR to [0, 100] (100 meaning a
// perfect or near-perfect match), SSIM to [0, 1].
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// PSNR computes the peak signal-to-noise ratio in dB. Both buffers must
// have identical dimensions and channel counts.
func (e *Evaluator) PSNR(original, processed *imaging.Buffer) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, imaging.ErrEmptyImage
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() ||
		original.Channels() != processed.Channels() {
		return 0, fmt.Errorf("shape mismatch: %s vs %s", original.Shape(), processed.Shape())
	}

	origF := gocv.NewMat()
	defer origF.Close()
	procF := gocv.NewMat()
	defer procF.Close()
	original.Mat().ConvertTo(&origF, gocv.MatTypeCV32F)
	processed.Mat().ConvertTo(&procF, gocv.MatTypeCV32F)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(origF, procF, &diff)

	sq := gocv.NewMat()
	defer sq.Close()
	gocv.Multiply(diff, diff, &sq)

	sum := sq.Sum()
	total := float64(original.Width()*original.Height()) * float64(original.Channels())
	mse := (sum.Val1 + sum.Val2 + sum.Val3) / total

	if mse < 1e-10 {
		return 100.0, nil
	}
	psnr := 20*math.Log10(255) - 10*math.Log10(mse)
	if math.IsNaN(psnr) || math.IsInf(psnr, 0) || psnr > 100 {
		return 100.0, nil
	}
	if psnr < 0 {
		return 0, nil
	}
	return psnr, nil
}

// SSIM computes a global structural similarity index on the luma of both
// buffers.
func (e *Evaluator) SSIM(original, processed *imaging.Buffer) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, imaging.ErrEmptyImage
	}
	if original.Width() != processed.Width() || original.Height() != processed.Height() {
		return 0, fmt.Errorf("shape mismatch: %s vs %s", original.Shape(), processed.Shape())
	}

	origF, err := toGrayFloat(original)
	if err != nil {
		return 0, err
	}
	defer origF.Close()
	procF, err := toGrayFloat(processed)
	if err != nil {
		return 0, err
	}
	defer procF.Close()

	// Stabilizing constants from the SSIM reference formulation.
	c1 := math.Pow(0.01*255, 2)
	c2 := math.Pow(0.03*255, 2)

	mu1 := origF.Mean().Val1
	mu2 := procF.Mean().Val1

	sq1 := gocv.NewMat()
	defer sq1.Close()
	sq2 := gocv.NewMat()
	defer sq2.Close()
	prod := gocv.NewMat()
	defer prod.Close()
	gocv.Multiply(origF, origF, &sq1)
	gocv.Multiply(procF, procF, &sq2)
	gocv.Multiply(origF, procF, &prod)

	sigma1Sq := sq1.Mean().Val1 - mu1*mu1
	sigma2Sq := sq2.Mean().Val1 - mu2*mu2
	sigma12 := prod.Mean().Val1 - mu1*mu2

	num := (2*mu1*mu2 + c1) * (2*sigma12 + c2)
	den := (mu1*mu1 + mu2*mu2 + c1) * (sigma1Sq + sigma2Sq + c2)
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0, nil
	}

	ssim := num / den
	if math.IsNaN(ssim) || math.IsInf(ssim, 0) || ssim < 0 {
		return 0, nil
	}
	if ssim > 1 {
		return 1, nil
	}
	return ssim, nil
}

func toGrayFloat(buf *imaging.Buffer) (gocv.Mat, error) {
	gray := buf.Mat()
	owned := false
	if !buf.IsGray() {
		g := gocv.NewMat()
		gocv.CvtColor(buf.Mat(), &g, gocv.ColorBGRToGray)
		gray = g
		owned = true
	}
	out := gocv.NewMat()
	gray.ConvertTo(&out, gocv.MatTypeCV32F)
	if owned {
		gray.Close()
	}
	return out, nil
}

// HistogramStats summarizes the gray-level distribution of a buffer.
type HistogramStats struct {
	Mean    float64
	StdDev  float64
	Entropy float64 // nats, over the normalized 256-bin histogram
}

// Histogram computes intensity statistics over the luma channel.
func Histogram(buf *imaging.Buffer) (HistogramStats, error) {
	if buf.Empty() {
		return HistogramStats{}, imaging.ErrEmptyImage
	}

	gray := buf.Mat()
	owned := false
	if !buf.IsGray() {
		g := gocv.NewMat()
		gocv.CvtColor(buf.Mat(), &g, gocv.ColorBGRToGray)
		gray = g
		owned = true
	}

	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CalcHist([]gocv.Mat{gray}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)
	if owned {
		gray.Close()
	}

	levels := make([]float64, 256)
	counts := make([]float64, 256)
	var total float64
	for i := 0; i < 256; i++ {
		levels[i] = float64(i)
		counts[i] = float64(hist.GetFloatAt(i, 0))
		total += counts[i]
	}
	if total == 0 {
		return HistogramStats{}, imaging.ErrEmptyImage
	}

	p := make([]float64, 256)
	for i := range counts {
		p[i] = counts[i] / total
	}

	mean := stat.Mean(levels, counts)
	return HistogramStats{
		Mean:    mean,
		StdDev:  stat.StdDev(levels, counts),
		Entropy: stat.Entropy(p),
	}, nil
}
