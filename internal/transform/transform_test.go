package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// grayBuffer builds a deterministic gradient test image.
func grayBuffer(t *testing.T, w, h int) *imaging.Buffer {
	t.Helper()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x, uint8((x*7+y*13)%256))
		}
	}
	buf, err := imaging.Adopt(mat)
	require.NoError(t, err)
	return buf
}

// colorBuffer builds a 3-channel gradient test image.
func colorBuffer(t *testing.T, w, h int) *imaging.Buffer {
	t.Helper()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x*3+0, uint8((x*5)%256))
			mat.SetUCharAt(y, x*3+1, uint8((y*11)%256))
			mat.SetUCharAt(y, x*3+2, uint8((x+y)%256))
		}
	}
	buf, err := imaging.Adopt(mat)
	require.NoError(t, err)
	return buf
}

// assertPixelsEqual compares two buffers sample by sample.
func assertPixelsEqual(t *testing.T, want, got *imaging.Buffer) {
	t.Helper()
	require.Equal(t, want.Width(), got.Width())
	require.Equal(t, want.Height(), got.Height())
	require.Equal(t, want.Channels(), got.Channels())

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(want.Mat(), got.Mat(), &diff)

	if diff.Channels() > 1 {
		chans := gocv.Split(diff)
		for _, ch := range chans {
			assert.Zero(t, gocv.CountNonZero(ch))
			ch.Close()
		}
		return
	}
	assert.Zero(t, gocv.CountNonZero(diff))
}

func TestEmptyImageCheckedBeforeValidation(t *testing.T) {
	// Even an invalid parameter must lose to the empty-image check.
	reqs := []Request{
		Denoise{Method: "bogus"},
		Crop{X: -1, Y: -1, Width: 0, Height: 0},
		Rotate{Angle: 45},
		Flip{Axis: "x"},
		ColorConvert{Mode: "hsv"},
		Align{DX: 1, DY: 1},
		Equalize{},
	}
	for _, req := range reqs {
		_, _, err := Apply(nil, req)
		assert.ErrorIs(t, err, imaging.ErrEmptyImage, "kind %s", req.Kind())
	}
}

func TestCropIdentity(t *testing.T) {
	src := grayBuffer(t, 10, 8)
	defer src.Close()

	out, tag, err := Apply(src, Crop{X: 0, Y: 0, Width: 10, Height: 8})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "Cr_0_0_10x8", tag)
	assertPixelsEqual(t, src, out)
}

func TestCropClampsNegativeOrigin(t *testing.T) {
	src := grayBuffer(t, 10, 10)
	defer src.Close()

	out, tag, err := Apply(src, Crop{X: -5, Y: -3, Width: 4, Height: 4})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "Cr_0_0_4x4", tag)
	assert.Equal(t, 4, out.Width())
	assert.Equal(t, 4, out.Height())
}

func TestCropClipsToBounds(t *testing.T) {
	src := grayBuffer(t, 10, 10)
	defer src.Close()

	out, tag, err := Apply(src, Crop{X: 6, Y: 6, Width: 100, Height: 100})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "Cr_6_6_4x4", tag)
	assert.Equal(t, 4, out.Width())
}

func TestCropOriginOutsideImage(t *testing.T) {
	src := grayBuffer(t, 100, 50)
	defer src.Close()

	_, _, err := Apply(src, Crop{X: 150, Y: 0, Width: 10, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestCropRejectsNonPositiveSize(t *testing.T) {
	src := grayBuffer(t, 10, 10)
	defer src.Close()

	for _, req := range []Crop{
		{X: 0, Y: 0, Width: 0, Height: 5},
		{X: 0, Y: 0, Width: 5, Height: -1},
	} {
		_, _, err := Apply(src, req)
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	}
}

func TestRotateClosure(t *testing.T) {
	src := grayBuffer(t, 6, 4)
	defer src.Close()

	cur := src.Clone()
	for i := 0; i < 4; i++ {
		next, tag, err := Apply(cur, Rotate{Angle: 90})
		require.NoError(t, err)
		assert.Equal(t, "R_90", tag)
		cur.Close()
		cur = next
	}
	defer cur.Close()

	assertPixelsEqual(t, src, cur)
}

func TestRotateSwapsDimensions(t *testing.T) {
	src := grayBuffer(t, 6, 4)
	defer src.Close()

	out, _, err := Apply(src, Rotate{Angle: 90})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 4, out.Width())
	assert.Equal(t, 6, out.Height())
}

func TestRotateAcceptsModulo360(t *testing.T) {
	src := grayBuffer(t, 4, 4)
	defer src.Close()

	out, tag, err := Apply(src, Rotate{Angle: 450})
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, "R_90", tag)
}

func TestRotateUnsupportedAngle(t *testing.T) {
	src := grayBuffer(t, 4, 4)
	defer src.Close()

	for _, angle := range []int{45, 0, 360, -30} {
		_, _, err := Apply(src, Rotate{Angle: angle})
		assert.ErrorIs(t, err, ErrUnsupportedParameter, "angle %d", angle)
	}
}

func TestFlipRoundTrip(t *testing.T) {
	src := grayBuffer(t, 5, 7)
	defer src.Close()

	for _, axis := range []string{AxisHorizontal, AxisVertical} {
		once, _, err := Apply(src, Flip{Axis: axis})
		require.NoError(t, err)
		twice, _, err := Apply(once, Flip{Axis: axis})
		require.NoError(t, err)

		assertPixelsEqual(t, src, twice)
		once.Close()
		twice.Close()
	}
}

func TestFlipInvalidAxis(t *testing.T) {
	src := grayBuffer(t, 4, 4)
	defer src.Close()

	_, _, err := Apply(src, Flip{Axis: "diagonal"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDenoiseEvenKernelAutoCorrected(t *testing.T) {
	src := grayBuffer(t, 16, 16)
	defer src.Close()

	even, evenTag, err := Apply(src, Denoise{Method: MethodMedian, KernelSize: 4})
	require.NoError(t, err)
	defer even.Close()
	odd, oddTag, err := Apply(src, Denoise{Method: MethodMedian, KernelSize: 5})
	require.NoError(t, err)
	defer odd.Close()

	assert.Equal(t, "D_median5", evenTag)
	assert.Equal(t, oddTag, evenTag)
	assertPixelsEqual(t, odd, even)
}

func TestDenoiseDefaultsAndTags(t *testing.T) {
	src := grayBuffer(t, 16, 16)
	defer src.Close()

	tests := []struct {
		req Denoise
		tag string
	}{
		{Denoise{Method: MethodMedian}, "D_median3"},
		{Denoise{Method: MethodGaussian, KernelSize: 5}, "D_gauss5"},
		{Denoise{Method: MethodBilateral}, "D_bilat5"},
		{Denoise{Method: MethodBilateral, Diameter: 9}, "D_bilat9"},
	}
	for _, tc := range tests {
		out, tag, err := Apply(src, tc.req)
		require.NoError(t, err)
		assert.Equal(t, tc.tag, tag)
		assert.Equal(t, src.Width(), out.Width())
		out.Close()
	}
}

func TestDenoiseUnknownMethod(t *testing.T) {
	src := grayBuffer(t, 8, 8)
	defer src.Close()

	_, _, err := Apply(src, Denoise{Method: "wavelet"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDenoiseNeverMutatesInput(t *testing.T) {
	src := grayBuffer(t, 16, 16)
	defer src.Close()
	ref := src.Clone()
	defer ref.Close()

	out, _, err := Apply(src, Denoise{Method: MethodGaussian, KernelSize: 7})
	require.NoError(t, err)
	out.Close()

	assertPixelsEqual(t, ref, src)
}

func TestColorConvertIdempotent(t *testing.T) {
	gray := grayBuffer(t, 8, 8)
	defer gray.Close()
	color := colorBuffer(t, 8, 8)
	defer color.Close()

	out, tag, err := Apply(gray, ColorConvert{Mode: ModeGray})
	require.NoError(t, err)
	assert.Equal(t, "C_toGray", tag)
	assertPixelsEqual(t, gray, out)
	out.Close()

	out, tag, err = Apply(color, ColorConvert{Mode: ModeRGB})
	require.NoError(t, err)
	assert.Equal(t, "C_toRGB", tag)
	assertPixelsEqual(t, color, out)
	out.Close()
}

func TestColorConvertChangesChannels(t *testing.T) {
	color := colorBuffer(t, 8, 8)
	defer color.Close()

	gray, _, err := Apply(color, ColorConvert{Mode: ModeGray})
	require.NoError(t, err)
	defer gray.Close()
	assert.Equal(t, 1, gray.Channels())

	back, _, err := Apply(gray, ColorConvert{Mode: ModeRGB})
	require.NoError(t, err)
	defer back.Close()
	assert.Equal(t, 3, back.Channels())
}

func TestColorConvertUnknownMode(t *testing.T) {
	src := grayBuffer(t, 4, 4)
	defer src.Close()

	_, _, err := Apply(src, ColorConvert{Mode: "hsv"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAlignKeepsSizeAndShiftsContent(t *testing.T) {
	src := grayBuffer(t, 12, 12)
	defer src.Close()

	out, tag, err := Apply(src, Align{DX: 2, DY: 1})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "A_2_1", tag)
	assert.Equal(t, src.Width(), out.Width())
	assert.Equal(t, src.Height(), out.Height())

	// Integer translation with linear interpolation is exact in the
	// interior.
	for y := 4; y < 10; y++ {
		for x := 4; x < 10; x++ {
			want := src.Mat().GetUCharAt(y-1, x-2)
			assert.Equal(t, want, out.Mat().GetUCharAt(y, x), "pixel (%d,%d)", x, y)
		}
	}
}
