// Core raster buffer with exclusive Mat ownership
package imaging

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyImage reports a missing or zero-size raster.
var ErrEmptyImage = errors.New("empty image")

// Buffer is an 8-bit raster with 1 (grayscale) or 3 (BGR) channels.
// A Buffer owns its Mat exclusively and is never mutated after creation;
// every transform produces a new Buffer. Close releases the pixel data.
type Buffer struct {
	mat gocv.Mat
}

// Adopt wraps mat into a Buffer, taking ownership without cloning.
// The caller must not use mat afterwards. On error the mat is closed.
func Adopt(mat gocv.Mat) (*Buffer, error) {
	if err := validate(mat); err != nil {
		if !mat.Empty() {
			mat.Close()
		}
		return nil, err
	}
	return &Buffer{mat: mat}, nil
}

// FromMat clones mat into a new Buffer. The caller keeps ownership of mat.
func FromMat(mat gocv.Mat) (*Buffer, error) {
	if err := validate(mat); err != nil {
		return nil, err
	}
	return &Buffer{mat: mat.Clone()}, nil
}

func validate(mat gocv.Mat) error {
	if mat.Empty() || mat.Cols() <= 0 || mat.Rows() <= 0 {
		return ErrEmptyImage
	}
	if c := mat.Channels(); c != 1 && c != 3 {
		return fmt.Errorf("unsupported channel count %d (want 1 or 3)", c)
	}
	return nil
}

func (b *Buffer) Width() int    { return b.mat.Cols() }
func (b *Buffer) Height() int   { return b.mat.Rows() }
func (b *Buffer) Channels() int { return b.mat.Channels() }

// IsGray reports whether the buffer is single-channel.
func (b *Buffer) IsGray() bool { return b.mat.Channels() == 1 }

// Empty reports whether the buffer holds no pixel data.
func (b *Buffer) Empty() bool { return b == nil || b.mat.Empty() }

// Shape renders the buffer dimensions as "WxH" or "WxHx3".
func (b *Buffer) Shape() string {
	if b.Empty() {
		return "N/A"
	}
	if b.IsGray() {
		return fmt.Sprintf("%dx%d", b.Width(), b.Height())
	}
	return fmt.Sprintf("%dx%dx%d", b.Width(), b.Height(), b.Channels())
}

// Mat exposes the underlying Mat for read-only use by transforms and
// persistence. Callers must not mutate or close it.
func (b *Buffer) Mat() gocv.Mat { return b.mat }

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{mat: b.mat.Clone()}
}

// ToImage converts the buffer to a Go image for overlay rendering.
func (b *Buffer) ToImage() (image.Image, error) {
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	return b.mat.ToImage()
}

// Close releases the pixel data. The buffer must not be used afterwards.
func (b *Buffer) Close() {
	if b != nil && !b.mat.Empty() {
		b.mat.Close()
	}
}
