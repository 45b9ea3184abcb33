// Image decode and save operations
package imaging

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ErrDecode reports a file that could not be decoded into a Buffer.
var ErrDecode = errors.New("image decode failed")

// Loader decodes image files into Buffers and writes Buffers back to disk.
// Decoding goes through the raw file bytes so that paths with non-ASCII
// characters survive on every platform.
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{logger: logger}
}

// Decode reads and decodes the image at path. Grayscale files stay
// single-channel; color files come back as 3-channel BGR; an alpha channel
// is dropped. DICOM files are rejected: modality-specific formats must be
// converted to a common raster before they reach the engine.
func (l *Loader) Decode(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	if isDICOM(path, data) {
		return nil, fmt.Errorf("%w: %s: DICOM input must be converted to a raster format first", ErrDecode, path)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil || mat.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}

	// BGRA from PNG alpha; normalize to the 1/3 channel contract.
	if mat.Channels() == 4 {
		bgr := gocv.NewMat()
		gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR)
		mat.Close()
		mat = bgr
	}

	buf, err := Adopt(mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"width":    buf.Width(),
		"height":   buf.Height(),
		"channels": buf.Channels(),
	}).Info("image loaded")

	return buf, nil
}

// Save writes the buffer to path, format chosen by extension.
func (l *Loader) Save(buf *Buffer, path string) error {
	if buf.Empty() {
		return ErrEmptyImage
	}
	if ok := gocv.IMWrite(path, buf.Mat()); !ok {
		return fmt.Errorf("failed to write image: %s", path)
	}
	l.logger.WithField("path", path).Debug("image saved")
	return nil
}

// isDICOM checks the .dcm extension and the "DICM" preamble at offset 128.
func isDICOM(path string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(path), ".dcm") {
		return true
	}
	return len(data) >= 132 && string(data[128:132]) == "DICM"
}
