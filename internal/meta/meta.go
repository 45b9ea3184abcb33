// Image metadata records
package meta

import "medimage-workbench/internal/imaging"

// Metadata describes one study image: identifier, slice count, physical
// pixel spacing and examined body part. Non-DICOM inputs carry placeholder
// values; a DICOM-aware decoder upstream may fill in real ones.
type Metadata struct {
	ImageID      string
	Slices       int
	PixelSpacing [2]float64 // millimetres per pixel, row/column
	BodyPart     string
	Width        int
	Height       int
}

// Defaults used when no modality metadata is available.
const (
	DefaultImageID  = "IMG000001"
	DefaultBodyPart = "other"
)

// Parse builds metadata for a decoded buffer, falling back to defaults for
// everything the raster itself cannot tell us.
func Parse(buf *imaging.Buffer) Metadata {
	md := Metadata{
		ImageID:      DefaultImageID,
		Slices:       1,
		PixelSpacing: [2]float64{1.0, 1.0},
		BodyPart:     DefaultBodyPart,
	}
	if !buf.Empty() {
		md.Width = buf.Width()
		md.Height = buf.Height()
	}
	return md
}
