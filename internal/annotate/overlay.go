package annotate

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"medimage-workbench/internal/imaging"
)

// RenderOverlay draws annotation regions and labels over the buffer and
// returns the composite. The source buffer is not touched.
func RenderOverlay(buf *imaging.Buffer, anns []Annotation) (image.Image, error) {
	base, err := buf.ToImage()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(base)
	dc.SetFontFace(basicfont.Face7x13)

	for _, ann := range anns {
		r := ann.Region
		dc.SetRGB255(255, 64, 64)
		dc.SetLineWidth(2)
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		dc.Stroke()

		if ann.Label != "" {
			ty := float64(r.Min.Y) - 4
			if ty < 10 {
				ty = float64(r.Max.Y) + 12
			}
			dc.DrawString(ann.Label, float64(r.Min.X), ty)
		}
	}

	return dc.Image(), nil
}

// WriteOverlay renders the overlay and saves it as a PNG.
func WriteOverlay(buf *imaging.Buffer, anns []Annotation, path string) error {
	img, err := RenderOverlay(buf, anns)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
