// Annotation records and the canned generator
package annotate

import (
	"fmt"
	"image"

	"medimage-workbench/internal/meta"
)

// Annotation marks one region of interest. The engine treats these as
// opaque input to diagnosis and overlay rendering; it never inspects them
// beyond logging.
type Annotation struct {
	ID      string
	ImageID string
	Region  image.Rectangle
	Label   string
}

// Generator produces annotations for an image. Real detectors plug in
// here; the engine only depends on this interface.
type Generator interface {
	Generate(md meta.Metadata) []Annotation
}

// DummyGenerator emits a single canned nodule annotation, enough to
// exercise the diagnosis and overlay paths end to end.
type DummyGenerator struct{}

func (DummyGenerator) Generate(md meta.Metadata) []Annotation {
	return []Annotation{
		{
			ID:      fmt.Sprintf("%s_ann%03d", md.ImageID, 1),
			ImageID: md.ImageID,
			Region:  image.Rect(30, 30, 80, 80),
			Label:   "nodule",
		},
	}
}
