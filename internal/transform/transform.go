// Transform catalog: pure (Buffer, Request) -> Buffer operations
package transform

import (
	"errors"

	"medimage-workbench/internal/imaging"
)

// Error taxonomy shared by every operation. Parameter and geometry problems
// are detected before any pixel computation.
var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrUnsupportedParameter = errors.New("unsupported parameter")
	ErrInvalidGeometry      = errors.New("invalid geometry")
)

// Kind identifies a transform operation.
type Kind string

const (
	KindDenoise      Kind = "denoise"
	KindCrop         Kind = "crop"
	KindAlign        Kind = "align"
	KindColorConvert Kind = "color_convert"
	KindRotate       Kind = "rotate"
	KindFlip         Kind = "flip"
	KindEqualize     Kind = "equalize"
)

// Request is a tagged transform variant. Each implementation carries only
// the parameters its operation needs; there are no shared parameter maps.
type Request interface {
	Kind() Kind

	// apply runs the operation against a non-empty source buffer and
	// returns the result plus its history tag. Implementations never
	// mutate src.
	apply(src *imaging.Buffer) (*imaging.Buffer, string, error)
}

// Apply runs req against src and returns a new buffer plus the tag to record
// in history. The empty-image check always precedes operation-specific
// validation, so a zero-size buffer fails identically for every Kind.
func Apply(src *imaging.Buffer, req Request) (*imaging.Buffer, string, error) {
	if src.Empty() {
		return nil, "", imaging.ErrEmptyImage
	}
	return req.apply(src)
}
