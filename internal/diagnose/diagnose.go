// Rule-based diagnosis stub behind the Diagnoser interface
package diagnose

import (
	"medimage-workbench/internal/annotate"
	"medimage-workbench/internal/imaging"
	"medimage-workbench/internal/meta"
)

// Result is the advisory verdict. It carries no contract beyond Verdict
// being a human-readable string; nothing downstream may treat it as a
// clinical decision.
type Result struct {
	Verdict  string
	ImageID  string
	BodyPart string
}

// Diagnoser is the slot a real model would occupy.
type Diagnoser interface {
	Predict(buf *imaging.Buffer, md meta.Metadata, anns []annotate.Annotation) Result
}

// RuleBased is the placeholder model: annotations present means a finding
// worth a second look, otherwise nothing remarkable.
type RuleBased struct{}

func (RuleBased) Predict(_ *imaging.Buffer, md meta.Metadata, anns []annotate.Annotation) Result {
	verdict := "no obvious abnormality"
	if len(anns) > 0 {
		verdict = "suspicious lesion, further examination advised"
	}
	return Result{
		Verdict:  verdict,
		ImageID:  md.ImageID,
		BodyPart: md.BodyPart,
	}
}
