// Single-shot batch pipeline over the same history/transform components
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medimage-workbench/internal/annotate"
	"medimage-workbench/internal/config"
	"medimage-workbench/internal/diagnose"
	"medimage-workbench/internal/editor"
	"medimage-workbench/internal/imaging"
	"medimage-workbench/internal/meta"
	"medimage-workbench/internal/metrics"
	"medimage-workbench/internal/store"
)

// State enumerates the pipeline stages.
type State int

const (
	StateIdle State = iota
	StateImport
	StatePreprocess
	StateAnnotate
	StateDiagnose
	StateOutput
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateImport:
		return "IMPORT"
	case StatePreprocess:
		return "PREPROCESS"
	case StateAnnotate:
		return "ANNOTATE"
	case StateDiagnose:
		return "DIAGNOSE"
	case StateOutput:
		return "OUTPUT"
	}
	return fmt.Sprintf("STATE(%d)", int(s))
}

// transitions is the explicit transition table. Every transition is
// unconditional; there is no branching between states.
var transitions = map[State]State{
	StateIdle:       StateImport,
	StateImport:     StatePreprocess,
	StatePreprocess: StateAnnotate,
	StateAnnotate:   StateDiagnose,
	StateDiagnose:   StateOutput,
	StateOutput:     StateIdle,
}

// Pipeline threads a single image through import, default preprocessing,
// annotation, diagnosis and output. It is a convenience facade over the
// same editor/history/transform components used interactively and adds no
// invariants of its own. Not safe for concurrent use.
type Pipeline struct {
	cfg       *config.Config
	loader    *imaging.Loader
	store     *store.Store
	annotator annotate.Generator
	diagnoser diagnose.Diagnoser
	eval      *metrics.Evaluator
	logger    *logrus.Logger

	state State
}

func New(cfg *config.Config, loader *imaging.Loader, st *store.Store,
	gen annotate.Generator, diag diagnose.Diagnoser, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		loader:    loader,
		store:     st,
		annotator: gen,
		diagnoser: diag,
		eval:      metrics.NewEvaluator(),
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State { return p.state }

// Result collects everything one run produced.
type Result struct {
	RunID       string
	Metadata    meta.Metadata
	Annotations []annotate.Annotation
	Diagnosis   diagnose.Result
	SavedPath   string
	DenoisePSNR float64
	Log         []string
}

// Run executes one full pass. On any failure the pipeline returns to Idle;
// partial results are discarded.
func (p *Pipeline) Run(imagePath string, saveOutput bool) (res *Result, err error) {
	res = &Result{RunID: uuid.NewString()}
	defer func() {
		if err != nil {
			p.state = StateIdle
		}
	}()

	ed := editor.New(p.loader, p.store, p.logger)
	defer ed.Close()

	// Import: load and decode the source image.
	p.advance(res)
	if err = ed.LoadImage(imagePath); err != nil {
		return res, err
	}
	cur, _ := ed.Current()
	res.Metadata = meta.Parse(cur.Buffer)
	p.log(res, fmt.Sprintf("[INFO] image imported, metadata: %+v", res.Metadata))

	// Preprocess: the fixed default sequence, not user-configurable here.
	p.advance(res)
	if err = p.preprocess(ed, res); err != nil {
		return res, err
	}

	// Annotate: request records from the annotation collaborator.
	p.advance(res)
	res.Annotations = p.annotator.Generate(res.Metadata)
	p.log(res, fmt.Sprintf("[INFO] annotations generated: %d", len(res.Annotations)))

	// Diagnose: request a verdict from the diagnosis collaborator.
	p.advance(res)
	cur, _ = ed.Current()
	res.Diagnosis = p.diagnoser.Predict(cur.Buffer, res.Metadata, res.Annotations)
	p.log(res, fmt.Sprintf("[AI] verdict: %s", res.Diagnosis.Verdict))

	// Output: persist the final buffer.
	p.advance(res)
	if saveOutput {
		cur, _ = ed.Current()
		res.SavedPath, err = p.store.SaveProcessed(cur.Buffer, ed.BaseName())
		if err != nil {
			return res, err
		}
		p.log(res, fmt.Sprintf("[INFO] processed image saved to %s", res.SavedPath))
	}

	// Terminal transition back to Idle.
	p.advance(res)
	return res, nil
}

// preprocess applies the default chain: denoise, then a 10%-inset center
// crop skipped entirely for images too small to survive it.
func (p *Pipeline) preprocess(ed *editor.Editor, res *Result) error {
	if _, err := ed.Apply(transformDenoise(p.cfg)); err != nil {
		return err
	}

	// PSNR against the original while dimensions still match.
	if orig, ok := ed.At(0); ok {
		if den, ok := ed.Current(); ok {
			if psnr, err := p.eval.PSNR(orig.Buffer, den.Buffer); err == nil {
				res.DenoisePSNR = psnr
				p.log(res, fmt.Sprintf("[INFO] denoise PSNR: %.2f dB", psnr))
			}
		}
	}

	cur, _ := ed.Current()
	w, h := cur.Buffer.Width(), cur.Buffer.Height()
	if w < 20 || h < 20 {
		p.log(res, "[INFO] image too small for default crop, skipping")
		return nil
	}
	if _, err := ed.Apply(transformCenterCrop(w, h)); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) advance(res *Result) {
	next := transitions[p.state]
	p.log(res, fmt.Sprintf("[STATE] %s -> %s", p.state, next))
	p.state = next
}

func (p *Pipeline) log(res *Result, msg string) {
	p.logger.WithField("run_id", res.RunID).Info(msg)
	res.Log = append(res.Log, msg)
}
