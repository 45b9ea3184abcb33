// Session orchestrator: transform, persist, commit
package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"medimage-workbench/internal/history"
	"medimage-workbench/internal/imaging"
	"medimage-workbench/internal/store"
	"medimage-workbench/internal/transform"
)

// Editor drives one editing session: it asks the transform catalog to
// compute a new buffer from the current history entry, writes the result
// through the store, and commits it to the sequence. Undo and redo only
// move the cursor; nothing is recomputed or re-persisted.
//
// The engine is single-threaded: every call completes before it returns,
// and an Editor must not be shared across goroutines.
type Editor struct {
	loader *imaging.Loader
	store  *store.Store
	seq    *history.Sequence
	logger *logrus.Logger

	originalPath string
	baseName     string
}

func New(loader *imaging.Loader, st *store.Store, logger *logrus.Logger) *Editor {
	return &Editor{
		loader: loader,
		store:  st,
		seq:    history.NewSequence(),
		logger: logger,
	}
}

// Session returns the session identifier.
func (e *Editor) Session() string { return e.seq.ID() }

// LoadImage decodes path and resets the session to a single "original"
// entry. Prior history is discarded; its persisted files stay on disk,
// orphaned.
func (e *Editor) LoadImage(path string) error {
	buf, err := e.loader.Decode(path)
	if err != nil {
		return err
	}
	if err := e.seq.Load(buf); err != nil {
		buf.Close()
		return err
	}

	e.originalPath = path
	base := filepath.Base(path)
	e.baseName = strings.TrimSuffix(base, filepath.Ext(base))

	e.logger.WithFields(logrus.Fields{
		"session": e.seq.ID(),
		"path":    path,
		"shape":   buf.Shape(),
	}).Info("image loaded into session")
	return nil
}

// Load seeds the session from an already-decoded buffer (test harnesses,
// batch callers). The session takes ownership of buf.
func (e *Editor) Load(buf *imaging.Buffer, baseName string) error {
	if err := e.seq.Load(buf); err != nil {
		return err
	}
	e.originalPath = ""
	e.baseName = baseName
	return nil
}

// Apply runs req against the current entry, persists the result and
// commits it. Parameter and geometry errors happen before any commit, so a
// failed transform leaves history untouched. A persistence failure is the
// one documented exception to atomicity: the commit still goes through and
// the store.ErrIO is returned alongside the committed entry, since losing
// a durable copy should not block interactive editing.
func (e *Editor) Apply(req transform.Request) (history.Entry, error) {
	cur, ok := e.seq.Current()
	if !ok {
		return history.Entry{}, imaging.ErrEmptyImage
	}

	out, tag, err := transform.Apply(cur.Buffer, req)
	if err != nil {
		return history.Entry{}, err
	}

	step := e.seq.CurrentIndex() + 1
	saved, saveErr := e.store.SaveStep(out, e.baseName, step, tag)
	if saveErr != nil {
		e.logger.WithFields(logrus.Fields{
			"session": e.seq.ID(),
			"tag":     tag,
			"error":   saveErr,
		}).Warn("persistence failed; edit kept in session only")
		saved = ""
	}

	if err := e.seq.Commit(out, tag, saved); err != nil {
		out.Close()
		return history.Entry{}, err
	}

	entry, _ := e.seq.Current()
	e.logger.WithFields(logrus.Fields{
		"session": e.seq.ID(),
		"tag":     tag,
		"step":    e.seq.CurrentIndex(),
		"shape":   entry.Buffer.Shape(),
	}).Info("transform committed")

	return entry, saveErr
}

// Undo moves back one step; a no-op when already at the original entry.
func (e *Editor) Undo() (history.Entry, bool) { return e.seq.Undo() }

// Redo moves forward one step; a no-op when at the newest entry.
func (e *Editor) Redo() (history.Entry, bool) { return e.seq.Redo() }

// Current returns the entry under the cursor.
func (e *Editor) Current() (history.Entry, bool) { return e.seq.Current() }

// At returns the entry at a given history position.
func (e *Editor) At(index int) (history.Entry, bool) { return e.seq.At(index) }

func (e *Editor) CanUndo() bool         { return e.seq.CanUndo() }
func (e *Editor) CanRedo() bool         { return e.seq.CanRedo() }
func (e *Editor) HistoryLen() int       { return e.seq.Len() }
func (e *Editor) CurrentIndex() int     { return e.seq.CurrentIndex() }
func (e *Editor) HistoryTags() []string { return e.seq.Tags() }

// CurrentShape renders the working image dimensions for status displays.
func (e *Editor) CurrentShape() string {
	cur, ok := e.seq.Current()
	if !ok {
		return "shape: N/A"
	}
	return "shape: " + cur.Buffer.Shape()
}

// DisplayName renders "{base}.png" for the original entry and
// "{base}.png (step: {tag})" for everything after it.
func (e *Editor) DisplayName() string {
	cur, ok := e.seq.Current()
	if !ok {
		return "no image"
	}
	base := "unknown.png"
	if e.baseName != "" {
		base = e.baseName + ".png"
	}
	if cur.Tag == history.OriginalTag {
		return base
	}
	return fmt.Sprintf("%s (step: %s)", base, cur.Tag)
}

// SavedPath returns the full path of the current entry's persisted file,
// or empty for the original entry and unpersisted edits.
func (e *Editor) SavedPath() string {
	cur, ok := e.seq.Current()
	if !ok || cur.SavedFile == "" {
		return ""
	}
	return e.store.Path(cur.SavedFile)
}

// OriginalPath returns the source file the session was loaded from.
func (e *Editor) OriginalPath() string { return e.originalPath }

// BaseName returns the naming stem used for persisted steps.
func (e *Editor) BaseName() string { return e.baseName }

// Close ends the session and releases every history buffer.
func (e *Editor) Close() {
	e.seq.Close()
}
