// Linear edit history: an arena of entries plus a single cursor
package history

import (
	"github.com/google/uuid"

	"medimage-workbench/internal/imaging"
)

// OriginalTag labels the seed entry of every sequence.
const OriginalTag = "original"

// Entry is one accepted step: the resulting buffer, its machine tag, and
// the file it was persisted to (empty for the original entry, whose record
// is the source file itself). Buffers stay owned by the Sequence; callers
// must not close them.
type Entry struct {
	Buffer    *imaging.Buffer
	Tag       string
	SavedFile string
}

// Sequence is the ordered history of one editing session. It is not safe
// for concurrent mutation; exactly one owner drives it at a time.
//
// Invariants: when non-empty, 0 <= current < len(entries); entries past the
// cursor exist only between an undo and the next commit, which drops them.
type Sequence struct {
	id      string
	entries []Entry
	current int
}

// NewSequence returns an empty sequence in the distinguished "no image"
// state.
func NewSequence() *Sequence {
	return &Sequence{
		id:      uuid.NewString(),
		current: -1,
	}
}

// ID returns the session identifier.
func (s *Sequence) ID() string { return s.id }

// HasImage reports whether an image has been loaded.
func (s *Sequence) HasImage() bool {
	return s.current >= 0 && len(s.entries) > 0
}

// Load resets the sequence to a single entry tagged "original". Any prior
// history is discarded and its buffers released; files already persisted
// stay on disk, orphaned. The sequence takes ownership of buf.
func (s *Sequence) Load(buf *imaging.Buffer) error {
	if buf.Empty() {
		return imaging.ErrEmptyImage
	}
	s.release()
	s.entries = []Entry{{Buffer: buf, Tag: OriginalTag}}
	s.current = 0
	return nil
}

// Commit truncates everything past the cursor, appends the new entry and
// moves the cursor onto it. Redoable entries dropped here are gone for
// good. The sequence takes ownership of buf.
func (s *Sequence) Commit(buf *imaging.Buffer, tag, savedFile string) error {
	if !s.HasImage() {
		return imaging.ErrEmptyImage
	}
	if buf.Empty() {
		return imaging.ErrEmptyImage
	}
	for i := s.current + 1; i < len(s.entries); i++ {
		s.entries[i].Buffer.Close()
	}
	s.entries = append(s.entries[:s.current+1], Entry{Buffer: buf, Tag: tag, SavedFile: savedFile})
	s.current = len(s.entries) - 1
	return nil
}

// Undo steps the cursor back one entry and returns the entry now current.
// Having nothing to undo is a no-op result, not an error.
func (s *Sequence) Undo() (Entry, bool) {
	if !s.CanUndo() {
		return Entry{}, false
	}
	s.current--
	return s.entries[s.current], true
}

// Redo steps the cursor forward one entry; symmetric to Undo.
func (s *Sequence) Redo() (Entry, bool) {
	if !s.CanRedo() {
		return Entry{}, false
	}
	s.current++
	return s.entries[s.current], true
}

func (s *Sequence) CanUndo() bool { return s.current > 0 }

func (s *Sequence) CanRedo() bool {
	return s.HasImage() && s.current < len(s.entries)-1
}

// Current returns the entry under the cursor.
func (s *Sequence) Current() (Entry, bool) {
	if !s.HasImage() {
		return Entry{}, false
	}
	return s.entries[s.current], true
}

// At returns the entry at index for history browsing. Out-of-range access
// is a not-found result, never a panic.
func (s *Sequence) At(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

// Len returns the number of entries.
func (s *Sequence) Len() int { return len(s.entries) }

// CurrentIndex returns the cursor position, -1 when no image is loaded.
func (s *Sequence) CurrentIndex() int { return s.current }

// Tags returns a copy of all entry tags in order.
func (s *Sequence) Tags() []string {
	tags := make([]string, len(s.entries))
	for i, e := range s.entries {
		tags[i] = e.Tag
	}
	return tags
}

// Close releases every buffer and returns the sequence to the "no image"
// state.
func (s *Sequence) Close() {
	s.release()
	s.entries = nil
	s.current = -1
}

func (s *Sequence) release() {
	for i := range s.entries {
		s.entries[i].Buffer.Close()
	}
}
