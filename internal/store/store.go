// Write-through persistence of accepted transform results
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"medimage-workbench/internal/imaging"
)

// ErrIO reports a persistence write failure. By contract it never rolls
// back the in-memory commit; callers that require durability must check
// for it explicitly.
var ErrIO = errors.New("persistence write failed")

// Store writes every committed history entry to a single output directory
// under a deterministic name. All writes are synchronous.
type Store struct {
	dir    string
	logger *logrus.Logger
}

func NewStore(dir string, logger *logrus.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the output directory if needed.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// SanitizeTag strips whitespace and parentheses so tags embed safely in
// file names.
func SanitizeTag(tag string) string {
	r := strings.NewReplacer(" ", "", "\t", "", "(", "", ")", "")
	return r.Replace(tag)
}

// StepFileName builds "{base}_step{N}_{tag}.png" where N is the position
// the entry will occupy in history. Names are stable and collision-free
// within one session.
func StepFileName(base string, step int, tag string) string {
	return fmt.Sprintf("%s_step%d_%s.png", base, step, SanitizeTag(tag))
}

// SaveStep persists one accepted transform result and returns the file
// name it was written under.
func (s *Store) SaveStep(buf *imaging.Buffer, base string, step int, tag string) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}
	name := StepFileName(base, step, tag)
	path := filepath.Join(s.dir, name)
	if ok := gocv.IMWrite(path, buf.Mat()); !ok {
		return "", fmt.Errorf("%w: %s", ErrIO, path)
	}
	s.logger.WithFields(logrus.Fields{
		"file": name,
		"step": step,
		"tag":  tag,
	}).Debug("step persisted")
	return name, nil
}

// SaveProcessed persists a final batch result as "{base}_processed.png"
// and returns the full path.
func (s *Store) SaveProcessed(buf *imaging.Buffer, base string) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_processed.png", base))
	if ok := gocv.IMWrite(path, buf.Mat()); !ok {
		return "", fmt.Errorf("%w: %s", ErrIO, path)
	}
	s.logger.WithField("path", path).Info("processed image saved")
	return path, nil
}

// Path resolves a stored file name to its full path.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}
