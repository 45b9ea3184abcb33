package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medimage-workbench/internal/transform"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "preprocessed"), cfg.PreprocessedDir)
	assert.Equal(t, filepath.Join("data", "annotations"), cfg.AnnotationDir)

	assert.Equal(t, transform.MethodMedian, cfg.Denoise.Method)
	assert.Equal(t, 3, cfg.Denoise.KernelSize)

	assert.Equal(t, 5, cfg.Bilateral.Diameter)
	assert.InDelta(t, 75.0, cfg.Bilateral.SigmaColor, 1e-9)
	assert.InDelta(t, 75.0, cfg.Bilateral.SigmaSpace, 1e-9)

	assert.Equal(t, 5, cfg.Align.DX)
	assert.Equal(t, 5, cfg.Align.DY)

	assert.Equal(t, "qwen2.5:3b", cfg.NLP.Model)
	assert.Equal(t, "http://localhost:11434", cfg.NLP.BaseURL)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workbench.yaml")
	doc := `
preprocessed_dir: /tmp/out
denoise:
  method: gaussian
  kernel_size: 7
nlp:
  model: llama3:8b
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.PreprocessedDir)
	assert.Equal(t, transform.MethodGaussian, cfg.Denoise.Method)
	assert.Equal(t, 7, cfg.Denoise.KernelSize)
	assert.Equal(t, "llama3:8b", cfg.NLP.Model)

	// Untouched keys keep their defaults.
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 5, cfg.Bilateral.Diameter)
	assert.Equal(t, "http://localhost:11434", cfg.NLP.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("denoise: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
