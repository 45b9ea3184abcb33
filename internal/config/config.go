// YAML configuration with explicit named defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"medimage-workbench/internal/nlp"
	"medimage-workbench/internal/transform"
)

// Config collects every tunable the engine exposes. Defaults mirror the
// named constants in the transform package, so nothing hides in module
// state.
type Config struct {
	DataDir         string `yaml:"data_dir"`
	PreprocessedDir string `yaml:"preprocessed_dir"`
	AnnotationDir   string `yaml:"annotation_dir"`

	Denoise struct {
		Method     string `yaml:"method"`
		KernelSize int    `yaml:"kernel_size"`
	} `yaml:"denoise"`

	Bilateral struct {
		Diameter   int     `yaml:"diameter"`
		SigmaColor float64 `yaml:"sigma_color"`
		SigmaSpace float64 `yaml:"sigma_space"`
	} `yaml:"bilateral"`

	Align struct {
		DX int `yaml:"dx"`
		DY int `yaml:"dy"`
	} `yaml:"align"`

	NLP nlp.Config `yaml:"nlp"`
}

// Default returns the built-in configuration rooted at dir ("data" under
// the working directory when empty).
func Default() *Config {
	cfg := &Config{}
	cfg.DataDir = "data"
	cfg.PreprocessedDir = filepath.Join("data", "preprocessed")
	cfg.AnnotationDir = filepath.Join("data", "annotations")

	cfg.Denoise.Method = transform.MethodMedian
	cfg.Denoise.KernelSize = transform.DefaultKernelSize

	cfg.Bilateral.Diameter = transform.DefaultBilateralDiameter
	cfg.Bilateral.SigmaColor = transform.DefaultBilateralSigma
	cfg.Bilateral.SigmaSpace = transform.DefaultBilateralSigma

	cfg.Align.DX = transform.DefaultAlignDX
	cfg.Align.DY = transform.DefaultAlignDY

	cfg.NLP = nlp.DefaultConfig()
	return cfg
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
