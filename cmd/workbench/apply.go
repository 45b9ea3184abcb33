package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"medimage-workbench/internal/editor"
	"medimage-workbench/internal/imaging"
	"medimage-workbench/internal/store"
	"medimage-workbench/internal/transform"
)

var applyCmd = &cobra.Command{
	Use:   "apply <image> <op>...",
	Short: "Apply a chain of transforms, persisting every step",
	Long: `Apply transforms in order to the image, committing each result to the
session history and writing it through to the output directory.

Operations:
  denoise:median[:ksize]        median blur
  denoise:gaussian[:ksize[:sigma]]
  denoise:bilateral[:diameter]  sigmas come from the config
  crop:x:y:w:h                  axis-aligned crop
  align[:dx:dy]                 translation with reflected borders
  gray | rgb                    color-space conversion
  rotate:90|180|270             right-angle rotation
  flip:h|v                      mirror
  equalize                      histogram equalization (luma only on color)`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := imaging.NewLoader(logger)
		st := store.NewStore(cfg.PreprocessedDir, logger)
		ed := editor.New(loader, st, logger)
		defer ed.Close()

		if err := ed.LoadImage(args[0]); err != nil {
			return err
		}

		for _, spec := range args[1:] {
			req, err := parseRequest(spec)
			if err != nil {
				return err
			}
			entry, err := ed.Apply(req)
			if err != nil {
				return fmt.Errorf("%s: %w", spec, err)
			}
			fmt.Printf("%-14s -> %s  (%s)\n", entry.Tag, ed.CurrentShape(), ed.DisplayName())
		}

		fmt.Println("history:", strings.Join(ed.HistoryTags(), " / "))
		if p := ed.SavedPath(); p != "" {
			fmt.Println("last step saved:", p)
		}
		return nil
	},
}

// parseRequest turns a colon-separated op spec into a typed request.
func parseRequest(spec string) (transform.Request, error) {
	parts := strings.Split(spec, ":")
	switch parts[0] {
	case "denoise":
		if len(parts) < 2 {
			return nil, fmt.Errorf("denoise needs a method: %s", spec)
		}
		req := transform.Denoise{
			Method:     parts[1],
			KernelSize: cfg.Denoise.KernelSize,
			Diameter:   cfg.Bilateral.Diameter,
			SigmaColor: cfg.Bilateral.SigmaColor,
			SigmaSpace: cfg.Bilateral.SigmaSpace,
		}
		switch parts[1] {
		case transform.MethodBilateral:
			if len(parts) > 2 {
				d, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, fmt.Errorf("bad diameter in %s", spec)
				}
				req.Diameter = d
			}
		default:
			if len(parts) > 2 {
				k, err := strconv.Atoi(parts[2])
				if err != nil {
					return nil, fmt.Errorf("bad kernel size in %s", spec)
				}
				req.KernelSize = k
			}
			if len(parts) > 3 {
				sigma, err := strconv.ParseFloat(parts[3], 64)
				if err != nil {
					return nil, fmt.Errorf("bad sigma in %s", spec)
				}
				req.SigmaX = sigma
			}
		}
		return req, nil

	case "crop":
		if len(parts) != 5 {
			return nil, fmt.Errorf("crop needs x:y:w:h: %s", spec)
		}
		vals := make([]int, 4)
		for i, s := range parts[1:] {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("bad crop value %q in %s", s, spec)
			}
			vals[i] = v
		}
		return transform.Crop{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil

	case "align":
		req := transform.Align{DX: cfg.Align.DX, DY: cfg.Align.DY}
		if len(parts) == 3 {
			dx, err1 := strconv.Atoi(parts[1])
			dy, err2 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("bad translation in %s", spec)
			}
			req.DX, req.DY = dx, dy
		}
		return req, nil

	case "gray":
		return transform.ColorConvert{Mode: transform.ModeGray}, nil
	case "rgb":
		return transform.ColorConvert{Mode: transform.ModeRGB}, nil

	case "rotate":
		if len(parts) != 2 {
			return nil, fmt.Errorf("rotate needs an angle: %s", spec)
		}
		angle, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad angle in %s", spec)
		}
		return transform.Rotate{Angle: angle}, nil

	case "flip":
		if len(parts) != 2 {
			return nil, fmt.Errorf("flip needs an axis: %s", spec)
		}
		return transform.Flip{Axis: parts[1]}, nil

	case "equalize":
		return transform.Equalize{}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", parts[0])
}
