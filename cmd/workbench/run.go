package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medimage-workbench/internal/annotate"
	"medimage-workbench/internal/diagnose"
	"medimage-workbench/internal/imaging"
	"medimage-workbench/internal/pipeline"
	"medimage-workbench/internal/store"
)

var flagNoSave bool

var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Run the batch pipeline: import, preprocess, annotate, diagnose, output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := imaging.NewLoader(logger)
		st := store.NewStore(cfg.PreprocessedDir, logger)

		p := pipeline.New(cfg, loader, st, annotate.DummyGenerator{}, diagnose.RuleBased{}, logger)
		res, err := p.Run(args[0], !flagNoSave)
		if err != nil {
			return err
		}

		for _, line := range res.Log {
			fmt.Println(line)
		}
		fmt.Printf("run %s: verdict=%q annotations=%d\n", res.RunID, res.Diagnosis.Verdict, len(res.Annotations))
		if res.SavedPath != "" {
			fmt.Println("saved:", res.SavedPath)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "skip writing the final output image")
}
