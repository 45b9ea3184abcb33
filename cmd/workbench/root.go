package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"medimage-workbench/internal/config"
)

var (
	flagDebug  bool
	flagConfig string
	flagOutDir string

	logger *logrus.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "workbench",
	Short:   "Apply versioned raster transforms to study images",
	Long:    AppName + ": denoise, crop, align, convert, rotate, flip and equalize a working image with full undo history, plus a batch import-to-diagnosis pipeline.",
	Version: AppVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = initLogger(flagDebug)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagOutDir != "" {
			cfg.PreprocessedDir = flagOutDir
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagOutDir, "output-dir", "", "override the preprocessed output directory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(summarizeCmd)
}
