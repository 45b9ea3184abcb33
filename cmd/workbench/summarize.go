package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"medimage-workbench/internal/nlp"
)

var flagMode string

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Send record text to the language-model service",
	Long:  "Reads text from the given file (or stdin) and runs it through the configured generate endpoint. Modes: summary, record, diagnosis.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		client := nlp.NewClient(cfg.NLP, logger)
		ctx := cmd.Context()

		var out string
		switch flagMode {
		case "summary":
			out, err = client.Summarize(ctx, string(data))
		case "record":
			out, err = client.AnalyzeRecord(ctx, string(data))
		case "diagnosis":
			out, err = client.SuggestDiagnosis(ctx, string(data))
		default:
			return fmt.Errorf("unknown mode %q (want summary, record or diagnosis)", flagMode)
		}
		if err != nil {
			return err
		}

		fmt.Println(out)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&flagMode, "mode", "summary", "analysis mode: summary, record or diagnosis")
}
