package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/noticeflow/internal/services"
)

var (
	combineOut  string
	combineDir  string
	combineKeep bool
)

var combineCmd = &cobra.Command{
	Use:   "combine [file.pdf...]",
	Short: "Combine PDFs into one duplex-ready file",
	Long: `Combine appends the given PDFs, or every PDF of --dir in natural order,
inserting a blank page after each odd-length file except the last so that
every document starts on a new sheet. The inputs are deleted unless --keep
is given.`,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
	combineCmd.Flags().StringVarP(&combineOut, "out", "o", "", "Combined PDF to write")
	combineCmd.Flags().StringVarP(&combineDir, "dir", "d", "", "Combine every PDF in this directory")
	combineCmd.Flags().BoolVar(&combineKeep, "keep", false, "Keep the input files")
	_ = combineCmd.MarkFlagRequired("out")
}

func runCombine(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	sources := args
	if combineDir != "" {
		if len(args) > 0 {
			return errors.New("give either files or --dir, not both")
		}
		files, err := services.ListPDFs(combineDir)
		if err != nil {
			return err
		}
		sources = files
	}

	pages, err := services.NewPdfCombiner(combineKeep).Combine(ctx, sources, combineOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages from %d files)\n", combineOut, pages, len(sources))
	return nil
}
