package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/noticeflow/internal/services"
)

var convertDir string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every .docx in a directory to PDF",
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertDir, "dir", "d", "", "Directory to convert (default output_dir)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	dir := convertDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	pdfs, err := services.NewConverter(cfg.Convert.Command).ConvertDir(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d documents in %s\n", len(pdfs), dir)
	return nil
}
