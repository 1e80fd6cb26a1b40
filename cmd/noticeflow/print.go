package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/noticeflow/internal/services"
)

var printDir string

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print every PDF in a directory",
	RunE:  runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().StringVarP(&printDir, "dir", "d", "", "Directory to print (default output_dir/packets)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	dir := printDir
	if dir == "" {
		dir = services.PacketsDir(cfg.OutputDir)
	}
	delay, err := cfg.PrintDelay()
	if err != nil {
		return err
	}
	printed, err := services.NewPrinter(cfg.Print.Command, delay).PrintDir(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %d files to the printer\n", len(printed))
	return nil
}
