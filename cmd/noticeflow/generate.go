package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/noticeflow/internal/models"
	"github.com/Lllllllleong/noticeflow/internal/services"
)

var (
	generateFrom      int64
	generateTo        int64
	generateFormat    string
	generateNoConvert bool
	generateKeepPDFs  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Merge notices for a case range and build PDF packets",
	Long: `Generate reads the print view for the case range, writes one draft per
case or, in formal mode, one dossier per person and one roster per team,
then converts them to PDF and combines them into packets.

Examples:
  # Drafts for cases 1001 to 1010
  noticeflow generate --from 1001 --to 1010

  # Formal copies for every dispatched case, documents only
  noticeflow generate --format formal --no-convert`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int64Var(&generateFrom, "from", 0, "First case id (default from config)")
	generateCmd.Flags().Int64Var(&generateTo, "to", 0, "Last case id (default from config)")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "", "Output format: draft or formal (default from config)")
	generateCmd.Flags().BoolVar(&generateNoConvert, "no-convert", false, "Stop after merging documents")
	generateCmd.Flags().BoolVar(&generateKeepPDFs, "keep-pdfs", false, "Keep per-document PDFs after packets are built")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	req := &models.GenerateRequest{
		CaseFrom: cfg.Cases.From,
		CaseTo:   cfg.Cases.To,
		Format:   generateFormat,
	}
	if cmd.Flags().Changed("from") {
		req.CaseFrom = generateFrom
	}
	if cmd.Flags().Changed("to") {
		req.CaseTo = generateTo
	}

	session, err := services.OpenSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	resp, err := session.Generator(services.GeneratorOptions{
		Convert:     !generateNoConvert,
		KeepSources: generateKeepPDFs,
	}).Process(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d documents in %s\n", resp.RunID, resp.DocumentCount, cfg.OutputDir)
	for _, p := range resp.Packets {
		line := fmt.Sprintf("  %s  %d pages  %s", p.Name, p.Pages, p.Path)
		if p.GCSUri != "" {
			line += "  " + p.GCSUri
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
