package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-buddy/internal/models"
	"study-buddy/internal/parser"
)

const examInfoFile = "examinformation.pdf"

var (
	ingestPeriod    int
	ingestSourceDir string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the course material corpus from documents",
	Long: `Extracts text from course documents (pdf, docx, xlsx, markdown or text),
splits it into overlapping chunks and writes the chunk files the chat and
search commands read from rag.data_dir.`,
}

var ingestPeriodCmd = &cobra.Command{
	Use:   "period [file]",
	Short: "Ingest the document for one period",
	Long: `Ingests one period document. The period comes from --period or, when the
flag is not set, from a file name such as p3.pdf.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestPeriod,
}

var ingestExamCmd = &cobra.Command{
	Use:   "exam [file]",
	Short: "Ingest the exam information document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestExam,
}

var ingestAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Ingest every period document and the exam information",
	Long: `Ingests p1.pdf through p9.pdf and examinformation.pdf from --source-dir.
Missing or broken documents are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runIngestAll,
}

func init() {
	ingestPeriodCmd.Flags().IntVarP(&ingestPeriod, "period", "p", 0, "period number (1-9)")
	ingestAllCmd.Flags().StringVarP(&ingestSourceDir, "source-dir", "s", ".", "directory holding the course documents")
	ingestCmd.AddCommand(ingestPeriodCmd, ingestExamCmd, ingestAllCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestPeriod(cmd *cobra.Command, args []string) error {
	period := ingestPeriod
	if period == 0 {
		n, err := parser.PeriodFromFilename(args[0])
		if err != nil {
			return fmt.Errorf("%w (use --period)", err)
		}
		period = n
	}
	p, err := parser.NewPeriodProcessor(period, cfg)
	if err != nil {
		return err
	}
	return ingestFile(cmd, p, args[0])
}

func runIngestExam(cmd *cobra.Command, args []string) error {
	return ingestFile(cmd, parser.NewExamInfoProcessor(cfg), args[0])
}

func ingestFile(cmd *cobra.Command, p *parser.Processor, file string) error {
	n, err := p.Process(file, cfg.RAG.DataDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks to %s\n", n, p.OutputPath(cfg.RAG.DataDir))
	return nil
}

func runIngestAll(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	var failed int
	for n := 1; n <= models.NumPeriods; n++ {
		p, err := parser.NewPeriodProcessor(n, cfg)
		if err != nil {
			return err
		}
		if !ingestIfPresent(out, p, filepath.Join(ingestSourceDir, fmt.Sprintf("p%d.pdf", n))) {
			failed++
		}
	}
	if !ingestIfPresent(out, parser.NewExamInfoProcessor(cfg), filepath.Join(ingestSourceDir, examInfoFile)) {
		failed++
	}

	if failed == models.NumPeriods+1 {
		return errors.New("no course documents could be ingested")
	}
	fmt.Fprintf(out, "\nAll processing complete (%d of %d documents skipped)\n", failed, models.NumPeriods+1)
	return nil
}

// ingestIfPresent processes file and reports whether it succeeded
func ingestIfPresent(out io.Writer, p *parser.Processor, file string) bool {
	if _, err := os.Stat(file); err != nil {
		fmt.Fprintf(out, "Skipping %s: file not found\n", file)
		return false
	}
	n, err := p.Process(file, cfg.RAG.DataDir)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("Ingest failed")
		fmt.Fprintf(out, "Skipping %s: %v\n", file, err)
		return false
	}
	fmt.Fprintf(out, "Wrote %d chunks from %s\n", n, file)
	return true
}
