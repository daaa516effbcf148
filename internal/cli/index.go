package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cpgrag/internal/adapter/chunker"
	"cpgrag/internal/adapter/extractor"
	"cpgrag/internal/usecase"
)

var (
	indexSource string
	indexOutput string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the corpus artifact from the guideline PDF",
	Long: `Extract text from the configured guideline PDF, split it into
overlapping chunks, and write the corpus artifact consumed at query time.
The artifact is rebuilt wholesale on every run.

Examples:
  cpgrag index
  cpgrag index --source guidelines-2026.pdf --output static/cpg-chunks.json`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexSource, "source", "", "guideline PDF path (default from config)")
	indexCmd.Flags().StringVar(&indexOutput, "output", "", "corpus artifact path (default from config)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	source := cfg.Index.Source
	if indexSource != "" {
		source = indexSource
	}
	output := cfg.Index.Output
	if indexOutput != "" {
		output = indexOutput
	}
	source = resolvePath(source)
	output = resolvePath(output)

	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("source document not readable: %w", err)
	}

	chk := chunker.NewPageChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	indexUC := usecase.NewIndexUseCase(extractor.NewPDFExtractor(), chk, cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)

	fmt.Printf("Indexing %s...\n", source)

	var bar *progressbar.ProgressBar
	progressCallback := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := indexUC.Index(source, output, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Pages extracted: %d\n", result.PagesTotal)
	fmt.Printf("  Pages chunked:   %d (%d empty)\n", result.PagesChunked, result.PagesTotal-result.PagesChunked)
	fmt.Printf("  Chunks created:  %d\n", result.ChunksCreated)
	fmt.Printf("\nCorpus artifact: %s\n", output)
	return nil
}

// resolvePath makes a relative path relative to the root directory.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetRootDir(), path)
}
