// Command ingest runs the document pipeline over files from the
// command line and writes the extracted results to the configured
// storage backend.
package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/docforge/ingest/config"
	"github.com/docforge/ingest/internal/importer"
	"github.com/docforge/ingest/internal/output"
	"github.com/docforge/ingest/internal/parse"
	"github.com/docforge/ingest/pkg/logger"
	"github.com/docforge/ingest/pkg/storage"
)

var (
	flagConfig      string
	flagOutput      string
	flagContentType string
	flagReference   string
	flagErrorDir    string
	flagConcurrency int
	flagVerbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Import documents through the extraction pipeline",
		Long: `Imports each file through the full pipeline (detection, handler
chains, parsing, child extraction) and writes the extracted text and
metadata to the configured storage backend.`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory (overrides config)")
	rootCmd.Flags().StringVarP(&flagContentType, "content-type", "t", "", "declared content type for all inputs")
	rootCmd.Flags().StringVarP(&flagReference, "reference", "r", "", "document reference (single input only)")
	rootCmd.Flags().StringVar(&flagErrorDir, "error-dir", "", "directory for parse-error dumps")
	rootCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "j", 4, "parallel imports")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagReference != "" && len(args) > 1 {
		return fmt.Errorf("--reference applies to a single input file")
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagOutput != "" {
		cfg.Storage.Backend = "fs"
		cfg.Storage.Dir = flagOutput
	}
	if flagErrorDir != "" {
		cfg.Importer.ErrorDir = flagErrorDir
	}

	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	log, err := logger.NewLogger(
		logger.WithLevel(level),
		logger.WithEncoding("console"),
	)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		return err
	}
	writer := output.NewWriter(store, log)

	im := importer.New(importer.Config{
		Parsers: parse.NewFactory(parse.Config{
			TempDir:      cfg.Importer.TempDir,
			MaxMemory:    cfg.Importer.MaxMemory,
			OCREnabled:   cfg.Importer.OCR.Enabled,
			OCRLanguages: cfg.Importer.OCR.Languages,
		}, log),
		TempDir:        cfg.Importer.TempDir,
		MaxMemory:      cfg.Importer.MaxMemory,
		ErrorDir:       cfg.Importer.ErrorDir,
		MaxNestedDepth: cfg.Importer.MaxNestedDepth,
	}, log)

	var mu sync.Mutex
	failed := 0

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(flagConcurrency)
	for _, path := range args {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			reference := flagReference
			if reference == "" {
				reference = path
			}
			resp, err := im.Import(ctx, importer.Request{
				Reader:      f,
				Reference:   reference,
				ContentType: flagContentType,
			})
			if err != nil {
				return err
			}
			defer resp.Dispose()

			if _, err := writer.Write(ctx, resp); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			resp.Walk(func(node *importer.Response) {
				printNode(cmd, node)
				if node.Errored() {
					failed++
				}
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

func printNode(cmd *cobra.Command, node *importer.Response) {
	line := fmt.Sprintf("%-8s %s", node.Status, node.Reference)
	if node.Description != "" {
		line += " (" + node.Description + ")"
	}
	cmd.Println(strings.TrimSpace(line))
}
