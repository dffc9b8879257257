package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/jonathan/resume-layout/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	paginateConcurrency int
	paginateOutDir      string
)

var paginateCmd = &cobra.Command{
	Use:   "paginate FILE...",
	Short: "Split resume documents into pages",
	Long: `Paginates one or more ResumeDocument JSON files. Each result is printed, or
written as <name>.pages.json when --out is set. Files are processed in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPaginate,
}

func init() {
	paginateCmd.Flags().IntVarP(&paginateConcurrency, "concurrency", "j", 0, "Documents processed in parallel (default: number of CPUs)")
	paginateCmd.Flags().StringVarP(&paginateOutDir, "out", "o", "", "Directory for <name>.pages.json output (optional)")
	rootCmd.AddCommand(paginateCmd)
}

// paginated is the full outcome for one input file.
type paginated struct {
	observability.BatchResult
	Doc   *types.ResumeDocument
	Pages []types.PageContent
	Usage []types.PageUsage
}

// batchOptions are the resolved settings of a paginate run.
type batchOptions struct {
	Layout      layout.Options
	Concurrency int
	OutDir      string
}

func runPaginate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := batchOptions{
		Layout:      cfg.LayoutOptions(),
		Concurrency: paginateConcurrency,
		OutDir:      paginateOutDir,
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = cfg.Concurrency
	}
	if opts.OutDir == "" {
		opts.OutDir = cfg.OutDir
	}

	results, err := paginateFiles(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	return reportBatch(cmd.OutOrStdout(), results, opts.OutDir == "", verbose || cfg.Verbose)
}

// paginateFiles paginates every path with at most opts.Concurrency files in
// flight. Per-file failures are recorded in the results, in input order; the
// returned error is only set when the run itself could not proceed.
func paginateFiles(ctx context.Context, paths []string, opts batchOptions) ([]paginated, error) {
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must be non-negative, got: %d", opts.Concurrency)
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.OutDir != "" {
		if err := checkOutputNames(paths); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]paginated, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = paginateFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func paginateFile(path string, opts batchOptions) paginated {
	start := time.Now()
	res := paginated{BatchResult: observability.BatchResult{Path: path}}

	doc, err := validation.LoadDocument(path)
	if err != nil {
		res.Err = err
		return res
	}

	pages := layout.PaginateOrFallback(doc, opts.Layout)
	res.Doc = doc
	res.Pages = pages
	res.Usage = layout.Measure(doc, pages, opts.Layout)
	res.BatchResult.Pages = len(pages)

	if opts.OutDir != "" {
		if err := writePages(filepath.Join(opts.OutDir, pagesFileName(path)), pages); err != nil {
			res.Err = err
		}
	}
	res.Duration = time.Since(start)
	return res
}

// pagesFileName maps resume.json to resume.pages.json.
func pagesFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pages.json"
}

// checkOutputNames rejects inputs that would write the same pages file.
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := pagesFileName(path)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, name)
		}
		seen[name] = path
	}
	return nil
}

func writePages(path string, pages []types.PageContent) error {
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pages: %w", err)
	}
	if err := schemas.ValidatePages(data); err != nil {
		return fmt.Errorf("pages failed schema validation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// reportBatch prints the batch summary and, when showPages is set, each
// document's page assignment. It returns an error if any file failed.
func reportBatch(w io.Writer, results []paginated, showPages, detailed bool) error {
	printer := observability.NewPrinter(w)

	summary := make([]observability.BatchResult, 0, len(results))
	failed := 0
	for _, r := range results {
		summary = append(summary, r.BatchResult)
		if r.Err != nil {
			failed++
			continue
		}
		if detailed {
			printer.PrintDocumentSummary(r.Doc)
		}
		if showPages {
			_, _ = fmt.Fprintf(w, "%s\n", r.Path)
			printer.PrintPages(r.Pages, r.Usage)
		}
	}
	printer.PrintBatchSummary(summary)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
