package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/export"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/validation"
	"github.com/spf13/cobra"
)

var (
	exportOutput    string
	exportWireframe bool
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a paginated resume as PDF",
	Long: `Paginates a ResumeDocument JSON file and prints it to PDF with headless Chrome.
With --wireframe, draws the estimated page layout instead, without a browser.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Path to output PDF (default: <name>.pdf next to the input)")
	exportCmd.Flags().BoolVar(&exportWireframe, "wireframe", false, "Draw the estimated layout instead of the rendered resume")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := exportOutput
	if out == "" {
		out = pdfPath(args[0], exportWireframe)
	}

	data, err := exportFile(cmd.Context(), args[0], cfg.LayoutOptions(), exportWireframe)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

// pdfPath maps resume.json to resume.pdf, or resume.wireframe.pdf.
func pdfPath(input string, wireframe bool) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if wireframe {
		return base + ".wireframe.pdf"
	}
	return base + ".pdf"
}

func exportFile(ctx context.Context, path string, opts layout.Options, wireframe bool) ([]byte, error) {
	doc, err := validation.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	pages := layout.PaginateOrFallback(doc, opts)

	if wireframe {
		var buf bytes.Buffer
		if err := export.Wireframe(&buf, doc, pages, opts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	exportCfg, err := config.NewExportConfig()
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewExporter(ctx, export.Options{
		Timeout:  exportCfg.Timeout,
		PoolSize: 1,
		Verbose:  verbose,
	})
	if err != nil {
		return nil, err
	}
	defer exporter.Close(ctx)

	return exporter.ExportDocument(ctx, doc, pages, opts)
}
