package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/validation"
	"github.com/spf13/cobra"
)

var (
	validateMaxPages int
	validateOutput   string
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a resume's pagination against layout constraints",
	Long: `Paginates a ResumeDocument JSON file and reports stale layout references,
columns that overflow their page and results over the page budget.
Exits non-zero when an error-severity violation is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateMaxPages, "max-pages", 0, "Maximum page count (0 disables the check)")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output validation report JSON (optional)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return validateFile(cmd.OutOrStdout(), args[0], validation.Options{
		Layout:   cfg.LayoutOptions(),
		MaxPages: validateMaxPages,
	}, validateOutput)
}

func validateFile(w io.Writer, path string, opts validation.Options, outPath string) error {
	doc, err := validation.LoadDocument(path)
	if err != nil {
		return err
	}

	report, err := validation.ValidateLayout(doc, opts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if outPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	printer := observability.NewPrinter(w)
	if verbose {
		printer.PrintPages(report.Pages, report.Usage)
	}
	printer.PrintViolations(&report.Violations)

	if analysis := validation.AnalyzePageOverflow(report.Usage, opts.MaxPages); analysis.ExcessPages > 0 {
		hint := "trimming content will not be enough"
		if analysis.FitsWithTrim {
			hint = "the excess would fit in unused space on earlier pages"
		}
		_, _ = fmt.Fprintf(w, "%d page(s) over budget; %s\n", analysis.ExcessPages, hint)
	}

	if report.Violations.HasErrors() {
		return fmt.Errorf("found %d layout violations", len(report.Violations.Violations))
	}
	return nil
}
