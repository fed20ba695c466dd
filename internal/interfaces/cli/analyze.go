package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxlens/rxlens/internal/application/analysis"
)

// NewAnalyzeCommand creates the "analyze" subcommand.
func NewAnalyzeCommand(opts *RootOptions) *cobra.Command {
	var asText bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a prescription photo, PDF or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.newLogger(cfg)
			svc := opts.newService(cfg, logger)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			var a *analysis.Analysis
			if asText {
				a, err = svc.AnalyzeText(ctx, string(data))
			} else {
				a, err = svc.AnalyzeImage(ctx, data, mimeForFile(args[0], data))
			}
			if err != nil {
				return err
			}

			return printResult(cmd, opts.Output, a, func() string {
				return formatAnalysis(a)
			})
		},
	}

	cmd.Flags().BoolVar(&asText, "text", false, "treat the file as plain text, skipping OCR")
	return cmd
}

func mimeForFile(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func formatAnalysis(a *analysis.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provider:    %s (confidence %.1f)\n", a.Provider, a.Confidence)

	meds := "none"
	if len(a.Extracted.Medications) > 0 {
		meds = strings.Join(a.Extracted.Medications, ", ")
	}
	fmt.Fprintf(&b, "Medications: %s\n", meds)

	if a.PrimaryMedication != "" {
		fmt.Fprintf(&b, "Primary:     %s\n", a.PrimaryMedication)
	}
	if a.Extracted.DocumentInfo != nil {
		fmt.Fprintf(&b, "Document:    %s\n", a.Extracted.DocumentInfo.Type)
	}
	fmt.Fprintf(&b, "Analysis ID: %s", a.ID)
	return b.String()
}
