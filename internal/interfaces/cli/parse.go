package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxlens/rxlens/internal/parsing"
	"github.com/rxlens/rxlens/pkg/types/medical"
)

// NewParseCommand creates the "parse" subcommand. It runs only the
// structured parser, which is handy when debugging noisy OCR text.
func NewParseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse structured medication entities from text ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.newLogger(cfg)

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			parser := parsing.NewParser(parsing.NewRemoteClient(cfg.Parsing, logger), nil, logger, nil)
			entities := parser.ParseStructured(ctx, string(data))

			return printResult(cmd, opts.Output, entities, func() string {
				return formatEntities(entities)
			})
		},
	}
}

func formatEntities(e *medical.StructuredMedicalEntities) string {
	var b strings.Builder
	if len(e.Medications) == 0 {
		b.WriteString("No medications found")
	}
	for i, m := range e.Medications {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s", m.Name)
		if m.Dosage != "" {
			fmt.Fprintf(&b, "  %s", m.Dosage)
		}
		if m.Frequency != "" {
			fmt.Fprintf(&b, "  %s", m.Frequency)
		}
	}
	if e.PatientInfo != nil && e.PatientInfo.Name != "" {
		fmt.Fprintf(&b, "\nPatient: %s", e.PatientInfo.Name)
	}
	return b.String()
}
