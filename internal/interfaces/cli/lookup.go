package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxlens/rxlens/internal/fda"
)

// NewLookupCommand creates the "lookup" subcommand.
func NewLookupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <medication>",
		Short: "Look up medication information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			client := fda.NewClient(cfg.FDA, opts.newLogger(cfg), nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			info, err := client.Lookup(ctx, args[0])
			if err != nil {
				return err
			}

			return printResult(cmd, opts.Output, info, func() string {
				return formatMedicationInfo(info)
			})
		},
	}
}

func formatMedicationInfo(info *fda.MedicationInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", info.Name, info.DrugClass)
	if len(info.Uses) > 0 {
		fmt.Fprintf(&b, "Uses:     %s\n", strings.Join(info.Uses, ", "))
	}
	if len(info.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %s\n", strings.Join(info.Warnings, ", "))
	}
	fmt.Fprintf(&b, "Source:   %s", info.Source)
	return b.String()
}
